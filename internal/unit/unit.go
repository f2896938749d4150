// Package unit models the tokens placed on the grid: their cell, their
// vision, the cells they have explored and any in-progress drag path.
package unit

import (
	"encoding/json"
	"slices"

	"github.com/google/uuid"

	"chosenoffset.com/tabletop/internal/core/distance"
	"chosenoffset.com/tabletop/internal/core/geom"
	"chosenoffset.com/tabletop/internal/view"
)

// DefaultVisionRadius is six cells, thirty feet
const DefaultVisionRadius = 6

// Unit is one token
type Unit struct {
	ID            string
	Name          string
	Type          string
	MaxHealth     float64
	CurrentHealth float64
	VisionRadius  float64 // in cells

	// TempPosition is the world-pixel top-left of the drag preview
	TempPosition *geom.Point

	position  *geom.GridPosition
	explored  []geom.GridPosition
	waypoints []geom.Point
}

// New creates a unit with a fresh id at 80% health. A nil position leaves it unplaced.
func New(name, typ string, maxHealth float64, pos *geom.GridPosition) *Unit {
	u := &Unit{
		ID:            uuid.NewString(),
		Name:          name,
		Type:          typ,
		MaxHealth:     maxHealth,
		CurrentHealth: maxHealth * 0.8,
		VisionRadius:  DefaultVisionRadius,
	}
	if pos != nil {
		u.SetPosition(*pos)
	}
	return u
}

// Position returns the committed cell
func (u *Unit) Position() (geom.GridPosition, bool) {
	if u.position == nil {
		return geom.GridPosition{}, false
	}
	return *u.position, true
}

// Placed reports whether the unit occupies a cell
func (u *Unit) Placed() bool {
	return u.position != nil
}

// At reports whether the unit occupies pos
func (u *Unit) At(pos geom.GridPosition) bool {
	return u.position != nil && *u.position == pos
}

// SetPosition commits the unit to a cell and records it as explored
func (u *Unit) SetPosition(pos geom.GridPosition) {
	p := pos
	u.position = &p
	u.Explore(pos)
}

// ClearPosition takes the unit off the grid. Explored history is kept.
func (u *Unit) ClearPosition() {
	u.position = nil
}

// Explore appends pos to the explored history unless it is already there.
// History only grows.
func (u *Unit) Explore(pos geom.GridPosition) bool {
	if slices.Contains(u.explored, pos) {
		return false
	}
	u.explored = append(u.explored, pos)
	return true
}

// ExploredAreas returns the visited cells in visit order
func (u *Unit) ExploredAreas() []geom.GridPosition {
	return slices.Clone(u.explored)
}

// HealthFraction is current over max health, clamped to [0,1]
func (u *Unit) HealthFraction() float64 {
	if u.MaxHealth <= 0 {
		return 0
	}
	return geom.Clamp(u.CurrentHealth/u.MaxHealth, 0, 1)
}

// VisionPixels is the vision radius in world pixels for a cell width
func (u *Unit) VisionPixels(gridSize geom.Size) float64 {
	return u.VisionRadius * gridSize.Width
}

// SetTempPosition moves the drag preview. Clearing it also drops waypoints.
func (u *Unit) SetTempPosition(p *geom.Point) {
	if p == nil {
		u.ClearTemp()
		return
	}
	pt := *p
	u.TempPosition = &pt
}

// ClearTemp drops the drag preview and its waypoints
func (u *Unit) ClearTemp() {
	u.TempPosition = nil
	u.waypoints = nil
}

// AddWaypoint appends an intermediate point to the drag path
func (u *Unit) AddWaypoint(p geom.Point) {
	u.waypoints = append(u.waypoints, p)
}

// RemoveWaypoint drops the last waypoint. With none left it clears the drag
// preview and returns false.
func (u *Unit) RemoveWaypoint() bool {
	if len(u.waypoints) == 0 {
		u.ClearTemp()
		return false
	}
	u.waypoints = u.waypoints[:len(u.waypoints)-1]
	return true
}

// Waypoints returns the intermediate path points
func (u *Unit) Waypoints() []geom.Point {
	return slices.Clone(u.waypoints)
}

// Path returns the top-left corners along the drag path: committed cell,
// waypoints, then the preview position. Empty when nothing is being dragged.
func (u *Unit) Path(tr *view.Transform) []geom.Point {
	if u.TempPosition == nil {
		return nil
	}
	var start geom.GridPosition
	if u.position != nil {
		start = *u.position
	}
	path := make([]geom.Point, 0, len(u.waypoints)+2)
	path = append(path, tr.CellToWorld(start))
	path = append(path, u.waypoints...)
	path = append(path, *u.TempPosition)
	return path
}

// PathDistance measures the drag path
func (u *Unit) PathDistance(tr *view.Transform) distance.Distance {
	return distance.PathDistance(u.Path(tr), tr.GridSize, distance.FeetPerSquare)
}

// Snapshot is the serializable state shared with other clients
type Snapshot struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Type          string              `json:"type"`
	MaxHealth     float64             `json:"maxHealth"`
	CurrentHealth float64             `json:"currentHealth"`
	ExploredAreas []geom.GridPosition `json:"exploredAreas"`
	GridPosition  *geom.GridPosition  `json:"gridPosition"`
	VisionRadius  float64             `json:"visionRadius"`
}

// Snapshot captures the unit's shareable state
func (u *Unit) Snapshot() Snapshot {
	s := Snapshot{
		ID:            u.ID,
		Name:          u.Name,
		Type:          u.Type,
		MaxHealth:     u.MaxHealth,
		CurrentHealth: u.CurrentHealth,
		ExploredAreas: u.ExploredAreas(),
		VisionRadius:  u.VisionRadius,
	}
	if u.position != nil {
		p := *u.position
		s.GridPosition = &p
	}
	return s
}

// FromSnapshot rebuilds a unit received from another client
func FromSnapshot(s Snapshot) *Unit {
	u := &Unit{
		ID:            s.ID,
		Name:          s.Name,
		Type:          s.Type,
		MaxHealth:     s.MaxHealth,
		CurrentHealth: s.CurrentHealth,
		VisionRadius:  s.VisionRadius,
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	for _, pos := range s.ExploredAreas {
		u.Explore(pos)
	}
	if s.GridPosition != nil {
		u.SetPosition(*s.GridPosition)
	}
	return u
}

// String renders the snapshot as JSON
func (u *Unit) String() string {
	data, err := json.Marshal(u.Snapshot())
	if err != nil {
		return u.ID
	}
	return string(data)
}
