// Package mapdata holds the wall, door and light registry for one map,
// loaded from the JSON format produced by the map converters.
package mapdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"chosenoffset.com/tabletop/internal/core/geom"
)

// ErrInvalidMap is wrapped by every validation failure
var ErrInvalidMap = errors.New("invalid map data")

// ErrDoorLocked is returned when toggling a locked door
var ErrDoorLocked = errors.New("door is locked")

// MapData is one map's size, grid alignment and line-of-sight features.
// Coordinates are world pixels already scaled by CellSize and shifted by Offset.
type MapData struct {
	Name                string     `json:"name,omitempty"`
	Size                geom.Size  `json:"size"`
	CellSize            geom.Size  `json:"cellSize"`
	Offset              geom.Point `json:"offset"`
	GridDistance        geom.Size  `json:"gridDistance"`
	GridUnits           string     `json:"gridUnits"`
	Padding             float64    `json:"padding"`
	GridColor           string     `json:"gridColor"`
	GridAlpha           float64    `json:"gridAlpha"`
	GlobalLight         bool       `json:"globalLight"`
	Darkness            float64    `json:"darkness"`
	Lights              []Light    `json:"lights"`
	Walls               []Wall     `json:"walls"`
	Doors               []Door     `json:"doors"`
	BackgroundImage     string     `json:"backgroundImage,omitempty"`
	BackgroundImageType string     `json:"backgroundImageType,omitempty"`
}

// Wall is an immutable line segment
type Wall struct {
	Start          geom.Point `json:"start"`
	End            geom.Point `json:"end"`
	BlocksMovement bool       `json:"blocksMovement"`
	BlocksVision   bool       `json:"blocksVision"`
}

// Segment returns the wall as a geometry segment
func (w Wall) Segment() geom.Segment {
	return geom.Segment{A: w.Start, B: w.End}
}

// Door is a wall segment with open/closed state
type Door struct {
	Start        geom.Point `json:"start"`
	End          geom.Point `json:"end"`
	BlocksVision bool       `json:"blocksVision"`
	IsOpen       bool       `json:"isOpen"`
	IsLocked     bool       `json:"isLocked"`
}

// Segment returns the door as a geometry segment
func (d Door) Segment() geom.Segment {
	return geom.Segment{A: d.Start, B: d.End}
}

// Occludes reports whether the door currently blocks sight
func (d Door) Occludes() bool {
	return d.BlocksVision && !d.IsOpen
}

// Light is a point light with bright and dim radii in world pixels
type Light struct {
	Position  geom.Point `json:"position"`
	Bright    float64    `json:"bright"`
	Dim       float64    `json:"dim"`
	TintColor string     `json:"tintColor"`
	TintAlpha float64    `json:"tintAlpha"`
}

// Radius is the effective extent used for occlusion and compositing
func (l Light) Radius() float64 {
	return math.Max(l.Bright, l.Dim)
}

// Load reads and validates a map file
func Load(path string) (*MapData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file %s: %w", path, err)
	}

	md, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("map file %s: %w", path, err)
	}
	return md, nil
}

// Parse decodes and validates map JSON
func Parse(data []byte) (*MapData, error) {
	var md MapData
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("failed to parse map data: %w", err)
	}
	if err := md.Validate(); err != nil {
		return nil, err
	}
	return &md, nil
}

// Validate checks the map dimensions. Empty feature lists are valid.
func (m *MapData) Validate() error {
	if m.Size.Empty() {
		return fmt.Errorf("%w: map size %gx%g", ErrInvalidMap, m.Size.Width, m.Size.Height)
	}
	if m.CellSize.Empty() {
		return fmt.Errorf("%w: cell size %gx%g", ErrInvalidMap, m.CellSize.Width, m.CellSize.Height)
	}
	for i, l := range m.Lights {
		if l.Bright < 0 || l.Dim < 0 {
			return fmt.Errorf("%w: light %d has negative radius", ErrInvalidMap, i)
		}
		if l.TintAlpha < 0 || l.TintAlpha > 1 {
			return fmt.Errorf("%w: light %d tint alpha %g out of [0,1]", ErrInvalidMap, i, l.TintAlpha)
		}
	}
	return nil
}

// GridExtent returns how many columns and rows of the given cell size cover the map
func (m *MapData) GridExtent(cell geom.Size) (columns, rows int) {
	if m == nil || cell.Empty() {
		return 0, 0
	}
	return int(math.Ceil(m.Size.Width / cell.Width)), int(math.Ceil(m.Size.Height / cell.Height))
}

// Occluders returns every segment that currently blocks sight:
// vision-blocking walls and closed vision-blocking doors.
func (m *MapData) Occluders() []geom.Segment {
	if m == nil {
		return nil
	}
	out := make([]geom.Segment, 0, len(m.Walls)+len(m.Doors))
	for _, w := range m.Walls {
		if w.BlocksVision {
			out = append(out, w.Segment())
		}
	}
	for _, d := range m.Doors {
		if d.Occludes() {
			out = append(out, d.Segment())
		}
	}
	return out
}

// ToggleDoor flips a door between open and closed.
// Lighting built from this map is stale afterwards.
func (m *MapData) ToggleDoor(i int) error {
	if i < 0 || i >= len(m.Doors) {
		return fmt.Errorf("door index %d out of range [0,%d)", i, len(m.Doors))
	}
	return m.SetDoorOpen(i, !m.Doors[i].IsOpen)
}

// SetDoorOpen sets a door's open state. Locked doors cannot change.
func (m *MapData) SetDoorOpen(i int, open bool) error {
	if i < 0 || i >= len(m.Doors) {
		return fmt.Errorf("door index %d out of range [0,%d)", i, len(m.Doors))
	}
	if m.Doors[i].IsLocked && m.Doors[i].IsOpen != open {
		return fmt.Errorf("door %d: %w", i, ErrDoorLocked)
	}
	m.Doors[i].IsOpen = open
	return nil
}

// Project re-expresses the map's features for a grid that has been resized or
// shifted relative to the map's native cell size and offset. The receiver is
// not modified. Radii scale by the mean of the two axis ratios.
func (m *MapData) Project(cell geom.Size, offset geom.Point) *MapData {
	if m == nil {
		return nil
	}
	out := *m
	if m.CellSize.Empty() || cell.Empty() {
		out.Lights = append([]Light(nil), m.Lights...)
		out.Walls = append([]Wall(nil), m.Walls...)
		out.Doors = append([]Door(nil), m.Doors...)
		return &out
	}

	sx := cell.Width / m.CellSize.Width
	sy := cell.Height / m.CellSize.Height
	radial := (sx + sy) / 2
	project := func(p geom.Point) geom.Point {
		return geom.Point{
			X: (p.X-m.Offset.X)*sx + offset.X,
			Y: (p.Y-m.Offset.Y)*sy + offset.Y,
		}
	}

	out.CellSize = cell
	out.Offset = offset

	out.Walls = make([]Wall, len(m.Walls))
	for i, w := range m.Walls {
		w.Start, w.End = project(w.Start), project(w.End)
		out.Walls[i] = w
	}
	out.Doors = make([]Door, len(m.Doors))
	for i, d := range m.Doors {
		d.Start, d.End = project(d.Start), project(d.End)
		out.Doors[i] = d
	}
	out.Lights = make([]Light, len(m.Lights))
	for i, l := range m.Lights {
		l.Position = project(l.Position)
		l.Bright *= radial
		l.Dim *= radial
		out.Lights[i] = l
	}
	return &out
}
