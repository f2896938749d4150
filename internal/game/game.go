// Package game holds the tabletop's aggregate state: the view transform, the
// grid, the map registry, the units and the cached surfaces, plus the
// mutations that keep them consistent and the draw routines that paint them.
package game

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"slices"

	"go.uber.org/zap"

	"chosenoffset.com/tabletop/internal/core/geom"
	"chosenoffset.com/tabletop/internal/grid"
	"chosenoffset.com/tabletop/internal/logger"
	"chosenoffset.com/tabletop/internal/render/fog"
	"chosenoffset.com/tabletop/internal/render/lighting"
	"chosenoffset.com/tabletop/internal/render/raster"
	"chosenoffset.com/tabletop/internal/render/scheduler"
	"chosenoffset.com/tabletop/internal/session"
	"chosenoffset.com/tabletop/internal/unit"
	"chosenoffset.com/tabletop/internal/view"
	"chosenoffset.com/tabletop/internal/world/mapdata"
)

// State is the tabletop. It is owned by the UI goroutine; nothing in it is
// safe for concurrent mutation.
type State struct {
	Transform *view.Transform
	Grid      *grid.Grid
	Map       *mapdata.MapData
	Units     []*unit.Unit
	Selected  []*unit.Unit

	Lighting  *lighting.Cache
	Scheduler *scheduler.Scheduler
	Publisher session.Publisher

	ChannelID string
	AuthorID  string
	Debug     bool

	GridColor       color.NRGBA
	LightingEnabled bool
	LightingOptions lighting.Options
	FogEnabled      bool
	FogOptions      fog.Options

	// Surfaces are map-sized world buffers
	Background *raster.Buffer
	Foreground *raster.Buffer

	Terrain image.Image

	// PendingPlacement is placed by the next click on a cell
	PendingPlacement *unit.Unit

	terrain    chan terrainResult
	terrainGen uint64
	events     <-chan session.Event
	log        *zap.Logger
}

// New creates an empty tabletop
func New(opts Options) *State {
	s := &State{
		Transform:       view.New(opts.GridSize, opts.Limits),
		Grid:            grid.New(),
		Lighting:        lighting.NewCache(),
		Scheduler:       scheduler.New(),
		Publisher:       session.Nop,
		ChannelID:       opts.ChannelID,
		AuthorID:        opts.AuthorID,
		Debug:           opts.Debug,
		GridColor:       opts.GridColor,
		LightingEnabled: opts.LightingEnabled,
		LightingOptions: opts.Lighting,
		FogEnabled:      opts.FogEnabled,
		FogOptions:      opts.Fog,
		terrain:         make(chan terrainResult, 1),
		log:             logger.Named("game"),
	}
	s.Transform.Offset = opts.GridOffset
	s.Scheduler.OnDraw(scheduler.Background, s.drawBackground)
	s.Scheduler.OnDraw(scheduler.Foreground, s.drawForeground)
	s.Scheduler.OnLoading(s.drawPlaceholder)
	return s
}

// MapSize is the world size of the map: the map data's size, or the terrain
// image's size when there is no map data
func (s *State) MapSize() geom.Size {
	if s.Map != nil && !s.Map.Size.Empty() {
		return s.Map.Size
	}
	if s.Terrain != nil {
		b := s.Terrain.Bounds()
		return geom.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
	}
	return geom.Size{}
}

// resizeGrid repopulates the grid to cover the map and redraws everything
func (s *State) resizeGrid() {
	size := s.MapSize()
	cols, rows := 0, 0
	if !size.Empty() && !s.Transform.GridSize.Empty() {
		md := mapdata.MapData{Size: size}
		cols, rows = md.GridExtent(s.Transform.GridSize)
	}
	s.Grid.Populate(cols, rows)
	s.Background, s.Foreground = nil, nil
	s.InvalidateLighting()
	s.Scheduler.MarkAll()
	s.log.Debug("grid populated", zap.Int("columns", cols), zap.Int("rows", rows))
}

// Update runs once per tick: it finishes terrain loads and applies queued
// unit events from other clients
func (s *State) Update() {
	s.pollTerrain()
	s.drainEvents()
}

// Render runs one scheduler frame and returns the redrawn surfaces
func (s *State) Render() []scheduler.Surface {
	return s.Scheduler.Frame()
}

// UnitAt returns the unit committed to pos
func (s *State) UnitAt(pos geom.GridPosition) (*unit.Unit, bool) {
	for _, u := range s.Units {
		if u.At(pos) {
			return u, true
		}
	}
	return nil, false
}

// UnitByID finds a unit
func (s *State) UnitByID(id string) (*unit.Unit, bool) {
	for _, u := range s.Units {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

// AddUnit adds u at dest. A unit with the same id is only repositioned. A nil
// dest leaves the unit pending until the next click on a cell. The add is
// published only when it has a destination and broadcast is set.
func (s *State) AddUnit(ctx context.Context, u *unit.Unit, dest *geom.GridPosition, broadcast bool) error {
	if existing, ok := s.UnitByID(u.ID); ok {
		if dest == nil {
			existing.ClearPosition()
		} else {
			existing.SetPosition(*dest)
		}
		s.Scheduler.MarkAll()
		return nil
	}

	if dest != nil {
		u.SetPosition(*dest)
	} else {
		u.ClearPosition()
		s.PendingPlacement = u
	}
	s.Units = append(s.Units, u)
	s.Scheduler.MarkDirty(scheduler.Foreground)
	if s.FogEnabled {
		s.Scheduler.MarkDirty(scheduler.Background)
	}

	if dest == nil || !broadcast {
		return nil
	}
	return s.publish(ctx, session.KindAdd, u, dest)
}

// PlacePending commits the pending unit to pos and publishes the add
func (s *State) PlacePending(ctx context.Context, pos geom.GridPosition) (bool, error) {
	u := s.PendingPlacement
	if u == nil || !s.Grid.InBounds(pos) {
		return false, nil
	}
	s.PendingPlacement = nil
	u.SetPosition(pos)
	s.Scheduler.MarkAll()
	return true, s.publish(ctx, session.KindAdd, u, &pos)
}

// MoveUnit commits u to dest, clearing any drag preview. A destination
// outside the grid is ignored.
func (s *State) MoveUnit(ctx context.Context, u *unit.Unit, dest geom.GridPosition, broadcast bool) error {
	if u == nil || !s.Grid.InBounds(dest) {
		return nil
	}
	u.ClearTemp()
	u.SetPosition(dest)
	s.Scheduler.MarkAll()

	if !broadcast {
		return nil
	}
	return s.publish(ctx, session.KindMove, u, &dest)
}

// RemoveUnit drops u from the table and from the selection
func (s *State) RemoveUnit(ctx context.Context, u *unit.Unit, broadcast bool) error {
	s.Units = slices.DeleteFunc(s.Units, func(o *unit.Unit) bool { return o.ID == u.ID })
	s.Selected = slices.DeleteFunc(s.Selected, func(o *unit.Unit) bool { return o.ID == u.ID })
	if s.PendingPlacement != nil && s.PendingPlacement.ID == u.ID {
		s.PendingPlacement = nil
	}
	s.Scheduler.MarkAll()

	if !broadcast {
		return nil
	}
	return s.publish(ctx, session.KindRemove, u, nil)
}

// SelectUnit selects u, replacing the selection unless additive
func (s *State) SelectUnit(u *unit.Unit, additive bool) {
	if !additive {
		s.Selected = s.Selected[:0]
	}
	if !s.IsSelected(u) {
		s.Selected = append(s.Selected, u)
	}
	s.selectionChanged()
}

// DeselectUnit removes u from the selection
func (s *State) DeselectUnit(u *unit.Unit) {
	s.Selected = slices.DeleteFunc(s.Selected, func(o *unit.Unit) bool { return o.ID == u.ID })
	s.selectionChanged()
}

// DeselectAll clears the selection
func (s *State) DeselectAll() {
	if len(s.Selected) == 0 {
		return
	}
	s.Selected = nil
	s.selectionChanged()
}

// IsSelected reports whether u is selected
func (s *State) IsSelected(u *unit.Unit) bool {
	return slices.ContainsFunc(s.Selected, func(o *unit.Unit) bool { return o.ID == u.ID })
}

func (s *State) selectionChanged() {
	s.Scheduler.MarkDirty(scheduler.Foreground)
	// live-vision fog reveals around the selection
	if s.FogEnabled && s.FogOptions.Policy == fog.PolicyLiveVision {
		s.Scheduler.MarkDirty(scheduler.Background)
	}
}

// SetGridSize resizes the cells, repopulates the grid and rebuilds lighting
func (s *State) SetGridSize(size geom.Size) {
	if size.Empty() || size == s.Transform.GridSize {
		return
	}
	s.Transform.GridSize = size
	s.resizeGrid()
}

// SetGridOffset shifts the grid relative to the map
func (s *State) SetGridOffset(offset geom.Point) {
	if offset == s.Transform.Offset {
		return
	}
	s.Transform.Offset = offset
	s.InvalidateLighting()
	s.Scheduler.MarkAll()
}

// SetGridColor recolors the grid lines
func (s *State) SetGridColor(c color.NRGBA) {
	s.GridColor = c
	s.Scheduler.MarkDirty(scheduler.Background)
}

// ToggleDoor opens or closes a door and rebuilds lighting
func (s *State) ToggleDoor(i int) error {
	if s.Map == nil {
		return fmt.Errorf("toggle door %d: no map loaded", i)
	}
	if err := s.Map.ToggleDoor(i); err != nil {
		return err
	}
	s.InvalidateLighting()
	return nil
}

// ReplaceMap installs new map data. The grid follows the map's cell size
// and offset when it has them.
func (s *State) ReplaceMap(md *mapdata.MapData) {
	s.Map = md
	if md != nil {
		if !md.CellSize.Empty() {
			s.Transform.GridSize = md.CellSize
		}
		s.Transform.Offset = md.Offset
		if md.GridColor != "" {
			if c, err := mapdata.ParseHexColor(md.GridColor); err == nil {
				s.GridColor = c
			}
		}
	}
	s.resizeGrid()
}

// InvalidateLighting drops the cached lighting layer. Call it after changing
// any light, wall or door directly.
func (s *State) InvalidateLighting() {
	s.Lighting.Invalidate()
	s.Scheduler.MarkDirty(scheduler.Background)
}

// ZoomIn steps zoom up. Line widths follow zoom, so surfaces are redrawn,
// but the lighting cache is kept.
func (s *State) ZoomIn() bool {
	return s.zoomed(s.Transform.ZoomIn())
}

// ZoomOut steps zoom down
func (s *State) ZoomOut() bool {
	return s.zoomed(s.Transform.ZoomOut())
}

// SetZoom applies a clamped zoom level
func (s *State) SetZoom(z float64) bool {
	return s.zoomed(s.Transform.SetZoom(z))
}

func (s *State) zoomed(changed bool) bool {
	if changed {
		s.Scheduler.MarkAll()
	}
	return changed
}

func (s *State) publish(ctx context.Context, kind session.Kind, u *unit.Unit, dest *geom.GridPosition) error {
	if s.Publisher == nil || s.ChannelID == "" || s.AuthorID == "" {
		return nil
	}
	e := session.Event{
		Kind:        kind,
		Unit:        u.Snapshot(),
		Destination: dest,
		ChannelID:   s.ChannelID,
		AuthorID:    s.AuthorID,
	}
	if err := s.Publisher.Publish(ctx, e); err != nil {
		return fmt.Errorf("publishing %s for unit %s: %w", kind, u.ID, err)
	}
	return nil
}
