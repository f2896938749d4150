// Package view converts between grid cells, world pixels and screen pixels
// under the current pan and zoom.
package view

import (
	"math"

	"chosenoffset.com/tabletop/internal/core/geom"
)

// cellEpsilon absorbs float error when a point sits exactly on a cell edge
const cellEpsilon = 1e-9

// Limits bounds zoom and pan
type Limits struct {
	ZoomMin    float64
	ZoomMax    float64
	ZoomStep   float64
	Overscroll float64 // fraction of the map that may be dragged past the top/left edge
}

// DefaultLimits returns zoom [0.125, 4] in 0.25 steps with 25% overscroll
func DefaultLimits() Limits {
	return Limits{
		ZoomMin:    0.125,
		ZoomMax:    4,
		ZoomStep:   0.25,
		Overscroll: 0.25,
	}
}

// Viewport is the on-screen rectangle the map is drawn into
type Viewport struct {
	Origin geom.Point // top-left of the canvas in screen pixels
	Size   geom.Size
}

// Transform holds pan, zoom and grid alignment
type Transform struct {
	GridSize     geom.Size
	Offset       geom.Point  // grid pixel offset
	Position     geom.Point  // committed pan
	TempPosition *geom.Point // pan in progress, nil when not dragging
	Zoom         float64
	Limits       Limits

	panStart *geom.Point
}

// New creates a transform at zoom 1 with no pan
func New(gridSize geom.Size, limits Limits) *Transform {
	return &Transform{
		GridSize: gridSize,
		Zoom:     1,
		Limits:   limits,
	}
}

// ActivePosition is the pan used for drawing: the drag position while panning
func (t *Transform) ActivePosition() geom.Point {
	if t.TempPosition != nil {
		return *t.TempPosition
	}
	return t.Position
}

// CellToWorld returns the world-pixel top-left corner of a cell
func (t *Transform) CellToWorld(pos geom.GridPosition) geom.Point {
	return geom.Point{
		X: float64(pos.Column)*t.GridSize.Width + t.Offset.X,
		Y: float64(pos.Row)*t.GridSize.Height + t.Offset.Y,
	}
}

// CellCenter returns the world-pixel center of a cell
func (t *Transform) CellCenter(pos geom.GridPosition) geom.Point {
	p := t.CellToWorld(pos)
	return geom.Point{X: p.X + t.GridSize.Width/2, Y: p.Y + t.GridSize.Height/2}
}

// WorldToScreen applies pan then zoom
func (t *Transform) WorldToScreen(p geom.Point) geom.Point {
	return p.Add(t.ActivePosition()).Scale(t.Zoom)
}

// ScreenToWorld inverts WorldToScreen for a canvas-local point
func (t *Transform) ScreenToWorld(p geom.Point) geom.Point {
	return p.Scale(1 / t.Zoom).Sub(t.ActivePosition())
}

// WorldToCell returns the cell containing a world point.
// Points left of or above the grid origin have no cell.
func (t *Transform) WorldToCell(p geom.Point) (geom.GridPosition, bool) {
	if t.GridSize.Empty() {
		return geom.GridPosition{}, false
	}
	col := math.Floor((p.X-t.Offset.X)/t.GridSize.Width + cellEpsilon)
	row := math.Floor((p.Y-t.Offset.Y)/t.GridSize.Height + cellEpsilon)
	if col < 0 || row < 0 {
		return geom.GridPosition{}, false
	}
	return geom.GridPosition{Row: int(row), Column: int(col)}, true
}

// ScreenToCell hit-tests a screen point. Points outside the canvas have no cell.
// Callers still check the result against the populated grid.
func (t *Transform) ScreenToCell(screen geom.Point, vp Viewport) (geom.GridPosition, bool) {
	local := screen.Sub(vp.Origin)
	if local.X < 0 || local.Y < 0 || local.X >= vp.Size.Width || local.Y >= vp.Size.Height {
		return geom.GridPosition{}, false
	}
	return t.WorldToCell(t.ScreenToWorld(local))
}

// LineWidth is the zoom-adaptive stroke width in world pixels
func LineWidth(zoom float64) float64 {
	if zoom <= 0 {
		return 4
	}
	return geom.Clamp(4/zoom, 1, 4)
}
