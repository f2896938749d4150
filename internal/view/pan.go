package view

import (
	"math"

	"chosenoffset.com/tabletop/internal/core/geom"
)

// BeginPan records the screen point a pan drag starts from
func (t *Transform) BeginPan(screen geom.Point) {
	if t.panStart != nil {
		return
	}
	start := screen
	t.panStart = &start
}

// Panning reports whether a pan drag is armed
func (t *Transform) Panning() bool {
	return t.panStart != nil
}

// DragPan updates the temporary position for the pointer at screen. The map
// may move at most Overscroll of its size past the top/left edge and
// 1+Overscroll of its size past the bottom/right edge of the viewport.
func (t *Transform) DragPan(screen geom.Point, mapSize geom.Size, viewport geom.Size) bool {
	if t.panStart == nil {
		return false
	}

	drag := screen.Sub(*t.panStart).Scale(1 / t.Zoom)
	next := t.Position.Add(drag)

	over := t.Limits.Overscroll
	maxX := mapSize.Width * over
	maxY := mapSize.Height * over
	minX := math.Min(-mapSize.Width*(1+over)+viewport.Width/t.Zoom, maxX)
	minY := math.Min(-mapSize.Height*(1+over)+viewport.Height/t.Zoom, maxY)

	bounded := geom.Point{
		X: geom.Clamp(next.X, minX, maxX),
		Y: geom.Clamp(next.Y, minY, maxY),
	}
	if t.TempPosition != nil && *t.TempPosition == bounded {
		return false
	}
	t.TempPosition = &bounded
	return true
}

// EndPan commits the temporary position. Returns true if the pan moved.
func (t *Transform) EndPan() bool {
	t.panStart = nil
	if t.TempPosition == nil {
		return false
	}
	moved := *t.TempPosition != t.Position
	t.Position = *t.TempPosition
	t.TempPosition = nil
	return moved
}

// CenterOn pans so the given cell's center sits in the middle of the viewport
func (t *Transform) CenterOn(pos geom.GridPosition, viewport geom.Size) {
	c := t.CellCenter(pos)
	t.Position = geom.Point{
		X: viewport.Width/(2*t.Zoom) - c.X,
		Y: viewport.Height/(2*t.Zoom) - c.Y,
	}
	t.TempPosition = nil
}
