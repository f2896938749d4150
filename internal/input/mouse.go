package input

import (
	"context"
	"math"

	"go.uber.org/zap"

	"chosenoffset.com/tabletop/internal/core/geom"
	"chosenoffset.com/tabletop/internal/render/scheduler"
)

// PointerDown handles a button press at a screen point
func (h *Handler) PointerDown(button Button, screen geom.Point, modifier bool) {
	h.mouse = screen
	switch button {
	case ButtonRight:
		h.state.Transform.BeginPan(screen)
	case ButtonLeft:
		h.leftDown(screen, modifier)
	}
}

func (h *Handler) leftDown(screen geom.Point, modifier bool) {
	if h.dragStart != nil {
		return
	}
	s := h.state

	pos, ok := h.cellAt(screen)
	if !ok {
		s.DeselectAll()
		return
	}

	if s.PendingPlacement != nil {
		placed, err := s.PlacePending(context.Background(), pos)
		if err != nil {
			h.log.Warn("placing unit failed", zap.Error(err))
		}
		if placed {
			return
		}
	}

	if cell, ok := s.Grid.Cell(pos); ok {
		cell.Toggle()
		if s.Debug {
			s.Scheduler.MarkDirty(scheduler.Foreground)
		}
	}

	if u, ok := s.UnitAt(pos); ok {
		start := screen
		h.dragStart = &start
		s.SelectUnit(u, modifier)
		return
	}
	s.DeselectAll()
}

// PointerMove handles cursor movement. A drag only starts previewing once
// the pointer has left half a unit's on-screen size around the press.
func (h *Handler) PointerMove(screen geom.Point) {
	h.mouse = screen
	s := h.state
	tr := s.Transform

	if tr.Panning() {
		tr.DragPan(screen, s.MapSize(), h.viewport().Size)
	}

	if h.dragStart == nil || len(s.Selected) == 0 {
		return
	}
	u := s.Selected[0]
	gs := tr.GridSize
	unitSize := math.Min(gs.Width, gs.Height) * tr.Zoom
	if u.TempPosition == nil && geom.Distance(*h.dragStart, screen) <= unitSize/2 {
		return
	}

	world := tr.ScreenToWorld(screen.Sub(h.viewport().Origin))
	temp := world.Sub(geom.Point{X: gs.Width / 2, Y: gs.Height / 2})
	u.SetTempPosition(&temp)
	s.Scheduler.MarkDirty(scheduler.Foreground)
}

// PointerUp handles a button release. Releasing over the starting cell is a
// click even with the modifier held. Elsewhere the modifier adds a waypoint
// and keeps the drag alive, and a plain release moves the unit.
func (h *Handler) PointerUp(button Button, screen geom.Point, modifier bool) {
	h.mouse = screen
	s := h.state

	if button == ButtonRight {
		s.Transform.EndPan()
		return
	}
	if button != ButtonLeft || h.dragStart == nil {
		return
	}

	if len(s.Selected) == 0 {
		h.dragStart = nil
		return
	}
	u := s.Selected[0]

	from, okFrom := h.cellAt(*h.dragStart)
	to, okTo := h.cellAt(screen)
	if !okFrom || !okTo || !s.Grid.InBounds(to) {
		u.ClearTemp()
		h.dragStart = nil
		s.Scheduler.MarkDirty(scheduler.Foreground)
		return
	}

	if from == to {
		u.ClearTemp()
		h.dragStart = nil
		s.Scheduler.MarkDirty(scheduler.Foreground)
		return
	}

	if modifier {
		u.AddWaypoint(s.Transform.CellToWorld(to))
		s.Scheduler.MarkDirty(scheduler.Foreground)
		return
	}

	h.dragStart = nil
	if err := s.MoveUnit(context.Background(), u, to, true); err != nil {
		h.log.Warn("moving unit failed", zap.String("unit", u.ID), zap.Error(err))
	}
}

// Wheel zooms around the viewport origin. Positive dy zooms in.
func (h *Handler) Wheel(dy float64) {
	switch {
	case dy > 0:
		h.state.ZoomIn()
	case dy < 0:
		h.state.ZoomOut()
	}
}

// Dragging reports whether a unit drag is armed
func (h *Handler) Dragging() bool {
	return h.dragStart != nil
}

// cellAt hit-tests a screen point against the populated grid
func (h *Handler) cellAt(screen geom.Point) (geom.GridPosition, bool) {
	pos, ok := h.state.Transform.ScreenToCell(screen, h.viewport())
	if !ok || !h.state.Grid.InBounds(pos) {
		return geom.GridPosition{}, false
	}
	return pos, true
}
