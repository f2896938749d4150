package input

import (
	"context"

	"go.uber.org/zap"

	"chosenoffset.com/tabletop/internal/core/geom"
	"chosenoffset.com/tabletop/internal/render"
	"chosenoffset.com/tabletop/internal/render/scheduler"
	"chosenoffset.com/tabletop/internal/unit"
)

// keys are the keys polled each tick
var keys = []render.Key{
	render.KeyEscape,
	render.KeyW, render.KeyA, render.KeyS, render.KeyD,
	render.KeyUp, render.KeyDown, render.KeyLeft, render.KeyRight,
	render.KeyBackspace,
	render.KeyDelete,
}

// steps maps movement keys to a one-cell offset
var steps = map[render.Key]geom.GridPosition{
	render.KeyW:     {Row: -1},
	render.KeyUp:    {Row: -1},
	render.KeyS:     {Row: 1},
	render.KeyDown:  {Row: 1},
	render.KeyA:     {Column: -1},
	render.KeyLeft:  {Column: -1},
	render.KeyD:     {Column: 1},
	render.KeyRight: {Column: 1},
}

// KeyPress handles one key
func (h *Handler) KeyPress(key render.Key) {
	s := h.state
	switch key {
	case render.KeyEscape:
		h.dragStart = nil
		for _, u := range s.Selected {
			u.ClearTemp()
		}
		s.DeselectAll()
	case render.KeyBackspace:
		if u := h.draggedUnit(); u != nil {
			if !u.RemoveWaypoint() {
				h.dragStart = nil
			}
			s.Scheduler.MarkDirty(scheduler.Foreground)
		}
	case render.KeyDelete:
		for _, u := range append([]*unit.Unit(nil), s.Selected...) {
			if err := s.RemoveUnit(context.Background(), u, true); err != nil {
				h.log.Warn("removing unit failed", zap.String("unit", u.ID), zap.Error(err))
			}
		}
		h.dragStart = nil
	default:
		if step, ok := steps[key]; ok {
			h.step(step)
		}
	}
}

// step moves every selected unit one cell, skipping moves off the grid
func (h *Handler) step(d geom.GridPosition) {
	s := h.state
	for _, u := range s.Selected {
		pos, ok := u.Position()
		if !ok {
			continue
		}
		dest := geom.GridPosition{Row: pos.Row + d.Row, Column: pos.Column + d.Column}
		if !s.Grid.InBounds(dest) {
			continue
		}
		if err := s.MoveUnit(context.Background(), u, dest, true); err != nil {
			h.log.Warn("moving unit failed", zap.String("unit", u.ID), zap.Error(err))
		}
	}
}

// draggedUnit is the selected unit with a drag preview
func (h *Handler) draggedUnit() *unit.Unit {
	if len(h.state.Selected) == 0 {
		return nil
	}
	u := h.state.Selected[0]
	if u.TempPosition == nil {
		return nil
	}
	return u
}
