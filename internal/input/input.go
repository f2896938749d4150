// Package input turns polled mouse and keyboard state into tabletop
// gestures: selecting, dragging and moving units, panning and zooming.
package input

import (
	"go.uber.org/zap"

	"chosenoffset.com/tabletop/internal/core/geom"
	"chosenoffset.com/tabletop/internal/game"
	"chosenoffset.com/tabletop/internal/logger"
	"chosenoffset.com/tabletop/internal/render"
	"chosenoffset.com/tabletop/internal/view"
)

// Button is a pointer button
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
)

var buttons = []struct {
	button Button
	render render.MouseButton
}{
	{ButtonLeft, render.MouseButtonLeft},
	{ButtonRight, render.MouseButtonRight},
}

// Handler owns the pointer and keyboard gestures for one State. The game
// Manager holds exactly one and destroys it before installing another.
type Handler struct {
	state    *game.State
	input    render.InputManager
	viewport func() view.Viewport

	mouse     geom.Point
	dragStart *geom.Point
	destroyed bool
	log       *zap.Logger
}

// NewHandler creates a handler polling input for state
func NewHandler(state *game.State, input render.InputManager, viewport func() view.Viewport) *Handler {
	return &Handler{
		state:    state,
		input:    input,
		viewport: viewport,
		log:      logger.Named("input"),
	}
}

// Update polls this tick's input and dispatches it
func (h *Handler) Update() error {
	if h.destroyed {
		return nil
	}

	x, y := h.input.GetCursorPosition()
	cursor := geom.Point{X: float64(x), Y: float64(y)}
	modifier := h.modifier()

	for _, b := range buttons {
		if h.input.IsMouseButtonJustPressed(b.render) {
			h.PointerDown(b.button, cursor, modifier)
		}
	}
	if cursor != h.mouse {
		h.PointerMove(cursor)
	}
	for _, b := range buttons {
		if h.input.IsMouseButtonJustReleased(b.render) {
			h.PointerUp(b.button, cursor, modifier)
		}
	}

	if _, dy := h.input.Wheel(); dy != 0 {
		h.Wheel(dy)
	}

	for _, key := range keys {
		if h.input.IsKeyJustPressed(key) {
			h.KeyPress(key)
		}
	}
	return nil
}

// Destroy stops the handler and drops any gesture in progress
func (h *Handler) Destroy() {
	if h.destroyed {
		return
	}
	h.destroyed = true
	h.dragStart = nil
	h.state.Transform.EndPan()
	h.log.Debug("input handler destroyed")
}

// Destroyed reports whether Destroy has run
func (h *Handler) Destroyed() bool {
	return h.destroyed
}

func (h *Handler) modifier() bool {
	return h.input.IsKeyPressed(render.KeyControl) || h.input.IsKeyPressed(render.KeyMeta)
}
