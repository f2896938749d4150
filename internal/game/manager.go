package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"chosenoffset.com/tabletop/internal/core/geom"
	"chosenoffset.com/tabletop/internal/render"
	"chosenoffset.com/tabletop/internal/render/raster"
	"chosenoffset.com/tabletop/internal/render/scheduler"
	"chosenoffset.com/tabletop/internal/view"
)

// cellLabelMinZoom hides per-cell debug labels when they would overlap
const cellLabelMinZoom = 0.75

var backdrop = color.RGBA{0x20, 0x20, 0x20, 0xff}

// InputHandler consumes input each tick. The Manager owns exactly one.
type InputHandler interface {
	Update() error
	Destroy()
}

// Manager connects the tabletop to the render backend: it uploads redrawn
// surfaces, blits them under pan and zoom and runs the input handler.
type Manager struct {
	ScreenWidth  int
	ScreenHeight int
	State        *State
	Renderer     render.Renderer
	InputMgr     render.InputManager

	handler  InputHandler
	textures [2]render.Image
	copyText func(string) error
}

// NewManager creates a new game manager.
func NewManager(state *State, r render.Renderer, input render.InputManager, width, height int) *Manager {
	return &Manager{
		ScreenWidth:  width,
		ScreenHeight: height,
		State:        state,
		Renderer:     r,
		InputMgr:     input,
		copyText:     clipboard.WriteAll,
	}
}

// SetInputHandler destroys the current handler before installing h
func (m *Manager) SetInputHandler(h InputHandler) {
	if m.handler != nil {
		m.handler.Destroy()
	}
	m.handler = h
}

// InputHandler returns the installed handler
func (m *Manager) InputHandler() InputHandler {
	return m.handler
}

// Viewport is the screen area the map is drawn into
func (m *Manager) Viewport() view.Viewport {
	return view.Viewport{Size: geom.Size{Width: float64(m.ScreenWidth), Height: float64(m.ScreenHeight)}}
}

// Update updates the game state.
func (m *Manager) Update() error {
	m.State.Update()
	if m.handler != nil {
		if err := m.handler.Update(); err != nil {
			return err
		}
	}
	if m.State.Debug && m.InputMgr.IsKeyJustPressed(render.KeyC) {
		m.copySelected()
	}
	return nil
}

// copySelected puts the first selected unit's snapshot on the clipboard
func (m *Manager) copySelected() {
	if len(m.State.Selected) == 0 {
		return
	}
	u := m.State.Selected[0]
	if err := m.copyText(u.String()); err != nil {
		m.State.log.Warn("clipboard copy failed", zap.String("unit", u.ID), zap.Error(err))
		return
	}
	m.State.log.Debug("unit copied to clipboard", zap.String("unit", u.ID))
}

// Draw runs a scheduler frame, uploads what changed and blits the surfaces.
func (m *Manager) Draw(screen render.Image) {
	for _, s := range m.State.Render() {
		m.upload(s)
	}

	screen.Fill(backdrop)
	if m.State.Scheduler.Loading() {
		m.drawLoading(screen)
		return
	}

	tr := m.State.Transform
	pos := tr.ActivePosition()
	geo := render.NewGeoM()
	geo.Translate(pos.X, pos.Y)
	geo.Scale(tr.Zoom, tr.Zoom)
	opts := &render.DrawImageOptions{GeoM: geo}
	for _, tex := range m.textures {
		if tex != nil {
			screen.DrawImage(tex, opts)
		}
	}

	m.drawLabels(screen)
}

// upload copies a redrawn surface into its texture
func (m *Manager) upload(s scheduler.Surface) {
	var buf *raster.Buffer
	switch s {
	case scheduler.Background:
		buf = m.State.Background
	case scheduler.Foreground:
		buf = m.State.Foreground
	default:
		return
	}
	if buf == nil {
		return
	}

	b := buf.Bounds()
	tex := m.textures[s]
	if tex == nil || tex.Bounds().Dx() != b.Dx() || tex.Bounds().Dy() != b.Dy() {
		if tex != nil {
			tex.Dispose()
		}
		tex = m.Renderer.NewImage(b.Dx(), b.Dy())
		m.textures[s] = tex
	}
	tex.WritePixels(buf.Image().Pix)
}

func (m *Manager) drawLoading(screen render.Image) {
	text := "Loading..."
	w, h := m.Renderer.MeasureText(text, 1)
	m.Renderer.DrawText(screen, text, (m.ScreenWidth-w)/2, (m.ScreenHeight-h)/2, labelColor, 1)
}

// drawLabels prints unit names, path distances and the debug overlay
func (m *Manager) drawLabels(screen render.Image) {
	s := m.State
	tr := s.Transform
	gs := tr.GridSize

	for _, u := range s.Units {
		pos, ok := u.Position()
		if !ok {
			continue
		}
		m.label(screen, u.Name, tr.CellToWorld(pos).Add(geom.Point{Y: gs.Height}))

		if u.TempPosition != nil {
			d := u.PathDistance(tr)
			m.label(screen, fmt.Sprintf("%d ft", d.Feet), u.TempPosition.Add(geom.Point{Y: gs.Height}))
		}
	}

	if !s.Debug {
		return
	}

	if tr.Zoom >= cellLabelMinZoom {
		m.cellLabels(screen)
	}
	if md := s.alignedMap(); md != nil {
		for i, l := range md.Lights {
			m.label(screen, fmt.Sprintf("%d", i), l.Position)
		}
	}

	header := fmt.Sprintf("Tabletop: %d units", len(s.Units))
	w, _ := m.Renderer.MeasureText(header, 1)
	m.Renderer.DrawText(screen, header, (m.ScreenWidth-w)/2, 4, labelColor, 1)
}

// cellLabels prints row,col on every visible cell
func (m *Manager) cellLabels(screen render.Image) {
	tr := m.State.Transform
	gs := tr.GridSize
	if gs.Empty() {
		return
	}
	lo := tr.ScreenToWorld(geom.Point{}).Sub(tr.Offset)
	hi := tr.ScreenToWorld(geom.Point{X: float64(m.ScreenWidth), Y: float64(m.ScreenHeight)}).Sub(tr.Offset)

	c0 := max(int(math.Floor(lo.X/gs.Width)), 0)
	r0 := max(int(math.Floor(lo.Y/gs.Height)), 0)
	c1 := min(int(math.Ceil(hi.X/gs.Width)), m.State.Grid.Columns())
	r1 := min(int(math.Ceil(hi.Y/gs.Height)), m.State.Grid.Rows())

	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			pos := geom.GridPosition{Row: r, Column: c}
			m.label(screen, fmt.Sprintf("%d,%d", r, c), tr.CellToWorld(pos))
		}
	}
}

// label prints text at a world point
func (m *Manager) label(screen render.Image, text string, world geom.Point) {
	p := m.State.Transform.WorldToScreen(world)
	m.Renderer.DrawText(screen, text, int(p.X)+2, int(p.Y)+2, labelColor, 1)
}

// Layout handles window resize.
func (m *Manager) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != m.ScreenWidth || outsideHeight != m.ScreenHeight {
		m.ScreenWidth = outsideWidth
		m.ScreenHeight = outsideHeight
	}
	return outsideWidth, outsideHeight
}

// Close destroys the input handler and releases textures
func (m *Manager) Close() {
	m.SetInputHandler(nil)
	for i, tex := range m.textures {
		if tex != nil {
			tex.Dispose()
			m.textures[i] = nil
		}
	}
}
