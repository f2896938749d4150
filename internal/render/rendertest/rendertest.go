// Package rendertest provides in-memory render backends for tests.
package rendertest

import (
	"image"
	"image/color"

	"chosenoffset.com/tabletop/internal/render"
)

// Input is a scriptable render.InputManager. Set the fields, call the code
// under test, then call EndTick to clear the one-tick edges.
type Input struct {
	Pressed     map[render.Key]bool
	JustPressed map[render.Key]bool
	Buttons     map[render.MouseButton]bool
	ButtonDown  map[render.MouseButton]bool
	ButtonUp    map[render.MouseButton]bool
	CursorX     int
	CursorY     int
	WheelX      float64
	WheelY      float64
}

// NewInput returns an idle input
func NewInput() *Input {
	return &Input{
		Pressed:     map[render.Key]bool{},
		JustPressed: map[render.Key]bool{},
		Buttons:     map[render.MouseButton]bool{},
		ButtonDown:  map[render.MouseButton]bool{},
		ButtonUp:    map[render.MouseButton]bool{},
	}
}

func (in *Input) IsKeyPressed(key render.Key) bool     { return in.Pressed[key] }
func (in *Input) IsKeyJustPressed(key render.Key) bool { return in.JustPressed[key] }
func (in *Input) GetCursorPosition() (int, int)        { return in.CursorX, in.CursorY }
func (in *Input) Wheel() (float64, float64)            { return in.WheelX, in.WheelY }

func (in *Input) IsMouseButtonPressed(b render.MouseButton) bool      { return in.Buttons[b] }
func (in *Input) IsMouseButtonJustPressed(b render.MouseButton) bool  { return in.ButtonDown[b] }
func (in *Input) IsMouseButtonJustReleased(b render.MouseButton) bool { return in.ButtonUp[b] }

// MoveTo places the cursor
func (in *Input) MoveTo(x, y int) {
	in.CursorX, in.CursorY = x, y
}

// Press pushes a button down this tick
func (in *Input) Press(b render.MouseButton) {
	in.Buttons[b] = true
	in.ButtonDown[b] = true
}

// Release lets a button go this tick
func (in *Input) Release(b render.MouseButton) {
	in.Buttons[b] = false
	in.ButtonUp[b] = true
}

// Tap presses a key for one tick
func (in *Input) Tap(key render.Key) {
	in.JustPressed[key] = true
}

// EndTick clears everything that only lasts one tick
func (in *Input) EndTick() {
	clear(in.JustPressed)
	clear(in.ButtonDown)
	clear(in.ButtonUp)
	in.WheelX, in.WheelY = 0, 0
}

// Renderer creates Images backed by image.RGBA and records drawn text
type Renderer struct {
	Texts []string
}

// NewImage allocates a blank image
func (r *Renderer) NewImage(width, height int) render.Image {
	return &Image{RGBA: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// DrawText records the text
func (r *Renderer) DrawText(dst render.Image, text string, x, y int, clr color.Color, scale float64) {
	r.Texts = append(r.Texts, text)
}

// MeasureText assumes a 6x16 monospace font
func (r *Renderer) MeasureText(text string, scale float64) (int, int) {
	return int(float64(len(text)) * 6 * scale), int(16 * scale)
}

// Image is an in-memory render.Image. DrawImage copies without transforming
// and counts draws.
type Image struct {
	*image.RGBA
	Draws    int
	Uploads  int
	Disposed bool
}

func (i *Image) Size() (int, int) {
	return i.Rect.Dx(), i.Rect.Dy()
}

func (i *Image) Fill(clr color.Color) {
	r, g, b, a := clr.RGBA()
	c := color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
	for p := 0; p < len(i.Pix); p += 4 {
		i.Pix[p], i.Pix[p+1], i.Pix[p+2], i.Pix[p+3] = c.R, c.G, c.B, c.A
	}
}

func (i *Image) Clear() {
	clear(i.Pix)
}

func (i *Image) WritePixels(pix []byte) {
	copy(i.Pix, pix)
	i.Uploads++
}

func (i *Image) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	i.Draws++
}

func (i *Image) Dispose() {
	i.Disposed = true
}

// GeoM records the last transform
type GeoM struct {
	TX, TY, SX, SY float64
}

func NewGeoM() render.GeoM {
	return &GeoM{SX: 1, SY: 1}
}

func (g *GeoM) Translate(tx, ty float64) {
	g.TX += tx
	g.TY += ty
}

func (g *GeoM) Scale(sx, sy float64) {
	g.TX *= sx
	g.TY *= sy
	g.SX *= sx
	g.SY *= sy
}

func (g *GeoM) Reset() {
	*g = GeoM{SX: 1, SY: 1}
}

func init() {
	if render.NewGeoM == nil {
		render.NewGeoM = NewGeoM
	}
}
