// Package raster is a small CPU pixel-buffer toolkit: premultiplied RGBA
// buffers positioned in world space, anti-aliased polygon and gradient
// fills, and the canvas compositing modes the lighting and fog layers need.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"chosenoffset.com/tabletop/internal/core/geom"
)

// Buffer is an RGBA image whose bounds are world-pixel coordinates.
// A buffer covering (100,100)-(200,200) holds exactly that part of the map.
type Buffer struct {
	img *image.RGBA
}

// New allocates a transparent buffer covering r
func New(r image.Rectangle) *Buffer {
	return &Buffer{img: image.NewRGBA(r)}
}

// NewSized allocates a w×h buffer at the world origin
func NewSized(w, h int) *Buffer {
	return New(image.Rect(0, 0, w, h))
}

// RectFor returns the integer pixel rectangle covering a world-space box
func RectFor(min, max geom.Point) image.Rectangle {
	return image.Rect(
		int(math.Floor(min.X)), int(math.Floor(min.Y)),
		int(math.Ceil(max.X)), int(math.Ceil(max.Y)),
	)
}

// Bounds returns the world rectangle the buffer covers
func (b *Buffer) Bounds() image.Rectangle {
	return b.img.Rect
}

// Image exposes the underlying pixels
func (b *Buffer) Image() *image.RGBA {
	return b.img
}

// RGBAAt returns the premultiplied pixel at world (x, y); transparent outside bounds
func (b *Buffer) RGBAAt(x, y int) color.RGBA {
	return b.img.RGBAAt(x, y)
}

// AlphaAt returns the alpha at world (x, y) in [0,1]
func (b *Buffer) AlphaAt(x, y int) float64 {
	return float64(b.img.RGBAAt(x, y).A) / 255
}

// Fill replaces every pixel with c
func (b *Buffer) Fill(c color.Color) {
	draw.Draw(b.img, b.img.Rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// Clear makes the buffer fully transparent
func (b *Buffer) Clear() {
	clear(b.img.Pix)
}

// DrawImage draws src with its top-left at world point at, source-over
func (b *Buffer) DrawImage(src image.Image, at image.Point) {
	r := src.Bounds().Sub(src.Bounds().Min).Add(at)
	draw.Draw(b.img, r, src, src.Bounds().Min, draw.Over)
}

// Composite blends src onto b over the overlap of their world rectangles
func (b *Buffer) Composite(src *Buffer, mode Mode) {
	if src == nil {
		return
	}
	r := b.img.Rect.Intersect(src.img.Rect)
	if r.Empty() {
		return
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		si := src.img.PixOffset(r.Min.X, y)
		di := b.img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			s := src.img.Pix[si : si+4 : si+4]
			d := b.img.Pix[di : di+4 : di+4]
			if s[3] != 0 {
				blendPixel(mode, d, unpack(s), 1)
			}
			si += 4
			di += 4
		}
	}
}

// Equal reports whether two buffers cover the same rectangle with the same pixels
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.img.Rect != o.img.Rect {
		return false
	}
	for i := range b.img.Pix {
		if b.img.Pix[i] != o.img.Pix[i] {
			return false
		}
	}
	return true
}
