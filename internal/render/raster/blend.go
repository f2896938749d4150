package raster

import (
	"image/color"
	"math"
)

// Mode selects how a source pixel combines with the destination
type Mode int

const (
	SourceOver Mode = iota
	// Lighter adds source and destination, saturating at white
	Lighter
	// Multiply darkens the destination by the source color
	Multiply
	// Luminosity keeps the destination's hue and saturation with the source's luminosity
	Luminosity
	// DestinationOut erases the destination by the source alpha
	DestinationOut
)

func (m Mode) String() string {
	switch m {
	case SourceOver:
		return "source-over"
	case Lighter:
		return "lighter"
	case Multiply:
		return "multiply"
	case Luminosity:
		return "luminosity"
	case DestinationOut:
		return "destination-out"
	}
	return "unknown"
}

// rgba is a premultiplied color in [0,1]
type rgba struct {
	r, g, b, a float64
}

func unpack(p []uint8) rgba {
	return rgba{
		r: float64(p[0]) / 255,
		g: float64(p[1]) / 255,
		b: float64(p[2]) / 255,
		a: float64(p[3]) / 255,
	}
}

func premul(c color.NRGBA) rgba {
	a := float64(c.A) / 255
	return rgba{
		r: float64(c.R) / 255 * a,
		g: float64(c.G) / 255 * a,
		b: float64(c.B) / 255 * a,
		a: a,
	}
}

func (c rgba) scale(k float64) rgba {
	return rgba{c.r * k, c.g * k, c.b * k, c.a * k}
}

func lerp(a, b rgba, t float64) rgba {
	return rgba{
		r: a.r + (b.r-a.r)*t,
		g: a.g + (b.g-a.g)*t,
		b: a.b + (b.b-a.b)*t,
		a: a.a + (b.a-a.a)*t,
	}
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// blendPixel composites src, scaled by coverage, onto the 4-byte destination d
func blendPixel(mode Mode, d []uint8, src rgba, coverage float64) {
	if coverage <= 0 {
		return
	}
	s := src.scale(coverage)
	dst := unpack(d)

	var o rgba
	switch mode {
	case SourceOver:
		k := 1 - s.a
		o = rgba{s.r + dst.r*k, s.g + dst.g*k, s.b + dst.b*k, s.a + dst.a*k}
	case Lighter:
		o = rgba{s.r + dst.r, s.g + dst.g, s.b + dst.b, s.a + dst.a}
	case Multiply:
		o = rgba{
			r: s.r*(1-dst.a) + dst.r*(1-s.a) + s.r*dst.r,
			g: s.g*(1-dst.a) + dst.g*(1-s.a) + s.g*dst.g,
			b: s.b*(1-dst.a) + dst.b*(1-s.a) + s.b*dst.b,
			a: s.a + dst.a*(1-s.a),
		}
	case Luminosity:
		o = luminosity(s, dst)
	case DestinationOut:
		o = dst.scale(1 - s.a)
	default:
		return
	}

	// Premultiplied channels never exceed alpha
	o.a = math.Min(1, o.a)
	d[0] = to8(math.Min(o.r, o.a))
	d[1] = to8(math.Min(o.g, o.a))
	d[2] = to8(math.Min(o.b, o.a))
	d[3] = to8(o.a)
}

// luminosity implements the non-separable luminosity blend, composited source-over
func luminosity(s, d rgba) rgba {
	ao := s.a + d.a - s.a*d.a
	if s.a == 0 {
		return d
	}
	if d.a == 0 {
		return s
	}

	// unpremultiply for the blend function
	sr, sg, sb := s.r/s.a, s.g/s.a, s.b/s.a
	dr, dg, db := d.r/d.a, d.g/d.a, d.b/d.a
	br, bg, bb := setLum(dr, dg, db, lum(sr, sg, sb))

	both := s.a * d.a
	return rgba{
		r: s.r*(1-d.a) + d.r*(1-s.a) + both*br,
		g: s.g*(1-d.a) + d.g*(1-s.a) + both*bg,
		b: s.b*(1-d.a) + d.b*(1-s.a) + both*bb,
		a: ao,
	}
}

func lum(r, g, b float64) float64 {
	return 0.3*r + 0.59*g + 0.11*b
}

func setLum(r, g, b, l float64) (float64, float64, float64) {
	d := l - lum(r, g, b)
	return clipColor(r+d, g+d, b+d)
}

func clipColor(r, g, b float64) (float64, float64, float64) {
	l := lum(r, g, b)
	n := math.Min(r, math.Min(g, b))
	x := math.Max(r, math.Max(g, b))
	if n < 0 && l != n {
		r = l + (r-l)*l/(l-n)
		g = l + (g-l)*l/(l-n)
		b = l + (b-l)*l/(l-n)
	}
	if x > 1 && x != l {
		r = l + (r-l)*(1-l)/(x-l)
		g = l + (g-l)*(1-l)/(x-l)
		b = l + (b-l)*(1-l)/(x-l)
	}
	return r, g, b
}
