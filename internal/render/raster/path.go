package raster

import (
	"image"
	"image/color"
	"math"
	"slices"

	"golang.org/x/image/vector"

	"chosenoffset.com/tabletop/internal/core/geom"
)

// kappa places cubic control points for a quarter circle
const kappa = 0.5522847498

type opKind int

const (
	opMove opKind = iota
	opLine
	opCube
	opClose
)

type pathOp struct {
	kind opKind
	pts  [3]geom.Point
}

// Path is an outline in world coordinates made of one or more closed subpaths.
// Overlapping subpaths with the same winding merge; opposite winding cuts holes.
type Path struct {
	ops      []pathOp
	min, max geom.Point
	empty    bool
}

// NewPath returns an empty path
func NewPath() *Path {
	return &Path{
		min:   geom.Point{X: math.Inf(1), Y: math.Inf(1)},
		max:   geom.Point{X: math.Inf(-1), Y: math.Inf(-1)},
		empty: true,
	}
}

func (p *Path) extend(pts ...geom.Point) {
	for _, pt := range pts {
		p.min.X = math.Min(p.min.X, pt.X)
		p.min.Y = math.Min(p.min.Y, pt.Y)
		p.max.X = math.Max(p.max.X, pt.X)
		p.max.Y = math.Max(p.max.Y, pt.Y)
	}
	p.empty = false
}

// MoveTo starts a new subpath
func (p *Path) MoveTo(pt geom.Point) {
	p.ops = append(p.ops, pathOp{kind: opMove, pts: [3]geom.Point{pt}})
	p.extend(pt)
}

// LineTo adds a straight edge
func (p *Path) LineTo(pt geom.Point) {
	p.ops = append(p.ops, pathOp{kind: opLine, pts: [3]geom.Point{pt}})
	p.extend(pt)
}

// CubeTo adds a cubic Bézier edge
func (p *Path) CubeTo(c1, c2, pt geom.Point) {
	p.ops = append(p.ops, pathOp{kind: opCube, pts: [3]geom.Point{c1, c2, pt}})
	p.extend(c1, c2, pt)
}

// Close ends the current subpath
func (p *Path) Close() {
	p.ops = append(p.ops, pathOp{kind: opClose})
}

// Polygon adds a closed polygon, rewound clockwise on screen if needed.
// The rasterizer sums signed coverage, so every polygon in a path must share
// one winding for overlaps to union instead of cancelling.
func (p *Path) Polygon(points []geom.Point) {
	if len(points) < 3 {
		return
	}
	if SignedArea(points) < 0 {
		points = slices.Clone(points)
		slices.Reverse(points)
	}
	p.ring(points)
}

// ring adds points as a closed subpath in the order given
func (p *Path) ring(points []geom.Point) {
	p.MoveTo(points[0])
	for _, pt := range points[1:] {
		p.LineTo(pt)
	}
	p.Close()
}

// SignedArea is the shoelace area of a polygon. It is positive for
// clockwise winding on screen, where y grows downward.
func SignedArea(points []geom.Point) float64 {
	var sum float64
	for i, a := range points {
		b := points[(i+1)%len(points)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Rect adds an axis-aligned rectangle, clockwise on screen
func (p *Path) Rect(min, max geom.Point) {
	p.Polygon([]geom.Point{min, {X: max.X, Y: min.Y}, max, {X: min.X, Y: max.Y}})
}

// Circle adds a circle built from four cubic arcs
func (p *Path) Circle(c geom.Point, r float64) {
	if r <= 0 {
		return
	}
	k := r * kappa
	p.MoveTo(geom.Point{X: c.X + r, Y: c.Y})
	p.CubeTo(geom.Point{X: c.X + r, Y: c.Y + k}, geom.Point{X: c.X + k, Y: c.Y + r}, geom.Point{X: c.X, Y: c.Y + r})
	p.CubeTo(geom.Point{X: c.X - k, Y: c.Y + r}, geom.Point{X: c.X - r, Y: c.Y + k}, geom.Point{X: c.X - r, Y: c.Y})
	p.CubeTo(geom.Point{X: c.X - r, Y: c.Y - k}, geom.Point{X: c.X - k, Y: c.Y - r}, geom.Point{X: c.X, Y: c.Y - r})
	p.CubeTo(geom.Point{X: c.X + k, Y: c.Y - r}, geom.Point{X: c.X + r, Y: c.Y - k}, geom.Point{X: c.X + r, Y: c.Y})
	p.Close()
}

// Line adds a segment of the given width as a filled quad
func (p *Path) Line(a, b geom.Point, width float64) {
	d := b.Sub(a)
	l := math.Hypot(d.X, d.Y)
	if l == 0 || width <= 0 {
		return
	}
	n := geom.Point{X: -d.Y / l * width / 2, Y: d.X / l * width / 2}
	p.Polygon([]geom.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
}

// RectOutline adds the border of a rectangle as a ring of the given width,
// centered on the rectangle's edges.
func (p *Path) RectOutline(min, max geom.Point, width float64) {
	h := width / 2
	outerMin := geom.Point{X: min.X - h, Y: min.Y - h}
	outerMax := geom.Point{X: max.X + h, Y: max.Y + h}
	p.Rect(outerMin, outerMax)

	innerMin := geom.Point{X: min.X + h, Y: min.Y + h}
	innerMax := geom.Point{X: max.X - h, Y: max.Y - h}
	if innerMax.X <= innerMin.X || innerMax.Y <= innerMin.Y {
		return
	}
	// counter-clockwise inner ring cuts the hole
	p.ring([]geom.Point{innerMin, {X: innerMin.X, Y: innerMax.Y}, innerMax, {X: innerMax.X, Y: innerMin.Y}})
}

// Empty reports whether nothing has been added
func (p *Path) Empty() bool {
	return p.empty
}

// coverage rasterizes the path into an alpha mask over r, which must lie
// inside the path's bounding box intersected with the target.
func (p *Path) coverage(r image.Rectangle) *image.Alpha {
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	pt := func(q geom.Point) (float32, float32) {
		return float32(q.X - ox), float32(q.Y - oy)
	}

	for _, op := range p.ops {
		switch op.kind {
		case opMove:
			z.MoveTo(pt(op.pts[0]))
		case opLine:
			z.LineTo(pt(op.pts[0]))
		case opCube:
			x1, y1 := pt(op.pts[0])
			x2, y2 := pt(op.pts[1])
			x3, y3 := pt(op.pts[2])
			z.CubeTo(x1, y1, x2, y2, x3, y3)
		case opClose:
			z.ClosePath()
		}
	}

	mask := image.NewAlpha(image.Rect(0, 0, r.Dx(), r.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// FillPath fills the path with c using the given compositing mode
func (b *Buffer) FillPath(p *Path, c color.NRGBA, mode Mode) {
	if p == nil || p.Empty() {
		return
	}
	r := RectFor(p.min, p.max).Intersect(b.img.Rect)
	if r.Empty() {
		return
	}

	mask := p.coverage(r)
	src := premul(c)
	for y := 0; y < r.Dy(); y++ {
		mi := y * mask.Stride
		di := b.img.PixOffset(r.Min.X, r.Min.Y+y)
		for x := 0; x < r.Dx(); x++ {
			if a := mask.Pix[mi+x]; a != 0 {
				blendPixel(mode, b.img.Pix[di:di+4:di+4], src, float64(a)/255)
			}
			di += 4
		}
	}
}

// FillPolygon is a shorthand for filling one polygon
func (b *Buffer) FillPolygon(points []geom.Point, c color.NRGBA, mode Mode) {
	p := NewPath()
	p.Polygon(points)
	b.FillPath(p, c, mode)
}

// FillCircle is a shorthand for filling one circle
func (b *Buffer) FillCircle(center geom.Point, r float64, c color.NRGBA, mode Mode) {
	p := NewPath()
	p.Circle(center, r)
	b.FillPath(p, c, mode)
}

// StrokeLine draws a straight line of the given width
func (b *Buffer) StrokeLine(a, c geom.Point, width float64, col color.NRGBA, mode Mode) {
	p := NewPath()
	p.Line(a, c, width)
	b.FillPath(p, col, mode)
}
