// Package shadows builds the occluded regions cast by walls around a point
// light. Each intersecting wall yields a polygon that is filled black on the
// light's shadow mask.
package shadows

import (
	"math"

	"chosenoffset.com/tabletop/internal/core/geom"
)

// Intersects reports whether any point of the finite wall lies within r of center
func Intersects(wall geom.Segment, center geom.Point, r float64) bool {
	nearest := geom.ClosestPointOnSegment(wall, center)
	return geom.Distance(nearest, center) <= r
}

// Clip returns the part of the wall inside the circle. The crossing points of
// the circle with the wall's line are clamped to the wall's own endpoints.
func Clip(wall geom.Segment, center geom.Point, r float64) (geom.Segment, bool) {
	if !Intersects(wall, center, r) {
		return geom.Segment{}, false
	}

	dx := wall.B.X - wall.A.X
	dy := wall.B.Y - wall.A.Y
	a := dx*dx + dy*dy
	if a == 0 {
		return wall, true
	}

	fx := wall.A.X - center.X
	fy := wall.A.Y - center.Y
	b := 2 * (fx*dx + fy*dy)
	c := fx*fx + fy*fy - r*r

	disc := b*b - 4*a*c
	if disc < 0 {
		// Numerically tangent; keep the touching point.
		disc = 0
	}
	sq := math.Sqrt(disc)
	t1 := geom.Clamp((-b-sq)/(2*a), 0, 1)
	t2 := geom.Clamp((-b+sq)/(2*a), 0, 1)

	return geom.Segment{A: wall.Lerp(t1), B: wall.Lerp(t2)}, true
}

// biasedParam pulls a uniform parameter toward the midpoint.
// q(t) is flat at 0.5 and fixes 0 and 1, so endpoints stay exact.
func biasedParam(t, bias float64) float64 {
	d := 0.5 - t
	q := 0.5 - 2*d*math.Abs(d)
	return (1-bias)*t + bias*q
}

// Polygon builds the shadow fan behind a clipped wall
func Polygon(center geom.Point, r float64, clipped geom.Segment, opts Options) []geom.Point {
	opts = opts.normalized()
	length := r * opts.Overshoot

	poly := make([]geom.Point, 0, opts.Samples+2)
	poly = append(poly, clipped.A)
	for i := 0; i < opts.Samples; i++ {
		t := biasedParam(float64(i)/float64(opts.Samples-1), opts.Bias)
		p := clipped.Lerp(t)

		dir := p.Sub(center)
		dist := math.Hypot(dir.X, dir.Y)
		if dist == 0 {
			poly = append(poly, p)
			continue
		}
		poly = append(poly, center.Add(dir.Scale(length/dist)))
	}
	poly = append(poly, clipped.B)

	return poly
}

// Build returns one shadow per wall that intersects the light circle.
// Walls outside the radius are skipped without building anything.
func Build(center geom.Point, r float64, walls []geom.Segment, opts Options) []Shadow {
	if r <= 0 {
		return nil
	}

	var out []Shadow
	for _, wall := range walls {
		clipped, ok := Clip(wall, center, r)
		if !ok {
			continue
		}
		out = append(out, Shadow{
			Wall:    wall,
			Clipped: clipped,
			Polygon: Polygon(center, r, clipped, opts),
		})
	}
	return out
}
