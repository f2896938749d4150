// Package geom holds the world-space value types shared by the tabletop
// packages: points, sizes, grid positions and wall segments.
package geom

import "math"

// Point represents a 2D point in world or screen space
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p multiplied by k on both axes
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Size is a width/height pair. Used for grid cells, maps and canvases.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether either dimension is non-positive
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// GridPosition addresses one grid cell
type GridPosition struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Segment is a straight wall or door edge
type Segment struct {
	A Point `json:"start"`
	B Point `json:"end"`
}

// Length returns the segment length
func (s Segment) Length() float64 {
	return Distance(s.A, s.B)
}

// Lerp returns the point at parameter t along the segment
func (s Segment) Lerp(t float64) Point {
	return Point{
		X: s.A.X + (s.B.X-s.A.X)*t,
		Y: s.A.Y + (s.B.Y-s.A.Y)*t,
	}
}

// Bounds returns the smallest rectangle containing every point, as min and max corners
func Bounds(points []Point) (Point, Point) {
	if len(points) == 0 {
		return Point{}, Point{}
	}
	lo := Point{X: math.Inf(1), Y: math.Inf(1)}
	hi := Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range points {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	return lo, hi
}
