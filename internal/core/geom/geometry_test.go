package geom

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	if d := Distance(Point{0, 0}, Point{3, 4}); d != 5 {
		t.Errorf("Expected distance 5, got %f", d)
	}
	if d := Distance(Point{2, 2}, Point{2, 2}); d != 0 {
		t.Errorf("Expected zero distance, got %f", d)
	}
}

func TestClosestPointOnSegment(t *testing.T) {
	seg := Segment{A: Point{0, 0}, B: Point{10, 0}}

	tests := []struct {
		name string
		p    Point
		want Point
	}{
		{"interior projection", Point{4, 5}, Point{4, 0}},
		{"clamped before start", Point{-3, 2}, Point{0, 0}},
		{"clamped past end", Point{14, -1}, Point{10, 0}},
		{"on segment", Point{7, 0}, Point{7, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClosestPointOnSegment(seg, tt.p)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("ClosestPointOnSegment(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestClosestPointOnDegenerateSegment(t *testing.T) {
	seg := Segment{A: Point{5, 5}, B: Point{5, 5}}
	if got := ClosestPointOnSegment(seg, Point{100, 100}); got != seg.A {
		t.Errorf("Expected endpoint %v for zero-length segment, got %v", seg.A, got)
	}
}

func TestBounds(t *testing.T) {
	lo, hi := Bounds([]Point{{3, -1}, {-2, 4}, {0, 0}})
	if lo != (Point{-2, -1}) || hi != (Point{3, 4}) {
		t.Errorf("Unexpected bounds %v %v", lo, hi)
	}
}
