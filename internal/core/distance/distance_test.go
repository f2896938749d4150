package distance

import (
	"testing"

	"chosenoffset.com/tabletop/internal/core/geom"
)

var grid5 = geom.Size{Width: 5, Height: 5}

func TestGet5eDistance(t *testing.T) {
	tests := []struct {
		name      string
		start     geom.Point
		end       geom.Point
		feet      int
		squares   int
		diagonals int
		straight  float64
	}{
		{"same point", geom.Point{X: 0, Y: 0}, geom.Point{X: 0, Y: 0}, 0, 0, 0, 0},
		{"single straight", geom.Point{X: 0, Y: 0}, geom.Point{X: 5, Y: 0}, 5, 1, 0, 1},
		{"single diagonal", geom.Point{X: 0, Y: 0}, geom.Point{X: 5, Y: 5}, 10, 2, 1, 0},
		{"two diagonals", geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 10}, 15, 3, 2, 0},
		{"mixed", geom.Point{X: 0, Y: 0}, geom.Point{X: 15, Y: 10}, 20, 4, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Get5eDistance(tt.start, tt.end, grid5, FeetPerSquare, false)
			if d.Feet != tt.feet {
				t.Errorf("Expected %d feet, got %d", tt.feet, d.Feet)
			}
			if d.Squares != tt.squares {
				t.Errorf("Expected %d squares, got %d", tt.squares, d.Squares)
			}
			if d.DiagonalMoves != tt.diagonals {
				t.Errorf("Expected %d diagonal moves, got %d", tt.diagonals, d.DiagonalMoves)
			}
			if d.StraightMoves != tt.straight {
				t.Errorf("Expected %f straight moves, got %f", tt.straight, d.StraightMoves)
			}
		})
	}
}

func TestGet5eDistanceStartDiagonal(t *testing.T) {
	d := Get5eDistance(geom.Point{}, geom.Point{X: 5, Y: 5}, grid5, FeetPerSquare, true)
	if d.Squares != 1 || d.Feet != 5 {
		t.Errorf("Expected first diagonal to cost one square, got %+v", d)
	}
}

func TestNumberOfDiagonalMoves(t *testing.T) {
	if n := NumberOfDiagonalMoves(geom.Point{}, geom.Point{X: 150, Y: 100}, geom.Size{Width: 50, Height: 50}); n != 2 {
		t.Errorf("Expected 2 diagonal moves, got %d", n)
	}
}

func TestPathDistanceCarriesParity(t *testing.T) {
	// Two single-diagonal legs cost 1 + 2, same as one two-diagonal leg.
	path := []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 10}}
	d := PathDistance(path, grid5, FeetPerSquare)
	if d.Squares != 3 {
		t.Errorf("Expected 3 squares over two diagonal legs, got %d", d.Squares)
	}
	if d.DiagonalMoves != 2 {
		t.Errorf("Expected 2 diagonal moves, got %d", d.DiagonalMoves)
	}

	if empty := PathDistance(path[:1], grid5, FeetPerSquare); empty.Feet != 0 {
		t.Errorf("Expected single point path to be free, got %+v", empty)
	}
}
