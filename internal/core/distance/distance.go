// Package distance measures movement on the grid the way tabletop rules
// count it: every second diagonal step costs two squares.
package distance

import (
	"math"

	"chosenoffset.com/tabletop/internal/core/geom"
)

// FeetPerSquare is the default scale of one grid square
const FeetPerSquare = 5

// Distance is the measured cost of one leg
type Distance struct {
	Feet          int
	Squares       int
	DiagonalMoves int
	StraightMoves float64
}

// NumberOfDiagonalMoves returns the diagonal steps between two world points
func NumberOfDiagonalMoves(start, end geom.Point, gridSize geom.Size) int {
	dx := math.Abs(end.X-start.X) / gridSize.Width
	dy := math.Abs(end.Y-start.Y) / gridSize.Height
	return int(math.Round(math.Min(dx, dy)))
}

// Get5eDistance measures one leg. When startDiagonal is false the first
// diagonal step costs two squares and the second costs one; when true the
// order is reversed. Chained legs pass the running diagonal parity.
func Get5eDistance(start, end geom.Point, gridSize geom.Size, feetPerSquare int, startDiagonal bool) Distance {
	dx := math.Abs(end.X-start.X) / gridSize.Width
	dy := math.Abs(end.Y-start.Y) / gridSize.Height

	diagonals := NumberOfDiagonalMoves(start, end, gridSize)
	straight := math.Abs(dx - dy)

	cheap := 1
	if startDiagonal {
		cheap = 0
	}
	movement := 0
	for i := 0; i < diagonals; i++ {
		if i%2 == cheap {
			movement++
		} else {
			movement += 2
		}
	}

	squares := int(math.Round(float64(movement) + straight))
	return Distance{
		Feet:          squares * feetPerSquare,
		Squares:       squares,
		DiagonalMoves: diagonals,
		StraightMoves: straight,
	}
}

// PathDistance totals a polyline of world points, carrying diagonal parity
// from one leg to the next.
func PathDistance(points []geom.Point, gridSize geom.Size, feetPerSquare int) Distance {
	var total Distance
	for i := 1; i < len(points); i++ {
		leg := Get5eDistance(points[i-1], points[i], gridSize, feetPerSquare, total.DiagonalMoves%2 == 0)
		total.Feet += leg.Feet
		total.Squares += leg.Squares
		total.DiagonalMoves += leg.DiagonalMoves
		total.StraightMoves += leg.StraightMoves
	}
	return total
}
