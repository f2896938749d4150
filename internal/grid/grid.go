// Package grid holds the rows×columns cell matrix laid over the map.
package grid

import (
	"image/color"

	"chosenoffset.com/tabletop/internal/core/geom"
	"chosenoffset.com/tabletop/internal/render/raster"
	"chosenoffset.com/tabletop/internal/view"
)

// Cell is one grid square
type Cell struct {
	Row      int
	Column   int
	Selected bool // debug highlight only
}

// Position returns the cell's grid address
func (c *Cell) Position() geom.GridPosition {
	return geom.GridPosition{Row: c.Row, Column: c.Column}
}

// Toggle flips the debug selection
func (c *Cell) Toggle() {
	c.Selected = !c.Selected
}

// Grid is the cell matrix. Units refer to cells by row and column, so
// repopulating never orphans them while they stay in range.
type Grid struct {
	cells   [][]Cell
	rows    int
	columns int
}

// New returns an empty grid
func New() *Grid {
	return &Grid{}
}

// Populate replaces every cell, discarding per-cell state
func (g *Grid) Populate(columns, rows int) {
	if columns < 0 {
		columns = 0
	}
	if rows < 0 {
		rows = 0
	}
	g.rows, g.columns = rows, columns
	g.cells = make([][]Cell, rows)
	for r := range g.cells {
		g.cells[r] = make([]Cell, columns)
		for c := range g.cells[r] {
			g.cells[r][c] = Cell{Row: r, Column: c}
		}
	}
}

// Rows returns the number of rows
func (g *Grid) Rows() int {
	return g.rows
}

// Columns returns the number of columns
func (g *Grid) Columns() int {
	return g.columns
}

// InBounds reports whether pos addresses a populated cell
func (g *Grid) InBounds(pos geom.GridPosition) bool {
	return pos.Row >= 0 && pos.Row < g.rows && pos.Column >= 0 && pos.Column < g.columns
}

// Cell returns the cell at pos
func (g *Grid) Cell(pos geom.GridPosition) (*Cell, bool) {
	if !g.InBounds(pos) {
		return nil, false
	}
	return &g.cells[pos.Row][pos.Column], true
}

// Selected returns every debug-selected cell
func (g *Grid) Selected() []*Cell {
	var out []*Cell
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c].Selected {
				out = append(out, &g.cells[r][c])
			}
		}
	}
	return out
}

// CellRect returns a cell's world-pixel corners
func CellRect(tr *view.Transform, pos geom.GridPosition) (geom.Point, geom.Point) {
	min := tr.CellToWorld(pos)
	return min, geom.Point{X: min.X + tr.GridSize.Width, Y: min.Y + tr.GridSize.Height}
}

// Draw strokes every cell outline onto buf. Shared edges are drawn once so
// translucent grid colors stay even.
func (g *Grid) Draw(buf *raster.Buffer, tr *view.Transform, c color.NRGBA) {
	if buf == nil || g.rows == 0 || g.columns == 0 {
		return
	}
	width := view.LineWidth(tr.Zoom)

	topLeft := tr.CellToWorld(geom.GridPosition{})
	bottomRight := tr.CellToWorld(geom.GridPosition{Row: g.rows, Column: g.columns})

	p := raster.NewPath()
	h := width / 2
	for r := 0; r <= g.rows; r++ {
		y := tr.CellToWorld(geom.GridPosition{Row: r}).Y
		p.Rect(geom.Point{X: topLeft.X - h, Y: y - h}, geom.Point{X: bottomRight.X + h, Y: y + h})
	}
	for col := 0; col <= g.columns; col++ {
		x := tr.CellToWorld(geom.GridPosition{Column: col}).X
		p.Rect(geom.Point{X: x - h, Y: topLeft.Y - h}, geom.Point{X: x + h, Y: bottomRight.Y + h})
	}
	buf.FillPath(p, c, raster.SourceOver)
}

// DrawSelection fills debug-selected cells. It is drawn on a different
// surface from the grid lines.
func (g *Grid) DrawSelection(buf *raster.Buffer, tr *view.Transform, c color.NRGBA) {
	if buf == nil {
		return
	}
	p := raster.NewPath()
	for _, cell := range g.Selected() {
		min, max := CellRect(tr, cell.Position())
		p.Rect(min, max)
	}
	buf.FillPath(p, c, raster.SourceOver)
}
