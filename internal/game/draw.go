package game

import (
	"context"
	"image"
	"image/color"
	"math"

	"go.uber.org/zap"

	"chosenoffset.com/tabletop/internal/core/geom"
	"chosenoffset.com/tabletop/internal/render/fog"
	"chosenoffset.com/tabletop/internal/render/lighting"
	"chosenoffset.com/tabletop/internal/render/raster"
	"chosenoffset.com/tabletop/internal/unit"
	"chosenoffset.com/tabletop/internal/view"
	"chosenoffset.com/tabletop/internal/world/mapdata"
)

// surface returns buf if it still covers the map, otherwise a new buffer
func surface(buf *raster.Buffer, size geom.Size) *raster.Buffer {
	r := raster.RectFor(geom.Point{}, geom.Point{X: size.Width, Y: size.Height})
	if buf != nil && buf.Bounds() == r {
		return buf
	}
	return raster.NewSized(r.Dx(), r.Dy())
}

// alignedMap returns the map data re-expressed for the current grid
func (s *State) alignedMap() *mapdata.MapData {
	if s.Map == nil {
		return nil
	}
	tr := s.Transform
	if s.Map.CellSize.Empty() || (tr.GridSize == s.Map.CellSize && tr.Offset == s.Map.Offset) {
		return s.Map
	}
	return s.Map.Project(tr.GridSize, tr.Offset)
}

// drawBackground paints terrain, grid, walls, doors, lighting and fog
func (s *State) drawBackground() {
	size := s.MapSize()
	if size.Empty() {
		s.log.Warn("background not ready, nothing to draw")
		return
	}
	buf := surface(s.Background, size)
	s.Background = buf

	buf.Fill(black)
	if s.Terrain != nil {
		buf.DrawImage(s.Terrain, image.Point{})
	}
	s.Grid.Draw(buf, s.Transform, s.GridColor)

	md := s.alignedMap()
	s.drawWalls(buf, md)
	s.drawDoors(buf, md)

	if s.LightingEnabled {
		layer, err := s.Lighting.Layer(context.Background(), s.buildLighting)
		if err != nil {
			s.log.Error("lighting layer failed", zap.Error(err))
		}
		lighting.Apply(buf, layer)
	}

	if s.FogEnabled {
		overlay := fog.Render(s.Units, s.Selected, s.Transform.GridSize, s.Transform.Offset, size, s.FogOptions)
		buf.Composite(overlay, raster.SourceOver)
	}
}

func (s *State) buildLighting(ctx context.Context) (*raster.Buffer, error) {
	opts := s.LightingOptions
	opts.Debug = s.Debug
	return lighting.BuildLayer(ctx, s.Map, s.Transform.GridSize, s.Transform.Offset, opts)
}

func (s *State) drawWalls(buf *raster.Buffer, md *mapdata.MapData) {
	if md == nil || len(md.Walls) == 0 {
		return
	}
	width := view.LineWidth(s.Transform.Zoom)
	if !s.Debug {
		p := raster.NewPath()
		for _, w := range md.Walls {
			p.Line(w.Start, w.End, width)
		}
		buf.FillPath(p, wallColor, raster.SourceOver)
		return
	}
	for i, w := range md.Walls {
		buf.StrokeLine(w.Start, w.End, width, wallDebugColors[i%len(wallDebugColors)], raster.SourceOver)
	}
}

func (s *State) drawDoors(buf *raster.Buffer, md *mapdata.MapData) {
	if md == nil || len(md.Doors) == 0 {
		return
	}
	width := view.LineWidth(s.Transform.Zoom)
	for _, d := range md.Doors {
		buf.StrokeLine(d.Start, d.End, width, doorColor(d), raster.SourceOver)
	}
}

func doorColor(d mapdata.Door) color.NRGBA {
	switch {
	case d.IsOpen:
		return doorOpen
	case d.IsLocked:
		return doorLocked
	case d.BlocksVision:
		return doorBlocking
	default:
		return doorSeeThrough
	}
}

// drawForeground paints units, the selection and any drag preview
func (s *State) drawForeground() {
	size := s.MapSize()
	if size.Empty() {
		s.log.Warn("foreground not ready, nothing to draw")
		return
	}
	buf := surface(s.Foreground, size)
	s.Foreground = buf
	buf.Clear()

	if s.Debug {
		s.Grid.DrawSelection(buf, s.Transform, cellHighlight)
	}
	for _, u := range s.Units {
		s.drawUnit(buf, u)
	}
}

func (s *State) drawUnit(buf *raster.Buffer, u *unit.Unit) {
	pos, ok := u.Position()
	if !ok {
		return
	}
	gs := s.Transform.GridSize
	topLeft := s.Transform.CellToWorld(pos)

	buf.FillPath(unitBody(topLeft, gs), unitColor, raster.SourceOver)
	if s.IsSelected(u) {
		p := raster.NewPath()
		p.RectOutline(topLeft, topLeft.Add(geom.Point{X: gs.Width, Y: gs.Height}), 3)
		buf.FillPath(p, selectedColor, raster.SourceOver)
	}
	drawHealthBar(buf, u, topLeft, gs)

	if u.TempPosition == nil {
		return
	}
	s.drawPath(buf, u)
	preview := unitColor
	preview.A = uint8(math.Round(float64(preview.A) * previewAlpha))
	buf.FillPath(unitBody(*u.TempPosition, gs), preview, raster.SourceOver)
}

func unitBody(topLeft geom.Point, gs geom.Size) *raster.Path {
	p := raster.NewPath()
	p.Rect(topLeft, topLeft.Add(geom.Point{X: gs.Width, Y: gs.Height}))
	return p
}

func drawHealthBar(buf *raster.Buffer, u *unit.Unit, topLeft geom.Point, gs geom.Size) {
	y := topLeft.Y - gs.Height/5
	h := gs.Height / 10
	back := raster.NewPath()
	back.Rect(geom.Point{X: topLeft.X, Y: y}, geom.Point{X: topLeft.X + gs.Width, Y: y + h})
	buf.FillPath(back, healthBack, raster.SourceOver)

	if f := u.HealthFraction(); f > 0 {
		fill := raster.NewPath()
		fill.Rect(geom.Point{X: topLeft.X, Y: y}, geom.Point{X: topLeft.X + gs.Width*f, Y: y + h})
		buf.FillPath(fill, healthFill, raster.SourceOver)
	}
}

// drawPath joins the centers of the drag path's points and marks each stop
func (s *State) drawPath(buf *raster.Buffer, u *unit.Unit) {
	path := u.Path(s.Transform)
	if len(path) < 2 {
		return
	}
	gs := s.Transform.GridSize
	half := geom.Point{X: gs.Width / 2, Y: gs.Height / 2}
	width := math.Min(gs.Width, gs.Height) / 5

	lines := raster.NewPath()
	dots := raster.NewPath()
	for i, p := range path {
		c := p.Add(half)
		if i > 0 {
			lines.Line(path[i-1].Add(half), c, width)
		}
		dots.Circle(c, width)
	}
	buf.FillPath(lines, pathColor, raster.SourceOver)
	buf.FillPath(dots, waypointColor, raster.SourceOver)
}

// drawPlaceholder runs while terrain is loading
func (s *State) drawPlaceholder() {
	if s.Foreground != nil {
		s.Foreground.Clear()
	}
}
