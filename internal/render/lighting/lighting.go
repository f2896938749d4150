// Package lighting composites every map light, with its wall shadows, into a
// single map-sized lighting layer that is multiplied onto the terrain.
package lighting

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"chosenoffset.com/tabletop/internal/core/geom"
	"chosenoffset.com/tabletop/internal/core/shadows"
	"chosenoffset.com/tabletop/internal/logger"
	"chosenoffset.com/tabletop/internal/render/raster"
	"chosenoffset.com/tabletop/internal/world/mapdata"
)

var (
	black = color.NRGBA{A: 0xff}
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// debugColors tell individual shadow polygons apart in debug mode
var debugColors = []color.NRGBA{
	{0x00, 0x80, 0x00, 0xff}, // green
	{0x00, 0x00, 0xff, 0xff}, // blue
	{0xff, 0x00, 0x00, 0xff}, // red
	{0xff, 0xff, 0x00, 0xff}, // yellow
	{0x80, 0x00, 0x80, 0xff}, // purple
	{0xff, 0xa5, 0x00, 0xff}, // orange
	{0xff, 0xc0, 0xcb, 0xff}, // pink
	{0x00, 0x80, 0x80, 0xff}, // teal
	{0xa5, 0x2a, 0x2a, 0xff}, // brown
	{0x80, 0x80, 0x80, 0xff}, // gray
	{0x00, 0xff, 0xff, 0xff}, // cyan
	{0xff, 0x00, 0xff, 0xff}, // magenta
}

// Options controls layer construction
type Options struct {
	Shadows    shadows.Options
	Workers    int  // concurrent light sprites; <1 means one
	MergeWalls bool // join colinear wall pieces before building shadows
	Debug      bool // light markers and per-wall shadow colors
}

// DefaultOptions returns standard shadows and four workers
func DefaultOptions() Options {
	return Options{
		Shadows:    shadows.DefaultOptions(),
		Workers:    4,
		MergeWalls: true,
	}
}

// BuildLayer renders the lighting layer for a map whose grid has been aligned
// to gridSize and offset. It is a pure function of its inputs. A map without
// lights, or with global light enabled, has no layer and yields nil.
func BuildLayer(ctx context.Context, md *mapdata.MapData, gridSize geom.Size, offset geom.Point, opts Options) (*raster.Buffer, error) {
	if md == nil || len(md.Lights) == 0 || md.GlobalLight {
		return nil, nil
	}
	start := time.Now()

	if gridSize != md.CellSize || offset != md.Offset {
		md = md.Project(gridSize, offset)
	}

	bounds := image.Rect(0, 0, int(md.Size.Width), int(md.Size.Height))
	layer := raster.New(bounds)
	layer.Fill(black)

	occluders := md.Occluders()
	if opts.MergeWalls {
		occluders = shadows.MergeColinear(occluders)
	}

	sprites := make([]*raster.Buffer, len(md.Lights))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.Workers))
	for i, light := range md.Lights {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sprites[i] = renderLight(light, occluders, bounds, gridSize, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building lighting layer: %w", err)
	}

	// Accumulate in light order so the result does not depend on scheduling
	for _, sprite := range sprites {
		layer.Composite(sprite, raster.Lighter)
	}

	logger.Named("lighting").Debug("lighting layer rebuilt",
		zap.Int("lights", len(md.Lights)),
		zap.Int("occluders", len(occluders)),
		zap.Duration("took", time.Since(start)))
	return layer, nil
}

// Apply multiplies the lighting layer onto the background
func Apply(dst, layer *raster.Buffer) {
	if dst == nil || layer == nil {
		return
	}
	dst.Composite(layer, raster.Multiply)
}

// renderLight draws one light sprite with its shadows cut out. The sprite only
// covers the light's bounding box.
func renderLight(light mapdata.Light, occluders []geom.Segment, bounds image.Rectangle, gridSize geom.Size, opts Options) *raster.Buffer {
	r := light.Radius()
	if r <= 0 {
		return nil
	}
	pos := light.Position
	ext := r * overshoot(opts)
	rect := raster.RectFor(
		geom.Point{X: pos.X - ext, Y: pos.Y - ext},
		geom.Point{X: pos.X + ext, Y: pos.Y + ext},
	).Intersect(bounds)
	if rect.Empty() {
		return nil
	}

	sprite := raster.New(rect)
	sprite.FillRadialGradient(pos, r, gradientStops(light, white, 1), raster.SourceOver)
	if light.TintAlpha > 0 {
		tint := mapdata.ColorOrBlack(light.TintColor)
		sprite.FillRadialGradient(pos, r, gradientStops(light, tint, light.TintAlpha), raster.SourceOver)
	}

	if opts.Debug {
		sprite.FillCircle(pos, gridSize.Height/3, black, raster.SourceOver)
	}

	cast := shadows.Build(pos, r, occluders, opts.Shadows)
	if len(cast) == 0 {
		return sprite
	}

	mask := raster.New(rect)
	if opts.Debug {
		for i, s := range cast {
			mask.FillPolygon(s.Polygon, debugColors[i%len(debugColors)], raster.SourceOver)
		}
	} else {
		p := raster.NewPath()
		for _, s := range cast {
			p.Polygon(s.Polygon)
		}
		mask.FillPath(p, black, raster.SourceOver)
	}
	sprite.Composite(mask, raster.Luminosity)

	return sprite
}

// gradientStops returns the falloff: full at the center, half at the bright
// radius, a quarter at 95% and nothing at the rim. Alphas are scaled by k.
func gradientStops(light mapdata.Light, c color.NRGBA, k float64) []raster.Stop {
	brightStop := min(light.Bright/light.Radius(), 0.95)
	at := func(alpha float64) color.NRGBA {
		out := c
		out.A = uint8(float64(c.A)*alpha*k + 0.5)
		return out
	}
	return []raster.Stop{
		{Offset: 0, Color: at(1)},
		{Offset: brightStop, Color: at(0.5)},
		{Offset: 0.95, Color: at(0.25)},
		{Offset: 1, Color: at(0)},
	}
}

func overshoot(opts Options) float64 {
	if opts.Shadows.Overshoot > 1 {
		return opts.Shadows.Overshoot
	}
	return shadows.DefaultOptions().Overshoot
}
