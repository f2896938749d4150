// Package fog renders the fog-of-war overlay: an opaque dark layer with
// soft-edged holes cut around what the units can see or have seen.
package fog

import (
	"image/color"

	"go.uber.org/zap"

	"chosenoffset.com/tabletop/internal/core/geom"
	"chosenoffset.com/tabletop/internal/logger"
	"chosenoffset.com/tabletop/internal/render/raster"
	"chosenoffset.com/tabletop/internal/unit"
)

// Policy selects which cells are revealed
type Policy int

const (
	// PolicyLiveVision reveals only around the current cell of the selected
	// units, or of every unit when none is selected
	PolicyLiveVision Policy = iota
	// PolicyExploredMemory reveals around every cell a unit has ever visited
	PolicyExploredMemory
)

func (p Policy) String() string {
	switch p {
	case PolicyLiveVision:
		return "live"
	case PolicyExploredMemory:
		return "explored"
	default:
		return "unknown"
	}
}

// ParsePolicy maps the config spelling to a Policy
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "live", "":
		return PolicyLiveVision, true
	case "explored":
		return PolicyExploredMemory, true
	default:
		return PolicyLiveVision, false
	}
}

// Options tune the overlay
type Options struct {
	Policy    Policy
	Opacity   float64 // overlay alpha where nothing is revealed
	EdgeAlpha float64 // fraction of fog cleared at the rim of a vision circle
	Connect   bool    // join consecutive explored cells under PolicyExploredMemory
}

// DefaultOptions returns live-vision fog, fully opaque, clearing 90% at the rim
func DefaultOptions() Options {
	return Options{
		Policy:    PolicyLiveVision,
		Opacity:   1,
		EdgeAlpha: 0.9,
		Connect:   true,
	}
}

// Render builds the overlay for a map of mapSize world pixels whose grid
// starts at offset. Returns nil when there is no map to cover.
func Render(units, selected []*unit.Unit, gridSize geom.Size, offset geom.Point, mapSize geom.Size, opts Options) *raster.Buffer {
	if mapSize.Empty() || gridSize.Empty() {
		return nil
	}

	r := raster.RectFor(geom.Point{}, geom.Point{X: mapSize.Width, Y: mapSize.Height})
	buf := raster.NewSized(r.Dx(), r.Dy())
	buf.Fill(color.NRGBA{A: alpha8(opts.Opacity)})

	stops := []raster.Stop{
		{Offset: 0, Color: color.NRGBA{A: 255}},
		{Offset: 1, Color: color.NRGBA{A: alpha8(opts.EdgeAlpha)}},
	}

	revealed := 0
	switch opts.Policy {
	case PolicyExploredMemory:
		for _, u := range units {
			revealed += revealExplored(buf, u, gridSize, offset, stops, opts)
		}
	default:
		visible := selected
		if len(visible) == 0 {
			visible = units
		}
		for _, u := range visible {
			pos, ok := u.Position()
			if !ok {
				continue
			}
			buf.FillRadialGradient(cellCenter(pos, gridSize, offset), u.VisionPixels(gridSize), stops, raster.DestinationOut)
			revealed++
		}
	}

	logger.Named("fog").Debug("fog rendered",
		zap.Stringer("policy", opts.Policy),
		zap.Int("units", len(units)),
		zap.Int("revealed", revealed))
	return buf
}

func revealExplored(buf *raster.Buffer, u *unit.Unit, gridSize geom.Size, offset geom.Point, stops []raster.Stop, opts Options) int {
	r := u.VisionPixels(gridSize)
	if r <= 0 {
		return 0
	}
	areas := u.ExploredAreas()

	if opts.Connect && len(areas) > 1 {
		path := raster.NewPath()
		for i := 1; i < len(areas); i++ {
			path.Line(cellCenter(areas[i-1], gridSize, offset), cellCenter(areas[i], gridSize, offset), 2*r)
		}
		buf.FillPath(path, color.NRGBA{A: alpha8(opts.EdgeAlpha)}, raster.DestinationOut)
	}

	for _, pos := range areas {
		buf.FillRadialGradient(cellCenter(pos, gridSize, offset), r, stops, raster.DestinationOut)
	}
	return len(areas)
}

func cellCenter(pos geom.GridPosition, gridSize geom.Size, offset geom.Point) geom.Point {
	return geom.Point{
		X: (float64(pos.Column)+0.5)*gridSize.Width + offset.X,
		Y: (float64(pos.Row)+0.5)*gridSize.Height + offset.Y,
	}
}

func alpha8(a float64) uint8 {
	return uint8(geom.Clamp(a, 0, 1)*255 + 0.5)
}
