package game

import (
	"image/color"

	"chosenoffset.com/tabletop/internal/config"
	"chosenoffset.com/tabletop/internal/core/geom"
	"chosenoffset.com/tabletop/internal/core/shadows"
	"chosenoffset.com/tabletop/internal/logger"
	"chosenoffset.com/tabletop/internal/render/fog"
	"chosenoffset.com/tabletop/internal/render/lighting"
	"chosenoffset.com/tabletop/internal/view"
	"chosenoffset.com/tabletop/internal/world/mapdata"
)

// Options configures a new State
type Options struct {
	GridSize        geom.Size
	GridOffset      geom.Point
	GridColor       color.NRGBA
	Limits          view.Limits
	LightingEnabled bool
	Lighting        lighting.Options
	FogEnabled      bool
	Fog             fog.Options
	ChannelID       string
	AuthorID        string
	Debug           bool
}

// DefaultOptions returns a 50px grid with lighting and live-vision fog
func DefaultOptions() Options {
	return Options{
		GridSize:        geom.Size{Width: 50, Height: 50},
		GridColor:       color.NRGBA{0x98, 0x98, 0x98, 0xff},
		Limits:          view.DefaultLimits(),
		LightingEnabled: true,
		Lighting:        lighting.DefaultOptions(),
		FogEnabled:      true,
		Fog:             fog.DefaultOptions(),
	}
}

// OptionsFromConfig maps the loaded configuration onto State options
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	opts.GridSize = geom.Size{Width: cfg.Grid.CellWidth, Height: cfg.Grid.CellHeight}
	opts.GridOffset = geom.Point{X: cfg.Grid.OffsetX, Y: cfg.Grid.OffsetY}
	if c, err := mapdata.ParseHexColor(cfg.Grid.Color); err == nil {
		opts.GridColor = c
	} else {
		logger.Sugar.Warnf("Invalid grid color %q, using default: %v", cfg.Grid.Color, err)
	}
	opts.Limits = view.Limits{
		ZoomMin:    cfg.View.ZoomMin,
		ZoomMax:    cfg.View.ZoomMax,
		ZoomStep:   cfg.View.ZoomStep,
		Overscroll: cfg.View.PanOverscroll,
	}

	opts.LightingEnabled = cfg.Lighting.Enabled
	opts.Lighting = lighting.Options{
		Shadows: shadows.Options{
			Samples:   cfg.Lighting.ShadowSamples,
			Bias:      cfg.Lighting.ShadowBias,
			Overshoot: cfg.Lighting.Overshoot,
		},
		Workers:    cfg.Lighting.Workers,
		MergeWalls: true,
		Debug:      cfg.Debug,
	}

	opts.FogEnabled = cfg.Fog.Enabled
	policy, _ := fog.ParsePolicy(cfg.Fog.Policy)
	opts.Fog = fog.Options{
		Policy:    policy,
		Opacity:   cfg.Fog.Opacity,
		EdgeAlpha: cfg.Fog.EdgeAlpha,
		Connect:   cfg.Fog.ConnectExplored,
	}

	opts.ChannelID = cfg.Session.ChannelID
	opts.AuthorID = cfg.Session.AuthorID
	opts.Debug = cfg.Debug
	return opts
}

// Colors used by the surface draw routines
var (
	black          = color.NRGBA{A: 0xff}
	wallColor      = color.NRGBA{0x20, 0x20, 0x20, 0xff}
	doorOpen       = color.NRGBA{0x90, 0xee, 0x90, 0xff} // lightgreen
	doorLocked     = color.NRGBA{0xff, 0x00, 0x00, 0xff}
	doorBlocking   = color.NRGBA{0x00, 0x00, 0x00, 0xff}
	doorSeeThrough = color.NRGBA{0xad, 0xd8, 0xe6, 0xff} // lightblue
	unitColor      = color.NRGBA{0x00, 0xff, 0x00, 0xff}
	selectedColor  = color.NRGBA{0xff, 0xff, 0x00, 0xff}
	healthBack     = color.NRGBA{A: 0xff}
	healthFill     = color.NRGBA{0xff, 0x00, 0x00, 0xff}
	pathColor      = color.NRGBA{0xff, 0xff, 0xff, 0xbf}
	waypointColor  = color.NRGBA{0x00, 0x00, 0xff, 0x80}
	cellHighlight  = color.NRGBA{0xff, 0xff, 0xff, 0x40}
	labelColor     = color.NRGBA{0xff, 0xff, 0xff, 0xff}
)

// wallDebugColors tell walls apart in debug mode
var wallDebugColors = []color.NRGBA{
	{0x00, 0x80, 0x00, 0xff}, // green
	{0x00, 0x00, 0xff, 0xff}, // blue
	{0xff, 0x00, 0x00, 0xff}, // red
	{0xff, 0xff, 0x00, 0xff}, // yellow
	{0x80, 0x00, 0x80, 0xff}, // purple
	{0xff, 0xa5, 0x00, 0xff}, // orange
	{0xff, 0xc0, 0xcb, 0xff}, // pink
}

// previewAlpha is the opacity of a unit being dragged
const previewAlpha = 0.75
