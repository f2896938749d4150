// Package config handles tabletop configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all tabletop settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	View     ViewConfig     `yaml:"view"`
	Grid     GridConfig     `yaml:"grid"`
	Lighting LightingConfig `yaml:"lighting"`
	Fog      FogConfig      `yaml:"fog"`
	Session  SessionConfig  `yaml:"session"`
	Map      MapConfig      `yaml:"map"`
	Logging  LoggingConfig  `yaml:"logging"`
	Debug    bool           `yaml:"debug"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
}

// ViewConfig holds pan and zoom limits.
type ViewConfig struct {
	ZoomMin       float64 `yaml:"zoom_min"`
	ZoomMax       float64 `yaml:"zoom_max"`
	ZoomStep      float64 `yaml:"zoom_step"`
	PanOverscroll float64 `yaml:"pan_overscroll"` // fraction of the map allowed past the top/left edge
}

// GridConfig holds the grid cell size and appearance.
type GridConfig struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
	OffsetX    float64 `yaml:"offset_x"`
	OffsetY    float64 `yaml:"offset_y"`
	Color      string  `yaml:"color"`
}

// LightingConfig holds shadow and compositing tuning.
type LightingConfig struct {
	Enabled       bool    `yaml:"enabled"`
	ShadowSamples int     `yaml:"shadow_samples"`
	ShadowBias    float64 `yaml:"shadow_bias"`
	Overshoot     float64 `yaml:"overshoot"`
	Workers       int     `yaml:"workers"`
}

// FogConfig holds fog-of-war settings.
type FogConfig struct {
	Enabled         bool    `yaml:"enabled"`
	Policy          string  `yaml:"policy"` // "live" or "explored"
	Opacity         float64 `yaml:"opacity"`
	EdgeAlpha       float64 `yaml:"edge_alpha"`
	ConnectExplored bool    `yaml:"connect_explored"`
}

// SessionConfig identifies this client on the unit sync channel.
type SessionConfig struct {
	ChannelID string `yaml:"channel_id"`
	AuthorID  string `yaml:"author_id"`
}

// MapConfig holds the map files to open at startup.
type MapConfig struct {
	Path    string `yaml:"path"`
	Terrain string `yaml:"terrain"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:     1280,
			Height:    800,
			Title:     "Tabletop",
			Resizable: true,
		},
		View: ViewConfig{
			ZoomMin:       0.125,
			ZoomMax:       4,
			ZoomStep:      0.25,
			PanOverscroll: 0.25,
		},
		Grid: GridConfig{
			CellWidth:  50,
			CellHeight: 50,
			Color:      "#989898",
		},
		Lighting: LightingConfig{
			Enabled:       true,
			ShadowSamples: 100,
			ShadowBias:    0.15,
			Overshoot:     1.05,
			Workers:       4,
		},
		Fog: FogConfig{
			Enabled:         true,
			Policy:          "live",
			Opacity:         1.0,
			EdgeAlpha:       0.9,
			ConnectExplored: true,
		},
		Map: MapConfig{
			Path: "data/maps/example.json",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every setting that cannot be used.
func (c *Config) Validate() error {
	var errs []error
	if c.View.ZoomMin <= 0 || c.View.ZoomMax < c.View.ZoomMin {
		errs = append(errs, fmt.Errorf("invalid zoom range [%g, %g]", c.View.ZoomMin, c.View.ZoomMax))
	}
	if c.View.ZoomStep <= 0 {
		errs = append(errs, fmt.Errorf("invalid zoom step %g", c.View.ZoomStep))
	}
	if c.Grid.CellWidth <= 0 || c.Grid.CellHeight <= 0 {
		errs = append(errs, fmt.Errorf("invalid grid cell size %gx%g", c.Grid.CellWidth, c.Grid.CellHeight))
	}
	if c.Lighting.ShadowSamples < 2 {
		errs = append(errs, fmt.Errorf("shadow_samples must be at least 2, got %d", c.Lighting.ShadowSamples))
	}
	if c.Lighting.Overshoot < 1 {
		errs = append(errs, fmt.Errorf("overshoot must be >= 1, got %g", c.Lighting.Overshoot))
	}
	switch c.Fog.Policy {
	case "live", "explored":
	default:
		errs = append(errs, fmt.Errorf("unknown fog policy %q", c.Fog.Policy))
	}
	return errors.Join(errs...)
}
