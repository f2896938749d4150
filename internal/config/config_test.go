package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.View.ZoomMin != 0.125 || cfg.View.ZoomMax != 4 {
		t.Errorf("expected zoom range [0.125, 4], got [%g, %g]", cfg.View.ZoomMin, cfg.View.ZoomMax)
	}
	if cfg.View.ZoomStep != 0.25 {
		t.Errorf("expected zoom step 0.25, got %g", cfg.View.ZoomStep)
	}
	if cfg.Grid.CellWidth != 50 || cfg.Grid.CellHeight != 50 {
		t.Errorf("expected 50x50 cells, got %gx%g", cfg.Grid.CellWidth, cfg.Grid.CellHeight)
	}
	if cfg.Lighting.ShadowSamples != 100 {
		t.Errorf("expected 100 shadow samples, got %d", cfg.Lighting.ShadowSamples)
	}
	if cfg.Lighting.ShadowBias != 0.15 {
		t.Errorf("expected shadow bias 0.15, got %g", cfg.Lighting.ShadowBias)
	}
	if cfg.Fog.Policy != "live" {
		t.Errorf("expected live fog policy by default, got %s", cfg.Fog.Policy)
	}
	if cfg.Debug {
		t.Error("expected debug to be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
view:
  zoom_max: 3
grid:
  cell_width: 70
  cell_height: 70
  color: "#ff0000"
lighting:
  shadow_samples: 48
fog:
  policy: explored
session:
  channel_id: "table-1"
  author_id: "gm"
debug: true
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.View.ZoomMax != 3 {
		t.Errorf("expected zoom max 3, got %g", cfg.View.ZoomMax)
	}
	if cfg.View.ZoomMin != 0.125 {
		t.Errorf("unset zoom min should keep default, got %g", cfg.View.ZoomMin)
	}
	if cfg.Grid.CellWidth != 70 || cfg.Grid.Color != "#ff0000" {
		t.Errorf("grid not loaded: %+v", cfg.Grid)
	}
	if cfg.Lighting.ShadowSamples != 48 {
		t.Errorf("expected 48 samples, got %d", cfg.Lighting.ShadowSamples)
	}
	if cfg.Lighting.ShadowBias != 0.15 {
		t.Errorf("unset bias should keep default, got %g", cfg.Lighting.ShadowBias)
	}
	if cfg.Fog.Policy != "explored" {
		t.Errorf("expected explored policy, got %s", cfg.Fog.Policy)
	}
	if cfg.Session.ChannelID != "table-1" || cfg.Session.AuthorID != "gm" {
		t.Errorf("session not loaded: %+v", cfg.Session)
	}
	if !cfg.Debug {
		t.Error("expected debug to be true")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := os.WriteFile(configPath, []byte("grid:\n  cell_width: [not a number\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.View.ZoomMin = 5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when zoom min exceeds zoom max")
	}

	cfg = Default()
	cfg.Lighting.ShadowSamples = 1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for a single shadow sample")
	}

	cfg = Default()
	cfg.Fog.Policy = "merged"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown fog policy")
	}

	cfg = Default()
	cfg.Grid.CellHeight = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero cell height")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Grid.CellWidth = 64
	cfg.Fog.Policy = "explored"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Grid.CellWidth != 64 || loaded.Fog.Policy != "explored" {
		t.Errorf("saved values not reloaded: %+v %+v", loaded.Grid, loaded.Fog)
	}
}
