package mapdata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"chosenoffset.com/tabletop/internal/core/geom"
)

const sampleMap = `{
	"name": "crypt",
	"size": {"width": 500, "height": 500},
	"cellSize": {"width": 50, "height": 50},
	"offset": {"x": 0, "y": 0},
	"gridColor": "#989898",
	"gridAlpha": 1,
	"lights": [
		{"position": {"x": 50, "y": 250}, "bright": 200, "dim": 150, "tintColor": "#ff9900", "tintAlpha": 0.5}
	],
	"walls": [
		{"start": {"x": 100, "y": 0}, "end": {"x": 100, "y": 500}, "blocksMovement": true, "blocksVision": true},
		{"start": {"x": 0, "y": 400}, "end": {"x": 100, "y": 400}, "blocksMovement": true, "blocksVision": false}
	],
	"doors": [
		{"start": {"x": 200, "y": 0}, "end": {"x": 200, "y": 50}, "blocksVision": true, "isOpen": false, "isLocked": false},
		{"start": {"x": 300, "y": 0}, "end": {"x": 300, "y": 50}, "blocksVision": true, "isOpen": true, "isLocked": false},
		{"start": {"x": 400, "y": 0}, "end": {"x": 400, "y": 50}, "blocksVision": true, "isOpen": false, "isLocked": true}
	]
}`

func loadSample(t *testing.T) *MapData {
	t.Helper()
	md, err := Parse([]byte(sampleMap))
	if err != nil {
		t.Fatalf("Failed to parse sample map: %v", err)
	}
	return md
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crypt.json")
	if err := os.WriteFile(path, []byte(sampleMap), 0644); err != nil {
		t.Fatalf("Failed to write map: %v", err)
	}

	md, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load map: %v", err)
	}
	if md.Name != "crypt" {
		t.Errorf("Expected name 'crypt', got '%s'", md.Name)
	}
	if len(md.Walls) != 2 || len(md.Doors) != 3 || len(md.Lights) != 1 {
		t.Errorf("Unexpected feature counts: %d walls, %d doors, %d lights", len(md.Walls), len(md.Doors), len(md.Lights))
	}
	if md.Lights[0].Position != (geom.Point{X: 50, Y: 250}) {
		t.Errorf("Unexpected light position %v", md.Lights[0].Position)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"zero size", `{"size": {"width": 0, "height": 100}, "cellSize": {"width": 50, "height": 50}}`},
		{"zero cell", `{"size": {"width": 100, "height": 100}, "cellSize": {"width": 50, "height": 0}}`},
		{"negative radius", `{"size": {"width": 100, "height": 100}, "cellSize": {"width": 50, "height": 50},
			"lights": [{"position": {"x": 0, "y": 0}, "bright": -1, "dim": 0}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.json))
			if !errors.Is(err, ErrInvalidMap) {
				t.Errorf("Expected ErrInvalidMap, got %v", err)
			}
		})
	}

	// No walls and no lights is a valid, unlit map
	if _, err := Parse([]byte(`{"size": {"width": 100, "height": 100}, "cellSize": {"width": 50, "height": 50}}`)); err != nil {
		t.Errorf("Expected featureless map to validate, got %v", err)
	}
}

func TestLightRadius(t *testing.T) {
	if r := (Light{Bright: 200, Dim: 150}).Radius(); r != 200 {
		t.Errorf("Expected radius 200, got %f", r)
	}
	if r := (Light{Bright: 20, Dim: 150}).Radius(); r != 150 {
		t.Errorf("Expected radius 150, got %f", r)
	}
}

func TestOccluders(t *testing.T) {
	md := loadSample(t)
	occ := md.Occluders()

	// one vision wall + closed door + locked closed door
	if len(occ) != 3 {
		t.Fatalf("Expected 3 occluders, got %d", len(occ))
	}
	if occ[0] != md.Walls[0].Segment() {
		t.Errorf("Expected first occluder to be the vision wall, got %v", occ[0])
	}
	for _, s := range occ {
		if s == md.Doors[1].Segment() {
			t.Error("Open door should not occlude")
		}
	}
}

func TestToggleDoor(t *testing.T) {
	md := loadSample(t)

	if err := md.ToggleDoor(0); err != nil {
		t.Fatalf("Failed to toggle door: %v", err)
	}
	if !md.Doors[0].IsOpen {
		t.Error("Expected door 0 to be open")
	}
	if n := len(md.Occluders()); n != 2 {
		t.Errorf("Expected 2 occluders after opening a door, got %d", n)
	}

	if err := md.ToggleDoor(2); !errors.Is(err, ErrDoorLocked) {
		t.Errorf("Expected ErrDoorLocked, got %v", err)
	}
	if err := md.ToggleDoor(9); err == nil {
		t.Error("Expected error for out of range door")
	}
	// Setting a locked door to its current state is allowed
	if err := md.SetDoorOpen(2, false); err != nil {
		t.Errorf("Expected no-op on locked door, got %v", err)
	}
}

func TestGridExtent(t *testing.T) {
	md := &MapData{Size: geom.Size{Width: 520, Height: 480}}
	cols, rows := md.GridExtent(geom.Size{Width: 50, Height: 50})
	if cols != 11 || rows != 10 {
		t.Errorf("Expected 11x10 grid, got %dx%d", cols, rows)
	}

	var nilMap *MapData
	if c, r := nilMap.GridExtent(geom.Size{Width: 50, Height: 50}); c != 0 || r != 0 {
		t.Errorf("Expected empty extent for nil map, got %dx%d", c, r)
	}
}

func TestProject(t *testing.T) {
	md := loadSample(t)
	out := md.Project(geom.Size{Width: 100, Height: 100}, geom.Point{X: 10, Y: 20})

	if out.Walls[0].Start != (geom.Point{X: 210, Y: 20}) {
		t.Errorf("Unexpected projected wall start %v", out.Walls[0].Start)
	}
	if out.Lights[0].Position != (geom.Point{X: 110, Y: 520}) {
		t.Errorf("Unexpected projected light %v", out.Lights[0].Position)
	}
	if out.Lights[0].Bright != 400 {
		t.Errorf("Expected bright radius doubled to 400, got %f", out.Lights[0].Bright)
	}
	if out.CellSize.Width != 100 || out.Offset.X != 10 {
		t.Errorf("Projected map should carry new grid: %v %v", out.CellSize, out.Offset)
	}

	// Source map is untouched
	if md.Walls[0].Start != (geom.Point{X: 100, Y: 0}) {
		t.Errorf("Project mutated the source map: %v", md.Walls[0].Start)
	}

	same := md.Project(md.CellSize, md.Offset)
	if same.Lights[0] != md.Lights[0] {
		t.Errorf("Identity projection changed light: %v", same.Lights[0])
	}
}

func TestLoadExampleMap(t *testing.T) {
	md, err := Load(filepath.Join("..", "..", "..", "data", "maps", "example.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(md.Walls) == 0 || len(md.Doors) == 0 || len(md.Lights) == 0 {
		t.Errorf("Expected walls, doors and lights, got %d/%d/%d", len(md.Walls), len(md.Doors), len(md.Lights))
	}
	for i, l := range md.Lights {
		if l.TintColor == "" {
			continue
		}
		if _, err := ParseHexColor(l.TintColor); err != nil {
			t.Errorf("Light %d tint: %v", i, err)
		}
	}
	if err := md.ToggleDoor(1); !errors.Is(err, ErrDoorLocked) {
		t.Errorf("Expected the second door locked, got %v", err)
	}
}
