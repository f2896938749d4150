package fog

import (
	"testing"

	"chosenoffset.com/tabletop/internal/core/geom"
	"chosenoffset.com/tabletop/internal/unit"
)

var cell50 = geom.Size{Width: 50, Height: 50}

func placed(row, col int) *unit.Unit {
	pos := geom.GridPosition{Row: row, Column: col}
	return unit.New("scout", "player", 10, &pos)
}

func TestLiveVisionClearsAroundUnit(t *testing.T) {
	u := placed(0, 0)
	buf := Render([]*unit.Unit{u}, nil, cell50, geom.Point{}, geom.Size{Width: 500, Height: 500}, DefaultOptions())
	if buf == nil {
		t.Fatal("Expected a fog buffer")
	}

	if a := buf.RGBAAt(25, 25).A; a != 0 {
		t.Errorf("Expected cleared fog at the cell center, got alpha %d", a)
	}
	if a := buf.RGBAAt(400, 25).A; a != 255 {
		t.Errorf("Expected opaque fog beyond the vision radius, got alpha %d", a)
	}
	if a := buf.RGBAAt(25, 330).A; a != 255 {
		t.Errorf("Expected opaque fog just outside the vision radius, got alpha %d", a)
	}

	// rim keeps 10% of the fog
	if a := buf.RGBAAt(315, 25).A; a < 20 || a > 32 {
		t.Errorf("Expected ~10%% fog near the rim, got alpha %d", a)
	}
}

func TestLiveVisionPrefersSelection(t *testing.T) {
	a := placed(0, 0)
	b := placed(0, 9)
	a.VisionRadius = 1
	b.VisionRadius = 1
	mapSize := geom.Size{Width: 500, Height: 100}

	buf := Render([]*unit.Unit{a, b}, []*unit.Unit{b}, cell50, geom.Point{}, mapSize, DefaultOptions())
	if buf.RGBAAt(25, 25).A != 255 {
		t.Error("Unselected unit should not reveal while another is selected")
	}
	if buf.RGBAAt(475, 25).A != 0 {
		t.Error("Selected unit should reveal its cell")
	}

	buf = Render([]*unit.Unit{a, b}, nil, cell50, geom.Point{}, mapSize, DefaultOptions())
	if buf.RGBAAt(25, 25).A != 0 || buf.RGBAAt(475, 25).A != 0 {
		t.Error("With nothing selected every unit should reveal")
	}
}

func TestExploredMemoryKeepsHistory(t *testing.T) {
	u := placed(0, 0)
	u.VisionRadius = 1
	u.SetPosition(geom.GridPosition{Row: 0, Column: 8})
	mapSize := geom.Size{Width: 1000, Height: 100}

	live := Render([]*unit.Unit{u}, nil, cell50, geom.Point{}, mapSize, DefaultOptions())
	if live.RGBAAt(25, 25).A != 255 {
		t.Error("Live vision should not reveal the starting cell after moving")
	}

	opts := DefaultOptions()
	opts.Policy = PolicyExploredMemory
	opts.Connect = false
	explored := Render([]*unit.Unit{u}, nil, cell50, geom.Point{}, mapSize, opts)
	if explored.RGBAAt(25, 25).A != 0 {
		t.Error("Explored memory should keep the starting cell revealed")
	}
	if explored.RGBAAt(425, 25).A != 0 {
		t.Error("Explored memory should reveal the current cell")
	}
	if explored.RGBAAt(225, 25).A != 255 {
		t.Error("Unconnected history should leave the gap fogged")
	}

	opts.Connect = true
	connected := Render([]*unit.Unit{u}, nil, cell50, geom.Point{}, mapSize, opts)
	if a := connected.RGBAAt(225, 25).A; a > 32 {
		t.Errorf("Connected history should clear the gap, got alpha %d", a)
	}
	if connected.RGBAAt(225, 90).A != 255 {
		t.Error("Connection should not extend past the vision width")
	}
}

func TestNoUnitsFullyDark(t *testing.T) {
	opts := DefaultOptions()
	opts.Opacity = 0.5
	buf := Render(nil, nil, cell50, geom.Point{}, geom.Size{Width: 100, Height: 100}, opts)
	if a := buf.RGBAAt(50, 50).A; a != 128 {
		t.Errorf("Expected uniform overlay at opacity 0.5, got alpha %d", a)
	}
}

func TestUnplacedUnitIgnored(t *testing.T) {
	u := unit.New("ghost", "npc", 10, nil)
	buf := Render([]*unit.Unit{u}, nil, cell50, geom.Point{}, geom.Size{Width: 100, Height: 100}, DefaultOptions())
	if buf.RGBAAt(25, 25).A != 255 {
		t.Error("Unplaced unit should not reveal anything")
	}
}

func TestNoMapNoFog(t *testing.T) {
	if Render(nil, nil, cell50, geom.Point{}, geom.Size{}, DefaultOptions()) != nil {
		t.Error("Expected nil overlay without a map")
	}
}

func TestGridOffsetShiftsReveal(t *testing.T) {
	u := placed(0, 0)
	u.VisionRadius = 1
	buf := Render([]*unit.Unit{u}, nil, cell50, geom.Point{X: 100, Y: 0}, geom.Size{Width: 300, Height: 100}, DefaultOptions())
	if buf.RGBAAt(125, 25).A != 0 {
		t.Error("Expected reveal at the offset cell center")
	}
	if buf.RGBAAt(25, 25).A != 255 {
		t.Error("Expected fog left of the offset grid")
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
		ok   bool
	}{
		{"live", PolicyLiveVision, true},
		{"explored", PolicyExploredMemory, true},
		{"", PolicyLiveVision, true},
		{"merged", PolicyLiveVision, false},
	}
	for _, tt := range tests {
		got, ok := ParsePolicy(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePolicy(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
