package view

import (
	"testing"

	"chosenoffset.com/tabletop/internal/core/geom"
)

func newTestTransform() *Transform {
	return New(geom.Size{Width: 50, Height: 50}, DefaultLimits())
}

func TestCellToWorld(t *testing.T) {
	tr := newTestTransform()
	tr.Offset = geom.Point{X: 7, Y: 3}

	got := tr.CellToWorld(geom.GridPosition{Row: 2, Column: 4})
	if got != (geom.Point{X: 207, Y: 103}) {
		t.Errorf("Expected (207, 103), got %v", got)
	}
	if c := tr.CellCenter(geom.GridPosition{Row: 0, Column: 0}); c != (geom.Point{X: 32, Y: 28}) {
		t.Errorf("Expected center (32, 28), got %v", c)
	}
}

func TestCoordinateRoundTrip(t *testing.T) {
	vp := Viewport{Size: geom.Size{Width: 100000, Height: 100000}}
	zooms := []float64{0.125, 0.375, 1, 1.75, 4}
	pans := []geom.Point{{X: 0, Y: 0}, {X: 33.3, Y: 12.5}, {X: 125, Y: 80}}
	offsets := []geom.Point{{X: 0, Y: 0}, {X: 12, Y: 7.5}}

	for _, z := range zooms {
		for _, pan := range pans {
			for _, off := range offsets {
				tr := newTestTransform()
				tr.Zoom = z
				tr.Position = pan
				tr.Offset = off

				for row := 0; row < 10; row++ {
					for col := 0; col < 10; col++ {
						pos := geom.GridPosition{Row: row, Column: col}
						screen := tr.WorldToScreen(tr.CellToWorld(pos))
						got, ok := tr.ScreenToCell(screen, vp)
						if !ok || got != pos {
							t.Fatalf("zoom %g pan %v offset %v: round trip of %v gave %v (ok=%v)", z, pan, off, pos, got, ok)
						}
					}
				}
			}
		}
	}
}

func TestScreenToCellOutsideCanvas(t *testing.T) {
	tr := newTestTransform()
	vp := Viewport{Origin: geom.Point{X: 10, Y: 10}, Size: geom.Size{Width: 500, Height: 500}}

	tests := []struct {
		name   string
		screen geom.Point
	}{
		{"left of canvas", geom.Point{X: 5, Y: 100}},
		{"above canvas", geom.Point{X: 100, Y: 9}},
		{"right edge is exclusive", geom.Point{X: 510, Y: 100}},
		{"below canvas", geom.Point{X: 100, Y: 600}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tr.ScreenToCell(tt.screen, vp); ok {
				t.Errorf("Expected no cell for %v", tt.screen)
			}
		})
	}

	got, ok := tr.ScreenToCell(geom.Point{X: 75, Y: 135}, vp)
	if !ok || got != (geom.GridPosition{Row: 2, Column: 1}) {
		t.Errorf("Expected cell (2,1), got %v ok=%v", got, ok)
	}
}

func TestScreenToCellLeftOfGrid(t *testing.T) {
	tr := newTestTransform()
	tr.Position = geom.Point{X: 100, Y: 0}
	vp := Viewport{Size: geom.Size{Width: 500, Height: 500}}

	// Canvas point 50 maps to world -50, left of the grid origin
	if _, ok := tr.ScreenToCell(geom.Point{X: 50, Y: 10}, vp); ok {
		t.Error("Expected no cell for world point left of the grid")
	}
}

func TestZoomClampIdempotent(t *testing.T) {
	tr := newTestTransform()
	for tr.ZoomIn() {
	}
	if tr.Zoom != 4 {
		t.Fatalf("Expected zoom to stop at 4, got %g", tr.Zoom)
	}
	for i := 0; i < 5; i++ {
		if tr.ZoomIn() {
			t.Error("ZoomIn at max reported a change")
		}
		if tr.Zoom != 4 {
			t.Errorf("Zoom moved past max: %g", tr.Zoom)
		}
	}

	for tr.ZoomOut() {
	}
	if tr.Zoom != 0.125 {
		t.Errorf("Expected zoom to stop at 0.125, got %g", tr.Zoom)
	}
	if tr.ZoomOut() {
		t.Error("ZoomOut at min reported a change")
	}
}

func TestZoomSteps(t *testing.T) {
	tr := newTestTransform()
	if !tr.ZoomIn() || tr.Zoom != 1.25 {
		t.Errorf("Expected zoom 1.25, got %g", tr.Zoom)
	}
	if !tr.ZoomOut() || !tr.ZoomOut() || tr.Zoom != 0.75 {
		t.Errorf("Expected zoom 0.75, got %g", tr.Zoom)
	}
}

func TestLineWidth(t *testing.T) {
	tests := map[float64]float64{
		0.125: 4,
		1:     4,
		2:     2,
		4:     1,
	}
	for zoom, want := range tests {
		if got := LineWidth(zoom); got != want {
			t.Errorf("LineWidth(%g) = %g, want %g", zoom, got, want)
		}
	}
}
