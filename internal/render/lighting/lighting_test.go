package lighting

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"chosenoffset.com/tabletop/internal/core/geom"
	"chosenoffset.com/tabletop/internal/render/raster"
	"chosenoffset.com/tabletop/internal/world/mapdata"
)

var grid50 = geom.Size{Width: 50, Height: 50}

// scenarioMap is a 10x10 grid with one vertical wall at x=100 and a light left of it
func scenarioMap() *mapdata.MapData {
	return &mapdata.MapData{
		Size:     geom.Size{Width: 500, Height: 500},
		CellSize: grid50,
		Walls: []mapdata.Wall{
			{Start: geom.Point{X: 100, Y: 0}, End: geom.Point{X: 100, Y: 500}, BlocksMovement: true, BlocksVision: true},
		},
		Lights: []mapdata.Light{
			{Position: geom.Point{X: 50, Y: 250}, Bright: 200},
		},
	}
}

func brightness(b *raster.Buffer, x, y int) int {
	c := b.RGBAAt(x, y)
	return int(c.R) + int(c.G) + int(c.B)
}

func TestWallCastsShadow(t *testing.T) {
	layer, err := BuildLayer(context.Background(), scenarioMap(), grid50, geom.Point{}, DefaultOptions())
	if err != nil {
		t.Fatalf("BuildLayer failed: %v", err)
	}
	if layer == nil {
		t.Fatal("Expected a lighting layer")
	}
	if layer.Bounds().Dx() != 500 || layer.Bounds().Dy() != 500 {
		t.Errorf("Expected map-sized layer, got %v", layer.Bounds())
	}

	center := brightness(layer, 50, 250)
	beyond := brightness(layer, 300, 250)
	shadowed := brightness(layer, 150, 250) // 100px from the light, behind the wall
	nearSide := brightness(layer, 50, 150)  // 100px from the light, no wall between

	if center == 0 {
		t.Fatal("Expected light center to be lit")
	}
	if beyond >= center {
		t.Errorf("Expected x=300 (%d) darker than light center (%d)", beyond, center)
	}
	if shadowed >= nearSide {
		t.Errorf("Expected shadowed pixel (%d) darker than unshadowed pixel at same radius (%d)", shadowed, nearSide)
	}
	if shadowed != 0 {
		t.Errorf("Expected full shadow behind wall, got %d", shadowed)
	}
	if a := layer.RGBAAt(300, 250).A; a != 255 {
		t.Errorf("Expected opaque layer, got alpha %d", a)
	}
}

func TestOverlappingShadowsStayDark(t *testing.T) {
	tests := []struct {
		name       string
		start, end geom.Point
	}{
		{"same direction", geom.Point{X: 300, Y: 0}, geom.Point{X: 300, Y: 500}},
		{"opposite direction", geom.Point{X: 300, Y: 500}, geom.Point{X: 300, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := scenarioMap()
			md.Lights[0].Bright = 400
			md.Walls = append(md.Walls, mapdata.Wall{Start: tt.start, End: tt.end, BlocksVision: true})
			opts := DefaultOptions()
			opts.MergeWalls = false

			layer, err := BuildLayer(context.Background(), md, grid50, geom.Point{}, opts)
			if err != nil {
				t.Fatalf("BuildLayer failed: %v", err)
			}
			if got := brightness(layer, 350, 250); got != 0 {
				t.Errorf("Expected darkness behind both walls, got %d", got)
			}
			if got := brightness(layer, 200, 250); got != 0 {
				t.Errorf("Expected darkness between the walls, got %d", got)
			}
		})
	}
}

func TestOpenDoorLetsLightThrough(t *testing.T) {
	md := scenarioMap()
	md.Walls = nil
	md.Doors = []mapdata.Door{
		{Start: geom.Point{X: 100, Y: 0}, End: geom.Point{X: 100, Y: 500}, BlocksVision: true},
	}

	closed, _ := BuildLayer(context.Background(), md, grid50, geom.Point{}, DefaultOptions())
	if err := md.ToggleDoor(0); err != nil {
		t.Fatal(err)
	}
	open, _ := BuildLayer(context.Background(), md, grid50, geom.Point{}, DefaultOptions())

	if brightness(closed, 150, 250) != 0 {
		t.Error("Expected closed door to shadow")
	}
	if brightness(open, 150, 250) == 0 {
		t.Error("Expected open door to let light through")
	}
}

func TestOverlappingLightsAdd(t *testing.T) {
	md := scenarioMap()
	md.Walls = nil
	single, _ := BuildLayer(context.Background(), md, grid50, geom.Point{}, DefaultOptions())

	md.Lights = append(md.Lights, mapdata.Light{Position: geom.Point{X: 350, Y: 250}, Bright: 200})
	double, _ := BuildLayer(context.Background(), md, grid50, geom.Point{}, DefaultOptions())

	if brightness(double, 200, 250) <= brightness(single, 200, 250) {
		t.Error("Expected second light to brighten the overlap")
	}
}

func TestTintColorsLight(t *testing.T) {
	md := scenarioMap()
	md.Walls = nil
	md.Lights[0].TintColor = "#0000ff"
	md.Lights[0].TintAlpha = 1

	layer, _ := BuildLayer(context.Background(), md, grid50, geom.Point{}, DefaultOptions())
	c := layer.RGBAAt(50, 200)
	if c.B <= c.R {
		t.Errorf("Expected blue tint, got %v", c)
	}
}

func TestNoLightsNoLayer(t *testing.T) {
	md := scenarioMap()
	md.Lights = nil
	layer, err := BuildLayer(context.Background(), md, grid50, geom.Point{}, DefaultOptions())
	if err != nil || layer != nil {
		t.Errorf("Expected nil layer without lights, got %v %v", layer, err)
	}
	if layer, _ := BuildLayer(context.Background(), nil, grid50, geom.Point{}, DefaultOptions()); layer != nil {
		t.Error("Expected nil layer without map")
	}

	md = scenarioMap()
	md.GlobalLight = true
	if layer, _ := BuildLayer(context.Background(), md, grid50, geom.Point{}, DefaultOptions()); layer != nil {
		t.Error("Expected nil layer for globally lit map")
	}
}

func TestBuildIsDeterministicAcrossWorkers(t *testing.T) {
	md := scenarioMap()
	md.Lights = append(md.Lights,
		mapdata.Light{Position: geom.Point{X: 300, Y: 100}, Bright: 80, Dim: 150},
		mapdata.Light{Position: geom.Point{X: 400, Y: 400}, Bright: 120, TintColor: "#ff9900", TintAlpha: 0.4},
	)

	opts := DefaultOptions()
	opts.Workers = 1
	serial, _ := BuildLayer(context.Background(), md, grid50, geom.Point{}, opts)
	opts.Workers = 8
	parallel, _ := BuildLayer(context.Background(), md, grid50, geom.Point{}, opts)

	if !serial.Equal(parallel) {
		t.Error("Expected identical layers regardless of worker count")
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := BuildLayer(ctx, scenarioMap(), grid50, geom.Point{}, DefaultOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestBuildProjectsToGrid(t *testing.T) {
	md := scenarioMap()
	// Doubling the grid moves the light to (100,500) and the wall to x=200
	layer, _ := BuildLayer(context.Background(), md, geom.Size{Width: 100, Height: 100}, geom.Point{}, DefaultOptions())
	if brightness(layer, 100, 499) == 0 {
		t.Error("Expected projected light position to be lit")
	}
	if brightness(layer, 300, 499) != 0 {
		t.Error("Expected projected wall to shadow")
	}
}

func TestApplyMultiplies(t *testing.T) {
	dst := raster.NewSized(500, 500)
	dst.Fill(color.RGBA{200, 200, 200, 255})
	layer, _ := BuildLayer(context.Background(), scenarioMap(), grid50, geom.Point{}, DefaultOptions())

	Apply(dst, layer)
	if got := dst.RGBAAt(150, 250); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("Expected shadowed terrain black, got %v", got)
	}
	if got := dst.RGBAAt(50, 250); got.R < 190 {
		t.Errorf("Expected terrain at light center near full brightness, got %v", got)
	}

	Apply(dst, nil)
	Apply(nil, layer)
}

func TestGradientStops(t *testing.T) {
	stops := gradientStops(mapdata.Light{Bright: 100, Dim: 200}, white, 1)
	if stops[1].Offset != 0.5 {
		t.Errorf("Expected bright stop at 0.5, got %f", stops[1].Offset)
	}
	if stops[0].Color.A != 255 || stops[1].Color.A != 128 || stops[2].Color.A != 64 || stops[3].Color.A != 0 {
		t.Errorf("Unexpected stop alphas %v", stops)
	}

	clamped := gradientStops(mapdata.Light{Bright: 200}, white, 0.5)
	if clamped[1].Offset != 0.95 {
		t.Errorf("Expected bright stop clamped to 0.95, got %f", clamped[1].Offset)
	}
	if clamped[0].Color.A != 128 {
		t.Errorf("Expected tint-scaled center alpha 128, got %d", clamped[0].Color.A)
	}
}
