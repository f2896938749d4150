package lighting

import (
	"context"
	"errors"
	"testing"

	"chosenoffset.com/tabletop/internal/core/geom"
	"chosenoffset.com/tabletop/internal/render/raster"
)

func TestCacheReusesLayer(t *testing.T) {
	md := scenarioMap()
	builds := 0
	build := func(ctx context.Context) (*raster.Buffer, error) {
		builds++
		return BuildLayer(ctx, md, grid50, geom.Point{}, DefaultOptions())
	}

	c := NewCache()
	first, err := c.Layer(context.Background(), build)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := c.Layer(context.Background(), build)
	if first != second {
		t.Error("Expected the same cached layer")
	}
	if builds != 1 {
		t.Errorf("Expected one build, got %d", builds)
	}

	// Move the light; the cached layer is stale until invalidated
	md.Lights[0].Position = geom.Point{X: 350, Y: 250}
	if stale, _ := c.Layer(context.Background(), build); stale != first {
		t.Error("Cache rebuilt without invalidation")
	}

	c.Invalidate()
	if c.Valid() || c.Generation() != 1 {
		t.Errorf("Expected invalid cache at generation 1, got valid=%v gen=%d", c.Valid(), c.Generation())
	}
	rebuilt, _ := c.Layer(context.Background(), build)
	if rebuilt == first {
		t.Error("Expected a new layer after invalidation")
	}
	if rebuilt.Equal(first) {
		t.Error("Expected moved light to change pixels")
	}
}

func TestCacheKeepsNilLayer(t *testing.T) {
	builds := 0
	build := func(context.Context) (*raster.Buffer, error) {
		builds++
		return nil, nil
	}
	c := NewCache()
	c.Layer(context.Background(), build)
	c.Layer(context.Background(), build)
	if builds != 1 {
		t.Errorf("Expected unlit result to be cached, got %d builds", builds)
	}
}

func TestCacheBuildError(t *testing.T) {
	boom := errors.New("boom")
	c := NewCache()
	if _, err := c.Layer(context.Background(), func(context.Context) (*raster.Buffer, error) {
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Errorf("Expected build error, got %v", err)
	}
	if c.Valid() {
		t.Error("Failed build must not be cached")
	}
}
