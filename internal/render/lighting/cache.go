package lighting

import (
	"context"

	"chosenoffset.com/tabletop/internal/render/raster"
)

// BuildFunc produces a fresh lighting layer
type BuildFunc func(ctx context.Context) (*raster.Buffer, error)

// Cache keeps the last built lighting layer until it is invalidated.
// It has one owner; pan and zoom never touch it.
type Cache struct {
	layer      *raster.Buffer
	valid      bool
	generation uint64
}

// NewCache returns an empty cache
func NewCache() *Cache {
	return &Cache{}
}

// Layer returns the cached layer, building it first if needed.
// A nil layer is a valid cached result for an unlit map.
func (c *Cache) Layer(ctx context.Context, build BuildFunc) (*raster.Buffer, error) {
	if c.valid {
		return c.layer, nil
	}
	layer, err := build(ctx)
	if err != nil {
		return nil, err
	}
	c.layer = layer
	c.valid = true
	return layer, nil
}

// Invalidate drops the cached layer. Call after any light, wall, door,
// grid size or grid offset change.
func (c *Cache) Invalidate() {
	c.layer = nil
	c.valid = false
	c.generation++
}

// Valid reports whether a layer is cached
func (c *Cache) Valid() bool {
	return c.valid
}

// Generation counts invalidations
func (c *Cache) Generation() uint64 {
	return c.generation
}
