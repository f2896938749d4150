package shadows

import "chosenoffset.com/tabletop/internal/core/geom"

// Options tunes shadow polygon construction
type Options struct {
	Samples   int     // points sampled along each clipped wall
	Bias      float64 // 0 = uniform sampling, 1 = fully midpoint-weighted
	Overshoot float64 // ray length as a multiple of the light radius
}

// DefaultOptions returns the standard tuning: 100 samples, 0.15 bias, 5% overshoot
func DefaultOptions() Options {
	return Options{
		Samples:   100,
		Bias:      0.15,
		Overshoot: 1.05,
	}
}

// normalized fills zero fields with defaults
func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.Samples < 2 {
		o.Samples = def.Samples
	}
	if o.Overshoot <= 0 {
		o.Overshoot = def.Overshoot
	}
	if o.Bias < 0 {
		o.Bias = 0
	}
	if o.Bias > 1 {
		o.Bias = 1
	}
	return o
}

// Shadow is the region one wall hides from one light
type Shadow struct {
	Wall    geom.Segment // unclipped wall
	Clipped geom.Segment // portion of the wall inside the light circle
	Polygon []geom.Point // wall-start, extended ray ends, wall-end
}
