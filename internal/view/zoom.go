package view

import "chosenoffset.com/tabletop/internal/core/geom"

// ZoomIn steps zoom up. Returns false when already at the limit.
func (t *Transform) ZoomIn() bool {
	return t.SetZoom(t.Zoom + t.Limits.ZoomStep)
}

// ZoomOut steps zoom down. Returns false when already at the limit.
func (t *Transform) ZoomOut() bool {
	return t.SetZoom(t.Zoom - t.Limits.ZoomStep)
}

// SetZoom clamps and applies a zoom level, reporting whether it changed.
// An unchanged zoom needs no redraw.
func (t *Transform) SetZoom(z float64) bool {
	z = geom.Clamp(z, t.Limits.ZoomMin, t.Limits.ZoomMax)
	if z == t.Zoom {
		return false
	}
	t.Zoom = z
	return true
}
