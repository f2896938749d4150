// Package scheduler decides which output surfaces are redrawn on a frame.
// Each surface carries its own dirty flag; a frame redraws only the flagged
// surfaces and clears each flag before its draw routine runs, so a routine
// that marks its own surface dirty again is picked up on the next frame.
package scheduler

import "sync"

// Surface identifies an output layer
type Surface int

const (
	// Background holds terrain, grid, walls, lighting and fog
	Background Surface = iota
	// Foreground holds units, selection and drag previews
	Foreground
	surfaceCount
)

func (s Surface) String() string {
	switch s {
	case Background:
		return "background"
	case Foreground:
		return "foreground"
	default:
		return "unknown"
	}
}

// DrawFunc redraws one surface
type DrawFunc func()

// Scheduler tracks dirty flags and the loading state
type Scheduler struct {
	mu          sync.Mutex
	dirty       [surfaceCount]bool
	loading     bool
	draw        [surfaceCount]DrawFunc
	placeholder DrawFunc
}

// New returns a scheduler with every surface dirty so the first frame paints everything
func New() *Scheduler {
	s := &Scheduler{}
	s.MarkAll()
	return s
}

// OnDraw registers the routine for a surface
func (s *Scheduler) OnDraw(surface Surface, fn DrawFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draw[surface] = fn
}

// OnLoading registers the routine drawn while loading
func (s *Scheduler) OnLoading(fn DrawFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placeholder = fn
}

// MarkDirty flags one surface for redraw
func (s *Scheduler) MarkDirty(surface Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty[surface] = true
}

// MarkAll flags every surface
func (s *Scheduler) MarkAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.dirty {
		s.dirty[i] = true
	}
}

// Dirty reports whether a surface is flagged
func (s *Scheduler) Dirty(surface Surface) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty[surface]
}

// SetLoading switches the placeholder on or off. Leaving the loading state
// marks everything dirty.
func (s *Scheduler) SetLoading(loading bool) {
	s.mu.Lock()
	was := s.loading
	s.loading = loading
	s.mu.Unlock()
	if was && !loading {
		s.MarkAll()
	}
}

// Loading reports whether the placeholder is shown
func (s *Scheduler) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Frame runs one frame. While loading only the placeholder is drawn and the
// dirty flags are left for later. Returns the surfaces that were redrawn.
func (s *Scheduler) Frame() []Surface {
	s.mu.Lock()
	if s.loading {
		fn := s.placeholder
		s.mu.Unlock()
		if fn != nil {
			fn()
		}
		return nil
	}
	s.mu.Unlock()

	var redrawn []Surface
	for surface := Background; surface < surfaceCount; surface++ {
		s.mu.Lock()
		if !s.dirty[surface] {
			s.mu.Unlock()
			continue
		}
		s.dirty[surface] = false
		fn := s.draw[surface]
		s.mu.Unlock()

		if fn != nil {
			fn()
		}
		redrawn = append(redrawn, surface)
	}
	return redrawn
}
