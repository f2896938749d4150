package game

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"chosenoffset.com/tabletop/internal/session"
	"chosenoffset.com/tabletop/internal/unit"
)

var (
	// ErrUnknownUnit is returned for a move that names a unit not on the table
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrOutOfBounds is returned for an event whose destination is off the grid
	ErrOutOfBounds = errors.New("destination outside the grid")
)

// Listen makes Update apply the events arriving on ch. A closed channel
// stops the listening.
func (s *State) Listen(ch <-chan session.Event) {
	s.events = ch
}

// drainEvents applies every event already queued without blocking the tick
func (s *State) drainEvents() {
	for s.events != nil {
		select {
		case e, ok := <-s.events:
			if !ok {
				s.log.Debug("event subscription closed")
				s.events = nil
				return
			}
			if err := s.ApplyEvent(context.Background(), e); err != nil {
				s.log.Warn("dropping unit event",
					zap.String("kind", string(e.Kind)),
					zap.String("unit", e.Unit.ID),
					zap.String("author", e.AuthorID),
					zap.Error(err))
			}
		default:
			return
		}
	}
}

// ApplyEvent mirrors a unit change made by another client. Events authored
// here or sent on another channel are ignored. Applied changes are never
// published again.
func (s *State) ApplyEvent(ctx context.Context, e session.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.AuthorID == s.AuthorID || (s.ChannelID != "" && e.ChannelID != s.ChannelID) {
		return nil
	}

	switch e.Kind {
	case session.KindAdd:
		if err := s.checkDestination(e); err != nil {
			return err
		}
		return s.AddUnit(ctx, unit.FromSnapshot(e.Unit), e.Destination, false)
	case session.KindMove:
		u, ok := s.UnitByID(e.Unit.ID)
		if !ok {
			return fmt.Errorf("moving %s: %w", e.Unit.ID, ErrUnknownUnit)
		}
		if err := s.checkDestination(e); err != nil {
			return err
		}
		return s.MoveUnit(ctx, u, *e.Destination, false)
	case session.KindRemove:
		if u, ok := s.UnitByID(e.Unit.ID); ok {
			return s.RemoveUnit(ctx, u, false)
		}
	}
	return nil
}

func (s *State) checkDestination(e session.Event) error {
	if !s.Grid.InBounds(*e.Destination) {
		return fmt.Errorf("%s of %s to %v: %w", e.Kind, e.Unit.ID, *e.Destination, ErrOutOfBounds)
	}
	return nil
}
