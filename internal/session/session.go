// Package session is the boundary where unit changes leave this client.
// The game publishes an Event for each add, move or remove; what carries it
// to other clients is up to the Publisher.
package session

import (
	"context"
	"errors"
	"fmt"

	"chosenoffset.com/tabletop/internal/core/geom"
	"chosenoffset.com/tabletop/internal/unit"
)

// ErrClosed is returned when publishing to a closed publisher
var ErrClosed = errors.New("session closed")

// Kind is the type of unit change
type Kind string

const (
	KindAdd    Kind = "add"
	KindMove   Kind = "move"
	KindRemove Kind = "remove"
)

// Event describes one unit change on a channel
type Event struct {
	Kind        Kind               `json:"kind"`
	Unit        unit.Snapshot      `json:"unit"`
	Destination *geom.GridPosition `json:"destination,omitempty"`
	ChannelID   string             `json:"channelId"`
	AuthorID    string             `json:"author"`
}

// Validate checks the fields every event must carry
func (e Event) Validate() error {
	switch e.Kind {
	case KindAdd, KindMove:
		if e.Destination == nil {
			return fmt.Errorf("%s event for unit %s has no destination", e.Kind, e.Unit.ID)
		}
	case KindRemove:
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	if e.ChannelID == "" || e.AuthorID == "" {
		return fmt.Errorf("%s event for unit %s has no channel or author", e.Kind, e.Unit.ID)
	}
	return nil
}

// Publisher sends unit events to the other clients on a channel
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(ctx context.Context, e Event) error

// Publish calls f
func (f PublisherFunc) Publish(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Fanout publishes to every publisher and joins their errors
func Fanout(pubs ...Publisher) Publisher {
	return PublisherFunc(func(ctx context.Context, e Event) error {
		var errs []error
		for _, p := range pubs {
			if err := p.Publish(ctx, e); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// Nop discards every event
var Nop Publisher = PublisherFunc(func(context.Context, Event) error { return nil })
