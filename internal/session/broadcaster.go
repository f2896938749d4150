package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"chosenoffset.com/tabletop/internal/logger"
)

const subscriberBuffer = 100

// Broadcaster fans events out to in-process subscribers. Each subscriber has
// a buffered channel; a full channel drops the event instead of blocking
// the publisher.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
	closed      bool
}

// NewBroadcaster returns an empty broadcaster
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan Event),
	}
}

// Subscribe opens a channel for a client. Subscribing again replaces and
// closes the previous channel.
func (b *Broadcaster) Subscribe(clientID string) (<-chan Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}
	if old, ok := b.subscribers[clientID]; ok {
		close(old)
	}

	ch := make(chan Event, subscriberBuffer)
	b.subscribers[clientID] = ch
	return ch, nil
}

// Unsubscribe closes and forgets a client's channel
func (b *Broadcaster) Unsubscribe(clientID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[clientID]; ok {
		close(ch)
		delete(b.subscribers, clientID)
	}
}

// Publish delivers e to every subscriber except its author
func (b *Broadcaster) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}
	for id, ch := range b.subscribers {
		if id == e.AuthorID {
			continue
		}
		select {
		case ch <- e:
		default:
			logger.Warn("session subscriber full, dropping event",
				zap.String("subscriber", id),
				zap.String("kind", string(e.Kind)),
				zap.String("unit", e.Unit.ID))
		}
	}
	return nil
}

// SubscriberCount returns the number of open subscriptions
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes every subscriber channel. Later publishes return ErrClosed.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
