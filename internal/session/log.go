package session

import (
	"context"

	"go.uber.org/zap"

	"chosenoffset.com/tabletop/internal/logger"
)

// LogPublisher writes every event to the log
type LogPublisher struct {
	log *zap.Logger
}

// NewLogPublisher logs through the "session" logger
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{log: logger.Named("session")}
}

// Publish logs e
func (p *LogPublisher) Publish(_ context.Context, e Event) error {
	fields := []zap.Field{
		zap.String("kind", string(e.Kind)),
		zap.String("unit", e.Unit.ID),
		zap.String("channel", e.ChannelID),
		zap.String("author", e.AuthorID),
	}
	if e.Destination != nil {
		fields = append(fields, zap.Int("row", e.Destination.Row), zap.Int("column", e.Destination.Column))
	}
	p.log.Info("unit event", fields...)
	return nil
}
