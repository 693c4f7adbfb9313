// Package sink provides the write side of one client connection.
package sink

import (
	"context"
	"log/slog"

	"daneth-messenger/domain/event"
)

// Buffered queues events for a single connection. The transport handler
// owns the read side of Events and writes frames to the wire at its own
// pace.
type Buffered struct {
	log    *slog.Logger
	Events chan event.Event
}

func NewBuffered(log *slog.Logger, bufferSize int) *Buffered {
	return &Buffered{log: log, Events: make(chan event.Event, bufferSize)}
}

// Consume hands the event to the connection without ever blocking the
// caller. A full buffer means the client is too slow: the event is
// dropped and the client must catch up through the history endpoint.
func (s *Buffered) Consume(ctx context.Context, e event.Event) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		s.log.Debug("Client buffer full, dropping event", "event", e.Name())
		return nil
	}
}
