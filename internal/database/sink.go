package database

import (
	"context"
	"time"

	"photon-trading-bot/internal/logging"
)

// Sink persists events without blocking the caller. A failed write is
// logged and dropped; record emission must never fail the decision path.
type Sink struct {
	db  *DB
	log *logging.Logger
}

func NewSink(db *DB) *Sink {
	return &Sink{
		db:  db,
		log: logging.WithComponent("event-sink"),
	}
}

// LogEvent appends an event asynchronously.
func (s *Sink) LogEvent(ctx context.Context, kind string, payload interface{}) {
	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.db.AppendEvent(writeCtx, kind, payload); err != nil {
			s.log.Error("event write failed", "kind", kind, "error", err)
		}
	}()
}
