package audit

import (
	"context"
	"time"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByAccount(ctx context.Context, account string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// Emitter is what domain services depend on. Implementations may persist,
// buffer, or publish to a broker; services never care which.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Publisher captures structured audit events into a store. Append-only;
// tests swap the store for an in-memory sink.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = AuditEvent(event.Action).Category()
	}
	return p.store.Append(ctx, event)
}
