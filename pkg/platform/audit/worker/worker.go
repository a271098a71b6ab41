// Package worker moves audit capture off the coordinators' hot path: services
// emit into a bounded queue and a background worker persists from it.
package worker

import (
	"context"
	"time"

	audit "genescreen/pkg/platform/audit"
)

// Queue is a bounded, non-blocking audit emitter. When the queue is full the
// event is dropped; audit capture must never stall a user-facing operation.
type Queue struct {
	ch chan audit.Event
}

func NewQueue(size int) *Queue {
	return &Queue{ch: make(chan audit.Event, size)}
}

// Emit enqueues one event, defaulting timestamp and category like the
// synchronous publisher does.
func (q *Queue) Emit(_ context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	select {
	case q.ch <- event:
	default:
	}
	return nil
}

// Events is the worker's intake side.
func (q *Queue) Events() <-chan audit.Event {
	return q.ch
}

// Worker drains a queue into a store.
type Worker struct {
	store audit.Store
	inbox <-chan audit.Event
}

func NewWorker(store audit.Store, inbox <-chan audit.Event) *Worker {
	return &Worker{store: store, inbox: inbox}
}

// Run consumes until ctx is cancelled. Store failures stop the worker; the
// caller decides whether to restart.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}
