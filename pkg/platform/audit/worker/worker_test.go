package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "genescreen/pkg/platform/audit"
	"genescreen/pkg/platform/audit/store/memory"
)

func TestQueueAndWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := memory.NewInMemoryStore()
	queue := NewQueue(8)
	w := NewWorker(store, queue.Events())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	require.NoError(t, queue.Emit(ctx, audit.Event{
		Account: "0xabc",
		Action:  string(audit.EventScreeningSubmitted),
	}))

	require.Eventually(t, func() bool {
		events, err := store.ListByAccount(context.Background(), "0xabc")
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	events, err := store.ListByAccount(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	assert.False(t, events[0].Timestamp.IsZero())

	cancel()
	<-done
}

func TestQueueDropsWhenFull(t *testing.T) {
	queue := NewQueue(1)
	ctx := context.Background()

	require.NoError(t, queue.Emit(ctx, audit.Event{Action: "a"}))
	// No consumer; the second emit must not block.
	require.NoError(t, queue.Emit(ctx, audit.Event{Action: "b"}))
	assert.Len(t, queue.Events(), 1)
}
