package fhe_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genescreen/internal/fhe"
	"genescreen/internal/fhe/sim"
	dErrors "genescreen/pkg/domain-errors"
)

func newLifecycle(sdk *sim.SDK) *fhe.Lifecycle {
	return fhe.NewLifecycle(sdk, slog.New(slog.DiscardHandler))
}

func TestLifecycleInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("reaches ready", func(t *testing.T) {
		sdk := sim.New()
		l := newLifecycle(sdk)

		phase, _ := l.Phase()
		assert.Equal(t, fhe.PhaseUninitialized, phase)
		require.Error(t, l.RequireReady())

		require.NoError(t, l.Initialize(ctx))
		assert.True(t, l.Ready())
		assert.NoError(t, l.RequireReady())
	})

	t.Run("idempotent once ready", func(t *testing.T) {
		sdk := sim.New()
		l := newLifecycle(sdk)

		require.NoError(t, l.Initialize(ctx))
		require.NoError(t, l.Initialize(ctx))
		assert.Equal(t, int64(1), sdk.InitCalls.Load())
	})

	t.Run("concurrent triggers collapse into one attempt", func(t *testing.T) {
		sdk := sim.New()
		l := newLifecycle(sdk)

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, l.Initialize(ctx))
			}()
		}
		wg.Wait()
		assert.True(t, l.Ready())
		assert.Equal(t, int64(1), sdk.InitCalls.Load())
	})

	t.Run("failure is coded and retryable", func(t *testing.T) {
		sdk := sim.New()
		sdk.InitErr = errors.New("wasm load failed")
		l := newLifecycle(sdk)

		err := l.Initialize(ctx)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotInitialized))

		phase, lastErr := l.Phase()
		assert.Equal(t, fhe.PhaseFailed, phase)
		assert.Error(t, lastErr)

		// A later attempt is a fresh one, not pinned to the old failure.
		sdk.InitErr = nil
		require.NoError(t, l.Initialize(ctx))
		assert.True(t, l.Ready())
	})
}

func TestLifecycleSubscribe(t *testing.T) {
	sdk := sim.New()
	l := newLifecycle(sdk)
	transitions := l.Subscribe()

	require.NoError(t, l.Initialize(context.Background()))

	first := <-transitions
	assert.Equal(t, fhe.PhaseUninitialized, first.From)
	assert.Equal(t, fhe.PhaseInitializing, first.To)

	second := <-transitions
	assert.Equal(t, fhe.PhaseInitializing, second.From)
	assert.Equal(t, fhe.PhaseReady, second.To)
	assert.NoError(t, second.Err)
}
