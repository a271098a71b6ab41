package fhe

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"

	dErrors "genescreen/pkg/domain-errors"
)

// Phase is the process-wide state of the FHE subsystem.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseInitializing  Phase = "initializing"
	PhaseReady         Phase = "ready"
	PhaseFailed        Phase = "failed"
)

var (
	initDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "genescreen_fhe_init_duration_seconds",
		Help:    "Duration of FHE subsystem initialization attempts",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
	})
	readyGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "genescreen_fhe_ready",
		Help: "1 when the FHE subsystem is in the ready phase",
	})
)

// Transition is delivered to subscribers on every phase change.
type Transition struct {
	From Phase
	To   Phase
	Err  error // set only for transitions into PhaseFailed
}

// Lifecycle owns the uninitialized → initializing → ready state of the FHE
// subsystem. A failed attempt returns to failed and may be retried.
//
// Concurrent Initialize calls collapse into one in-flight SDK call via
// singleflight; every caller observes the outcome of that single attempt.
type Lifecycle struct {
	sdk    SDK
	logger *slog.Logger

	mu        sync.RWMutex
	phase     Phase
	lastError error
	subs      []chan Transition

	group singleflight.Group
}

func NewLifecycle(sdk SDK, logger *slog.Logger) *Lifecycle {
	return &Lifecycle{
		sdk:    sdk,
		logger: logger,
		phase:  PhaseUninitialized,
	}
}

// Phase returns the current phase and the error of the last failed attempt.
func (l *Lifecycle) Phase() (Phase, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.phase, l.lastError
}

// Ready reports whether encryption and decryption calls may proceed.
func (l *Lifecycle) Ready() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.phase == PhaseReady
}

// Status surfaces the SDK's free-form progress string for operators.
func (l *Lifecycle) Status() string {
	return l.sdk.Status()
}

// Subscribe returns a channel receiving phase transitions. Delivery is
// best-effort: a slow subscriber drops transitions rather than blocking the
// lifecycle.
func (l *Lifecycle) Subscribe() <-chan Transition {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch := make(chan Transition, 8)
	l.subs = append(l.subs, ch)
	return ch
}

// Initialize drives the subsystem to ready. Idempotent once ready; concurrent
// callers share a single in-flight attempt. A previous failure does not pin
// the subsystem: the next call starts a fresh attempt.
func (l *Lifecycle) Initialize(ctx context.Context) error {
	if l.Ready() {
		return nil
	}

	_, err, _ := l.group.Do("initialize", func() (any, error) {
		// Re-check under the flight: a racing caller may have completed init
		// between the fast path and entering the group.
		if l.Ready() {
			return nil, nil
		}

		l.transition(PhaseInitializing, nil)
		start := time.Now()
		err := l.sdk.Initialize(ctx)
		initDurationSeconds.Observe(time.Since(start).Seconds())
		if err != nil {
			l.transition(PhaseFailed, err)
			return nil, dErrors.Wrap(err, dErrors.CodeNotInitialized, "fhe subsystem initialization failed")
		}
		l.transition(PhaseReady, nil)
		return nil, nil
	})
	return err
}

// RequireReady returns a coded error unless the subsystem is ready. Callers
// must not proceed to encryption or decryption on error.
func (l *Lifecycle) RequireReady() error {
	if l.Ready() {
		return nil
	}
	return dErrors.New(dErrors.CodeNotInitialized, "fhe subsystem is not ready")
}

func (l *Lifecycle) transition(to Phase, cause error) {
	l.mu.Lock()
	from := l.phase
	l.phase = to
	l.lastError = cause
	subs := append([]chan Transition{}, l.subs...)
	l.mu.Unlock()

	if to == PhaseReady {
		readyGauge.Set(1)
	} else {
		readyGauge.Set(0)
	}

	if l.logger != nil {
		if cause != nil {
			l.logger.Error("fhe phase transition", "from", from, "to", to, "error", cause)
		} else {
			l.logger.Info("fhe phase transition", "from", from, "to", to)
		}
	}

	t := Transition{From: from, To: to, Err: cause}
	for _, ch := range subs {
		select {
		case ch <- t:
		default:
		}
	}
}
