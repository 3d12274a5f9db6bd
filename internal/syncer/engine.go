// Package syncer keeps a screen's local state consistent with the backend
// under a pull model: periodic loads, a busy-gated mutate-then-refresh cycle,
// and deterministic teardown.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Veraticus/hyperclaw/internal/common"
	"github.com/Veraticus/hyperclaw/internal/metrics"
)

// LoadFunc fetches a complete snapshot. It must return either every
// resource the screen shows or an error; partial snapshots are not allowed.
type LoadFunc[S any] func(ctx context.Context) (S, error)

// MutateFunc performs one remote write.
type MutateFunc func(ctx context.Context) error

// Option configures an Engine.
type Option func(*options)

type options struct {
	interval time.Duration
}

// WithInterval sets the refresh cadence. Zero loads once on Start.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d < 0 {
			d = 0
		}
		o.interval = d
	}
}

// Engine owns one screen's snapshot S.
type Engine[S any] struct {
	load      LoadFunc[S]
	cancel    context.CancelFunc
	done      chan struct{}
	trigger   chan struct{}
	snapshot  S
	name      string
	errMsg    string
	listeners []func(S)
	interval  time.Duration
	mu        sync.RWMutex
	runMu     sync.Mutex
	busy      atomic.Bool
	started   atomic.Bool
	stopped   atomic.Bool
	loaded    atomic.Bool
}

// New creates an engine. initial is the snapshot shown before the first
// successful load.
func New[S any](name string, load LoadFunc[S], initial S, opts ...Option) *Engine[S] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine[S]{
		name:     name,
		load:     load,
		snapshot: initial,
		interval: o.interval,
		trigger:  make(chan struct{}, 1),
	}
}

// Name returns the screen name the engine was built with.
func (e *Engine[S]) Name() string {
	return e.name
}

// Interval returns the refresh cadence.
func (e *Engine[S]) Interval() time.Duration {
	return e.interval
}

// Load performs one load. On failure the previous snapshot is kept.
// Results that resolve after Stop are discarded.
func (e *Engine[S]) Load(ctx context.Context) error {
	start := time.Now()
	s, err := e.load(ctx)
	if e.stopped.Load() {
		return nil
	}
	metrics.ObserveLoad(e.name, time.Since(start), err)
	if err != nil {
		slog.Debug("Load failed, keeping previous state",
			"screen", e.name,
			"error", err)
		return fmt.Errorf("%s: %w", e.name, err)
	}

	e.mu.Lock()
	if e.stopped.Load() {
		e.mu.Unlock()
		return nil
	}
	e.snapshot = s
	listeners := append([]func(S){}, e.listeners...)
	e.mu.Unlock()
	e.loaded.Store(true)

	for _, fn := range listeners {
		fn(s)
	}
	return nil
}

// Start mounts the engine: one immediate load, then a load per interval and
// per Trigger until Stop or ctx cancellation. An engine is mounted once;
// later calls are no-ops.
func (e *Engine[S]) Start(ctx context.Context) {
	if e.stopped.Load() || !e.started.CompareAndSwap(false, true) {
		return
	}

	e.runMu.Lock()
	defer e.runMu.Unlock()
	loopCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.done = make(chan struct{})
	go e.run(loopCtx, e.done)
}

func (e *Engine[S]) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	_ = e.Load(ctx)

	var tick <-chan time.Time
	if e.interval > 0 {
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			_ = e.Load(ctx)
		case <-e.trigger:
			_ = e.Load(ctx)
		}
	}
}

// Stop unmounts the engine and waits for its loop to exit. Loads that
// resolve afterwards do not touch the snapshot.
func (e *Engine[S]) Stop() {
	// Taken under mu so a Load cannot write between its check and Stop.
	e.mu.Lock()
	e.stopped.Store(true)
	e.mu.Unlock()

	e.runMu.Lock()
	cancel, done := e.cancel, e.done
	e.runMu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Stopped reports whether Stop has been called.
func (e *Engine[S]) Stopped() bool {
	return e.stopped.Load()
}

// Trigger requests an extra load. Pending triggers are coalesced.
func (e *Engine[S]) Trigger() {
	select {
	case e.trigger <- struct{}{}:
	default:
	}
}

// Mutate runs fn with busy-gating. It returns common.ErrBusy without calling
// fn while another mutation is outstanding. On success the error slot is
// cleared and the engine reloads; on failure the display message is
// recorded and no reload happens.
func (e *Engine[S]) Mutate(ctx context.Context, action string, fn MutateFunc) error {
	if !e.busy.CompareAndSwap(false, true) {
		metrics.ObserveMutation(e.name, action, metrics.ResultBusy)
		return common.ErrBusy
	}
	defer e.busy.Store(false)

	err := fn(ctx)
	metrics.ObserveMutation(e.name, action, metrics.MutationResult(err))
	if err != nil {
		msg := common.UserMessage(err, action+" failed")
		e.SetErr(msg)
		slog.Warn("Action failed",
			"screen", e.name,
			"action", action,
			"message", msg,
			"error", err)
		return err
	}

	e.ClearErr()
	if err := e.Load(ctx); err != nil {
		slog.Debug("Refresh after action failed",
			"screen", e.name,
			"action", action,
			"error", err)
	}
	return nil
}

// Snapshot returns the last accepted snapshot.
func (e *Engine[S]) Snapshot() S {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot
}

// Loaded reports whether at least one load has succeeded.
func (e *Engine[S]) Loaded() bool {
	return e.loaded.Load()
}

// Busy reports whether a mutation is outstanding.
func (e *Engine[S]) Busy() bool {
	return e.busy.Load()
}

// Err returns the screen's current error message, or "".
func (e *Engine[S]) Err() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.errMsg
}

// SetErr replaces the screen's error message.
func (e *Engine[S]) SetErr(msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errMsg = msg
}

// ClearErr clears the screen's error message.
func (e *Engine[S]) ClearErr() {
	e.SetErr("")
}

// OnChange registers fn to run after every accepted snapshot.
func (e *Engine[S]) OnChange(fn func(S)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}
