// Package fetch provides the request state controller: it drives one
// asynchronous producer at a time through a loading/success/error lifecycle
// and guarantees that superseded requests never touch state.
package fetch

import (
	"context"
	"errors"
	"sync"

	"github.com/revlens-ai/revlens/pkg/client"
	"github.com/revlens-ai/revlens/pkg/models"
)

// State is the data/error/loading triple exposed to consumers.
type State[T any] struct {
	Data    T
	Err     *models.APIError
	Loading bool
}

// Producer runs one request. It must respect ctx and return a
// cancellation-classified error when aborted.
type Producer[T any] func(ctx context.Context) (T, error)

// Fetcher owns one request lifecycle. Each Fetch call is an activation:
// it supersedes any in-flight activation, whose result is then discarded
// regardless of how it settles. Settlements carrying a cancellation error
// are invisible: they never produce an error transition.
type Fetcher[T any] struct {
	mu         sync.Mutex
	state      State[T]
	activation uint64
	cancel     context.CancelFunc
	enabled    bool
	onChange   func(State[T])
}

// Option configures a Fetcher.
type Option[T any] func(*Fetcher[T])

// WithObserver registers a callback invoked (under the fetcher's lock) after
// every state transition.
func WithObserver[T any](fn func(State[T])) Option[T] {
	return func(f *Fetcher[T]) { f.onChange = fn }
}

// New creates an enabled Fetcher with zero-value state.
func New[T any](opts ...Option[T]) *Fetcher[T] {
	f := &Fetcher[T]{enabled: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Snapshot returns the current state.
func (f *Fetcher[T]) Snapshot() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Fetch starts a new activation. The previous activation, if any, is
// cancelled and its eventual settlement is suppressed. The returned channel
// closes once this activation's settlement has been processed (applied or
// discarded), which makes completion awaitable.
//
// A disabled fetcher issues nothing and leaves state at its last settled
// value.
func (f *Fetcher[T]) Fetch(ctx context.Context, producer Producer[T]) <-chan struct{} {
	done := make(chan struct{})

	f.mu.Lock()
	if !f.enabled {
		f.mu.Unlock()
		close(done)
		return done
	}
	if f.cancel != nil {
		f.cancel()
	}
	f.activation++
	id := f.activation

	reqCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel

	f.state.Loading = true
	f.state.Err = nil
	f.notifyLocked()
	f.mu.Unlock()

	go func() {
		defer close(done)
		data, err := producer(reqCtx)
		cancel()
		f.settle(id, data, err)
	}()

	return done
}

// SetEnabled toggles the fetcher. Disabling cancels any in-flight activation
// and invalidates it, so even a producer that ignores cancellation cannot
// apply its result afterwards.
func (f *Fetcher[T]) SetEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = enabled
	if !enabled {
		f.activation++
		if f.cancel != nil {
			f.cancel()
			f.cancel = nil
		}
		// The invalidated activation will never settle, so land back in the
		// previous terminal state here, as a silent cancellation would.
		if f.state.Loading {
			f.state.Loading = false
			f.notifyLocked()
		}
	}
}

// Close tears the fetcher down: the in-flight activation, if any, is
// cancelled, and subsequent Fetch calls are no-ops.
func (f *Fetcher[T]) Close() {
	f.SetEnabled(false)
}

// settle applies one request's outcome, but only if that request is still
// the authoritative activation.
func (f *Fetcher[T]) settle(id uint64, data T, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if id != f.activation {
		return
	}
	f.cancel = nil

	switch {
	case err == nil:
		f.state = State[T]{Data: data, Loading: false}
	case isCanceled(err):
		// Cancellation is silent: land back in the previous terminal state.
		f.state.Loading = false
	default:
		f.state.Err = &models.APIError{Detail: errorDetail(err)}
		f.state.Loading = false
	}
	f.notifyLocked()
}

func (f *Fetcher[T]) notifyLocked() {
	if f.onChange != nil {
		f.onChange(f.state)
	}
}

func isCanceled(err error) bool {
	return errors.Is(err, client.ErrCanceled) || errors.Is(err, context.Canceled)
}

func errorDetail(err error) string {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "request failed"
}
