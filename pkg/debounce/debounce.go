// Package debounce collapses bursts of calls into one trailing call whose
// result is handed to every caller of the burst.
package debounce

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCanceled is returned to callers whose pending call was dropped by Cancel.
var ErrCanceled = errors.New("debounced call canceled")

// Func is the debounced operation.
type Func[A, R any] func(ctx context.Context, args A) (R, error)

type result[R any] struct {
	value R
	err   error
}

type waiter[R any] struct {
	ctx context.Context
	ch  chan result[R]
}

// Debouncer runs fn once delay has passed without a new Call, using the
// arguments of the latest Call and the context of the latest caller that
// is still waiting.
type Debouncer[A, R any] struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      Func[A, R]
	timer   *time.Timer
	gen     uint64
	args    A
	waiters []waiter[R]
}

func New[A, R any](delay time.Duration, fn Func[A, R]) *Debouncer[A, R] {
	return &Debouncer[A, R]{delay: delay, fn: fn}
}

func (d *Debouncer[A, R]) Delay() time.Duration {
	return d.delay
}

// Call schedules fn and blocks until the burst it joined has run, or ctx
// is done. Every caller of the burst receives the same result.
func (d *Debouncer[A, R]) Call(ctx context.Context, args A) (R, error) {
	ch := make(chan result[R], 1)

	d.mu.Lock()
	d.args = args
	d.waiters = append(d.waiters, waiter[R]{ctx: ctx, ch: ch})
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
	d.mu.Unlock()

	select {
	case r := <-ch:
		return r.value, r.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

func (d *Debouncer[A, R]) fire(gen uint64) {
	d.mu.Lock()
	// superseded by a later Call or Cancel
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	args, waiters := d.args, d.waiters
	d.waiters = nil
	d.timer = nil
	d.mu.Unlock()

	ctx := liveContext(waiters)
	if ctx == nil {
		// every caller has already given up
		var zero R
		for _, w := range waiters {
			w.ch <- result[R]{value: zero, err: w.ctx.Err()}
		}
		return
	}

	value, err := d.fn(ctx, args)
	for _, w := range waiters {
		w.ch <- result[R]{value: value, err: err}
	}
}

// liveContext returns the context of the latest waiter not yet done.
func liveContext[R any](waiters []waiter[R]) context.Context {
	for i := len(waiters) - 1; i >= 0; i-- {
		if waiters[i].ctx.Err() == nil {
			return waiters[i].ctx
		}
	}
	return nil
}

// Cancel drops the pending call, if any; its callers get ErrCanceled.
func (d *Debouncer[A, R]) Cancel() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	waiters := d.waiters
	d.waiters = nil
	d.mu.Unlock()

	var zero R
	for _, w := range waiters {
		w.ch <- result[R]{value: zero, err: ErrCanceled}
	}
}

// Pending reports whether a call is scheduled.
func (d *Debouncer[A, R]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.waiters) > 0
}
