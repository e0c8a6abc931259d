package bindings

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/bindings/errors"
)

// Repeater calls the artifact's JsRepeater export on a fixed interval and
// hands each result to a callback. Tick numbers start at zero.
type Repeater struct {
	b        *Binding
	callback func(uint32)
	interval time.Duration

	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	mu    sync.Mutex
	err   error
	ticks uint32
}

// RepeaterOption configures a Repeater
type RepeaterOption func(*Repeater)

// WithInterval overrides the configured tick interval
func WithInterval(d time.Duration) RepeaterOption {
	return func(r *Repeater) {
		if d > 0 {
			r.interval = d
		}
	}
}

// NewRepeater starts a repeater goroutine. The callback runs on that
// goroutine, one tick at a time, and must not call Close on its own
// repeater. Cancelling ctx stops the repeater.
func (b *Binding) NewRepeater(ctx context.Context, callback func(uint32), opts ...RepeaterOption) (*Repeater, error) {
	if callback == nil {
		return nil, errors.InvalidInput(errors.PhaseCall, "repeater callback is nil")
	}

	r := &Repeater{
		b:        b,
		callback: callback,
		interval: b.interval,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	if !b.track(r) {
		return nil, errors.Closed("binding")
	}

	go r.run(ctx)
	return r, nil
}

func (r *Repeater) run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log := r.b.log
	log.Debug("repeater started", zap.Duration("interval", r.interval))

	var i uint32
	for {
		select {
		case <-r.quit:
			log.Debug("repeater stopped", zap.Uint32("ticks", i))
			return
		case <-ctx.Done():
			log.Debug("repeater cancelled", zap.Uint32("ticks", i))
			return
		case <-ticker.C:
		}

		v, err := r.b.mod.Repeat(ctx, i)
		if err != nil {
			r.mu.Lock()
			r.err = err
			r.mu.Unlock()
			log.Warn("repeater call failed", zap.Uint32("tick", i), zap.Error(err))
			return
		}
		r.callback(v)

		i++
		r.mu.Lock()
		r.ticks = i
		r.mu.Unlock()
	}
}

// Done is closed once the repeater goroutine has exited
func (r *Repeater) Done() <-chan struct{} { return r.done }

// Ticks returns how many callbacks have completed
func (r *Repeater) Ticks() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks
}

// Err returns the error that ended the loop, if any
func (r *Repeater) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close stops the loop and waits for the goroutine to exit. It returns the
// error that ended the loop, if any. Calling Close more than once is safe.
func (r *Repeater) Close() error {
	r.closeOnce.Do(func() {
		close(r.quit)
	})
	<-r.done
	r.b.untrack(r)
	return r.Err()
}
