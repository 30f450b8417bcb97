// Package live drives periodic display refreshes. A tick is read-only:
// missed ticks are dropped rather than queued, and the ticker stops on
// Stop or when its context is done, whichever comes first.
package live

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the refresh period of the live counter.
const DefaultInterval = time.Second

// Ticker calls fn every interval on its own goroutine.
type Ticker struct {
	interval time.Duration
	fn       func(time.Time)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// New creates a stopped ticker. A non-positive interval uses DefaultInterval.
func New(interval time.Duration, fn func(time.Time)) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{interval: interval, fn: fn}
}

// Start launches the loop. Calling Start on a running ticker is a no-op.
func (t *Ticker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.stopCh = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(ctx, t.stopCh, t.done)
}

// Stop ends the loop and waits for an in-flight fn call to return. It is
// safe to call more than once. fn must not call Stop.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	close(t.stopCh)
	t.running = false
	done := t.done
	t.mu.Unlock()
	<-done
}

// Running reports whether the loop is active.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Done is closed when the current loop has exited, or nil if never started.
func (t *Ticker) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *Ticker) run(ctx context.Context, stopCh, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			t.mu.Lock()
			if t.stopCh == stopCh {
				t.running = false
			}
			t.mu.Unlock()
			return
		case at := <-ticker.C:
			t.fn(at)
		}
	}
}
