// Package clock provides the event loop timers run on: a wall-clock Loop
// for the terminal and MCP front ends, and a manually advanced Fake for tests.
package clock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xvierd/somatic/internal/ports"
)

// Loop is a single-consumer queue of callbacks. Timer expiries and
// dispatched work are both enqueued; whoever drains Events (the Bubble Tea
// update loop, or Run) executes them one at a time.
type Loop struct {
	events    chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewLoop creates an event loop with a small buffer for pending callbacks.
func NewLoop() *Loop {
	return &Loop{
		events: make(chan func(), 64),
		done:   make(chan struct{}),
	}
}

type loopTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
	fired   atomic.Bool
}

// AfterFunc implements ports.Clock.
func (l *Loop) AfterFunc(d time.Duration, fn func()) ports.Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.post(func() {
			// Stop may have been called after expiry but before we got here.
			if t.stopped.Load() {
				return
			}
			t.fired.Store(true)
			fn()
		})
	})
	return t
}

// Stop implements ports.Timer.
func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	if t.stopped.Swap(true) {
		return false
	}
	return !t.fired.Load()
}

func (l *Loop) post(fn func()) bool {
	select {
	case l.events <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Events exposes the queue to an external drainer such as a tea.Cmd.
func (l *Loop) Events() <-chan func() {
	return l.events
}

// Done is closed when the loop is closed.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run drains the queue until ctx is cancelled or the loop is closed.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.events:
			fn()
		}
	}
}

// Do runs fn on the loop and waits for it to finish. It must not be called
// from the loop goroutine itself.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	work := func() {
		defer close(finished)
		fn()
	}

	select {
	case l.events <- work:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopClosed
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopClosed
	}
}

// Close stops accepting work. Pending timers become no-ops.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}

// Ensure Loop implements the clock and dispatcher ports.
var (
	_ ports.Clock      = (*Loop)(nil)
	_ ports.Dispatcher = (*Loop)(nil)
)
