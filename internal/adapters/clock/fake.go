package clock

import (
	"sync"
	"time"

	"github.com/xvierd/somatic/internal/ports"
)

// Fake is a deterministic clock. Callbacks run synchronously inside Advance,
// in deadline order (ties in scheduling order).
type Fake struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *Fake
	at      time.Duration
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

// NewFake returns a fake clock at t=0.
func NewFake() *Fake {
	return &Fake{}
}

// AfterFunc implements ports.Clock.
func (f *Fake) AfterFunc(d time.Duration, fn func()) ports.Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	t := &fakeTimer{clock: f, at: f.now + d, seq: f.seq, fn: fn}
	f.timers = append(f.timers, t)
	return t
}

// Stop implements ports.Timer.
func (t *fakeTimer) Stop() bool {
	f := t.clock
	f.mu.Lock()
	defer f.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	f.remove(t)
	return true
}

// Advance moves time forward by d, running every callback that falls due.
// Callbacks scheduled while advancing run too if they fall within d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now + d
	f.mu.Unlock()

	for {
		t := f.popDue(target)
		if t == nil {
			break
		}
		t.fn()
	}

	f.mu.Lock()
	f.now = target
	f.mu.Unlock()
}

// Now returns the time elapsed since the fake was created.
func (f *Fake) Now() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Pending returns the number of scheduled callbacks.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

func (f *Fake) popDue(target time.Duration) *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()

	var next *fakeTimer
	for _, t := range f.timers {
		if t.at > target {
			continue
		}
		if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
			next = t
		}
	}
	if next == nil {
		return nil
	}
	f.remove(next)
	next.fired = true
	f.now = next.at
	return next
}

func (f *Fake) remove(t *fakeTimer) {
	for i, existing := range f.timers {
		if existing == t {
			f.timers = append(f.timers[:i], f.timers[i+1:]...)
			return
		}
	}
}

// Ensure Fake implements ports.Clock.
var _ ports.Clock = (*Fake)(nil)
