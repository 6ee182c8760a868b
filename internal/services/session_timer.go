package services

import (
	"time"

	"github.com/xvierd/somatic/internal/ports"
)

// TickPeriod is the nominal spacing of session timer ticks.
const TickPeriod = time.Second

// SessionTimer counts played seconds and signals once when the session
// duration is reached. It schedules one tick at a time on the clock; there is
// no drift correction.
type SessionTimer struct {
	clock      ports.Clock
	duration   int
	onTick     func(elapsed int)
	onComplete func()

	elapsed   int
	pending   ports.Timer
	gen       uint64
	completed bool
}

// NewSessionTimer creates a stopped timer that completes after duration ticks.
func NewSessionTimer(clock ports.Clock, duration int, onTick func(int), onComplete func()) *SessionTimer {
	return &SessionTimer{
		clock:      clock,
		duration:   duration,
		onTick:     onTick,
		onComplete: onComplete,
	}
}

// Start arms the tick source. Any prior tick source is cancelled first so a
// double Start never yields two streams. Starting a completed timer is a no-op.
func (t *SessionTimer) Start() {
	if t.completed {
		return
	}
	t.Stop()
	t.arm()
}

// Stop halts ticks. It is a no-op on a stopped timer.
func (t *SessionTimer) Stop() {
	t.gen++
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

// Reset stops the timer and clears the count for a new session.
func (t *SessionTimer) Reset() {
	t.Stop()
	t.elapsed = 0
	t.completed = false
}

// Elapsed returns the number of ticks counted so far.
func (t *SessionTimer) Elapsed() int {
	return t.elapsed
}

// Running reports whether a tick is scheduled.
func (t *SessionTimer) Running() bool {
	return t.pending != nil
}

// Completed reports whether the completion signal has fired.
func (t *SessionTimer) Completed() bool {
	return t.completed
}

func (t *SessionTimer) arm() {
	gen := t.gen
	t.pending = t.clock.AfterFunc(TickPeriod, func() {
		if gen != t.gen {
			return
		}
		t.tick()
	})
}

// tick advances the count and checks completion as one step.
func (t *SessionTimer) tick() {
	t.pending = nil
	t.elapsed++
	gen := t.gen
	if t.onTick != nil {
		t.onTick(t.elapsed)
	}
	if gen != t.gen {
		// Stopped from inside the tick callback.
		return
	}

	if t.elapsed >= t.duration {
		t.completed = true
		t.gen++
		if t.onComplete != nil {
			t.onComplete()
		}
		return
	}
	t.arm()
}
