package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xvierd/somatic/internal/adapters/clock"
	"github.com/xvierd/somatic/internal/domain"
)

type phaseEvent struct {
	at    time.Duration
	phase domain.AfterglowPhase
}

type afterglowSpy struct {
	clk       *clock.Fake
	phases    []phaseEvent
	dismissed []time.Duration
}

func newSpySequencer() (*AfterglowSequencer, *afterglowSpy, *clock.Fake) {
	clk := clock.NewFake()
	spy := &afterglowSpy{clk: clk}
	seq := NewAfterglowSequencer(clk, domain.DefaultSessionConfig(20),
		func(p domain.AfterglowPhase) { spy.phases = append(spy.phases, phaseEvent{clk.Now(), p}) },
		func() { spy.dismissed = append(spy.dismissed, clk.Now()) },
	)
	return seq, spy, clk
}

func TestAfterglowSequencer_PhaseTimeline(t *testing.T) {
	seq, spy, clk := newSpySequencer()

	seq.Begin()
	assert.Equal(t, domain.PhaseIntro, seq.Phase())
	assert.True(t, seq.Active())

	clk.Advance(8 * time.Second)

	assert.Equal(t, []phaseEvent{
		{2 * time.Second, domain.PhasePrompt},
		{4 * time.Second, domain.PhaseAffirmation},
	}, spy.phases)
	assert.Equal(t, []time.Duration{8 * time.Second}, spy.dismissed)
	assert.False(t, seq.Active())
	assert.Equal(t, 0, clk.Pending())
}

func TestAfterglowSequencer_AffirmationHolds(t *testing.T) {
	seq, spy, clk := newSpySequencer()

	seq.Begin()
	clk.Advance(7 * time.Second)

	assert.Equal(t, domain.PhaseAffirmation, seq.Phase())
	assert.Empty(t, spy.dismissed)
}

func TestAfterglowSequencer_TapCancelsEverything(t *testing.T) {
	tests := []struct {
		name       string
		tapAt      time.Duration
		wantPhases int
	}{
		{"during intro", 500 * time.Millisecond, 0},
		{"during prompt", 3 * time.Second, 1},
		{"during affirmation", 6 * time.Second, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, spy, clk := newSpySequencer()

			seq.Begin()
			clk.Advance(tt.tapAt)
			assert.True(t, seq.Tap())
			assert.Len(t, spy.dismissed, 1)
			assert.Equal(t, 0, clk.Pending())

			phasesAtTap := len(spy.phases)
			clk.Advance(20 * time.Second)

			assert.Equal(t, tt.wantPhases, phasesAtTap)
			assert.Len(t, spy.phases, phasesAtTap, "no phase callback after dismissal")
			assert.Len(t, spy.dismissed, 1, "no auto-dismiss after tap")
		})
	}
}

func TestAfterglowSequencer_TapWhenIdle(t *testing.T) {
	seq, spy, _ := newSpySequencer()
	assert.False(t, seq.Tap())
	assert.Empty(t, spy.dismissed)
}

func TestAfterglowSequencer_CancelDoesNotDismiss(t *testing.T) {
	seq, spy, clk := newSpySequencer()

	seq.Begin()
	clk.Advance(time.Second)
	seq.Cancel()
	clk.Advance(20 * time.Second)

	assert.Empty(t, spy.phases)
	assert.Empty(t, spy.dismissed)
	assert.Equal(t, domain.PhaseNone, seq.Phase())
}

func TestAfterglowSequencer_BeginRestartsTimeline(t *testing.T) {
	seq, spy, clk := newSpySequencer()

	seq.Begin()
	clk.Advance(3 * time.Second)
	seq.Begin()
	assert.Equal(t, domain.PhaseIntro, seq.Phase())

	clk.Advance(8 * time.Second)
	assert.Len(t, spy.dismissed, 1)
	assert.Equal(t, 11*time.Second, spy.dismissed[0])
}
