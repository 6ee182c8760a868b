package services

import (
	"time"

	"github.com/xvierd/somatic/internal/domain"
	"github.com/xvierd/somatic/internal/ports"
)

// AfterglowSequencer runs the fixed closing timeline: phase advances at the
// cumulative dwell offsets and an auto-dismiss at the configured lifetime.
// Every callback is registered in Begin and cancelled together by whichever
// dismissal path runs first.
type AfterglowSequencer struct {
	clock       ports.Clock
	dwell       []time.Duration
	autoDismiss time.Duration
	onPhase     func(domain.AfterglowPhase)
	onDismiss   func()

	phase  domain.AfterglowPhase
	timers []ports.Timer
	gen    uint64
	active bool
}

// NewAfterglowSequencer creates an idle sequencer.
func NewAfterglowSequencer(clock ports.Clock, cfg domain.SessionConfig, onPhase func(domain.AfterglowPhase), onDismiss func()) *AfterglowSequencer {
	return &AfterglowSequencer{
		clock:       clock,
		dwell:       cfg.PhaseDwell,
		autoDismiss: cfg.AutoDismiss,
		onPhase:     onPhase,
		onDismiss:   onDismiss,
	}
}

// Begin starts the timeline at the first phase.
func (s *AfterglowSequencer) Begin() {
	s.Cancel()
	s.active = true
	s.phase = domain.AfterglowPhases[0]
	gen := s.gen

	var at time.Duration
	for i, d := range s.dwell {
		if i+1 >= len(domain.AfterglowPhases) {
			break
		}
		at += d
		next := domain.AfterglowPhases[i+1]
		s.timers = append(s.timers, s.clock.AfterFunc(at, func() {
			if gen != s.gen || !s.active {
				return
			}
			s.advance(next)
		}))
	}

	s.timers = append(s.timers, s.clock.AfterFunc(s.autoDismiss, func() {
		if gen != s.gen || !s.active {
			return
		}
		s.dismiss()
	}))
}

// advance only ever moves forward.
func (s *AfterglowSequencer) advance(next domain.AfterglowPhase) {
	if next.Index() <= s.phase.Index() {
		return
	}
	s.phase = next
	if s.onPhase != nil {
		s.onPhase(next)
	}
}

// Tap dismisses immediately. It is ignored when the sequencer is idle.
func (s *AfterglowSequencer) Tap() bool {
	if !s.active {
		return false
	}
	s.dismiss()
	return true
}

func (s *AfterglowSequencer) dismiss() {
	s.Cancel()
	if s.onDismiss != nil {
		s.onDismiss()
	}
}

// Cancel stops every pending phase and dismiss callback without dismissing.
func (s *AfterglowSequencer) Cancel() {
	s.gen++
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.active = false
	s.phase = domain.PhaseNone
}

// Phase returns the current phase, PhaseNone when idle.
func (s *AfterglowSequencer) Phase() domain.AfterglowPhase {
	return s.phase
}

// Active reports whether the timeline is running.
func (s *AfterglowSequencer) Active() bool {
	return s.active
}
