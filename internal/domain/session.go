package domain

import (
	"fmt"
	"time"
)

// Screen is the top-level screen the controller is showing.
type Screen string

const (
	ScreenCheckIn   Screen = "check-in"
	ScreenPlayer    Screen = "player"
	ScreenAfterglow Screen = "afterglow"
)

const (
	// DefaultIntensity is the intensity a fresh player session starts at.
	DefaultIntensity = 50
	MinIntensity     = 0
	MaxIntensity     = 100
)

// SessionConfig holds the tunable timing of a session and its afterglow.
type SessionConfig struct {
	// DurationSeconds is the number of playing seconds before auto-completion.
	// It has no default and must be supplied by configuration.
	DurationSeconds int
	// Grace is the delay between timer completion and the afterglow screen.
	Grace time.Duration
	// PhaseDwell holds the dwell of every afterglow phase except the terminal one.
	PhaseDwell []time.Duration
	// AutoDismiss is the total afterglow lifetime.
	AutoDismiss time.Duration
}

// DefaultSessionConfig returns the standard grace and afterglow timing with
// the given playable duration.
func DefaultSessionConfig(durationSeconds int) SessionConfig {
	return SessionConfig{
		DurationSeconds: durationSeconds,
		Grace:           time.Second,
		PhaseDwell:      []time.Duration{2 * time.Second, 2 * time.Second},
		AutoDismiss:     8 * time.Second,
	}
}

// Validate checks the configuration is usable.
func (c SessionConfig) Validate() error {
	if c.DurationSeconds == 0 {
		return ErrDurationNotSet
	}
	if c.DurationSeconds < 0 {
		return fmt.Errorf("%w: session duration %ds", ErrInvalidDuration, c.DurationSeconds)
	}
	if c.Grace < 0 {
		return fmt.Errorf("%w: grace %s", ErrInvalidDuration, c.Grace)
	}
	if len(c.PhaseDwell) != len(AfterglowPhases)-1 {
		return fmt.Errorf("%w: want %d afterglow phase durations, got %d",
			ErrInvalidDuration, len(AfterglowPhases)-1, len(c.PhaseDwell))
	}
	for i, d := range c.PhaseDwell {
		if d <= 0 {
			return fmt.Errorf("%w: afterglow phase %d dwell %s", ErrInvalidDuration, i, d)
		}
	}
	if c.AutoDismiss <= 0 {
		return fmt.Errorf("%w: afterglow auto-dismiss %s", ErrInvalidDuration, c.AutoDismiss)
	}
	return nil
}

// PlayerSessionState is the mutable state of one play-through.
type PlayerSessionState struct {
	ID             string
	Mood           MoodStyle
	IsPlaying      bool
	Intensity      int
	ElapsedSeconds int
	Completed      bool
}

// NewPlayerSession creates a paused session at default intensity.
func NewPlayerSession(mood MoodStyle) *PlayerSessionState {
	return &PlayerSessionState{
		ID:        generateID(),
		Mood:      mood,
		Intensity: DefaultIntensity,
	}
}

// ClampIntensity bounds an intensity value to [0,100].
func ClampIntensity(v int) int {
	if v < MinIntensity {
		return MinIntensity
	}
	if v > MaxIntensity {
		return MaxIntensity
	}
	return v
}

// Drive returns the normalized intensity handed to the visualizer.
func (s *PlayerSessionState) Drive() float64 {
	return float64(s.Intensity) / 100
}

// Progress returns elapsed/total in [0,1].
func (s *PlayerSessionState) Progress(durationSeconds int) float64 {
	if durationSeconds <= 0 {
		return 0
	}
	p := float64(s.ElapsedSeconds) / float64(durationSeconds)
	if p > 1 {
		return 1
	}
	return p
}

// Remaining returns how long is left to play.
func (s *PlayerSessionState) Remaining(durationSeconds int) time.Duration {
	left := durationSeconds - s.ElapsedSeconds
	if left < 0 {
		left = 0
	}
	return time.Duration(left) * time.Second
}

// Snapshot is an immutable copy of controller state handed to consumers.
type Snapshot struct {
	Screen           Screen
	Player           *PlayerSessionState
	Phase            AfterglowPhase
	DurationSeconds  int
	SessionsComplete int
}

// Mood returns the active mood style, if any.
func (s Snapshot) Mood() (MoodStyle, bool) {
	if s.Player == nil {
		return MoodStyle{}, false
	}
	return s.Player.Mood, true
}

// Drive returns the visualizer drive factor, zero outside the player.
func (s Snapshot) Drive() float64 {
	if s.Player == nil {
		return 0
	}
	return s.Player.Drive()
}

// IsPlaying reports whether the player is running.
func (s Snapshot) IsPlaying() bool {
	return s.Player != nil && s.Player.IsPlaying
}

// GetScreenLabel returns a human-readable label for a screen.
func GetScreenLabel(s Screen) string {
	switch s {
	case ScreenCheckIn:
		return "Check-In"
	case ScreenPlayer:
		return "Player"
	case ScreenAfterglow:
		return "Afterglow"
	default:
		return "Unknown"
	}
}
