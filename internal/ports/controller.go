package ports

import (
	"github.com/xvierd/somatic/internal/domain"
)

// SessionController is the event contract between the user-facing layers
// (terminal UI, MCP tools) and the session flow controller.
// This is a driving port (called by adapters, implemented by services).
//
// All methods must be called from the event loop goroutine.
type SessionController interface {
	// SelectMood enters the player for the given mood from check-in.
	SelectMood(id domain.Mood) error

	// TogglePlay flips play/pause in the player.
	TogglePlay() error

	// SetIntensity sets the intensity, clamped to [0,100].
	SetIntensity(v int) error

	// AdjustIntensity moves the intensity by delta, clamped to [0,100].
	AdjustIntensity(delta int) error

	// Complete leaves the player for the afterglow immediately (skip).
	Complete() error

	// Tap is a user touch on the afterglow screen.
	Tap() error

	// Dismiss returns from the afterglow to check-in.
	Dismiss() error

	// Snapshot returns a copy of the current state.
	Snapshot() domain.Snapshot

	// Subscribe registers an observer called after every state change.
	Subscribe(fn func(domain.Snapshot))
}

// SessionNotifier is told when a session finishes on its own.
// This is a driven port (implemented by adapters).
type SessionNotifier interface {
	NotifySessionComplete(mood domain.MoodStyle) error
}
