package domain

import "errors"

// Common domain errors.
var (
	ErrUnknownMood       = errors.New("unknown mood")
	ErrInvalidTransition = errors.New("invalid screen transition")
	ErrSessionCompleted  = errors.New("session already completed")
	ErrInvalidDuration   = errors.New("invalid duration")
	ErrDurationNotSet    = errors.New("session duration not configured")
)
