// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/somatic/internal/config"
	"github.com/xvierd/somatic/internal/domain"
	"github.com/xvierd/somatic/internal/ports"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg *config.NotificationConfig

	notify func(title, message string) error
	beep   func() error
}

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	beeep.AppName = "somatic"
	return &Notifier{
		cfg: cfg,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		beep: func() error {
			return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
		},
	}
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}
	if err := n.notify(title, message); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	if n.cfg.Sound {
		if err := n.beep(); err != nil {
			return fmt.Errorf("failed to play sound: %w", err)
		}
	}
	return nil
}

// NotifySessionComplete displays a notification when a session runs its
// full duration.
func (n *Notifier) NotifySessionComplete(mood domain.MoodStyle) error {
	title := fmt.Sprintf("%s %s complete", mood.Icon, mood.Name)
	message := "Take a breath. Feel lighter?"
	return n.Notify(title, message)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

// Ensure Notifier implements ports.SessionNotifier.
var _ ports.SessionNotifier = (*Notifier)(nil)
