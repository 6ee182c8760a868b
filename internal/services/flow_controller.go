// Package services implements the session flow: the timer, the afterglow
// sequencer and the controller that owns both.
package services

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/xvierd/somatic/internal/domain"
	"github.com/xvierd/somatic/internal/ports"
)

// FlowController is the screen-level state machine:
// check-in → player → afterglow → check-in.
//
// It is not safe for concurrent use. Every method and every timer callback
// runs on the clock's event loop.
type FlowController struct {
	clock  ports.Clock
	cfg    domain.SessionConfig
	logger *log.Logger

	screen    domain.Screen
	player    *domain.PlayerSessionState
	timer     *SessionTimer
	afterglow *AfterglowSequencer
	grace     ports.Timer
	// epoch changes on every screen exit; deferred callbacks compare it
	// before mutating anything.
	epoch uint64

	sessionsComplete  int
	observers         []func(domain.Snapshot)
	onSessionComplete func(domain.MoodStyle)
}

// NewFlowController creates a controller on the check-in screen.
func NewFlowController(clock ports.Clock, cfg domain.SessionConfig, logger *log.Logger) (*FlowController, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}

	c := &FlowController{
		clock:  clock,
		cfg:    cfg,
		logger: logger,
		screen: domain.ScreenCheckIn,
	}
	c.timer = NewSessionTimer(clock, cfg.DurationSeconds, c.handleTick, c.handleTimerComplete)
	c.afterglow = NewAfterglowSequencer(clock, cfg, c.handlePhase, c.handleDismiss)
	return c, nil
}

// SetOnSessionComplete sets a callback fired when a session runs to its full
// duration. Skipped sessions do not fire it.
func (c *FlowController) SetOnSessionComplete(fn func(domain.MoodStyle)) {
	c.onSessionComplete = fn
}

// Subscribe registers an observer called after every state change.
func (c *FlowController) Subscribe(fn func(domain.Snapshot)) {
	c.observers = append(c.observers, fn)
}

// Config returns the session timing in use.
func (c *FlowController) Config() domain.SessionConfig {
	return c.cfg
}

// Screen returns the active screen.
func (c *FlowController) Screen() domain.Screen {
	return c.screen
}

// SelectMood enters the player with a fresh session for the mood.
func (c *FlowController) SelectMood(id domain.Mood) error {
	if c.screen != domain.ScreenCheckIn {
		return c.refuse("select mood")
	}
	style, err := domain.Lookup(id)
	if err != nil {
		c.logger.Error("mood selection refused", "mood", string(id), "err", err)
		return err
	}

	c.leave()
	c.screen = domain.ScreenPlayer
	c.player = domain.NewPlayerSession(style)
	c.timer.Reset()
	c.logger.Info("session started", "session", c.player.ID, "mood", string(style.ID))
	c.publish()
	return nil
}

// TogglePlay flips play/pause and starts or stops the session timer.
func (c *FlowController) TogglePlay() error {
	if c.screen != domain.ScreenPlayer {
		return c.refuse("toggle play")
	}
	if c.player.Completed {
		return domain.ErrSessionCompleted
	}

	c.player.IsPlaying = !c.player.IsPlaying
	if c.player.IsPlaying {
		c.timer.Start()
	} else {
		c.timer.Stop()
	}
	c.logger.Debug("play toggled", "session", c.player.ID, "playing", c.player.IsPlaying, "elapsed", c.player.ElapsedSeconds)
	c.publish()
	return nil
}

// SetIntensity sets the intensity, clamped to [0,100]. Play state and the
// timer are untouched.
func (c *FlowController) SetIntensity(v int) error {
	if c.screen != domain.ScreenPlayer {
		return c.refuse("set intensity")
	}
	c.player.Intensity = domain.ClampIntensity(v)
	c.publish()
	return nil
}

// AdjustIntensity moves the intensity by delta.
func (c *FlowController) AdjustIntensity(delta int) error {
	if c.screen != domain.ScreenPlayer {
		return c.refuse("adjust intensity")
	}
	return c.SetIntensity(c.player.Intensity + delta)
}

// Complete moves from the player to the afterglow immediately. It serves the
// skip button and is equivalent to an early completion.
func (c *FlowController) Complete() error {
	if c.screen != domain.ScreenPlayer {
		return c.refuse("complete")
	}
	c.logger.Info("session skipped", "session", c.player.ID, "elapsed", c.player.ElapsedSeconds)
	c.enterAfterglow(false)
	return nil
}

// Tap handles a touch on the afterglow screen.
func (c *FlowController) Tap() error {
	if c.screen != domain.ScreenAfterglow {
		return c.refuse("tap")
	}
	c.afterglow.Tap()
	return nil
}

// Dismiss returns to check-in, discarding the player session.
func (c *FlowController) Dismiss() error {
	if c.screen != domain.ScreenAfterglow {
		return c.refuse("dismiss")
	}
	c.leave()
	c.screen = domain.ScreenCheckIn
	c.player = nil
	c.timer.Reset()
	c.logger.Debug("returned to check-in")
	c.publish()
	return nil
}

// Close cancels every pending timer. The controller keeps its last state.
func (c *FlowController) Close() {
	c.leave()
}

// Snapshot returns a copy of the current state.
func (c *FlowController) Snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		Screen:           c.screen,
		Phase:            c.afterglow.Phase(),
		DurationSeconds:  c.cfg.DurationSeconds,
		SessionsComplete: c.sessionsComplete,
	}
	if c.player != nil {
		p := *c.player
		snap.Player = &p
	}
	return snap
}

// leave stops everything the current screen owns before any other mutation.
func (c *FlowController) leave() {
	switch c.screen {
	case domain.ScreenPlayer:
		c.timer.Stop()
		if c.grace != nil {
			c.grace.Stop()
			c.grace = nil
		}
	case domain.ScreenAfterglow:
		c.afterglow.Cancel()
	}
	c.epoch++
}

func (c *FlowController) enterAfterglow(natural bool) {
	mood := c.player.Mood
	c.leave()
	c.player.IsPlaying = false
	c.screen = domain.ScreenAfterglow
	c.sessionsComplete++
	c.afterglow.Begin()
	c.publish()

	if natural && c.onSessionComplete != nil {
		c.onSessionComplete(mood)
	}
}

func (c *FlowController) handleTick(elapsed int) {
	if c.screen != domain.ScreenPlayer || c.player == nil || c.player.Completed {
		c.logger.Debug("stale timer event", "kind", "tick", "screen", string(c.screen))
		return
	}
	c.player.ElapsedSeconds = elapsed
	c.publish()
}

func (c *FlowController) handleTimerComplete() {
	if c.screen != domain.ScreenPlayer || c.player == nil || c.player.Completed {
		c.logger.Debug("stale timer event", "kind", "complete", "screen", string(c.screen))
		return
	}
	c.timer.Stop()
	c.player.IsPlaying = false
	c.player.Completed = true
	c.logger.Info("session completed", "session", c.player.ID, "elapsed", c.player.ElapsedSeconds)

	epoch := c.epoch
	c.grace = c.clock.AfterFunc(c.cfg.Grace, func() {
		if epoch != c.epoch || c.screen != domain.ScreenPlayer {
			c.logger.Debug("stale timer event", "kind", "grace", "screen", string(c.screen))
			return
		}
		c.grace = nil
		c.enterAfterglow(true)
	})
	c.publish()
}

func (c *FlowController) handlePhase(phase domain.AfterglowPhase) {
	if c.screen != domain.ScreenAfterglow {
		c.logger.Debug("stale timer event", "kind", "phase", "screen", string(c.screen))
		return
	}
	c.logger.Debug("afterglow phase", "phase", string(phase))
	c.publish()
}

func (c *FlowController) handleDismiss() {
	if err := c.Dismiss(); err != nil {
		c.logger.Debug("stale timer event", "kind", "dismiss", "err", err)
	}
}

func (c *FlowController) refuse(event string) error {
	c.logger.Debug("event refused", "event", event, "screen", string(c.screen))
	return fmt.Errorf("%w: %s on %s screen", domain.ErrInvalidTransition, event, c.screen)
}

func (c *FlowController) publish() {
	if len(c.observers) == 0 {
		return
	}
	snap := c.Snapshot()
	for _, fn := range c.observers {
		fn(snap)
	}
}

// Ensure FlowController implements ports.SessionController.
var _ ports.SessionController = (*FlowController)(nil)
