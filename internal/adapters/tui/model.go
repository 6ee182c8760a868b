// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"fmt"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/somatic/internal/config"
	"github.com/xvierd/somatic/internal/domain"
	"github.com/xvierd/somatic/internal/ports"
	"github.com/xvierd/somatic/internal/visualizer"
)

// animInterval is the redraw period for orb and particle animation. It is
// independent of the session clock.
const animInterval = 80 * time.Millisecond

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// loopEventMsg carries one callback from the clock loop. Running it inside
// Update keeps timer callbacks and key handling on one goroutine.
type loopEventMsg func()

// loopClosedMsg is sent when the clock loop shuts down.
type loopClosedMsg struct{}

// animTickMsg is sent on every animation frame.
type animTickMsg time.Time

// Model represents the TUI state.
type Model struct {
	ctrl   ports.SessionController
	events EventSource
	snap   domain.Snapshot

	theme    config.ThemeConfig
	keys     keyMap
	help     help.Model
	progress progress.Model
	width    int
	height   int

	checkIn   checkIn
	orb       visualizer.Orb
	animT     time.Duration
	particles *visualizer.Particles
	lastErr   error

	// Notifications
	notificationsEnabled bool
	notificationToggle   func(bool)
}

// NewModel creates a new TUI model bound to a controller. events may be nil
// when timer callbacks are delivered some other way (tests).
func NewModel(ctrl ports.SessionController, events EventSource, theme *config.ThemeConfig) Model {
	m := Model{
		ctrl:     ctrl,
		events:   events,
		theme:    resolveTheme(theme),
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		checkIn:  newCheckIn(),
	}
	return m.sync()
}

// SetNotifications sets the initial notification state and the callback
// invoked when the user toggles it.
func (m *Model) SetNotifications(enabled bool, toggle func(bool)) {
	m.notificationsEnabled = enabled
	m.notificationToggle = toggle
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), animTickCmd())
}

// waitForEvent returns a tea.Cmd that blocks until the loop has a callback.
func waitForEvent(src EventSource) tea.Cmd {
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case fn := <-src.Events():
			return loopEventMsg(fn)
		case <-src.Done():
			return loopClosedMsg{}
		}
	}
}

// animTickCmd creates a command that sends an animation frame message.
func animTickCmd() tea.Cmd {
	return tea.Tick(animInterval, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

// sync refreshes the cached snapshot and resets per-screen presentation
// state when the screen changed.
func (m Model) sync() Model {
	prev := m.snap
	m.snap = m.ctrl.Snapshot()
	m.keys.screen = m.snap.Screen

	switch m.snap.Screen {
	case domain.ScreenCheckIn:
		if prev.Screen != domain.ScreenCheckIn {
			m.checkIn = newCheckIn()
		}
	case domain.ScreenPlayer:
		if prev.Player == nil || prev.Player.ID != m.snap.Player.ID {
			style := m.snap.Player.Mood
			m.orb = visualizer.ForVariant(style.Variant)
			m.animT = 0
			m.progress = progress.New(
				progress.WithGradient(style.Primary, style.Secondary),
				progress.WithoutPercentage(),
				progress.WithWidth(m.progressWidth()),
			)
		}
	case domain.ScreenAfterglow:
		if prev.Screen != domain.ScreenAfterglow {
			m.particles = visualizer.NewParticles(uint64(time.Now().UnixNano()))
		}
	}
	return m
}

// apply runs a controller event and records a refused transition for display.
func (m Model) apply(fn func() error) Model {
	m.lastErr = fn()
	return m.sync()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = m.progressWidth()
		m.help.Width = msg.Width
		return m, nil

	case loopEventMsg:
		msg()
		return m.sync(), waitForEvent(m.events)

	case loopClosedMsg:
		return m, tea.Quit

	case animTickMsg:
		switch {
		case m.snap.IsPlaying():
			m.animT += animInterval
		case m.snap.Screen == domain.ScreenAfterglow && m.particles != nil:
			m.particles.Step(animInterval)
		}
		return m, animTickCmd()

	case tea.MouseMsg:
		if m.snap.Screen == domain.ScreenAfterglow && msg.Action == tea.MouseActionPress {
			return m.apply(m.ctrl.Tap), nil
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.snap.Screen {
		case domain.ScreenCheckIn:
			return m.updateCheckIn(msg)
		case domain.ScreenPlayer:
			return m.updatePlayer(msg)
		case domain.ScreenAfterglow:
			// Any key counts as a tap.
			return m.apply(m.ctrl.Tap), nil
		}
	}
	return m, nil
}

func (m Model) updateCheckIn(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		if m.checkIn.filter != "" {
			m.checkIn.filter = ""
			m.checkIn.cursor = 0
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Select):
		mood, ok := m.checkIn.current()
		if !ok {
			return m, nil
		}
		return m.selectMood(mood.ID), nil
	case key.Matches(msg, m.keys.Up):
		m.checkIn = m.checkIn.up()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.checkIn = m.checkIn.down()
		return m, nil
	case key.Matches(msg, m.keys.Pick):
		if mood, ok := m.checkIn.pick(msg.String()); ok {
			return m.selectMood(mood.ID), nil
		}
		return m, nil
	}

	if next, ok := m.checkIn.typed(msg); ok {
		m.checkIn = next
	}
	return m, nil
}

func (m Model) selectMood(id domain.Mood) Model {
	return m.apply(func() error { return m.ctrl.SelectMood(id) })
}

func (m Model) updatePlayer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		return m.apply(m.ctrl.TogglePlay), nil
	case key.Matches(msg, m.keys.Louder):
		return m.apply(func() error { return m.ctrl.AdjustIntensity(IntensityStep) }), nil
	case key.Matches(msg, m.keys.Softer):
		return m.apply(func() error { return m.ctrl.AdjustIntensity(-IntensityStep) }), nil
	case key.Matches(msg, m.keys.Skip):
		return m.apply(m.ctrl.Complete), nil
	case key.Matches(msg, m.keys.Notify):
		m.notificationsEnabled = !m.notificationsEnabled
		if m.notificationToggle != nil {
			m.notificationToggle(m.notificationsEnabled)
		}
	}
	return m, nil
}

func (m Model) progressWidth() int {
	w := m.width - 8
	if w > 48 {
		w = 48
	}
	if w < 10 {
		w = 10
	}
	return w
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var body string
	switch m.snap.Screen {
	case domain.ScreenPlayer:
		body = m.viewPlayer()
	case domain.ScreenAfterglow:
		return m.viewAfterglow()
	default:
		body = m.viewCheckIn()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// formatDuration formats a duration as MM:SS.
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
