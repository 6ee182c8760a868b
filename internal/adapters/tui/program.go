package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/somatic/internal/config"
	"github.com/xvierd/somatic/internal/ports"
)

// EventSource is the clock loop as seen by the UI: a queue of callbacks to
// run on the Bubble Tea goroutine and a signal that the loop has shut down.
type EventSource interface {
	Events() <-chan func()
	Done() <-chan struct{}
}

// Options configures a Program.
type Options struct {
	Theme                *config.ThemeConfig
	NotificationsEnabled bool
	OnNotificationToggle func(bool)
}

// Program runs the full-screen session UI.
type Program struct {
	ctrl    ports.SessionController
	events  EventSource
	opts    Options
	mu      sync.Mutex
	program *tea.Program

	// teaOpts are appended to the program options; tests swap the terminal.
	teaOpts []tea.ProgramOption
}

// NewProgram creates a UI for the controller. The controller's clock must
// deliver its callbacks through events.
func NewProgram(ctrl ports.SessionController, events EventSource, opts Options) *Program {
	return &Program{ctrl: ctrl, events: events, opts: opts}
}

// Run starts the interface and blocks until the user quits or ctx ends.
// Cancelling ctx quits through Stop so the terminal is restored normally.
func (p *Program) Run(ctx context.Context) error {
	model := NewModel(p.ctrl, p.events, p.opts.Theme)
	model.SetNotifications(p.opts.NotificationsEnabled, p.opts.OnNotificationToggle)

	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}, p.teaOpts...)

	p.mu.Lock()
	p.program = tea.NewProgram(model, opts...)
	program := p.program
	p.mu.Unlock()

	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-ctx.Done():
			p.Stop()
		case <-finished:
		}
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// Stop gracefully stops the interface.
func (p *Program) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.program != nil {
		p.program.Quit()
	}
}
