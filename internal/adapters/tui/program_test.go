package tui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// newHeadlessProgram returns a Program that renders nowhere and reads no input.
func newHeadlessProgram(t *testing.T) *Program {
	t.Helper()
	_, ctrl, _ := newTestModel(t)
	p := NewProgram(ctrl, nil, Options{})
	p.teaOpts = []tea.ProgramOption{
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
	}
	return p
}

func runAsync(p *Program, ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	return done
}

func waitRun(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return")
	}
}

func TestProgram_StopBeforeRun(t *testing.T) {
	p := newHeadlessProgram(t)
	p.Stop()
}

func TestProgram_ContextCancelQuits(t *testing.T) {
	p := newHeadlessProgram(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := runAsync(p, ctx)
	time.Sleep(50 * time.Millisecond)
	cancel()

	waitRun(t, done)
}

func TestProgram_StopQuits(t *testing.T) {
	p := newHeadlessProgram(t)
	done := runAsync(p, context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for {
		p.mu.Lock()
		started := p.program != nil
		p.mu.Unlock()
		if started {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("program never started")
		}
		time.Sleep(5 * time.Millisecond)
	}

	p.Stop()
	waitRun(t, done)
}
