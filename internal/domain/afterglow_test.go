package domain

import "testing"

func TestAfterglowPhaseOrder(t *testing.T) {
	tests := []struct {
		phase    AfterglowPhase
		index    int
		terminal bool
		headline string
	}{
		{PhaseIntro, 0, false, "Session Complete"},
		{PhasePrompt, 1, false, "Feel lighter?"},
		{PhaseAffirmation, 2, true, "✓"},
		{PhaseNone, -1, false, ""},
	}

	for _, tt := range tests {
		if got := tt.phase.Index(); got != tt.index {
			t.Errorf("%q.Index() = %d, want %d", tt.phase, got, tt.index)
		}
		if got := tt.phase.IsTerminal(); got != tt.terminal {
			t.Errorf("%q.IsTerminal() = %v, want %v", tt.phase, got, tt.terminal)
		}
		if got := tt.phase.Headline(); got != tt.headline {
			t.Errorf("%q.Headline() = %q, want %q", tt.phase, got, tt.headline)
		}
	}
}
