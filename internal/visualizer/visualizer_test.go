package visualizer

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/somatic/internal/domain"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestForVariant(t *testing.T) {
	for _, v := range []domain.Variant{domain.VariantShake, domain.VariantHum, domain.VariantRock} {
		if got := ForVariant(v).Variant(); got != v {
			t.Errorf("ForVariant(%v).Variant() = %v", v, got)
		}
	}
}

func TestDriveMapping(t *testing.T) {
	if got := ShakePeak(0.5); !approx(got, 0.75) {
		t.Errorf("ShakePeak(0.5) = %v, want 0.75", got)
	}
	if got := HumPeriod(0.5); got != 1500*time.Millisecond {
		t.Errorf("HumPeriod(0.5) = %v, want 1.5s", got)
	}
	if got := HumPeriod(0); got != 0 {
		t.Errorf("HumPeriod(0) = %v, want 0", got)
	}
	if got := RockPeak(1); !approx(got, 1.2) {
		t.Errorf("RockPeak(1) = %v, want 1.2", got)
	}
}

func TestPausedOrbsRest(t *testing.T) {
	tests := []struct {
		variant domain.Variant
		want    float64
	}{
		{domain.VariantShake, 1},
		{domain.VariantHum, 0.5},
		{domain.VariantRock, 1},
	}

	for _, tt := range tests {
		orb := ForVariant(tt.variant)
		for _, ts := range []time.Duration{0, 150 * time.Millisecond, 2 * time.Second} {
			f := Frame{Playing: false, Drive: 1, T: ts}
			if got := orb.Scale(f); !approx(got, tt.want) {
				t.Errorf("%v paused Scale at %v = %v, want %v", tt.variant, ts, got, tt.want)
			}
		}
	}
}

func TestPlayingOrbsReachPeak(t *testing.T) {
	tests := []struct {
		name    string
		variant domain.Variant
		drive   float64
		at      time.Duration
		want    float64
	}{
		{"shake full drive", domain.VariantShake, 1, 150 * time.Millisecond, 1.5},
		{"shake half drive", domain.VariantShake, 0.5, 150 * time.Millisecond, 0.75},
		{"shake cycle start", domain.VariantShake, 1, 300 * time.Millisecond, 1},
		{"rock full drive", domain.VariantRock, 1, 2 * time.Second, 1.2},
		{"rock half drive", domain.VariantRock, 0.5, 2 * time.Second, 0.6},
		{"hum half period", domain.VariantHum, 0.5, 750 * time.Millisecond, 1.625},
		{"hum zero drive", domain.VariantHum, 0, time.Second, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Frame{Playing: true, Drive: tt.drive, T: tt.at}
			if got := ForVariant(tt.variant).Scale(f); !approx(got, tt.want) {
				t.Errorf("Scale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyframes(t *testing.T) {
	values := []float64{1, 2, 1}
	period := 4 * time.Second

	tests := []struct {
		at   time.Duration
		want float64
	}{
		{0, 1},
		{2 * time.Second, 2},
		{4 * time.Second, 1},
		{6 * time.Second, 2},
	}
	for _, tt := range tests {
		if got := keyframes(values, period, tt.at); !approx(got, tt.want) {
			t.Errorf("keyframes at %v = %v, want %v", tt.at, got, tt.want)
		}
	}

	if got := keyframes(values, 0, time.Second); got != 1 {
		t.Errorf("keyframes with zero period = %v, want 1", got)
	}
}

func TestRenderDimensions(t *testing.T) {
	style, _ := domain.Lookup(domain.MoodHeavy)
	for _, v := range []domain.Variant{domain.VariantShake, domain.VariantHum, domain.VariantRock} {
		f := Frame{Playing: true, Drive: 0.7, Style: style, T: 1300 * time.Millisecond}
		out := ForVariant(v).Render(f, 40, 15)

		lines := strings.Split(out, "\n")
		if len(lines) != 15 {
			t.Fatalf("%v: %d lines, want 15", v, len(lines))
		}
		for i, line := range lines {
			if w := lipgloss.Width(line); w != 40 {
				t.Errorf("%v line %d width = %d, want 40", v, i, w)
			}
		}
		if !strings.ContainsRune(out, '█') {
			t.Errorf("%v: render has no orb core", v)
		}
	}
}

func TestPausedRenderIsStable(t *testing.T) {
	style, _ := domain.Lookup(domain.MoodHeavy)
	orb := ForVariant(domain.VariantShake)
	f := Frame{Playing: false, Drive: 1, Style: style}

	if orb.Render(f, 30, 11) != orb.Render(f, 30, 11) {
		t.Error("paused shake orb should not jitter")
	}
}

func TestFrameFor(t *testing.T) {
	style, _ := domain.Lookup(domain.MoodAnxious)
	snap := domain.Snapshot{
		Screen: domain.ScreenPlayer,
		Player: &domain.PlayerSessionState{Mood: style, IsPlaying: true, Intensity: 30},
	}

	f := FrameFor(snap, time.Second)
	if !f.Playing || !approx(f.Drive, 0.3) || f.Style.ID != domain.MoodAnxious || f.T != time.Second {
		t.Errorf("FrameFor() = %+v", f)
	}

	empty := FrameFor(domain.Snapshot{Screen: domain.ScreenCheckIn}, 0)
	if empty.Playing || empty.Drive != 0 {
		t.Errorf("FrameFor(check-in) = %+v, want zero frame", empty)
	}
}

func TestParticlesDeterministic(t *testing.T) {
	a, b := NewParticles(7), NewParticles(7)
	for i := 0; i < 30; i++ {
		a.Step(100 * time.Millisecond)
		b.Step(100 * time.Millisecond)
	}
	if a.Render(50, 12) != b.Render(50, 12) {
		t.Error("same seed produced different particle fields")
	}
}

func TestParticlesFadeIn(t *testing.T) {
	p := NewParticles(1)
	if strings.TrimSpace(stripTones(p.Render(50, 12))) != "" {
		t.Error("particles visible before any step")
	}

	for i := 0; i < 60; i++ {
		p.Step(100 * time.Millisecond)
	}
	if strings.TrimSpace(stripTones(p.Render(50, 12))) == "" {
		t.Error("no particles visible after six seconds")
	}
}

func stripTones(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		for _, r := range line {
			if r == '·' || r == '•' {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
