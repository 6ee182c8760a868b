package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/somatic/internal/domain"
	"github.com/xvierd/somatic/internal/visualizer"
)

const intensityBarWidth = 20

func (m Model) viewPlayer() string {
	p := m.snap.Player
	style := p.Mood
	primary := lipgloss.Color(style.Primary)

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	descStyle := lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color(m.theme.ColorText))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	sections := []string{
		titleStyle.Render(style.Name),
		descStyle.Render(style.Description),
		"",
	}

	orbW, orbH := m.orbSize()
	sections = append(sections, m.orb.Render(visualizer.FrameFor(m.snap, m.animT), orbW, orbH))
	sections = append(sections, "")

	timeColor := primary
	if !p.IsPlaying {
		timeColor = lipgloss.Color(m.theme.ColorPaused)
	}
	remaining := p.Remaining(m.snap.DurationSeconds)
	sections = append(sections, renderBigTime(formatDuration(remaining), timeColor, m.width))
	sections = append(sections, m.progress.ViewAs(p.Progress(m.snap.DurationSeconds)))
	sections = append(sections, "")

	sections = append(sections, renderIntensity(p.Intensity, primary, helpStyle))
	sections = append(sections, m.playState(primary))
	sections = append(sections, "")

	if m.lastErr != nil {
		sections = append(sections, helpStyle.Render(errorHint(m.lastErr)))
	}

	notif := "off"
	if m.notificationsEnabled {
		notif = "on"
	}
	sections = append(sections, m.help.View(m.keys)+helpStyle.Render(fmt.Sprintf("  notify %s", notif)))

	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

func (m Model) orbSize() (int, int) {
	w := m.width - 4
	if w > 48 {
		w = 48
	}
	h := m.height - 18
	if h > 17 {
		h = 17
	}
	if h < 5 {
		h = 5
	}
	if w < 10 {
		w = 10
	}
	return w, h
}

func (m Model) playState(primary lipgloss.Color) string {
	p := m.snap.Player
	switch {
	case p.Completed:
		return lipgloss.NewStyle().Foreground(primary).Render("✓ complete")
	case p.IsPlaying:
		return lipgloss.NewStyle().Bold(true).Foreground(primary).Render("▶ playing")
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorPaused)).Render(m.theme.IconPaused + " paused")
	}
}

func renderIntensity(intensity int, color lipgloss.Color, label lipgloss.Style) string {
	filled := intensity * intensityBarWidth / domain.MaxIntensity
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Faint(true).Render(strings.Repeat("─", intensityBarWidth-filled))
	return label.Render("Intensity ") + bar + label.Render(fmt.Sprintf(" %3d%%", intensity))
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, domain.ErrSessionCompleted):
		return "session complete, moving on"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "not available right now"
	default:
		return err.Error()
	}
}
