package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/somatic/internal/domain"
)

func (m Model) viewAfterglow() string {
	copyBlock := m.afterglowCopy()
	if m.particles == nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, copyBlock)
	}

	// Particles fill the screen; the copy replaces the middle rows.
	lines := strings.Split(m.particles.Render(m.width, m.height), "\n")
	copyLines := strings.Split(copyBlock, "\n")
	top := (len(lines) - len(copyLines)) / 2
	if top < 0 {
		top = 0
	}
	for i, cl := range copyLines {
		if top+i >= len(lines) {
			break
		}
		lines[top+i] = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, cl)
	}
	return strings.Join(lines, "\n")
}

func (m Model) afterglowCopy() string {
	phase := m.snap.Phase
	headline := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	if phase != domain.PhaseAffirmation {
		return headline.Render(phase.Headline())
	}

	badge := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(m.theme.AfterglowGradientStart)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.AfterglowGradientEnd)).
		Padding(1, 4).
		Render(phase.Headline())

	return lipgloss.JoinVertical(lipgloss.Center,
		badge,
		"",
		hint.Render("Tap anywhere to continue"),
	)
}
