package tui

import (
	"fmt"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/xvierd/somatic/internal/domain"
)

// checkIn is the mood picker. Typing narrows the cards with a fuzzy match
// on label, id and session name.
type checkIn struct {
	moods  []domain.MoodStyle
	filter string
	cursor int
}

func newCheckIn() checkIn {
	return checkIn{moods: domain.Moods()}
}

type moodSource []domain.MoodStyle

func (s moodSource) String(i int) string {
	return s[i].Label + " " + string(s[i].ID) + " " + s[i].Name
}

func (s moodSource) Len() int { return len(s) }

// visible returns the moods matching the filter, best match first.
func (c checkIn) visible() []domain.MoodStyle {
	if c.filter == "" {
		return c.moods
	}
	matches := fuzzy.FindFrom(c.filter, moodSource(c.moods))
	out := make([]domain.MoodStyle, 0, len(matches))
	for _, match := range matches {
		out = append(out, c.moods[match.Index])
	}
	return out
}

// current returns the highlighted mood, if any card is visible.
func (c checkIn) current() (domain.MoodStyle, bool) {
	items := c.visible()
	if len(items) == 0 {
		return domain.MoodStyle{}, false
	}
	i := c.cursor
	if i >= len(items) {
		i = len(items) - 1
	}
	return items[i], true
}

func (c checkIn) up() checkIn {
	if c.cursor > 0 {
		c.cursor--
	}
	return c
}

func (c checkIn) down() checkIn {
	if c.cursor < len(c.visible())-1 {
		c.cursor++
	}
	return c
}

// typed applies a key to the filter. It reports false for keys the filter
// does not consume.
func (c checkIn) typed(msg tea.KeyMsg) (checkIn, bool) {
	switch msg.Type {
	case tea.KeyBackspace:
		if c.filter == "" {
			return c, false
		}
		r := []rune(c.filter)
		c.filter = string(r[:len(r)-1])
		c.cursor = 0
		return c, true
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if !unicode.IsLetter(r) {
				return c, false
			}
		}
		c.filter += strings.ToLower(string(msg.Runes))
		c.cursor = 0
		return c, true
	}
	return c, false
}

// pick returns the catalog mood for a 1-based quick-pick digit.
func (c checkIn) pick(digit string) (domain.MoodStyle, bool) {
	if len(digit) != 1 {
		return domain.MoodStyle{}, false
	}
	i := int(digit[0] - '1')
	if i < 0 || i >= len(c.moods) {
		return domain.MoodStyle{}, false
	}
	return c.moods[i], true
}

func (m Model) viewCheckIn() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	cardWidth := m.width - 8
	if cardWidth > 48 {
		cardWidth = 48
	}
	if cardWidth < 24 {
		cardWidth = 24
	}

	sections := []string{
		titleStyle.Render(m.theme.IconApp + " How is your body feeling?"),
		"",
	}

	items := m.checkIn.visible()
	selected, _ := m.checkIn.current()
	for _, mood := range items {
		sections = append(sections, renderMoodCard(mood, mood.ID == selected.ID, cardWidth, m.catalogIndex(mood.ID)))
	}
	if len(items) == 0 {
		sections = append(sections, dimStyle.Render("No mood matches \""+m.checkIn.filter+"\""))
	}

	sections = append(sections, "")
	if m.checkIn.filter != "" {
		sections = append(sections, dimStyle.Render("filter: "+m.checkIn.filter))
	}
	sections = append(sections, m.help.View(m.keys))
	if m.sessionsComplete > 0 {
		sections = append(sections, dimStyle.Render(pluralSessions(m.sessionsComplete)))
	}

	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

func renderMoodCard(mood domain.MoodStyle, active bool, width, index int) string {
	border := lipgloss.HiddenBorder()
	if active {
		border = lipgloss.RoundedBorder()
	}
	card := lipgloss.NewStyle().
		Border(border).
		BorderForeground(lipgloss.Color(mood.GradientEnd)).
		Background(lipgloss.Color(mood.GradientStart)).
		Foreground(lipgloss.Color("#FFFFFF")).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	label := lipgloss.NewStyle().Bold(active).Render(mood.Icon + "  " + mood.Label)
	feeling := lipgloss.NewStyle().Faint(!active).Render(mood.Feeling)
	hint := lipgloss.NewStyle().Faint(true).Render(fmt.Sprint(index))

	return card.Render(lipgloss.JoinVertical(lipgloss.Center, hint+"  "+label, feeling))
}

func (m Model) catalogIndex(id domain.Mood) int {
	for i, mood := range m.checkIn.moods {
		if mood.ID == id {
			return i + 1
		}
	}
	return 0
}

func pluralSessions(n int) string {
	if n == 1 {
		return "1 session completed"
	}
	return fmt.Sprintf("%d sessions completed", n)
}
