package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/xvierd/somatic/internal/domain"
)

// IntensityStep is how far one key press moves the intensity.
const IntensityStep = 5

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Pick   key.Binding
	Toggle key.Binding
	Louder key.Binding
	Softer key.Binding
	Skip   key.Binding
	Notify key.Binding
	Quit   key.Binding

	screen domain.Screen
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑/↓", "navigate"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "begin"),
		),
		Pick: key.NewBinding(
			key.WithKeys("1", "2", "3"),
			key.WithHelp("1-3", "quick pick"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "play/pause"),
		),
		Louder: key.NewBinding(
			key.WithKeys("right", "l", "+", "="),
			key.WithHelp("←/→", "intensity"),
		),
		Softer: key.NewBinding(
			key.WithKeys("left", "h", "-", "_"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Notify: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "notify"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap for the active screen.
func (k keyMap) ShortHelp() []key.Binding {
	switch k.screen {
	case domain.ScreenCheckIn:
		return []key.Binding{k.Up, k.Select, k.Pick, k.escHelp()}
	case domain.ScreenPlayer:
		return []key.Binding{k.Toggle, k.Louder, k.Skip, k.Notify, k.Quit}
	default:
		return nil
	}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// escHelp describes quitting from check-in, where letters go to the filter.
func (k keyMap) escHelp() key.Binding {
	return key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear/quit"))
}
