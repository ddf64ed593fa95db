package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the dashboard.
type KeyMap struct {
	Quit  key.Binding
	Pause key.Binding
	GPU   key.Binding
}

// DefaultKeyMap returns the default dashboard key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p", "pause"),
		),
		GPU: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "toggle gpu"),
		),
	}
}
