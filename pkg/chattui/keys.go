package chattui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings the input field reacts to. Anything else that
// carries printable runes is typed into the editor.
type KeyMap struct {
	Quit      key.Binding
	Send      key.Binding
	Backspace key.Binding
	Left      key.Binding
	Right     key.Binding
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("backspace", "delete"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "ctrl+b"),
			key.WithHelp("←", "cursor left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "ctrl+f"),
			key.WithHelp("→", "cursor right"),
		),
	}
}
