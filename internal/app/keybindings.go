package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keys the controller handles before the screens.
type KeyMap struct {
	// HardwareBack is intercepted only while the browser is shown.
	HardwareBack key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default controller keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		HardwareBack: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
