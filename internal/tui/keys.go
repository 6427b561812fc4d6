package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the TUI.
type KeyMap struct {
	// Toasts
	Success key.Binding
	Error   key.Binding
	Info    key.Binding
	Warning key.Binding
	Dark    key.Binding
	Light   key.Binding
	Custom  key.Binding

	// Selection
	Up         key.Binding
	Down       key.Binding
	Hover      key.Binding
	Close      key.Binding
	DismissAll key.Binding

	// Dialog
	Confirm  key.Binding
	Activate key.Binding
	Next     key.Binding
	Prev     key.Binding
	Escape   key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Info, k.Confirm, k.Escape, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Success, k.Error, k.Info, k.Warning, k.Dark, k.Light, k.Custom},
		{k.Up, k.Down, k.Hover, k.Close, k.DismissAll},
		{k.Confirm, k.Activate, k.Next, k.Prev, k.Escape},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Success: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "success"),
		),
		Error: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "error"),
		),
		Info: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "info"),
		),
		Warning: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "warning"),
		),
		Dark: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "dark"),
		),
		Light: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "light"),
		),
		Custom: key.NewBinding(
			key.WithKeys("7"),
			key.WithHelp("7", "custom"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "select previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "select next"),
		),
		Hover: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hover"),
		),
		Close: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close"),
		),
		DismissAll: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "dismiss all"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "confirm dialog"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "press button"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next button"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous button"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}
