package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the calendar view.
type KeyMap struct {
	// Month navigation
	PrevMonth key.Binding
	NextMonth key.Binding

	// Day cursor
	Left  key.Binding
	Right key.Binding
	Up    key.Binding
	Down  key.Binding

	// Actions
	Open  key.Binding
	Today key.Binding
	All   key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		PrevMonth: key.NewBinding(
			key.WithKeys("left", "p"),
			key.WithHelp("←/p", "previous month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("right", "n"),
			key.WithHelp("→/n", "next month"),
		),
		Left: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "previous day"),
		),
		Right: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "next day"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous week"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next week"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open month in browser"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		All: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all books in browser"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns key bindings to be shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevMonth, k.NextMonth, k.Open, k.Help, k.Quit}
}

// FullHelp returns key bindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevMonth, k.NextMonth, k.Today},
		{k.Left, k.Right, k.Up, k.Down},
		{k.Open, k.All, k.Help, k.Quit},
	}
}
