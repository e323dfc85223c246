package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the TUI.
type KeyMap struct {
	// Navigation
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Home       key.Binding
	End        key.Binding
	SwitchPane key.Binding

	// Transfers
	Accept key.Binding
	Reject key.Binding
	Cancel key.Binding
	Send   key.Binding

	// Files
	AddFile    key.Binding
	RemoveFile key.Binding

	// Preferences
	ToggleSfx        key.Binding
	CycleTheme       key.Binding
	CycleColorScheme key.Binding

	// Views
	Refresh key.Binding
	History key.Binding
	Search  key.Binding
	CopyID  key.Binding
	Back    key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.SwitchPane},
		{k.Accept, k.Reject, k.Cancel, k.Send},
		{k.AddFile, k.RemoveFile, k.Refresh, k.CopyID},
		{k.ToggleSfx, k.CycleTheme, k.CycleColorScheme},
		{k.History, k.Search, k.Back, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "go to bottom"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "devices/files"),
		),
		Accept: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "accept request"),
		),
		Reject: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "reject request"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cancel transfer"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send to device"),
		),
		AddFile: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add file"),
		),
		RemoveFile: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove file"),
		),
		ToggleSfx: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle sounds"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle theme"),
		),
		CycleColorScheme: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "cycle colorscheme"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh devices"),
		),
		History: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "history"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		CopyID: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "copy device id"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back/dismiss"),
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
