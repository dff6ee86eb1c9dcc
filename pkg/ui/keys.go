package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the client list and its host.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Home        key.Binding
	End         key.Binding
	NextSection key.Binding
	PrevSection key.Binding
	Activate    key.Binding // Header: toggle. Row: open.
	Context     key.Binding // Row: context menu.

	FilterAll      key.Binding
	FilterBuilding key.Binding
	FilterDeposit  key.Binding
	FilterBuilt    key.Binding
	FilterCycle    key.Binding

	Back key.Binding
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	NextSection: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next section"),
	),
	PrevSection: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-Tab", "prev section"),
	),
	Activate: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("Enter", "open / fold"),
	),
	Context: key.NewBinding(
		key.WithKeys("m", "."),
		key.WithHelp("m", "actions"),
	),
	FilterAll: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "all"),
	),
	FilterBuilding: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "building"),
	),
	FilterDeposit: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "deposit"),
	),
	FilterBuilt: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "built"),
	),
	FilterCycle: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "cycle filter"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "close"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Activate, k.Context, k.FilterCycle, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the help overlay, grouped.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Home, k.End, k.NextSection, k.PrevSection},
		{k.Activate, k.Context, k.Back},
		{k.FilterAll, k.FilterBuilding, k.FilterDeposit, k.FilterBuilt, k.FilterCycle},
		{k.Help, k.Quit},
	}
}
