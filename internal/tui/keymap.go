package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	NextTab key.Binding
	PrevTab key.Binding

	// Review
	Good    key.Binding
	Bad     key.Binding
	Note    key.Binding
	Restart key.Binding

	// Strategy
	BiasLong   key.Binding
	BiasShort  key.Binding
	BiasHybrid key.Binding
	ToggleAuto key.Binding

	// Trade
	EditOrder  key.Binding
	PlaceOrder key.Binding

	// Me
	BindWallet   key.Binding
	ApproveAgent key.Binding

	// Application
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab", "]"),
			key.WithHelp("Tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "["),
			key.WithHelp("Shift+Tab", "previous tab"),
		),

		Good: key.NewBinding(
			key.WithKeys("g", "right"),
			key.WithHelp("g/→", "good"),
		),
		Bad: key.NewBinding(
			key.WithKeys("b", "left"),
			key.WithHelp("b/←", "bad"),
		),
		Note: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "note"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "review new fills"),
		),

		BiasLong: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "bias long"),
		),
		BiasShort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "bias short"),
		),
		BiasHybrid: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "bias hybrid"),
		),
		ToggleAuto: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle auto-trading"),
		),

		EditOrder: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit ticket"),
		),
		PlaceOrder: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "place order"),
		),

		BindWallet: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "bind wallet"),
		),
		ApproveAgent: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "approve agent"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("Ctrl+R", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q/Esc", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Refresh},
		{k.Good, k.Bad, k.Note, k.Restart},
		{k.BiasLong, k.BiasShort, k.BiasHybrid, k.ToggleAuto},
		{k.EditOrder, k.PlaceOrder, k.BindWallet, k.ApproveAgent},
		{k.Help, k.Quit},
	}
}
