package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	Escape     key.Binding
	Refresh    key.Binding

	// View switching
	ViewSearch key.Binding
	ViewRecent key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Open     key.Binding

	// History
	Back    key.Binding
	Forward key.Binding

	// Query
	NameSearch   key.Binding
	Address      key.Binding
	SortName     key.Binding
	SortRating   key.Binding
	SortReviews  key.Binding
	ToggleFilter key.Binding
	Filters      key.Binding

	// Items
	Favorite key.Binding

	// Input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Search/recent"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Reload results"),
		),

		// View switching
		ViewSearch: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "Search view"),
		),
		ViewRecent: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Recently viewed"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("[", "left"),
			key.WithHelp("[", "Previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]", "right"),
			key.WithHelp("]", "Next page"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open item"),
		),

		// History
		Back: key.NewBinding(
			key.WithKeys("b", "alt+left"),
			key.WithHelp("b", "Back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("B", "alt+right"),
			key.WithHelp("B", "Forward"),
		),

		// Query
		NameSearch: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search by name"),
		),
		Address: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "Go to address"),
		),
		SortName: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Sort by name (again to flip)"),
		),
		SortRating: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Sort by rating"),
		),
		SortReviews: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Sort by reviews"),
		),
		ToggleFilter: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "Toggle filter"),
		),
		Filters: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Filter panel"),
		),

		// Items
		Favorite: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Like/unlike"),
		),

		// Input
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.Tab, k.ViewSearch, k.ViewRecent, k.Escape},
		{k.Up, k.Down, k.Top, k.Bottom, k.Open},
		{k.PrevPage, k.NextPage, k.Back, k.Forward},
		// Query
		{k.NameSearch, k.Address, k.Filters, k.ToggleFilter},
		{k.SortName, k.SortRating, k.SortReviews, k.Refresh},
		// Items
		{k.Favorite},
		// General
		{k.CycleTheme, k.Help, k.Quit},
	}
}
