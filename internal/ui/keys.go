package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Feed
	TabAll       key.Binding
	TabFollowing key.Binding
	SwitchTab    key.Binding
	Search       key.Binding
	Open         key.Binding
	OpenAuthor   key.Binding
	AddRecipe    key.Binding
	MyProfile    key.Binding
	Refresh      key.Binding
	SignOut      key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Detail
	Rate    key.Binding
	Comment key.Binding

	// Profile
	Follow     key.Binding
	EditRecipe key.Binding

	// Forms
	Confirm   key.Binding
	NextField key.Binding
	PrevField key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close / back"),
		),

		TabAll: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "All recipes"),
		),
		TabFollowing: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Following"),
		),
		SwitchTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Switch tab"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Filter recipes"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open recipe"),
		),
		OpenAuthor: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Author profile"),
		),
		AddRecipe: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add recipe"),
		),
		MyProfile: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "My profile"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh feeds"),
		),
		SignOut: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "Sign out"),
		),

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

		Rate: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "Pick rating"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Write comment"),
		),

		Follow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Follow/unfollow"),
		),
		EditRecipe: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit recipe"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
	}
}

// ShortHelp returns key bindings for the feed footer hint.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Search, k.Help, k.Quit}
}

// helpTitles labels the FullHelp groups, in order.
var helpTitles = []string{"Feed", "Navigation", "Recipe", "Profile", "General"}

// FullHelp returns key bindings for the help overlay, grouped per
// helpTitles.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.TabAll, k.TabFollowing, k.SwitchTab, k.Search, k.Open, k.OpenAuthor},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Rate, k.Comment},
		{k.Follow, k.EditRecipe},
		{k.AddRecipe, k.MyProfile, k.Refresh, k.CycleTheme, k.SignOut, k.Help, k.Quit},
	}
}
