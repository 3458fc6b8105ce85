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

	// View switching
	ViewPosts         key.Binding
	ViewNotifications key.Binding

	// Navigation
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	DetailUp   key.Binding
	DetailDown key.Binding

	// Post actions
	Refresh      key.Binding
	Search       key.Binding
	CycleAuthor  key.Binding
	Compose      key.Binding
	ComposeLocal key.Binding
	Edit         key.Binding
	React        key.Binding

	// Form
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Confirm   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
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
			key.WithHelp("tab", "Cycle views"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back / clear search"),
		),

		ViewPosts: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Posts"),
		),
		ViewNotifications: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Notifications"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "Up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "Down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Bottom"),
		),
		DetailUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Scroll post up"),
		),
		DetailDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Scroll post down"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search titles"),
		),
		CycleAuthor: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Cycle author filter"),
		),
		Compose: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "New post"),
		),
		ComposeLocal: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "New local post"),
		),
		Edit: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "Edit post"),
		),
		React: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "React"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Save"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp implements help.KeyMap for the command bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Refresh, k.Search, k.CycleAuthor, k.Compose, k.React, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewPosts, k.ViewNotifications, k.Escape, k.Up, k.Down, k.Top, k.Bottom, k.DetailUp, k.DetailDown},
		{k.Refresh, k.Search, k.CycleAuthor, k.Compose, k.ComposeLocal, k.Edit, k.React},
		{k.NextField, k.PrevField, k.Submit, k.CycleTheme, k.Help, k.Quit},
	}
}
