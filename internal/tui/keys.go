package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextFilter key.Binding
	Filter     key.Binding
	New        key.Binding
	Advance    key.Binding
	Delete     key.Binding
	AI         key.Binding
	Suggest    key.Binding
	Refresh    key.Binding
	Dismiss    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		NextFilter: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "filter")),
		Filter:     key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "pick filter")),
		New:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		Advance:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "start/complete")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		AI:         key.NewBinding(key.WithKeys(":", "a"), key.WithHelp(":", "ai command")),
		Suggest:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "suggestion")),
		Refresh:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),
		Dismiss:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss notice")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Advance, k.Delete, k.AI, k.NextFilter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextFilter, k.Filter},
		{k.New, k.Advance, k.Delete, k.Refresh},
		{k.AI, k.Suggest, k.Dismiss},
		{k.Help, k.Quit},
	}
}
