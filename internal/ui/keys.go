package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Tab        key.Binding
	Enter      key.Binding
	Back       key.Binding
	Refresh    key.Binding
	TextSearch key.Binding
	PageFilter key.Binding
	Filters    key.Binding
	Up         key.Binding
	Down       key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
}

var Keys = KeyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Tab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
	Enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open item")),
	Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	TextSearch: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "full-text search")),
	PageFilter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter page")),
	Filters:    key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "search filters")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	NextPage:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l/->", "next page")),
	PrevPage:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h/<-", "prev page")),
}
