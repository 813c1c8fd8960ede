package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Refresh key.Binding
	Apply   key.Binding
	DryRun  key.Binding
	Copy    key.Binding
	Export  key.Binding
	Add     key.Binding
	Remove  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	NextTab: key.NewBinding(key.WithKeys("tab", "l"), key.WithHelp("tab", "next")),
	PrevTab: key.NewBinding(key.WithKeys("shift+tab", "h"), key.WithHelp("shift+tab", "prev")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Apply:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "apply")),
	DryRun:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "dry run")),
	Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy diff")),
	Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export diff")),
	Add:     key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "add")),
	Remove:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "remove")),
	Confirm: key.NewBinding(key.WithKeys("y", "enter")),
	Cancel:  key.NewBinding(key.WithKeys("n", "esc")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.NextTab, k.Refresh, k.Apply, k.DryRun, k.Copy, k.Export, k.Add, k.Remove, k.Quit}
}
