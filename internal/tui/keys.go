package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	Toggle       key.Binding
	Edit         key.Binding
	Delete       key.Binding
	MarkPicked   key.Binding
	MarkUnpicked key.Binding
	Add          key.Binding
	Form         key.Binding
	Refresh      key.Binding
	Clear        key.Binding
	Copy         key.Binding
	Dismiss      key.Binding
	Quit         key.Binding

	Yes    key.Binding
	No     key.Binding
	Next   key.Binding
	Prev   key.Binding
	Left   key.Binding
	Right  key.Binding
	Submit key.Binding
}

var keys = keyMap{
	Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:       key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "pick / fold")),
	Edit:         key.NewBinding(key.WithKeys("e", "right", "l"), key.WithHelp("→/e", "marketplace")),
	Delete:       key.NewBinding(key.WithKeys("d", "x", "left", "h"), key.WithHelp("←/d", "delete")),
	MarkPicked:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "all picked")),
	MarkUnpicked: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "all unpicked")),
	Add:          key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Form:         key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "show/hide form")),
	Refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Clear:        key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
	Copy:         key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy list")),
	Dismiss:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

	Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	No:     key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n/esc", "cancel")),
	Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab")),
	Left:   key.NewBinding(key.WithKeys("left")),
	Right:  key.NewBinding(key.WithKeys("right")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Up, k.Toggle, k.Edit, k.Delete, k.MarkPicked, k.MarkUnpicked, k.Add, k.Refresh, k.Copy, k.Clear, k.Quit}
}
