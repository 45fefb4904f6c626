package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings of both screens.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Search key.Binding
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Reload key.Binding
	Quit   key.Binding

	Submit key.Binding
	Toggle key.Binding
	Back   key.Binding

	Yes key.Binding
	No  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:   key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "save")),
		Toggle: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "toggle done")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		Yes: key.NewBinding(key.WithKeys("y", "Y")),
		No:  key.NewBinding(key.WithKeys("n", "N", "esc")),
	}
}
