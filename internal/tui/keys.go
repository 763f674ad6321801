package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	MoveLeft    key.Binding
	MoveRight   key.Binding
	Tab         key.Binding
	ShiftTab    key.Binding
	Add         key.Binding
	Edit        key.Binding
	Archive     key.Binding
	Unarchive   key.Binding
	Delete      key.Binding
	ArchiveView key.Binding
	Export      key.Binding
	Quote       key.Binding
	Search      key.Binding
	Help        key.Binding
	Quit        key.Binding
	Escape      key.Binding
	Confirm     key.Binding
}

var keys = keyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous column")),
	Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
	MoveLeft:    key.NewBinding(key.WithKeys("<", "H"), key.WithHelp("<", "move card left")),
	MoveRight:   key.NewBinding(key.WithKeys(">", "L"), key.WithHelp(">", "move card right")),
	Tab:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	ShiftTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
	Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
	Edit:        key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit task")),
	Archive:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "archive")),
	Unarchive:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unarchive")),
	Delete:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	ArchiveView: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "archive view")),
	Export:      key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export")),
	Quote:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "new quote")),
	Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Confirm:     key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
}
