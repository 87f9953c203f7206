// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list or to the previous block.
	Up key.Binding

	// Down navigates down in a list or to the next block.
	Down key.Binding

	// Select opens the selected item.
	Select key.Binding

	// New creates a post.
	New key.Binding

	// Sync pulls then pushes.
	Sync key.Binding

	// Refresh reloads the list.
	Refresh key.Binding

	// Save writes the editor's content.
	Save key.Binding

	// Title switches between editing the title and the blocks.
	Title key.Binding

	// MoveBlockUp moves the focused block up.
	MoveBlockUp key.Binding

	// MoveBlockDown moves the focused block down.
	MoveBlockDown key.Binding

	// Duplicate copies the focused block.
	Duplicate key.Binding

	// DeleteBlock removes the focused block.
	DeleteBlock key.Binding

	// Indent nests the focused list item.
	Indent key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new post"),
		),
		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sync"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Title: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "title"),
		),
		MoveBlockUp: key.NewBinding(
			key.WithKeys("alt+up"),
			key.WithHelp("alt+↑", "move up"),
		),
		MoveBlockDown: key.NewBinding(
			key.WithKeys("alt+down"),
			key.WithHelp("alt+↓", "move down"),
		),
		Duplicate: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "duplicate"),
		),
		DeleteBlock: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("ctrl+k", "delete block"),
		),
		Indent: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "indent"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// PostsHelp returns keybindings for the post list.
func (k *KeyMap) PostsHelp() []key.Binding {
	return []key.Binding{k.Select, k.New, k.Sync, k.Back}
}

// EditorHelp returns keybindings for the block editor.
func (k *KeyMap) EditorHelp() []key.Binding {
	return []key.Binding{k.Save, k.Title, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back},
		{k.New, k.Sync, k.Refresh},
		{k.Save, k.Title, k.Indent},
		{k.MoveBlockUp, k.MoveBlockDown, k.Duplicate, k.DeleteBlock},
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
