// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/quill-editor/quill/internal/adapters/driving/tui/keymap"
	"github.com/quill-editor/quill/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady   State = "ready"
	StateEditing State = "editing"
	StateSaving  State = "saving"
	StateSyncing State = "syncing"
	StateError   State = "error"
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	bindings []key.Binding
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:   s,
		keymap:   km,
		state:    StateReady,
		bindings: km.ShortHelp(),
		width:    80,
	}
}

// View renders the status bar. Hints that do not fit beside the state
// are dropped from the end.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight(s.width - lipgloss.Width(left) - 3)

	gap := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderLeft renders the state and message.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateSaving:
		return s.styles.Muted.Render("Saving...")
	case StateSyncing:
		return s.styles.Muted.Render("Syncing...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateEditing:
		if s.message != "" {
			return s.styles.Warning.Render(s.message)
		}
		return s.styles.Normal.Render("Editing")
	case StateReady:
	}
	if s.message != "" {
		return s.styles.Normal.Render(s.message)
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) renderRight(room int) string {
	hints := make([]string, 0, len(s.bindings))
	for _, b := range s.bindings {
		h := b.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	for len(hints) > 0 && lipgloss.Width(strings.Join(hints, " | ")) > room {
		hints = hints[:len(hints)-1]
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetBindings replaces the hints shown on the right.
func (s *Bar) SetBindings(bindings []key.Binding) {
	s.bindings = bindings
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to the ready state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
