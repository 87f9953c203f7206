// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quill-editor/quill/internal/adapters/driving/tui/messages"
	"github.com/quill-editor/quill/internal/adapters/driving/tui/styles"
)

// Item represents a single menu option.
type Item struct {
	Label string
	View  messages.ViewType
	Quit  bool
}

// View represents the main menu view.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	site     string
	width    int
	height   int
}

// NewView creates a new menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		items: []Item{
			{Label: "Posts", View: messages.ViewPosts},
			{Label: "Writing goals", View: messages.ViewGoals},
			{Label: "Help", View: messages.ViewHelp},
			{Label: "Quit", Quit: true},
		},
		width:  80,
		height: 24,
	}
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch key.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.items)-1 {
			v.selected++
		}
	case "enter":
		item := v.items[v.selected]
		if item.Quit {
			return v, tea.Quit
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: item.View}
		}
	case "q":
		return v, tea.Quit
	}
	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Quill"))
	b.WriteString("\n\n")

	subtitle := "Not connected to a site"
	if v.site != "" {
		subtitle = "Connected to " + v.site
	}
	b.WriteString(v.styles.Muted.Render(subtitle))
	b.WriteString("\n\n")

	for i, item := range v.items {
		if i == v.selected {
			b.WriteString("> " + v.styles.Subtitle.Render(item.Label))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(item.Label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [q] Quit"))
	return b.String()
}

// SetSite shows the connected site's URL under the title.
func (v *View) SetSite(url string) {
	v.site = url
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
