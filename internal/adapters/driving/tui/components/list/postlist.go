// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quill-editor/quill/internal/adapters/driving/tui/styles"
	"github.com/quill-editor/quill/internal/core/domain"
)

// PostList displays posts in a navigable list.
type PostList struct {
	posts    []*domain.Post
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewPostList creates a new post list component.
func NewPostList(s *styles.Styles) *PostList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &PostList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Update handles list navigation messages.
func (l *PostList) Update(msg tea.Msg) (*PostList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the post list.
func (l *PostList) View() string {
	if len(l.posts) == 0 {
		return l.styles.Muted.Render("No posts yet. Press n to write one.")
	}

	// One line per post, minus the header.
	visible := l.height - 2
	if visible < 1 {
		visible = 1
	}

	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.posts))

	lines := make([]string, 0, end-start+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Posts (%d)", len(l.posts))), "")
	for i := start; i < end; i++ {
		lines = append(lines, l.renderPost(i, l.posts[i]))
	}
	return strings.Join(lines, "\n")
}

// renderPost formats one row: title, post status and sync status.
func (l *PostList) renderPost(index int, p *domain.Post) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	title := p.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}

	maxTitle := max(l.width-32, 10)
	if utf8.RuneCountInString(title) > maxTitle {
		title = string([]rune(title)[:maxTitle-3]) + "..."
	}

	row := fmt.Sprintf("%s%-*s", indicator, maxTitle, title)
	meta := fmt.Sprintf("  %-9s %s", p.Status, p.SyncStatus)
	if index == l.selected {
		return l.styles.Selected.Render(row + meta)
	}

	return l.styles.Normal.Render(row) + l.styles.ForSyncStatus(p.SyncStatus).Render(meta)
}

// SetPosts replaces the listed posts, keeping the selection in range.
func (l *PostList) SetPosts(posts []*domain.Post) {
	l.posts = posts
	l.selected = max(min(l.selected, len(posts)-1), 0)
}

// Posts returns the listed posts.
func (l *PostList) Posts() []*domain.Post {
	return l.posts
}

// Selected returns the index of the selected post.
func (l *PostList) Selected() int {
	return l.selected
}

// SelectedPost returns the selected post, or nil if the list is empty.
func (l *PostList) SelectedPost() *domain.Post {
	if l.selected < 0 || l.selected >= len(l.posts) {
		return nil
	}
	return l.posts[l.selected]
}

// MoveUp moves selection up.
func (l *PostList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *PostList) MoveDown() {
	if l.selected < len(l.posts)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *PostList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of posts.
func (l *PostList) Count() int {
	return len(l.posts)
}
