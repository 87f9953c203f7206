// Package editor provides the block editor view for the TUI.
package editor

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quill-editor/quill/internal/adapters/driving/tui/components/input"
	"github.com/quill-editor/quill/internal/adapters/driving/tui/components/status"
	"github.com/quill-editor/quill/internal/adapters/driving/tui/keymap"
	"github.com/quill-editor/quill/internal/adapters/driving/tui/messages"
	"github.com/quill-editor/quill/internal/adapters/driving/tui/styles"
	"github.com/quill-editor/quill/internal/blocks"
	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driving"
)

// View edits one post's title and blocks.
type View struct {
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	posts  driving.PostService
	goals  driving.GoalService
	now    func() time.Time

	post   *domain.Post
	editor *blocks.Editor
	title  *input.TitleInput
	status *status.Bar

	// baselines holds each post's word count when first opened today,
	// so words written are recorded as growth across editing sessions.
	baselines map[string]int
	day       time.Time

	width  int
	height int
}

// NewView creates a new editor view. goals may be nil.
func NewView(ctx context.Context, s *styles.Styles, posts driving.PostService, goals driving.GoalService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetBindings(km.EditorHelp())

	return &View{
		ctx:       ctx,
		styles:    s,
		keymap:    km,
		posts:     posts,
		goals:     goals,
		now:       time.Now,
		editor:    blocks.NewEditor(""),
		title:     input.NewTitleInput(s),
		status:    bar,
		baselines: make(map[string]int),
		width:     80,
		height:    24,
	}
}

// Open starts editing a post.
func (v *View) Open(p *domain.Post) {
	v.post = p
	v.editor = blocks.NewEditor(p.Content)
	v.title.SetValue(p.Title)
	v.title.Blur()
	v.status.SetState(status.StateEditing)
	v.status.SetMessage("")

	if today := domain.StartOfDay(v.now()); !today.Equal(v.day) {
		v.day = today
		clear(v.baselines)
	}
	if _, ok := v.baselines[p.ID]; !ok {
		v.baselines[p.ID] = v.wordCount()
	}
}

// Dirty reports whether the title or blocks changed since the last save.
func (v *View) Dirty() bool {
	if v.post == nil {
		return false
	}
	return v.editor.Dirty() || v.title.Value() != v.post.Title
}

// Update handles messages for the editor view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.PostSaved:
		if msg.Err != nil {
			v.status.SetState(status.StateError)
			v.status.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.post = msg.Post
		v.status.SetState(status.StateEditing)
		v.status.SetMessage("Saved")
		return v, nil

	case tea.KeyMsg:
		if v.post == nil {
			return v, nil
		}
		return v.handleKey(msg)
	}
	return v, nil
}

// handleKey processes keyboard input. The title input takes every key
// while focused, except those that leave it.
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Save):
		return v, v.save()
	case keymap.Matches(key, v.keymap.Title):
		v.toggleTitle()
		return v, nil
	}

	if v.title.Focused() {
		if key == "enter" || key == "esc" || key == "down" {
			v.title.Blur()
			return v, nil
		}
		var cmd tea.Cmd
		v.title, cmd = v.title.Update(msg)
		v.refreshDirty()
		return v, cmd
	}

	menuActive := v.menuActive()
	switch {
	case key == "esc":
		if menuActive {
			v.editor.Escape()
			return v, nil
		}
		back := func() tea.Msg { return messages.ViewChanged{View: messages.ViewPosts} }
		if v.Dirty() {
			return v, tea.Sequence(v.save(), back)
		}
		return v, back
	case keymap.Matches(key, v.keymap.MoveBlockUp):
		v.editor.MoveUp()
	case keymap.Matches(key, v.keymap.MoveBlockDown):
		v.editor.MoveDown()
	case key == "up":
		if menuActive {
			v.editor.MenuPrev()
		} else {
			v.editor.FocusPrev()
		}
	case key == "down":
		if menuActive {
			v.editor.MenuNext()
		} else {
			v.editor.FocusNext()
		}
	case key == "enter":
		v.editor.Enter()
	case key == "backspace":
		v.editor.Backspace()
	case keymap.Matches(key, v.keymap.Duplicate):
		v.editor.Duplicate()
	case keymap.Matches(key, v.keymap.DeleteBlock):
		v.editor.Delete()
	case keymap.Matches(key, v.keymap.Indent):
		v.editor.Indent()
	case msg.Type == tea.KeySpace:
		v.editor.TypeRune(' ')
	case msg.Type == tea.KeyRunes && !msg.Alt:
		for _, r := range msg.Runes {
			v.editor.TypeRune(r)
		}
	}
	v.refreshDirty()
	return v, nil
}

func (v *View) menuActive() bool {
	m := v.editor.Menu()
	return m.Active()
}

func (v *View) toggleTitle() {
	if v.title.Focused() {
		v.title.Blur()
		return
	}
	v.title.Focus()
}

func (v *View) refreshDirty() {
	if v.status.State() == status.StateError {
		return
	}
	v.status.SetState(status.StateEditing)
	if v.Dirty() {
		v.status.SetMessage("Unsaved changes")
	} else {
		v.status.SetMessage("")
	}
}

// save writes the title and content, then records today's words.
func (v *View) save() tea.Cmd {
	if v.post == nil {
		return nil
	}
	id := v.post.ID
	title := strings.TrimSpace(v.title.Value())
	content := v.editor.HTML()
	written := max(v.wordCount()-v.baselines[id], 0)
	now := v.now()

	v.editor.MarkSaved()
	v.status.SetState(status.StateSaving)

	return func() tea.Msg {
		post, err := v.posts.Update(v.ctx, id, domain.PostEdit{Title: &title, Content: &content})
		if err != nil {
			return messages.PostSaved{Err: err}
		}
		if v.goals != nil {
			if err := v.goals.Record(v.ctx, now, id, written); err != nil {
				return messages.PostSaved{Post: post, Err: fmt.Errorf("record words: %w", err)}
			}
		}
		return messages.PostSaved{Post: post}
	}
}

// wordCount counts the words of the title and every block.
func (v *View) wordCount() int {
	n := domain.CountWords(v.title.Value())
	for _, b := range v.editor.Blocks() {
		n += domain.CountWords(b.Text())
	}
	return n
}

// View renders the editor.
func (v *View) View() string {
	if v.post == nil {
		return v.styles.Muted.Render("No post open")
	}

	var b strings.Builder
	b.WriteString(v.title.View())
	b.WriteString("\n\n")

	focus := v.editor.FocusIndex()
	for i, blk := range v.editor.Blocks() {
		rendered := v.renderBlock(blk, i == focus)
		if i == focus && !v.title.Focused() {
			rendered = v.styles.FocusedBlock.Render(rendered)
		} else {
			rendered = "  " + strings.ReplaceAll(rendered, "\n", "\n  ")
		}
		b.WriteString(rendered)
		b.WriteString("\n")
		if i == focus {
			b.WriteString(v.renderMenu())
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%d words", v.wordCount())))
	b.WriteString("\n")
	b.WriteString(v.status.View())
	return b.String()
}

// renderBlock renders one block as terminal text. The focused block shows
// the editor's working text so a typed slash command is visible.
func (v *View) renderBlock(blk blocks.Block, focused bool) string {
	text := blk.Text()
	if focused && !blk.Type.IsList() {
		text = v.editor.Text()
	}

	switch {
	case blk.Type.HeadingLevel() > 0:
		return v.styles.Heading.Render(strings.Repeat("#", blk.Type.HeadingLevel()) + " " + text)
	case blk.Type.IsList():
		return v.renderList(blk, focused)
	case blk.Type == blocks.TypeQuote, blk.Type == blocks.TypePullquote:
		return v.styles.Quote.Render(text)
	case blk.Type == blocks.TypeCode:
		return v.styles.Code.Render(text)
	case blk.Type == blocks.TypeSeparator:
		return v.styles.Muted.Render(strings.Repeat("─", 20))
	case blk.Type == blocks.TypeImage:
		label := "[image] " + blk.Attributes.String(blocks.AttrSrc)
		if focused {
			label = "[image] " + text
		}
		if alt := blk.Attributes.String(blocks.AttrAlt); alt != "" {
			label += " (" + alt + ")"
		}
		return v.styles.Subtitle.Render(label)
	case blk.Type == blocks.TypeUnknown:
		return v.styles.Muted.Render(text)
	}
	if text == "" && focused {
		return v.styles.Muted.Render("Type / for commands")
	}
	return v.styles.Normal.Render(text)
}

func (v *View) renderList(blk blocks.Block, focused bool) string {
	items := blocks.ListItems(blk)
	lines := make([]string, len(items))
	for i, item := range items {
		marker := "•"
		if blk.Type == blocks.TypeOrderedList {
			marker = fmt.Sprintf("%d.", i+1)
		}
		text := blocks.Block{Content: item}.Text()
		if focused && i == v.editor.FocusItem() {
			text = v.editor.Text()
			marker = v.styles.Title.Render(marker)
		}
		lines[i] = marker + " " + strings.ReplaceAll(text, "\n", "\n  ")
	}
	return strings.Join(lines, "\n")
}

// renderMenu renders the slash-command suggestions under the focused block.
func (v *View) renderMenu() string {
	m := v.editor.Menu()
	if !m.Active() {
		return ""
	}
	suggestions := m.Suggestions()
	if len(suggestions) == 0 {
		return v.styles.Menu.Render(v.styles.Muted.Render("No matching blocks")) + "\n"
	}

	lines := make([]string, len(suggestions))
	for i, c := range suggestions {
		line := fmt.Sprintf("%-14s %s", c.Name, v.styles.Muted.Render(c.Description))
		if i == m.SelectedIndex() {
			line = v.styles.Selected.Render(fmt.Sprintf("%-14s", c.Name)) + " " + v.styles.Muted.Render(c.Description)
		}
		lines[i] = line
	}
	return v.styles.Menu.Render(strings.Join(lines, "\n")) + "\n"
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.title.SetWidth(width)
	v.status.SetWidth(width)
}

// Post returns the post being edited, or nil.
func (v *View) Post() *domain.Post {
	return v.post
}

// Editor returns the block editing session.
func (v *View) Editor() *blocks.Editor {
	return v.editor
}

// Title returns the current title text.
func (v *View) Title() string {
	return v.title.Value()
}

// Status returns the view's status bar.
func (v *View) Status() *status.Bar {
	return v.status
}
