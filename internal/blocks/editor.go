package blocks

import (
	"strings"
	"unicode/utf8"

	htmltext "github.com/quill-editor/quill/internal/normalisers/html"
)

var editorEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Editor is an editing session over one post's blocks. The cursor always
// sits at the end of the focused block's text. Focus is tracked by block
// id; the session never reparses, so ids stay valid for its lifetime.
type Editor struct {
	blocks  []Block
	focusID string
	item    int
	menu    SlashMenu
	dirty   bool
}

// NewEditor parses content and focuses the first block.
func NewEditor(content string) *Editor {
	blocks := Parse(content)
	return &Editor{blocks: blocks, focusID: blocks[0].ID}
}

// Blocks returns a copy of the current blocks.
func (e *Editor) Blocks() []Block {
	return clone(e.blocks)
}

// HTML serialises the current blocks.
func (e *Editor) HTML() string {
	return Serialize(e.blocks)
}

// Dirty reports whether anything changed since the last MarkSaved.
func (e *Editor) Dirty() bool {
	return e.dirty
}

// MarkSaved clears the dirty flag.
func (e *Editor) MarkSaved() {
	e.dirty = false
}

// FocusIndex returns the index of the focused block.
func (e *Editor) FocusIndex() int {
	for i, b := range e.blocks {
		if b.ID == e.focusID {
			return i
		}
	}
	return 0
}

// FocusItem returns the focused list item within a list block.
func (e *Editor) FocusItem() int {
	return e.item
}

// Focused returns the focused block.
func (e *Editor) Focused() Block {
	return e.blocks[e.FocusIndex()]
}

// Menu returns a snapshot of the slash menu.
func (e *Editor) Menu() SlashMenu {
	return e.menu
}

// Text returns the editable text of the focused block: the focused item
// for lists, the image URL for images, plain text otherwise.
func (e *Editor) Text() string {
	b := e.Focused()
	switch {
	case b.Type.IsList():
		items := listItems(b.Content)
		if e.item < len(items) {
			return plainItem(items[e.item])
		}
		return ""
	case b.Type == TypeImage:
		return b.Attributes.String(AttrSrc)
	case b.Type == TypeSeparator:
		return ""
	default:
		return htmltext.StripTags(b.Content)
	}
}

// SetText replaces the focused block's text and re-evaluates the slash menu.
func (e *Editor) SetText(text string) {
	e.setText(text)
	if e.Focused().Type != TypeImage {
		e.menu.TextChanged(text)
	}
}

// TypeRune appends a character at the cursor. Inline markup already in
// the block is kept.
func (e *Editor) TypeRune(r rune) {
	text := e.Text() + string(r)
	edited := e.editMarkup(func(content string, t Type) string {
		markup := editorEscaper.Replace(string(r))
		if r == '\n' && !t.IsList() && t != TypeCode {
			markup = "<br>"
		}
		return appendMarkup(content, markup)
	})
	if !edited {
		e.setText(text)
	}
	if e.Focused().Type != TypeImage {
		e.menu.TextChanged(text)
	}
}

// Backspace deletes the character before the cursor. While suggesting,
// it deletes one character and closes the menu in the same step. On an
// empty list item the item is removed; on an empty block the block is
// merged into the previous one.
func (e *Editor) Backspace() {
	text := e.Text()

	if e.menu.Active() {
		e.deleteBack(text)
		e.menu.Cancel()
		return
	}

	if text != "" {
		e.deleteBack(text)
		e.menu.TextChanged(dropLastRune(text))
		return
	}

	index := e.FocusIndex()
	b := e.blocks[index]
	if items := listItems(b.Content); b.Type.IsList() && len(items) > 1 {
		e.item = clamp(e.item, 0, len(items)-1)
		items = append(items[:e.item:e.item], items[e.item+1:]...)
		e.blocks[index].Content = joinItems(items)
		e.item = clamp(e.item-1, 0, len(items)-1)
		e.dirty = true
		return
	}

	if blocks, focus, merged := MergeOnBackspace(e.blocks, index, true); merged {
		e.apply(blocks, focus)
	}
}

// Enter runs the highlighted command while suggesting, and otherwise
// splits the focused block.
func (e *Editor) Enter() {
	if e.menu.Active() {
		if cmd, ok := e.menu.Selected(); ok {
			e.ExecuteCommand(cmd)
			return
		}
		e.menu.Cancel()
		return
	}

	e.apply(SplitAtEnter(e.blocks, e.FocusIndex(), e.item))
}

// Escape dismisses the slash menu.
func (e *Editor) Escape() {
	e.menu.Cancel()
}

// MenuNext highlights the next suggestion.
func (e *Editor) MenuNext() {
	e.menu.SelectNext()
}

// MenuPrev highlights the previous suggestion.
func (e *Editor) MenuPrev() {
	e.menu.SelectPrev()
}

// ExecuteCommand converts the focused block, discarding the typed command text.
func (e *Editor) ExecuteCommand(cmd Command) {
	e.apply(ChangeType(e.blocks, e.FocusIndex(), cmd.Type))
}

// FocusPrev moves the cursor to the previous list item or block.
func (e *Editor) FocusPrev() {
	e.menu.Cancel()
	if e.Focused().Type.IsList() && e.item > 0 {
		e.item--
		return
	}
	if index := e.FocusIndex(); index > 0 {
		e.focusID = e.blocks[index-1].ID
		e.item = lastItem(e.blocks[index-1])
	}
}

// FocusNext moves the cursor to the next list item or block.
func (e *Editor) FocusNext() {
	e.menu.Cancel()
	b := e.Focused()
	if b.Type.IsList() && e.item < len(listItems(b.Content))-1 {
		e.item++
		return
	}
	if index := e.FocusIndex(); index < len(e.blocks)-1 {
		e.focusID = e.blocks[index+1].ID
		e.item = 0
	}
}

// MoveUp moves the focused block up.
func (e *Editor) MoveUp() {
	e.apply(MoveUp(e.blocks, e.FocusIndex()))
}

// MoveDown moves the focused block down.
func (e *Editor) MoveDown() {
	e.apply(MoveDown(e.blocks, e.FocusIndex()))
}

// Duplicate copies the focused block.
func (e *Editor) Duplicate() {
	e.apply(Duplicate(e.blocks, e.FocusIndex()))
}

// Delete removes the focused block unless it is the only one.
func (e *Editor) Delete() {
	if len(e.blocks) <= 1 {
		return
	}
	e.apply(Delete(e.blocks, e.FocusIndex()))
}

// Indent nests the focused list item under the one above.
func (e *Editor) Indent() {
	if blocks, focus, ok := IndentItem(e.blocks, e.FocusIndex(), e.item); ok {
		e.apply(blocks, focus)
	}
}

func (e *Editor) apply(blocks []Block, focus Focus) {
	e.blocks = blocks
	e.focusID = blocks[focus.Index].ID
	e.item = focus.Item
	e.menu.Cancel()
	e.dirty = true
}

// deleteBack removes the last character of the focused block.
func (e *Editor) deleteBack(text string) {
	edited := e.editMarkup(func(content string, t Type) string {
		return dropLastMarkup(content, t != TypeCode)
	})
	if !edited {
		e.setText(dropLastRune(text))
	}
}

// editMarkup rewrites the focused block's markup in place: the focused
// item's own content for lists, the whole content otherwise. It reports
// false for blocks whose text is not markup.
func (e *Editor) editMarkup(edit func(content string, t Type) string) bool {
	index := e.FocusIndex()
	b := e.blocks[index]

	switch {
	case b.Type == TypeImage, b.Type == TypeSeparator:
		return false
	case b.Type.IsList():
		items := listItems(b.Content)
		if len(items) == 0 {
			items = []string{""}
		}
		e.item = clamp(e.item, 0, len(items)-1)
		own, nested := splitItem(items[e.item])
		items[e.item] = edit(own, b.Type) + nested
		b.Content = joinItems(items)
	default:
		b.Content = edit(b.Content, b.Type)
	}

	e.blocks[index] = b
	e.dirty = true
	return true
}

func (e *Editor) setText(text string) {
	index := e.FocusIndex()
	b := e.blocks[index]

	switch {
	case b.Type.IsList():
		items := listItems(b.Content)
		if len(items) == 0 {
			items = []string{""}
		}
		e.item = clamp(e.item, 0, len(items)-1)
		_, nested := splitItem(items[e.item])
		items[e.item] = editorEscaper.Replace(text) + nested
		b.Content = joinItems(items)
	case b.Type == TypeImage:
		b.Attributes = b.Attributes.Clone()
		if b.Attributes == nil {
			b.Attributes = Attributes{}
		}
		b.Attributes[AttrSrc] = String(text)
	case b.Type == TypeSeparator:
		return
	case b.Type == TypeCode:
		b.Content = editorEscaper.Replace(text)
	default:
		b.Content = strings.ReplaceAll(editorEscaper.Replace(text), "\n", "<br>")
	}

	e.blocks[index] = b
	e.dirty = true
}

// plainItem returns a list item's own text, without nested lists.
func plainItem(item string) string {
	own, _ := splitItem(item)
	return htmltext.StripTags(own)
}

// splitItem separates a list item's own content from its nested list.
func splitItem(item string) (own, nested string) {
	cut := len(item)
	for _, tag := range []string{"<ul>", "<ol>"} {
		if i := strings.Index(item, tag); i >= 0 && i < cut {
			cut = i
		}
	}
	return item[:cut], item[cut:]
}

func dropLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
