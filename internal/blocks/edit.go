package blocks

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Focus identifies the block, and for lists the item, that has the cursor
// after a mutation.
type Focus struct {
	Index int
	Item  int
}

// The mutations below never modify their input slice. Each returns a new
// sequence and the focus that follows the edit. Out-of-range indexes leave
// the sequence unchanged.

// SplitAtEnter handles Enter in the block at index.
//
// In a list, Enter on an item whose text is blank removes that item and
// adds a paragraph after the list; when that was the only item the list
// itself becomes the paragraph. On any other item it adds an empty
// sibling item after it. For every other block type a new empty paragraph
// is inserted after the block and the text before and after the cursor
// stays in the current block.
func SplitAtEnter(blocks []Block, index, item int) ([]Block, Focus) {
	if !inRange(blocks, index) {
		return clone(blocks), Focus{Index: clampIndex(blocks, index)}
	}

	current := blocks[index]
	if !current.Type.IsList() {
		return insertAt(blocks, index+1, New(TypeParagraph, "")), Focus{Index: index + 1}
	}

	items := listItems(current.Content)
	if len(items) == 0 {
		items = []string{""}
	}
	item = clamp(item, 0, len(items)-1)

	if isBlank(items[item]) {
		items = append(items[:item:item], items[item+1:]...)
		paragraph := New(TypeParagraph, "")
		if len(items) == 0 {
			out := clone(blocks)
			out[index] = paragraph
			return out, Focus{Index: index}
		}
		out := clone(blocks)
		out[index].Content = joinItems(items)
		return insertAt(out, index+1, paragraph), Focus{Index: index + 1}
	}

	items = append(items[:item+1:item+1], append([]string{""}, items[item+1:]...)...)
	out := clone(blocks)
	out[index].Content = joinItems(items)
	return out, Focus{Index: index, Item: item + 1}
}

// MergeOnBackspace removes the block at index when it is empty, the cursor
// is at its start and it is not the first block. Focus moves to the
// previous block. The bool reports whether anything changed.
func MergeOnBackspace(blocks []Block, index int, atStart bool) ([]Block, Focus, bool) {
	if index <= 0 || !inRange(blocks, index) || !atStart || !blocks[index].IsEmpty() {
		return clone(blocks), Focus{Index: clampIndex(blocks, index)}, false
	}

	out := removeAt(blocks, index)
	return out, Focus{Index: index - 1, Item: lastItem(out[index-1])}, true
}

// Delete removes the block at index. The last remaining block is never removed.
func Delete(blocks []Block, index int) ([]Block, Focus) {
	if len(blocks) <= 1 || !inRange(blocks, index) {
		return clone(blocks), Focus{Index: clampIndex(blocks, index)}
	}

	out := removeAt(blocks, index)
	return out, Focus{Index: clamp(index, 0, len(out)-1)}
}

// MoveUp swaps the block at index with the one before it.
func MoveUp(blocks []Block, index int) ([]Block, Focus) {
	if index <= 0 || !inRange(blocks, index) {
		return clone(blocks), Focus{Index: clampIndex(blocks, index)}
	}

	out := clone(blocks)
	out[index-1], out[index] = out[index], out[index-1]
	return out, Focus{Index: index - 1}
}

// MoveDown swaps the block at index with the one after it.
func MoveDown(blocks []Block, index int) ([]Block, Focus) {
	if !inRange(blocks, index) || index == len(blocks)-1 {
		return clone(blocks), Focus{Index: clampIndex(blocks, index)}
	}

	out := clone(blocks)
	out[index], out[index+1] = out[index+1], out[index]
	return out, Focus{Index: index + 1}
}

// Duplicate inserts a copy of the block at index right after it. The copy
// gets a fresh id.
func Duplicate(blocks []Block, index int) ([]Block, Focus) {
	if !inRange(blocks, index) {
		return clone(blocks), Focus{Index: clampIndex(blocks, index)}
	}

	src := blocks[index]
	dup := New(src.Type, src.Content)
	dup.Attributes = src.Attributes.Clone()
	return insertAt(blocks, index+1, dup), Focus{Index: index + 1}
}

// ChangeType converts the block at index. Lists restart with one empty
// item; every other type starts with empty content.
func ChangeType(blocks []Block, index int, t Type) ([]Block, Focus) {
	if !inRange(blocks, index) {
		return clone(blocks), Focus{Index: clampIndex(blocks, index)}
	}

	out := clone(blocks)
	out[index].Type = t
	out[index].Content = emptyContent(t)
	out[index].Attributes = out[index].Attributes.Clone()
	return out, Focus{Index: index}
}

// InsertAfter adds an empty block of type t after index.
func InsertAfter(blocks []Block, index int, t Type) ([]Block, Focus) {
	index = clamp(index, -1, len(blocks)-1)
	return insertAt(blocks, index+1, New(t, emptyContent(t))), Focus{Index: index + 1}
}

// IndentItem nests list item into the item above it. The first item cannot
// be indented. The bool reports whether anything changed.
func IndentItem(blocks []Block, index, item int) ([]Block, Focus, bool) {
	if !inRange(blocks, index) || !blocks[index].Type.IsList() {
		return clone(blocks), Focus{Index: clampIndex(blocks, index)}, false
	}

	items := listItems(blocks[index].Content)
	if item <= 0 || item >= len(items) {
		return clone(blocks), Focus{Index: index, Item: item}, false
	}

	tag := "ul"
	if blocks[index].Type == TypeOrderedList {
		tag = "ol"
	}
	nested := "<li>" + items[item] + "</li>"
	prev := items[item-1]
	if strings.HasSuffix(prev, "</"+tag+">") {
		cut := len(prev) - len("</"+tag+">")
		prev = prev[:cut] + nested + prev[cut:]
	} else {
		prev += "<" + tag + ">" + nested + "</" + tag + ">"
	}
	items[item-1] = prev
	items = append(items[:item:item], items[item+1:]...)

	out := clone(blocks)
	out[index].Content = joinItems(items)
	return out, Focus{Index: index, Item: item - 1}, true
}

// ListItems returns the inner HTML of each top-level <li> in a list block.
func ListItems(b Block) []string {
	if !b.Type.IsList() {
		return nil
	}
	return listItems(b.Content)
}

// WithListItems returns b with its items replaced.
func WithListItems(b Block, items []string) Block {
	b.Content = joinItems(items)
	return b
}

func listItems(content string) []string {
	var items []string
	for _, n := range parseFragment(content, atom.Ul) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Li {
			items = append(items, innerHTML(n))
		}
	}
	return items
}

func joinItems(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("<li>")
		b.WriteString(item)
		b.WriteString("</li>")
	}
	return b.String()
}

func lastItem(b Block) int {
	if !b.Type.IsList() {
		return 0
	}
	if n := len(listItems(b.Content)); n > 0 {
		return n - 1
	}
	return 0
}

func clone(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	copy(out, blocks)
	return out
}

func insertAt(blocks []Block, index int, b Block) []Block {
	out := make([]Block, 0, len(blocks)+1)
	out = append(out, blocks[:index]...)
	out = append(out, b)
	return append(out, blocks[index:]...)
}

func removeAt(blocks []Block, index int) []Block {
	out := make([]Block, 0, len(blocks)-1)
	out = append(out, blocks[:index]...)
	return append(out, blocks[index+1:]...)
}

func inRange(blocks []Block, index int) bool {
	return index >= 0 && index < len(blocks)
}

func clampIndex(blocks []Block, index int) int {
	if len(blocks) == 0 {
		return 0
	}
	return clamp(index, 0, len(blocks)-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
