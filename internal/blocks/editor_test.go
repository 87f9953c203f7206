package blocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(e *Editor, s string) {
	for _, r := range s {
		e.TypeRune(r)
	}
}

func TestEditor_Typing(t *testing.T) {
	e := NewEditor("<p>Hello</p>")
	assert.Equal(t, "Hello", e.Text())
	assert.False(t, e.Dirty())

	typeText(e, ", <world> ")

	assert.Equal(t, "Hello, <world> ", e.Text())
	assert.Equal(t, "<p>Hello, &lt;world&gt; </p>", e.HTML())
	assert.True(t, e.Dirty())

	e.MarkSaved()
	assert.False(t, e.Dirty())
}

func TestEditor_SlashCommand(t *testing.T) {
	e := NewEditor("")

	typeText(e, "/head")
	menu := e.Menu()
	require.True(t, menu.Active())
	assert.Len(t, menu.Suggestions(), 3)

	e.MenuNext()
	e.Enter()

	assert.Equal(t, TypeHeading2, e.Focused().Type)
	assert.Empty(t, e.Text())
	assert.False(t, e.Menu().Active())
	require.Len(t, e.Blocks(), 1)
}

func TestEditor_BackspaceWhileSuggesting(t *testing.T) {
	e := NewEditor("")
	typeText(e, "/he")

	e.Backspace()

	assert.Equal(t, "/h", e.Text())
	assert.Equal(t, MenuIdle, e.Menu().State())
}

func TestEditor_Escape(t *testing.T) {
	e := NewEditor("")
	typeText(e, "/q")

	e.Escape()

	assert.False(t, e.Menu().Active())
	assert.Equal(t, "/q", e.Text())
}

func TestEditor_ListEnter(t *testing.T) {
	e := NewEditor("<ul><li>one</li></ul>")

	e.Enter()
	assert.Equal(t, 1, e.FocusItem())
	typeText(e, "two")
	assert.Equal(t, "<ul><li>one</li><li>two</li></ul>", e.HTML())

	e.Enter()
	e.Enter()

	require.Len(t, e.Blocks(), 2)
	assert.Equal(t, TypeParagraph, e.Focused().Type)
	assert.Equal(t, "<ul><li>one</li><li>two</li></ul>\n<p></p>", e.HTML())
}

func TestEditor_BackspaceRemovesEmptyListItem(t *testing.T) {
	e := NewEditor("<ul><li>one</li><li></li></ul>")
	e.FocusNext()
	require.Equal(t, 1, e.FocusItem())

	e.Backspace()

	assert.Equal(t, "<ul><li>one</li></ul>", e.HTML())
	assert.Equal(t, 0, e.FocusItem())
	assert.Equal(t, "one", e.Text())
}

func TestEditor_BackspaceMergesEmptyBlock(t *testing.T) {
	e := NewEditor("<p>a</p>")
	e.Enter()
	require.Len(t, e.Blocks(), 2)
	assert.Equal(t, 1, e.FocusIndex())

	e.Backspace()

	require.Len(t, e.Blocks(), 1)
	assert.Equal(t, 0, e.FocusIndex())
	assert.Equal(t, "a", e.Text())

	e.Backspace()
	assert.Equal(t, "", e.Text())
	e.Backspace()
	assert.Len(t, e.Blocks(), 1)
}

func TestEditor_FocusAndMove(t *testing.T) {
	e := NewEditor("<p>a</p><ul><li>b</li><li>c</li></ul><p>d</p>")

	e.FocusNext()
	assert.Equal(t, 1, e.FocusIndex())
	assert.Equal(t, "b", e.Text())
	e.FocusNext()
	assert.Equal(t, "c", e.Text())
	e.FocusNext()
	assert.Equal(t, "d", e.Text())
	e.FocusPrev()
	assert.Equal(t, "c", e.Text())

	e.FocusNext()
	e.MoveUp()
	assert.Equal(t, 1, e.FocusIndex())
	assert.Equal(t, "<p>a</p>\n<p>d</p>\n<ul><li>b</li><li>c</li></ul>", e.HTML())

	e.Duplicate()
	assert.Len(t, e.Blocks(), 4)
	assert.Equal(t, 2, e.FocusIndex())

	e.Delete()
	assert.Equal(t, 2, e.FocusIndex())
	e.MoveUp()
	assert.Equal(t, "<p>a</p>\n<ul><li>b</li><li>c</li></ul>\n<p>d</p>", e.HTML())
}

func TestEditor_Indent(t *testing.T) {
	e := NewEditor("<ul><li>a</li><li>b</li></ul>")
	e.FocusNext()

	e.Indent()

	assert.Equal(t, "<ul><li>a<ul><li>b</li></ul></li></ul>", e.HTML())
	assert.Equal(t, "a", e.Text())

	typeText(e, "!")
	assert.Equal(t, "<ul><li>a!<ul><li>b</li></ul></li></ul>", e.HTML())
}

func TestEditor_Image(t *testing.T) {
	e := NewEditor("")
	typeText(e, "/image")
	e.Enter()
	require.Equal(t, TypeImage, e.Focused().Type)

	typeText(e, "/a.png")

	assert.False(t, e.Menu().Active())
	assert.Equal(t, "/a.png", e.Focused().Attributes.String(AttrSrc))
	assert.Equal(t, `<figure><img src="/a.png" alt=""></figure>`, e.HTML())
}

func TestEditor_MultilineParagraph(t *testing.T) {
	e := NewEditor("")

	e.SetText("line one\nline two")

	assert.Equal(t, "<p>line one<br>line two</p>", e.HTML())
	assert.Equal(t, "line one\nline two", e.Text())
}

func TestEditor_TypingKeepsInlineMarkup(t *testing.T) {
	tests := []struct {
		name    string
		content string
		typed   string
		want    string
	}{
		{
			name:    "link and bold",
			content: `<p>See <a href="https://example.com/docs">the docs</a> and <strong>bold</strong></p>`,
			typed:   "!",
			want:    `<p>See <a href="https://example.com/docs">the docs</a> and <strong>bold!</strong></p>`,
		},
		{
			name:    "plain tail after markup",
			content: `<p><em>Hi</em> there</p>`,
			typed:   "?",
			want:    `<p><em>Hi</em> there?</p>`,
		},
		{
			name:    "code wrapper",
			content: `<pre><code class="language-go">x := 1</code></pre>`,
			typed:   "\ny",
			want:    "<pre><code class=\"language-go\">x := 1\ny</code></pre>",
		},
		{
			name:    "list item",
			content: `<ul><li><strong>one</strong></li></ul>`,
			typed:   " & two",
			want:    `<ul><li><strong>one &amp; two</strong></li></ul>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEditor(tt.content)
			typeText(e, tt.typed)
			assert.Equal(t, tt.want, e.HTML())
		})
	}
}

func TestEditor_BackspaceKeepsInlineMarkup(t *testing.T) {
	e := NewEditor(`<p>See <a href="/docs">the docs</a> and <em>it</em></p>`)

	e.Backspace()
	assert.Equal(t, `<p>See <a href="/docs">the docs</a> and <em>i</em></p>`, e.HTML())

	e.Backspace()
	assert.Equal(t, `<p>See <a href="/docs">the docs</a> and </p>`, e.HTML(), "emptied inline elements go")
	assert.Equal(t, "See the docs and ", e.Text())

	for range " and " {
		e.Backspace()
	}
	assert.Equal(t, `<p>See <a href="/docs">the docs</a></p>`, e.HTML())
}

func TestEditor_BackspaceEntitiesAndBreaks(t *testing.T) {
	e := NewEditor("<p>a &amp; b<br>c</p>")

	e.Backspace()
	assert.Equal(t, "<p>a &amp; b<br></p>", e.HTML())
	e.Backspace()
	assert.Equal(t, "<p>a &amp; b</p>", e.HTML())
	e.Backspace()
	e.Backspace()
	e.Backspace()
	assert.Equal(t, "<p>a </p>", e.HTML())
	assert.Equal(t, "a ", e.Text())
}

func TestEditor_BackspaceKeepsCodeWrapper(t *testing.T) {
	e := NewEditor("<pre><code>x</code></pre>")

	e.Backspace()

	assert.Equal(t, "<pre><code></code></pre>", e.HTML())
	assert.Empty(t, e.Text())
}
