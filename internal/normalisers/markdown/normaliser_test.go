package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-editor/quill/internal/blocks"
)

func TestConvert_TitleFromFirstHeading(t *testing.T) {
	title, content, err := New().Convert([]byte("# Hello World\n\nThis is *the* body.\n"))
	require.NoError(t, err)
	assert.Equal(t, "Hello World", title)
	assert.Equal(t, "<p>This is <em>the</em> body.</p>", content)
}

func TestConvert_TitleWithInlineMarkup(t *testing.T) {
	title, _, err := New().Convert([]byte("# Hello *big* `world`\n"))
	require.NoError(t, err)
	assert.Equal(t, "Hello big world", title)
}

func TestConvert_NoTitle(t *testing.T) {
	title, content, err := New().Convert([]byte("## Sub\n\ntext\n"))
	require.NoError(t, err)
	assert.Empty(t, title)
	assert.Equal(t, "<h2>Sub</h2>\n<p>text</p>", content)
}

func TestConvert_OnlyTitle(t *testing.T) {
	title, content, err := New().Convert([]byte("# Only a title\n"))
	require.NoError(t, err)
	assert.Equal(t, "Only a title", title)
	assert.Empty(t, content)
}

func TestConvert_OnlyFirstH1IsTitle(t *testing.T) {
	title, content, err := New().Convert([]byte("# One\n\n# Two\n"))
	require.NoError(t, err)
	assert.Equal(t, "One", title)
	assert.Equal(t, "<h1>Two</h1>", content)
}

func TestConvert_Sanitises(t *testing.T) {
	_, content, err := New().Convert([]byte("Hi <script>alert(1)</script> there\n\n<div onclick=\"x()\">box</div>\n"))
	require.NoError(t, err)
	assert.NotContains(t, content, "script")
	assert.NotContains(t, content, "onclick")
	assert.Contains(t, content, "Hi")
	assert.Contains(t, content, "box")
}

func TestConvert_BlockShapes(t *testing.T) {
	src := strings.Join([]string{
		"- a",
		"- b",
		"",
		"1. first",
		"",
		"> quoted",
		"",
		"```go",
		`fmt.Println("x")`,
		"```",
		"",
		"---",
		"",
		"It's fine",
	}, "\n")

	_, content, err := New().Convert([]byte(src))
	require.NoError(t, err)

	parsed := blocks.Parse(content)
	var types []blocks.Type
	for _, b := range parsed {
		types = append(types, b.Type)
	}
	assert.Equal(t, []blocks.Type{
		blocks.TypeList,
		blocks.TypeOrderedList,
		blocks.TypeQuote,
		blocks.TypeCode,
		blocks.TypeSeparator,
		blocks.TypeParagraph,
	}, types)

	assert.Contains(t, content, "<li>a</li>")
	assert.Contains(t, content, `<pre><code class="language-go">fmt.Println("x")`)
	assert.Contains(t, content, "<p>It's fine</p>")
}

func TestConvert_IsStable(t *testing.T) {
	src := []byte("# T\n\nSome **bold** and [a link](https://example.com).\n\n- x\n- y\n")
	c := New()

	_, first, err := c.Convert(src)
	require.NoError(t, err)
	_, second, err := c.Convert(src)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first, blocks.Serialize(blocks.Parse(first)), "output is already in block form")
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/notes/my_first-post.md", "my first post"},
		{"draft.markdown", "draft"},
		{"noext", "noext"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleFromFilename(tt.path))
		})
	}
}
