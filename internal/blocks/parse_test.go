package blocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func types(blocks []Block) []Type {
	out := make([]Type, len(blocks))
	for i, b := range blocks {
		out[i] = b.Type
	}
	return out
}

func TestParse_EmptyDocument(t *testing.T) {
	for _, src := range []string{"", "   \n\t ", "<!-- only a comment -->"} {
		blocks := Parse(src)
		require.Len(t, blocks, 1, "src %q", src)
		assert.Equal(t, TypeParagraph, blocks[0].Type)
		assert.Empty(t, blocks[0].Content)
		assert.NotEmpty(t, blocks[0].ID)
	}
}

func TestParse_TagMapping(t *testing.T) {
	src := "<h1>Title</h1><h3>Sub</h3><p>Para</p><pre>code</pre>" +
		"<blockquote>quote</blockquote><ul><li>a</li></ul><ol><li>b</li></ol><hr><div>div</div>"

	blocks := Parse(src)

	assert.Equal(t, []Type{
		TypeHeading1, TypeHeading3, TypeParagraph, TypeCode,
		TypeQuote, TypeList, TypeOrderedList, TypeSeparator, TypeParagraph,
	}, types(blocks))
	assert.Equal(t, "Title", blocks[0].Content)
	assert.Equal(t, "code", blocks[3].Content)
	assert.Equal(t, "<li>a</li>", blocks[5].Content)
	assert.Equal(t, "div", blocks[8].Content)
}

func TestParse_UnwrapsContainers(t *testing.T) {
	blocks := Parse("<section><div><p>a</p><h2>b</h2></div></section><div>inline <em>only</em></div>")

	assert.Equal(t, []Type{TypeParagraph, TypeHeading2, TypeParagraph}, types(blocks))
	assert.Equal(t, "a", blocks[0].Content)
	assert.Equal(t, "inline <em>only</em>", blocks[2].Content)
}

func TestParse_Pullquote(t *testing.T) {
	blocks := Parse(`<blockquote class="wp-block-pullquote"><p>Big idea</p><cite>Ann</cite></blockquote>`)

	require.Len(t, blocks, 1)
	assert.Equal(t, TypePullquote, blocks[0].Type)
	assert.Equal(t, "<p>Big idea</p><cite>Ann</cite>", blocks[0].Content)
	assert.Equal(t, "Ann", blocks[0].Attributes.String(AttrCitation))
}

func TestParse_FigurePullquote(t *testing.T) {
	blocks := Parse(`<figure class="wp-block-pullquote"><blockquote><p>x</p></blockquote></figure>`)

	require.Len(t, blocks, 1)
	assert.Equal(t, TypePullquote, blocks[0].Type)
	assert.Equal(t, "<p>x</p>", blocks[0].Content)
}

func TestParse_Image(t *testing.T) {
	blocks := Parse(`<figure><img src="https://example.com/a.png" alt="An image"><figcaption>Caption <em>here</em></figcaption></figure>` +
		`<img src="b.png">`)

	require.Len(t, blocks, 2)
	assert.Equal(t, TypeImage, blocks[0].Type)
	assert.Equal(t, "https://example.com/a.png", blocks[0].Attributes.String(AttrSrc))
	assert.Equal(t, "An image", blocks[0].Attributes.String(AttrAlt))
	assert.Equal(t, "Caption <em>here</em>", blocks[0].Attributes.String(AttrCaption))
	assert.Equal(t, TypeImage, blocks[1].Type)
	assert.Equal(t, "b.png", blocks[1].Attributes.String(AttrSrc))
}

func TestParse_PlainTextSplitsOnBlankLines(t *testing.T) {
	blocks := Parse("First paragraph\nstill first\n\n  \nSecond & last")

	require.Len(t, blocks, 2)
	assert.Equal(t, "First paragraph\nstill first", blocks[0].Content)
	assert.Equal(t, "Second &amp; last", blocks[1].Content)
}

func TestParse_InlineRunBecomesParagraph(t *testing.T) {
	blocks := Parse("Hello <b>world</b>\n<p>Next</p>")

	require.Len(t, blocks, 2)
	assert.Equal(t, TypeParagraph, blocks[0].Type)
	assert.Equal(t, "Hello <b>world</b>", blocks[0].Content)
	assert.Equal(t, "Next", blocks[1].Content)
}

func TestParse_KeepsTextEscapingMinimal(t *testing.T) {
	blocks := Parse(`<p>don't "quote" a&nbsp;b &lt;tag&gt;</p>`)

	require.Len(t, blocks, 1)
	assert.Equal(t, `don't "quote" a&nbsp;b &lt;tag&gt;`, blocks[0].Content)
}

func TestParse_RegeneratesIDs(t *testing.T) {
	a := Parse("<p>x</p><p>y</p>")
	b := Parse("<p>x</p><p>y</p>")

	assert.NotEqual(t, a[0].ID, a[1].ID)
	assert.NotEqual(t, a[0].ID, b[0].ID)
}

func TestSerialize(t *testing.T) {
	blocks := []Block{
		New(TypeHeading2, "Title"),
		New(TypeParagraph, "Hello <em>world</em>"),
		New(TypeList, "<li>a</li><li>b</li>"),
		New(TypeOrderedList, "<li>1</li>"),
		New(TypeCode, "x &lt; y"),
		New(TypeQuote, "q"),
		New(TypePullquote, "<p>pq</p>"),
		New(TypeSeparator, ""),
		{Type: TypeImage, Attributes: Attributes{AttrSrc: String(`a"b.png`), AttrAlt: String("A")}},
		New(TypeUnknown, "<table></table>"),
	}

	want := "<h2>Title</h2>\n" +
		"<p>Hello <em>world</em></p>\n" +
		"<ul><li>a</li><li>b</li></ul>\n" +
		"<ol><li>1</li></ol>\n" +
		"<pre>x &lt; y</pre>\n" +
		"<blockquote>q</blockquote>\n" +
		`<blockquote class="pullquote"><p>pq</p></blockquote>` + "\n" +
		"<hr>\n" +
		`<figure><img src="a&quot;b.png" alt="A"></figure>` + "\n" +
		"<table></table>"

	assert.Equal(t, want, Serialize(blocks))
}

func TestSerialize_RoundTrip(t *testing.T) {
	blocks := []Block{
		New(TypeHeading1, "Title"),
		New(TypeParagraph, "Hello <em>world</em> &amp; friends"),
		New(TypeParagraph, ""),
		New(TypeList, "<li>a</li><li>b<ul><li>c</li></ul></li>"),
		New(TypeOrderedList, "<li>1</li>"),
		New(TypeCode, "x &lt; y"),
		New(TypeQuote, "<p>q</p><cite>Ann</cite>"),
		New(TypePullquote, "<p>pq</p>"),
		New(TypeSeparator, ""),
		{Type: TypeImage, Attributes: Attributes{
			AttrSrc:     String("https://example.com/a.png"),
			AttrAlt:     String("An image"),
			AttrCaption: String("Cap"),
		}},
	}

	html := Serialize(blocks)
	reparsed := Parse(html)

	assert.Equal(t, types(blocks), types(reparsed))
	assert.Equal(t, html, Serialize(reparsed))
}

func TestSerialize_StableAfterOneCycle(t *testing.T) {
	inputs := []string{
		"",
		"Just text & more\n\nand another",
		`<p>It's <a href="https://x.test/?a=1&b=2">here</a></p>`,
		"<h2>A</h2>\n\n<div><p>nested</p></div>",
		"<ul>\n  <li>one</li>\n  <li>two</li>\n</ul>",
		`<blockquote class="pullquote">x</blockquote><p>a&nbsp;b</p>`,
	}

	for _, in := range inputs {
		once := Serialize(Parse(in))
		assert.Equal(t, once, Serialize(Parse(once)), "input %q", in)
	}
}

func TestSerialize_CodeLeadingNewline(t *testing.T) {
	code := New(TypeCode, "\nfunc main() {}")

	html := Serialize([]Block{code})
	assert.Equal(t, "<pre>\n\nfunc main() {}</pre>", html)

	reparsed := Parse(html)
	require.Len(t, reparsed, 1)
	assert.Equal(t, "\nfunc main() {}", reparsed[0].Content)
	assert.Equal(t, html, Serialize(reparsed))

	nested := `<ul><li><pre>` + "\n\nx" + `</pre></li></ul>`
	once := Serialize(Parse(nested))
	assert.Equal(t, nested, once)
	assert.Equal(t, once, Serialize(Parse(once)))
}
