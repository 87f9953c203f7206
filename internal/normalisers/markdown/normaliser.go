package markdown

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/quill-editor/quill/internal/blocks"
	"github.com/quill-editor/quill/internal/core/ports/driven"
)

// Ensure Converter implements the interface.
var _ driven.MarkdownConverter = (*Converter)(nil)

// Converter turns Markdown documents into post content.
type Converter struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New creates a new Markdown converter.
func New() *Converter {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		// Raw HTML is passed through and cleaned by the policy below.
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "blockquote")

	return &Converter{md: md, policy: policy}
}

// Convert renders source as post HTML. A level-one heading at the top
// level becomes the title and is removed from the body. The body is
// sanitised and then rewritten in the editor's block form, so importing
// the same document twice yields identical content.
func (c *Converter) Convert(source []byte) (string, string, error) {
	doc := c.md.Parser().Parse(text.NewReader(source))

	title := ""
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = strings.TrimSpace(nodeText(h, source))
			doc.RemoveChild(doc, h)
			break
		}
	}

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, source, doc); err != nil {
		return "", "", fmt.Errorf("render markdown: %w", err)
	}

	safe := c.policy.Sanitize(buf.String())
	if strings.TrimSpace(safe) == "" {
		return title, "", nil
	}
	return title, blocks.Serialize(blocks.Parse(safe)), nil
}

// nodeText concatenates the literal text under n.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(nodeText(c, source))
		}
	}
	return b.String()
}

// TitleFromFilename derives a title from a file path when the document
// has no level-one heading: "my_first-post.md" becomes "my first post".
func TitleFromFilename(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}
