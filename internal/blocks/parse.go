package blocks

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	htmltext "github.com/quill-editor/quill/internal/normalisers/html"
)

var blankLine = regexp.MustCompile(`\n[ \t]*\n`)

// inlineElements may appear inside a paragraph. At the top level they are
// gathered, together with text, into one paragraph.
var inlineElements = map[atom.Atom]bool{
	atom.A: true, atom.Abbr: true, atom.B: true, atom.Br: true, atom.Cite: true,
	atom.Code: true, atom.Del: true, atom.Em: true, atom.I: true, atom.Ins: true,
	atom.Kbd: true, atom.Mark: true, atom.S: true, atom.Small: true, atom.Span: true,
	atom.Strong: true, atom.Sub: true, atom.Sup: true, atom.U: true,
}

// containerElements are unwrapped when they hold block-level children, so
// their children become blocks of their own.
var containerElements = map[atom.Atom]bool{
	atom.Article: true, atom.Aside: true, atom.Div: true, atom.Footer: true,
	atom.Header: true, atom.Main: true, atom.Nav: true, atom.Section: true,
}

// Parse converts post HTML into blocks. Top-level elements become one block
// each. Loose text is split on blank lines into paragraphs. The result is
// never empty: a document with no content yields one empty paragraph.
func Parse(src string) []Block {
	blocks := parseNodes(parseFragment(src, atom.Body))
	if len(blocks) == 0 {
		return []Block{New(TypeParagraph, "")}
	}
	return blocks
}

func parseNodes(nodes []*html.Node) []Block {
	var (
		blocks []Block
		run    []*html.Node
	)

	flush := func() {
		blocks = append(blocks, paragraphsFromRun(run)...)
		run = nil
	}

	for _, n := range nodes {
		switch {
		case n.Type == html.TextNode:
			run = append(run, n)
		case n.Type == html.ElementNode && inlineElements[n.DataAtom]:
			run = append(run, n)
		case n.Type == html.ElementNode && containerElements[n.DataAtom] && hasBlockChild(n):
			flush()
			blocks = append(blocks, parseNodes(children(n))...)
		case n.Type == html.ElementNode:
			flush()
			blocks = append(blocks, blockFromElement(n))
		}
	}
	flush()

	return blocks
}

func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && !inlineElements[c.DataAtom] {
			return true
		}
	}
	return false
}

// paragraphsFromRun turns loose top-level text and inline markup into
// paragraphs. Pure text is split on blank lines.
func paragraphsFromRun(run []*html.Node) []Block {
	if len(run) == 0 {
		return nil
	}

	rendered := renderNodes(run)
	if strings.TrimSpace(rendered) == "" {
		return nil
	}

	pureText := true
	for _, n := range run {
		if n.Type != html.TextNode {
			pureText = false
			break
		}
	}
	if !pureText {
		return []Block{New(TypeParagraph, strings.TrimSpace(rendered))}
	}

	var out []Block
	for _, chunk := range blankLine.Split(strings.ReplaceAll(rendered, "\r\n", "\n"), -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			out = append(out, New(TypeParagraph, chunk))
		}
	}
	return out
}

// blockFromElement maps a top-level element to a block.
func blockFromElement(n *html.Node) Block {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return New(HeadingType(int(n.Data[1]-'0')), innerHTML(n))
	case atom.Pre:
		return New(TypeCode, innerHTML(n))
	case atom.Blockquote:
		return quoteBlock(n, hasClass(n, "pullquote"))
	case atom.Ul:
		return New(TypeList, innerHTML(n))
	case atom.Ol:
		return New(TypeOrderedList, innerHTML(n))
	case atom.Hr:
		return New(TypeSeparator, "")
	case atom.Img:
		return imageBlock(n, nil)
	case atom.Figure:
		if img := findElement(n, atom.Img); img != nil {
			return imageBlock(img, findElement(n, atom.Figcaption))
		}
		if quote := findElement(n, atom.Blockquote); quote != nil {
			return quoteBlock(quote, hasClass(n, "pullquote") || hasClass(quote, "pullquote"))
		}
		return New(TypeParagraph, innerHTML(n))
	default:
		return New(TypeParagraph, innerHTML(n))
	}
}

func quoteBlock(n *html.Node, pullquote bool) Block {
	t := TypeQuote
	if pullquote {
		t = TypePullquote
	}
	b := New(t, innerHTML(n))
	if cite := findElement(n, atom.Cite); cite != nil {
		b.Attributes = Attributes{AttrCitation: String(htmltext.ToPlainText(innerHTML(cite)))}
	}
	return b
}

func imageBlock(img, caption *html.Node) Block {
	b := New(TypeImage, "")
	b.Attributes = Attributes{
		AttrSrc: String(attr(img, "src")),
		AttrAlt: String(attr(img, "alt")),
	}
	if caption != nil {
		b.Attributes[AttrCaption] = String(innerHTML(caption))
	}
	return b
}
