// Package blocks implements the editor's block document model: parsing
// post HTML into typed blocks, pure mutations over the block sequence,
// serialisation back to HTML, and the slash-command menu.
//
// Block ids are ephemeral. Parse assigns fresh ids on every call, so an id
// is only meaningful within one editing session that never reparses.
package blocks

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/quill-editor/quill/internal/normalisers/html"
)

// Type is the kind of a block.
type Type string

// Block types.
const (
	TypeParagraph   Type = "paragraph"
	TypeHeading1    Type = "heading1"
	TypeHeading2    Type = "heading2"
	TypeHeading3    Type = "heading3"
	TypeHeading4    Type = "heading4"
	TypeHeading5    Type = "heading5"
	TypeHeading6    Type = "heading6"
	TypeList        Type = "list"
	TypeOrderedList Type = "ordered_list"
	TypeQuote       Type = "quote"
	TypePullquote   Type = "pullquote"
	TypeCode        Type = "code"
	TypeImage       Type = "image"
	TypeSeparator   Type = "separator"
	TypeUnknown     Type = "unknown"
)

// HeadingType returns the heading type for level 1 to 6.
func HeadingType(level int) Type {
	if level < 1 || level > 6 {
		return TypeParagraph
	}
	return Type("heading" + strconv.Itoa(level))
}

// HeadingLevel returns the heading level, or 0 if t is not a heading.
func (t Type) HeadingLevel() int {
	if !strings.HasPrefix(string(t), "heading") {
		return 0
	}
	level, err := strconv.Atoi(strings.TrimPrefix(string(t), "heading"))
	if err != nil || level < 1 || level > 6 {
		return 0
	}
	return level
}

// IsList returns true for bulleted and numbered lists.
func (t Type) IsList() bool {
	return t == TypeList || t == TypeOrderedList
}

// Well-known attribute keys.
const (
	AttrSrc      = "src"
	AttrAlt      = "alt"
	AttrCaption  = "caption"
	AttrCitation = "citation"
)

type valueKind uint8

const (
	kindString valueKind = iota
	kindNumber
	kindBool
)

// Value is an attribute value: a string, a number or a bool.
type Value struct {
	kind valueKind
	s    string
	n    float64
	b    bool
}

// String creates a string value.
func String(s string) Value { return Value{kind: kindString, s: s} }

// Number creates a numeric value.
func Number(n float64) Value { return Value{kind: kindNumber, n: n} }

// Bool creates a boolean value.
func Bool(b bool) Value { return Value{kind: kindBool, b: b} }

// AsString returns the string and true if v holds a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == kindString }

// AsNumber returns the number and true if v holds a number.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == kindNumber }

// AsBool returns the bool and true if v holds a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == kindBool }

// Format renders the value as text whatever its kind.
func (v Value) Format() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case kindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.s
	}
}

// Attributes is the open key-value map carried by a block.
type Attributes map[string]Value

// String returns the string stored under key, or "".
func (a Attributes) String(key string) string {
	s, _ := a[key].AsString()
	return s
}

// Clone returns an independent copy.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Block is one typed unit of post content.
type Block struct {
	// ID is regenerated on every parse; never persist or compare it across parses.
	ID string

	Type Type

	// Content is the inner HTML. For lists it holds the <li> items.
	Content string

	Attributes Attributes
}

// New creates a block with a fresh id.
func New(t Type, content string) Block {
	return Block{ID: uuid.NewString(), Type: t, Content: content}
}

// emptyContent is the content a block of type t starts with.
func emptyContent(t Type) string {
	if t.IsList() {
		return "<li></li>"
	}
	return ""
}

// Text returns the block's content as plain text.
func (b Block) Text() string {
	return html.ToPlainText(b.Content)
}

// IsEmpty reports whether the block has no visible content.
func (b Block) IsEmpty() bool {
	switch b.Type {
	case TypeSeparator:
		return false
	case TypeImage:
		return b.Attributes.String(AttrSrc) == ""
	case TypeList, TypeOrderedList:
		for _, item := range listItems(b.Content) {
			if !isBlank(item) {
				return false
			}
		}
		return true
	default:
		return isBlank(b.Content)
	}
}

// isBlank reports whether an HTML fragment has only whitespace as text
// and no inline image.
func isBlank(fragment string) bool {
	if strings.Contains(strings.ToLower(fragment), "<img") {
		return false
	}
	return strings.TrimSpace(html.ToPlainText(fragment)) == ""
}
