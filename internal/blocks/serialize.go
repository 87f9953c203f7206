package blocks

import "strings"

// Serialize converts blocks back to HTML, one element per block joined by
// newlines. Serialize(Parse(Serialize(b))) equals Serialize(b) for any
// blocks produced by Parse.
func Serialize(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, serializeBlock(b))
	}
	return strings.Join(parts, "\n")
}

func serializeBlock(b Block) string {
	if level := b.Type.HeadingLevel(); level > 0 {
		tag := "h" + string(rune('0'+level))
		return wrap(tag, "", b.Content)
	}

	switch b.Type {
	case TypeCode:
		return wrap("pre", "", preContent(b.Content))
	case TypeQuote:
		return wrap("blockquote", "", b.Content)
	case TypePullquote:
		return wrap("blockquote", ` class="pullquote"`, b.Content)
	case TypeList:
		return wrap("ul", "", b.Content)
	case TypeOrderedList:
		return wrap("ol", "", b.Content)
	case TypeSeparator:
		return "<hr>"
	case TypeImage:
		return serializeImage(b)
	case TypeUnknown:
		return b.Content
	default:
		return wrap("p", "", b.Content)
	}
}

// preContent doubles a leading newline, which the HTML parser drops
// right after <pre>.
func preContent(content string) string {
	if strings.HasPrefix(content, "\n") {
		return "\n" + content
	}
	return content
}

func wrap(tag, attrs, content string) string {
	return "<" + tag + attrs + ">" + content + "</" + tag + ">"
}

func serializeImage(b Block) string {
	var sb strings.Builder
	sb.WriteString(`<figure><img src="`)
	sb.WriteString(attrEscaper.Replace(b.Attributes.String(AttrSrc)))
	sb.WriteString(`" alt="`)
	sb.WriteString(attrEscaper.Replace(b.Attributes.String(AttrAlt)))
	sb.WriteString(`">`)
	if caption := b.Attributes.String(AttrCaption); caption != "" {
		sb.WriteString(wrap("figcaption", "", caption))
	}
	sb.WriteString("</figure>")
	return sb.String()
}
