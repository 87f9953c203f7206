package html

import (
	"regexp"
	"strings"
)

// Pre-compiled regular expressions. RE2 guarantees linear time, so
// malformed or unterminated tags cannot cause runaway matching.
var (
	scriptTag      = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag       = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlComments   = regexp.MustCompile(`(?s)<!--.*?-->`)
	brTags         = regexp.MustCompile(`(?i)<br\s*/?>`)
	closeParagraph = regexp.MustCompile(`(?i)</p\s*>`)
	closeBlock     = regexp.MustCompile(`(?i)</(h[1-6]|blockquote|pre)\s*>`)
	closeDiv       = regexp.MustCompile(`(?i)</div\s*>`)
	openListItem   = regexp.MustCompile(`(?i)<li(\s[^<>]*)?>`)
	closeListItem  = regexp.MustCompile(`(?i)</li\s*>`)
	allTags        = regexp.MustCompile(`<[^<>]+>`)
	multiNewlines  = regexp.MustCompile(`\n{3,}`)
	blankLine      = regexp.MustCompile(`\n[ \t]*\n`)
	multiSpaces    = regexp.MustCompile(`[ \t]+`)
	interTag       = regexp.MustCompile(`>\s+<`)
)

// ToPlainText converts an HTML fragment to readable plain text.
// Entities are decoded after tags are stripped.
func ToPlainText(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	content = brTags.ReplaceAllString(content, "\n")
	content = closeParagraph.ReplaceAllString(content, "\n\n")
	content = closeBlock.ReplaceAllString(content, "\n\n")
	content = closeDiv.ReplaceAllString(content, "\n")
	content = openListItem.ReplaceAllString(content, "• ")
	content = closeListItem.ReplaceAllString(content, "\n")

	// Only well-formed <...> spans are removed; a stray '<' survives.
	content = allTags.ReplaceAllString(content, "")

	content = DecodeEntities(content)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}

// StripTags removes markup from a fragment without any other cleanup:
// <br> becomes a newline, tags are dropped, entities are decoded and
// surrounding whitespace is kept.
func StripTags(content string) string {
	content = brTags.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	return DecodeEntities(content)
}

var plainTextEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// FromPlainText converts plain text into paragraph HTML. Blank lines
// separate paragraphs; single newlines become <br>.
func FromPlainText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = plainTextEscaper.Replace(text)

	var paragraphs []string
	for _, chunk := range blankLine.Split(text, -1) {
		chunk = strings.Trim(chunk, "\n")
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		paragraphs = append(paragraphs, "<p>"+strings.ReplaceAll(chunk, "\n", "<br>")+"</p>")
	}

	return strings.Join(paragraphs, "\n")
}

// NormalizeHTML canonicalises whitespace so that cosmetic re-serialisation
// of the same markup yields the same string. It is used for hashing only
// and its output is not meant for display.
//
// NormalizeHTML(NormalizeHTML(x)) == NormalizeHTML(x).
func NormalizeHTML(content string) string {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	content = strings.Join(kept, "\n")

	content = multiSpaces.ReplaceAllString(content, " ")
	content = interTag.ReplaceAllString(content, "><")

	return strings.TrimSpace(content)
}

// NormalizeText trims a plain string and collapses every whitespace run
// to a single space.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
