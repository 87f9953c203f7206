package html

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ExcerptLength is the number of runes kept by Excerpt.
const ExcerptLength = 150

// Slugify derives a URL-safe slug from a title: accents are folded,
// anything that is not an ASCII letter or digit becomes a single dash.
func Slugify(title string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		title,
	)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// Excerpt returns the first ExcerptLength runes of the plain text of an
// HTML fragment, with whitespace collapsed.
func Excerpt(content string) string {
	text := NormalizeText(ToPlainText(content))
	if utf8.RuneCountInString(text) <= ExcerptLength {
		return text
	}
	return string([]rune(text)[:ExcerptLength])
}
