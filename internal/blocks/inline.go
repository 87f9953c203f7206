package blocks

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	brTag  = regexp.MustCompile(`(?i)^<br\s*/?>$`)
	entity = regexp.MustCompile(`&(#[0-9]+|#[xX][0-9a-fA-F]+|[a-zA-Z][a-zA-Z0-9]*);$`)
)

// prunable inline elements are removed once a deletion leaves them empty.
var prunable = map[string]bool{
	"a": true, "abbr": true, "b": true, "cite": true, "code": true, "del": true,
	"em": true, "i": true, "ins": true, "kbd": true, "mark": true, "s": true,
	"small": true, "span": true, "strong": true, "sub": true, "sup": true, "u": true,
}

// appendMarkup adds already-escaped markup after the last visible
// character of content. It goes inside any trailing closing tags, so the
// new text continues the last formatting run and stays within a
// <code> wrapper.
func appendMarkup(content, markup string) string {
	at := len(content)
	for at > 0 && content[at-1] == '>' {
		open := strings.LastIndexByte(content[:at], '<')
		if open < 0 || !strings.HasPrefix(content[open:at], "</") {
			break
		}
		at = open
	}
	return content[:at] + markup + content[at:]
}

// dropLastMarkup removes the last visible character of content: a rune,
// an entity or a <br>. The surrounding tags stay. With prune set, inline
// elements emptied by the removal are dropped as well.
func dropLastMarkup(content string, prune bool) string {
	end := len(content)
	for end > 0 && content[end-1] == '>' {
		open := strings.LastIndexByte(content[:end], '<')
		if open < 0 {
			break
		}
		if brTag.MatchString(content[open:end]) {
			return content[:open] + content[end:]
		}
		end = open
	}
	if end == 0 {
		return content
	}

	start := end
	if loc := entity.FindStringIndex(content[:end]); loc != nil {
		start = loc[0]
	} else {
		_, size := utf8.DecodeLastRuneInString(content[:end])
		start = end - size
	}

	out := content[:start] + content[end:]
	if prune {
		out = pruneEmpty(out, start)
	}
	return out
}

// pruneEmpty removes an inline element pair that meets at position at,
// repeating outwards for nested empty elements.
func pruneEmpty(s string, at int) string {
	for at > 0 && s[at-1] == '>' {
		open := strings.LastIndexByte(s[:at], '<')
		if open < 0 {
			return s
		}
		name := tagName(s[open:at])
		closing := "</" + name + ">"
		if !prunable[name] || !strings.HasPrefix(strings.ToLower(s[at:]), closing) {
			return s
		}
		s = s[:open] + s[at+len(closing):]
		at = open
	}
	return s
}

// tagName returns the lower-cased element name of an opening tag, or ""
// for closing tags and comments.
func tagName(tag string) string {
	tag = strings.TrimPrefix(tag, "<")
	if tag == "" || tag[0] == '/' || tag[0] == '!' {
		return ""
	}
	end := strings.IndexAny(tag, " \t\n/>")
	if end < 0 {
		end = len(tag)
	}
	return strings.ToLower(tag[:end])
}
