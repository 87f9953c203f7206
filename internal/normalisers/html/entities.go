package html

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	namedEntity   = regexp.MustCompile(`&([a-zA-Z][a-zA-Z0-9]{1,31});`)
	numericEntity = regexp.MustCompile(`&#(?:[xX]([0-9a-fA-F]{1,8})|([0-9]{1,10}));`)
)

// namedEntities covers the core XML entities plus the Latin-1 and
// typographic names that show up in CMS output.
var namedEntities = map[string]string{
	"amp":    "&",
	"lt":     "<",
	"gt":     ">",
	"quot":   `"`,
	"apos":   "'",
	"nbsp":   "\u00a0",
	"copy":   "©",
	"reg":    "®",
	"trade":  "™",
	"hellip": "…",
	"mdash":  "—",
	"ndash":  "–",
	"lsquo":  "‘",
	"rsquo":  "’",
	"sbquo":  "‚",
	"ldquo":  "“",
	"rdquo":  "”",
	"bdquo":  "„",
	"laquo":  "«",
	"raquo":  "»",
	"lsaquo": "‹",
	"rsaquo": "›",
	"bull":   "•",
	"middot": "·",
	"dagger": "†",
	"Dagger": "‡",
	"permil": "‰",
	"prime":  "′",
	"Prime":  "″",
	"deg":    "°",
	"plusmn": "±",
	"times":  "×",
	"divide": "÷",
	"frac14": "¼",
	"frac12": "½",
	"frac34": "¾",
	"sup1":   "¹",
	"sup2":   "²",
	"sup3":   "³",
	"micro":  "µ",
	"para":   "¶",
	"sect":   "§",
	"cent":   "¢",
	"pound":  "£",
	"yen":    "¥",
	"euro":   "€",
	"curren": "¤",
	"iexcl":  "¡",
	"iquest": "¿",
	"ordf":   "ª",
	"ordm":   "º",
	"not":    "¬",
	"shy":    "\u00ad",
	"macr":   "¯",
	"acute":  "´",
	"cedil":  "¸",
	"uml":    "¨",
	"brvbar": "¦",
	"Agrave": "À",
	"Aacute": "Á",
	"Acirc":  "Â",
	"Atilde": "Ã",
	"Auml":   "Ä",
	"Aring":  "Å",
	"AElig":  "Æ",
	"Ccedil": "Ç",
	"Egrave": "È",
	"Eacute": "É",
	"Ecirc":  "Ê",
	"Euml":   "Ë",
	"Igrave": "Ì",
	"Iacute": "Í",
	"Icirc":  "Î",
	"Iuml":   "Ï",
	"ETH":    "Ð",
	"Ntilde": "Ñ",
	"Ograve": "Ò",
	"Oacute": "Ó",
	"Ocirc":  "Ô",
	"Otilde": "Õ",
	"Ouml":   "Ö",
	"Oslash": "Ø",
	"Ugrave": "Ù",
	"Uacute": "Ú",
	"Ucirc":  "Û",
	"Uuml":   "Ü",
	"Yacute": "Ý",
	"THORN":  "Þ",
	"szlig":  "ß",
	"agrave": "à",
	"aacute": "á",
	"acirc":  "â",
	"atilde": "ã",
	"auml":   "ä",
	"aring":  "å",
	"aelig":  "æ",
	"ccedil": "ç",
	"egrave": "è",
	"eacute": "é",
	"ecirc":  "ê",
	"euml":   "ë",
	"igrave": "ì",
	"iacute": "í",
	"icirc":  "î",
	"iuml":   "ï",
	"eth":    "ð",
	"ntilde": "ñ",
	"ograve": "ò",
	"oacute": "ó",
	"ocirc":  "ô",
	"otilde": "õ",
	"ouml":   "ö",
	"oslash": "ø",
	"ugrave": "ù",
	"uacute": "ú",
	"ucirc":  "û",
	"uuml":   "ü",
	"yacute": "ý",
	"thorn":  "þ",
	"yuml":   "ÿ",
	"OElig":  "Œ",
	"oelig":  "œ",
	"Scaron": "Š",
	"scaron": "š",
	"Yuml":   "Ÿ",
}

// commonNumeric holds the numeric references WordPress emits most often,
// including its zero-padded forms.
var commonNumeric = map[string]string{
	"&#8217;": "’",
	"&#8216;": "‘",
	"&#8220;": "“",
	"&#8221;": "”",
	"&#8211;": "–",
	"&#8212;": "—",
	"&#8230;": "…",
	"&#8226;": "•",
	"&#038;":  "&",
	"&#38;":   "&",
	"&#039;":  "'",
	"&#39;":   "'",
	"&#034;":  `"`,
	"&#34;":   `"`,
	"&#060;":  "<",
	"&#062;":  ">",
	"&#160;":  "\u00a0",
	"&#169;":  "©",
	"&#174;":  "®",
}

// DecodeEntities decodes named entities first, then numeric ones. Each
// pass scans the input once, so the result of one replacement is never
// re-examined by the same pass. Unknown names and invalid code points are
// left as written.
func DecodeEntities(text string) string {
	if !strings.Contains(text, "&") {
		return text
	}

	text = namedEntity.ReplaceAllStringFunc(text, func(match string) string {
		if v, ok := namedEntities[match[1:len(match)-1]]; ok {
			return v
		}
		return match
	})

	return numericEntity.ReplaceAllStringFunc(text, decodeNumeric)
}

func decodeNumeric(match string) string {
	if v, ok := commonNumeric[match]; ok {
		return v
	}

	body := match[2 : len(match)-1]
	base := 10
	if body[0] == 'x' || body[0] == 'X' {
		body = body[1:]
		base = 16
	}

	code, err := strconv.ParseInt(body, base, 32)
	if err != nil || code <= 0 {
		return match
	}
	r := rune(code)
	if !utf8.ValidRune(r) {
		return match
	}
	return string(r)
}
