package cleaner

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Placeholder replaces every rune the single-byte output charset cannot encode.
const Placeholder = '?'

var punctuation = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "-",
	"…", "...",
)

// SafeText maps text onto ISO-8859-1 for core PDF fonts. Typographic
// punctuation becomes ASCII and combining sequences are composed first so
// that accented Latin letters survive. Anything still outside the charset
// becomes Placeholder, as do the C1 controls U+0080..U+009F, which the
// cp1252 font encoding has no glyphs for. It never fails.
func SafeText(text string) string {
	s := punctuation.Replace(norm.NFC.String(text))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if _, ok := charmap.ISO8859_1.EncodeRune(r); ok && !isC1(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(Placeholder)
		}
	}
	return b.String()
}

func isC1(r rune) bool { return r >= 0x80 && r <= 0x9f }

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
