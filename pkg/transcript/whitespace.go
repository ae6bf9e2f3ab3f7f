package transcript

import (
	"strings"
	"unicode"
)

// NormalizeWhitespace replaces every run of characters outside printable
// 7-bit ASCII with a single space, collapses whitespace runs to one space
// and trims both ends. Invalid UTF-8 bytes count as non-ASCII.
func NormalizeWhitespace(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	space := true // swallows leading whitespace
	for _, r := range s {
		if unicode.IsSpace(r) || !isPrintableASCII(r) {
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		space = false
		b.WriteRune(r)
	}

	return strings.TrimSuffix(b.String(), " ")
}

func isPrintableASCII(r rune) bool {
	return r >= 0x20 && r < 0x7f
}
