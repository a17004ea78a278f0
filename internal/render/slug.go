package render

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slug converts a declaration name into a section id that fits the marker id
// grammar: lowercase letters, digits, underscore and dash. Accented letters
// are decomposed and stripped of their marks, everything else collapses to a
// single dash.
func Slug(name string) string {
	decomposed := norm.NFKD.String(name)

	var b strings.Builder
	pendingDash := false
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		r = unicode.ToLower(r)
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}

	if b.Len() == 0 {
		return "section"
	}
	return b.String()
}
