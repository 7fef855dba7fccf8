package download

import (
	"strings"
	"unicode"
)

// SafeName converts free text into a filesystem-safe fragment:
// characters outside letters, digits, and underscores are dropped,
// runs of spaces and hyphens collapse to single underscores, and the
// result is capped at maxLen runes (0 means no cap).
func SafeName(name string, maxLen int) string {
	var b strings.Builder
	sep := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if sep && b.Len() > 0 {
				b.WriteRune('_')
			}
			sep = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			sep = true
		}
	}

	safe := strings.Trim(b.String(), "_")
	if maxLen > 0 {
		runes := []rune(safe)
		if len(runes) > maxLen {
			safe = string(runes[:maxLen])
		}
	}
	return safe
}
