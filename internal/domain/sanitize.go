package domain

import (
	"regexp"
	"strings"
	"unicode"
)

const maxDetailRunes = 240

var urlPattern = regexp.MustCompile(`(?i)\b[a-z][a-z0-9+.-]*://\S+`)

// SanitizeDetail prepares free text for display: first line only (drops stack
// traces), URLs redacted, control characters removed, length capped.
func SanitizeDetail(s string) string {
	s, _, _ = strings.Cut(strings.TrimSpace(s), "\n")
	s = urlPattern.ReplaceAllString(s, "[redacted]")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)

	if r := []rune(s); len(r) > maxDetailRunes {
		s = string(r[:maxDetailRunes]) + "…"
	}
	return s
}
