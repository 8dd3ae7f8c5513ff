package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnnamedFallback is substituted when sanitization leaves nothing usable.
const UnnamedFallback = "unnamed"

// SanitizeFileName removes characters that are invalid on common filesystems:
// the set / \ : * ? " < > | plus control characters (U+0000–U+001F and
// U+007F–U+009F). Leading and trailing spaces and dots are stripped. An empty
// result yields UnnamedFallback.
func SanitizeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r <= 0x1F || (r >= 0x7F && r <= 0x9F):
			// drop control characters
		case r == '/' || r == '\\' || r == ':' || r == '*' ||
			r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			// drop filesystem-reserved characters
		default:
			b.WriteRune(r)
		}
	}
	sanitized := strings.Trim(b.String(), ". ")
	if sanitized == "" {
		return UnnamedFallback
	}
	return sanitized
}

var titleCaser = cases.Title(language.English)

// Capitalize title-cases a single token: first letter upper, rest lower.
func Capitalize(token string) string {
	return titleCaser.String(strings.ToLower(token))
}
