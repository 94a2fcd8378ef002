package app

import (
	"strings"
	"unicode"
)

// Filter is a pure text transform applied to the request before routing.
type Filter func(text string) string

// WakeWordFilter strips one leading wake phrase ("hey hermes, what time
// is it" becomes "what time is it"). Matching is case-insensitive; a
// separator comma after the phrase is dropped too.
func WakeWordFilter(phrases ...string) Filter {
	lowered := make([]string, len(phrases))
	for i, p := range phrases {
		lowered[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return func(text string) string {
		trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
		lower := strings.ToLower(trimmed)
		for _, p := range lowered {
			if p == "" || !strings.HasPrefix(lower, p) {
				continue
			}
			rest := trimmed[len(p):]
			// Only strip when the phrase ends at a word boundary.
			if rest != "" && !strings.ContainsAny(rest[:1], " \t,") {
				continue
			}
			rest = strings.TrimLeft(rest, " \t,")
			return rest
		}
		return text
	}
}
