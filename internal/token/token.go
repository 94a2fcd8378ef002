// Package token splits request text into word tokens for routing.
package token

import (
	"strings"
	"unicode"
)

// Split performs whitespace-only splitting; punctuation stays attached
// to its word.
func Split(text string) []string {
	return strings.Fields(text)
}

// Tokenize performs rule-based splitting: contiguous letters and digits
// form a token, an apostrophe stays inside a token when both neighbors are
// letters (contractions), and '.' or ',' stays inside when both neighbors
// are digits (decimal and thousands separators). Any other punctuation
// character becomes its own single-character token when keepPunct is true
// and is dropped otherwise.
func Tokenize(text string, keepPunct bool) []string {
	runes := []rune(text)
	tokens := make([]string, 0, len(runes)/4)
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			cur = append(cur, r)
		case r == '\'' && interior(runes, i, unicode.IsLetter):
			cur = append(cur, r)
		case (r == '.' || r == ',') && interior(runes, i, unicode.IsDigit):
			cur = append(cur, r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			if keepPunct {
				tokens = append(tokens, string(r))
			}
		}
	}
	flush()
	return tokens
}

// interior reports whether both neighbors of position i satisfy pred,
// keeping the separator inside the current token.
func interior(runes []rune, i int, pred func(rune) bool) bool {
	return i > 0 && i+1 < len(runes) && pred(runes[i-1]) && pred(runes[i+1])
}
