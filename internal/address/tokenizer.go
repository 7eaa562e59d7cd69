package address

import (
	"unicode"
	"unicode/utf8"
)

// splitParts breaks a raw address into word tokens and whitespace-run
// tokens, in order. Whitespace runs are kept as their own tokens so the
// original string can be rebuilt exactly by concatenating all parts after
// replacing a single token in place.
func splitParts(s string) []string {
	if s == "" {
		return nil
	}
	var parts []string
	start := 0
	first, _ := utf8.DecodeRuneInString(s)
	inSpace := unicode.IsSpace(first)
	for i, r := range s {
		isSpace := unicode.IsSpace(r)
		if isSpace != inSpace {
			parts = append(parts, s[start:i])
			start = i
			inSpace = isSpace
		}
	}
	parts = append(parts, s[start:])
	return parts
}
