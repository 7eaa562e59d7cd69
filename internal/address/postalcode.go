package address

import "strings"

// FormatPostalCode normalizes a postal code to the canonical "AAA NNN"
// layout: spaces removed, first six characters upper-cased and split with
// a single space. Values shorter than six characters are upper-cased
// unchanged. Formatting an already-canonical code is a no-op.
func FormatPostalCode(raw string) string {
	s := strings.ReplaceAll(raw, " ", "")
	r := []rune(s)
	if len(r) >= 6 {
		return strings.ToUpper(string(r[:3])) + " " + strings.ToUpper(string(r[3:6]))
	}
	return strings.ToUpper(s)
}
