package address

import "regexp"

// The eight compass quadrant codes recognized as directional tokens.
var directionCodes = map[string]struct{}{
	"E": {}, "N": {}, "W": {}, "S": {},
	"NE": {}, "NW": {}, "SE": {}, "SW": {},
}

// Spelled-out directions anchored at the end of the address. Priority
// order is fixed and only the first matching pattern is applied, so
// "north east" collapses to "north E" rather than "NE"; the source data
// was produced that way and downstream consumers rely on it.
var directionPatterns = []struct {
	re   *regexp.Regexp
	code string
}{
	{regexp.MustCompile(`(?i)\beast\b$`), "E"},
	{regexp.MustCompile(`(?i)\bnorth\b$`), "N"},
	{regexp.MustCompile(`(?i)\bnorth[\s-]?east\b$`), "NE"},
	{regexp.MustCompile(`(?i)\bnorth[\s-]?west\b$`), "NW"},
	{regexp.MustCompile(`(?i)\bsouth\b$`), "S"},
	{regexp.MustCompile(`(?i)\bsouth[\s-]?east\b$`), "SE"},
	{regexp.MustCompile(`(?i)\bsouth[\s-]?west\b$`), "SW"},
	{regexp.MustCompile(`(?i)\bwest\b$`), "W"},
	{regexp.MustCompile(`(?i)\bwst\b$`), "W"},
}

// canonicalizeDirection rewrites a trailing spelled-out compass direction
// to its two-letter code. At most one substitution is applied.
func canonicalizeDirection(addr string) string {
	for _, p := range directionPatterns {
		if p.re.MatchString(addr) {
			return p.re.ReplaceAllString(addr, p.code)
		}
	}
	return addr
}

func isDirection(token string) bool {
	_, ok := directionCodes[token]
	return ok
}
