package address

import "strings"

// Style records whether the street type was found in the English suffix
// position or the French prefix position.
type Style string

const (
	StyleEnglish Style = "English"
	StyleFrench  Style = "French"
)

// NormalizedAddress is the result of street normalization. Fields that
// could not be derived are left empty; callers persisting the record map
// empty to NULL.
type NormalizedAddress struct {
	// FullAddress is the input with the street-type token rewritten to
	// its canonical form and nothing else changed.
	FullAddress string
	// StreetName is FullAddress without the street-type and direction
	// tokens, trimmed.
	StreetName string
	// StreetType is the canonical street type, or empty if no table rule
	// matched any token.
	StreetType string
	// StreetQuad is the directional quadrant token (E, N, W, S, NE, NW,
	// SE, SW), or empty.
	StreetQuad string
	Style      Style
}

// Normalizer canonicalizes street strings against an abbreviation table.
type Normalizer struct {
	table *Table
}

// NewNormalizer returns a Normalizer backed by the given table.
func NewNormalizer(table *Table) *Normalizer {
	return &Normalizer{table: table}
}

// Normalize canonicalizes a raw street string. It never fails: input that
// matches no rule comes back with FullAddress and StreetName populated and
// the remaining fields empty.
//
// The street-type token is located by scanning backward from the first
// comma (or the end of the string when there is none) and testing every
// token against the table. The first token position with a match wins;
// within that position, table order decides the replacement.
func (n *Normalizer) Normalize(street string) NormalizedAddress {
	street = canonicalizeDirection(street)
	parts := splitParts(street)

	commaIdx := -1
	for i, p := range parts {
		if strings.Contains(p, ",") {
			commaIdx = i
			break
		}
	}

	dirIdx := -1
	for i := len(parts) - 1; i >= 0; i-- {
		if isDirection(strings.TrimSpace(parts[i])) {
			dirIdx = i
			break
		}
	}

	boundary := len(parts) - 1
	if commaIdx >= 0 {
		boundary = commaIdx
	}

	targetIdx := -1
	for i := boundary; i >= 0; i-- {
		if n.table.Matches(parts[i]) {
			targetIdx = i
			break
		}
	}

	// A second match at an earlier token ("Avenue Road") means the located
	// token really is a suffix: English. Otherwise a match strictly before
	// the boundary that is not exactly two tokens ahead of the direction
	// sits in prefix position: French.
	secondMatch := false
	for i := targetIdx - 1; i >= 0; i-- {
		if n.table.Matches(parts[i]) {
			secondMatch = true
			break
		}
	}
	style := StyleEnglish
	if !secondMatch && targetIdx >= 0 && targetIdx < boundary &&
		(dirIdx == -1 || targetIdx != dirIdx-2) {
		style = StyleFrench
	}

	streetType := ""
	if targetIdx >= 0 {
		if repl, ok := n.table.Lookup(parts[targetIdx]); ok {
			parts[targetIdx] = strings.TrimSpace(repl)
			streetType = parts[targetIdx]
		} else {
			// Unreachable while the scan and the replacement share one
			// table; kept as the unmatched fallthrough.
			targetIdx = -1
		}
	}

	full := strings.Join(parts, "")

	streetQuad := ""
	if dirIdx >= 0 {
		streetQuad = parts[dirIdx]
	}

	// Whitespace tokens stay, so removing a mid-string token leaves its
	// surrounding spacing intact. Only the trim touches the edges.
	var nameParts []string
	for i, p := range parts {
		if i == targetIdx || i == dirIdx {
			continue
		}
		nameParts = append(nameParts, p)
	}
	streetName := strings.TrimSpace(strings.Join(nameParts, ""))

	return NormalizedAddress{
		FullAddress: full,
		StreetName:  streetName,
		StreetType:  streetType,
		StreetQuad:  streetQuad,
		Style:       style,
	}
}

// ExpandForLookup rewrites the street-type token of an address using the
// legacy target rule: two tokens before the direction, else two tokens
// before the comma, else the last token. Early exports used this simpler
// positional rule and the postal-code lookup service expects addresses
// expanded the same way, so it is preserved as the expansion path's only
// mode.
func ExpandForLookup(addr string) string {
	return expandWithTable(addr, LookupCA())
}

func expandWithTable(addr string, table *Table) string {
	parts := splitParts(addr)

	commaIdx := -1
	for i, p := range parts {
		if strings.Contains(p, ",") {
			commaIdx = i
			break
		}
	}

	dirIdx := -1
	for i, p := range parts {
		if isDirection(strings.TrimSpace(p)) {
			dirIdx = i
			break
		}
	}

	targetIdx := -1
	switch {
	case dirIdx > 0:
		targetIdx = dirIdx - 2
	case dirIdx == 0:
		targetIdx = -1
	case commaIdx > 0:
		targetIdx = commaIdx - 2
	case commaIdx == 0:
		targetIdx = -1
	case len(parts) > 1:
		targetIdx = len(parts) - 1
	}

	if targetIdx >= 0 {
		if repl, ok := table.Lookup(parts[targetIdx]); ok {
			parts[targetIdx] = strings.TrimSpace(repl)
		}
	}

	return strings.Join(parts, "")
}
