package address

import (
	"regexp"
	"strings"

	"github.com/myreportapp/osm2mrag/internal/similarity"
)

// HouseNumberParts is the decomposed house-number field. Empty fields
// mean the value could not be derived; callers persisting the record map
// empty to NULL.
type HouseNumberParts struct {
	// Unit is the unit or suite number, if one was split off.
	Unit string
	// Number is the base house number.
	Number string
	// Alpha is a short alphabetic or bracket-derived suffix, upper-cased.
	Alpha string
}

// Cleaning and protected-shape patterns applied before the rule cascade.
var (
	reDupRun    = regexp.MustCompile(`^(\d+\w*)\s+(?:\d+\w*\s+)*\d+\w*$`)
	reHalfWhole = regexp.MustCompile(`^\d+\s+1/2$`)
	reInnerDash = regexp.MustCompile(`\S-\S`)
	reTrailDash = regexp.MustCompile(`\S-$`)
	reDelims    = regexp.MustCompile(`[;,/&-]`)
)

// The ordered decomposition rules. Each is tried top to bottom against
// the first cleaned part; the first match wins.
var (
	reHalf      = regexp.MustCompile(`^(\d+)\s+1/2$`)
	reUnitDash  = regexp.MustCompile(`^([\w|]+)[-\s]+(\d+\w?)$`)
	reNumPair   = regexp.MustCompile(`^(\d+\w?),(\d+\w?)$`)
	reCommaPair = regexp.MustCompile(`^([^,]+\S),(\S[^,]+)$`)
	reUnitComma = regexp.MustCompile(`^([\w|]+),\s+(\d+\w?)`)
	reTrailUnit = regexp.MustCompile(`^([^-]+)-\s*$`)
	reUnitKw    = regexp.MustCompile(`^UNIT\s*([^,\s-]*)(?:[,\s-]\s*(\d+\s*\w?))?`)
	reNumUnitKw = regexp.MustCompile(`^(\d+\s*\w?)[,\s]+UNIT\s*(\S*)`)
	reHashUnit  = regexp.MustCompile(`^#([^,\s-]+)(?:[,\s-]\s*(\d+\s*\w?))?`)
	reLeadComma = regexp.MustCompile(`^,\s*(\d+\s*\w?)`)
	reEllipsis  = regexp.MustCompile(`^([^.]+)\.\.\.[^-]+-(\S*)`)
	reNumMidTk  = regexp.MustCompile(`^(\d+\s*\w?)\s+([^-]+)-\S+$`)
)

// Suffix-handling patterns applied to whatever house-number candidate the
// cascade produced.
var (
	reBracket    = regexp.MustCompile(`\d+\s*[(\[][0-9A-Za-z_|+]`)
	reZeroDot    = regexp.MustCompile(`^[0\s]*\.(\d+)$`)
	reDecimal    = regexp.MustCompile(`^\d+\.\d+$`)
	reFused      = regexp.MustCompile(`^(\d+)([\p{L}\p{N}_]*)$|^(\d+)\s([\p{L}\p{N}_])$|^(\d+)\s+([\p{L}\p{N}_\s]{2,})$`)
	reDigits     = regexp.MustCompile(`\d+`)
	reWordRun    = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	reStreetLead = regexp.MustCompile(`^\s*(\d+)\s*(\w)?`)
)

// DecomposeHouseNumber splits a raw house-number string into unit, base
// number and alphabetic suffix. If the house-number field yields no base
// number and a street name is given, a leading "<digits> <letter>" run of
// the street name is used instead. It never fails; fields that cannot be
// derived are left empty.
func DecomposeHouseNumber(houseNo, streetName string) HouseNumberParts {
	var p HouseNumberParts
	if parts := cleanAndSplit(houseNo); len(parts) > 0 {
		p = decomposeOne(parts[0])
	}
	if p.Number == "" && streetName != "" {
		if m := reStreetLead.FindStringSubmatch(streetName); m != nil {
			p.Number = m[1]
			if m[2] != "" {
				p.Alpha = strings.ToUpper(m[2])
			}
		}
	}
	return p
}

// cleanAndSplit strips quoting characters and splits on the delimiter
// class, unless one of the protected shapes applies: a whitespace run of
// duplicate numeric tokens keeps only the first, and fractional, comma
// and hyphen forms are kept whole so the cascade can pick them apart.
func cleanAndSplit(input string) []string {
	s := strings.TrimSpace(input)
	s = strings.NewReplacer(`"`, "", `'`, "", "`", "").Replace(s)

	// A run of duplicate numeric tokens keeps only the first value.
	if m := reDupRun.FindStringSubmatch(s); m != nil {
		return []string{m[1]}
	}
	if reHalfWhole.MatchString(s) {
		return []string{s}
	}
	if strings.Contains(s, ",") || reInnerDash.MatchString(s) || reTrailDash.MatchString(s) {
		return []string{s}
	}

	var parts []string
	for _, p := range reDelims.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func decomposeOne(part string) HouseNumberParts {
	s := strings.ToUpper(strings.TrimSpace(part))
	if s == "" {
		return HouseNumberParts{}
	}

	unit := ""
	houseNo := s

	if m := reHalf.FindStringSubmatch(s); m != nil {
		houseNo = m[1] + " ½"
	} else if m := reUnitDash.FindStringSubmatch(s); m != nil {
		unit, houseNo = m[1], m[2]
	} else if m := reNumPair.FindStringSubmatch(s); m != nil {
		// "103A,103B": an edit distance of at most one means an
		// accidental duplicate, not a unit/number pair.
		if similarity.Levenshtein(m[1], m[2]) <= 1 {
			houseNo = m[1]
		} else {
			unit, houseNo = m[1], m[2]
		}
	} else if m := reCommaPair.FindStringSubmatch(s); m != nil {
		s1, s2 := m[1], m[2]
		if similarity.Levenshtein(s1, s2) <= 1 {
			if cut := diffPosition(s1, s2); cut > -1 {
				houseNo = strings.TrimSpace(s1[:cut])
				unit = strings.TrimSpace(s1[cut:])
			} else {
				houseNo = s1
			}
		} else {
			unit, houseNo = s1, s2
		}
	} else if m := reUnitComma.FindStringSubmatch(s); m != nil {
		unit, houseNo = m[1], m[2]
	} else if m := reTrailUnit.FindStringSubmatch(s); m != nil {
		unit = m[1]
	} else if m := reUnitKw.FindStringSubmatch(s); m != nil {
		unit, houseNo = m[1], m[2]
	} else if m := reNumUnitKw.FindStringSubmatch(s); m != nil {
		houseNo, unit = m[1], m[2]
	} else if m := reHashUnit.FindStringSubmatch(s); m != nil {
		unit, houseNo = m[1], m[2]
	} else if m := reLeadComma.FindStringSubmatch(s); m != nil {
		houseNo = m[1]
	} else if m := reEllipsis.FindStringSubmatch(s); m != nil {
		unit, houseNo = m[1], m[2]
	} else if m := reNumMidTk.FindStringSubmatch(s); m != nil {
		houseNo, unit = m[1], m[2]
	}

	number, alpha := splitSuffix(houseNo)
	return HouseNumberParts{Unit: unit, Number: number, Alpha: alpha}
}

// splitSuffix separates the base number from a parenthetical, bracketed,
// decimal or fused alphabetic suffix.
func splitSuffix(houseNo string) (number, alpha string) {
	if houseNo == "" {
		return "", ""
	}

	if reBracket.MatchString(houseNo) {
		before, after := splitAtBracket(houseNo)
		number = reDigits.FindString(before)
		alpha = reWordRun.FindString(after)
	} else if m := reZeroDot.FindStringSubmatch(houseNo); m != nil {
		alpha = m[1]
	} else if reDecimal.MatchString(houseNo) {
		i := strings.Index(houseNo, ".")
		number = houseNo[:i]
		alpha = houseNo[i:]
	} else if m := reFused.FindStringSubmatch(houseNo); m != nil {
		switch {
		case m[1] != "":
			number, alpha = m[1], strings.TrimSpace(m[2])
		case m[3] != "":
			number, alpha = m[3], m[4]
		case m[5] != "":
			number, alpha = m[5], strings.TrimSpace(m[6])
		}
	}

	if alpha != "" {
		alpha = strings.ToUpper(alpha)
	}
	return number, alpha
}

func splitAtBracket(s string) (before, after string) {
	if i := strings.IndexAny(s, "(["); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// diffPosition returns the first index where s1 and s2 differ, the length
// of the shorter string when one is a prefix of the other, and -1 when
// they are identical.
func diffPosition(s1, s2 string) int {
	n := len(s1)
	if len(s2) < n {
		n = len(s2)
	}
	for i := 0; i < n; i++ {
		if s1[i] != s2[i] {
			return i
		}
	}
	if len(s1) != len(s2) {
		return n
	}
	return -1
}
