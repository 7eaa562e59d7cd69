package address

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v2"
)

//go:embed tables/canonical_ca.yaml
var canonicalCAData []byte

//go:embed tables/lookup_ca.yaml
var lookupCAData []byte

// Rule maps one raw street-type spelling to its canonical replacement.
// An empty Canonical removes the matched token entirely.
type Rule struct {
	Match     string `yaml:"match"`
	Canonical string `yaml:"canonical"`
}

// Table is an ordered list of street-type rules. Order is load-bearing:
// several spellings collide, and the first rule in declaration order wins.
// A Table is immutable after load and safe for concurrent use.
type Table struct {
	rules []Rule
}

// LoadTable parses a YAML rule list into a Table.
func LoadTable(data []byte) (*Table, error) {
	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("unable to parse abbreviation table: %v", err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("abbreviation table is empty")
	}
	return &Table{rules: rules}, nil
}

// Len returns the number of rules in the table.
func (t *Table) Len() int {
	return len(t.rules)
}

// Lookup tests the token against every rule in declaration order and
// returns the replacement of the first rule whose pattern equals the
// trimmed token, ignoring case.
func (t *Table) Lookup(token string) (string, bool) {
	trimmed := strings.TrimSpace(token)
	for _, r := range t.rules {
		if strings.EqualFold(trimmed, r.Match) {
			return r.Canonical, true
		}
	}
	return "", false
}

// Matches reports whether any rule applies to the token.
func (t *Table) Matches(token string) bool {
	_, ok := t.Lookup(token)
	return ok
}

var (
	canonicalOnce sync.Once
	canonicalTbl  *Table
	lookupOnce    sync.Once
	lookupTbl     *Table
)

// CanonicalCA returns the street-type canonicalization table for Canadian
// civic addresses. The table ships with the binary; swapping locales means
// loading a different YAML file through LoadTable.
func CanonicalCA() *Table {
	canonicalOnce.Do(func() {
		tbl, err := LoadTable(canonicalCAData)
		if err != nil {
			panic(fmt.Sprintf("embedded canonical table: %v", err))
		}
		canonicalTbl = tbl
	})
	return canonicalTbl
}

// LookupCA returns the expansion table applied before querying the
// postal-code lookup service. Its keys are the two-letter source codes
// used by early exports.
func LookupCA() *Table {
	lookupOnce.Do(func() {
		tbl, err := LoadTable(lookupCAData)
		if err != nil {
			panic(fmt.Sprintf("embedded lookup table: %v", err))
		}
		lookupTbl = tbl
	})
	return lookupTbl
}
