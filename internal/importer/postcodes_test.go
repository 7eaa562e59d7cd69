package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myreportapp/osm2mrag/internal/postal"
	"github.com/myreportapp/osm2mrag/pkg/db"
	"github.com/myreportapp/osm2mrag/pkg/utils"
)

type stubPostcodeStore struct {
	candidates []db.PostcodeCandidate
	resolved   map[string]string
	invalid    []string
}

func (s *stubPostcodeStore) FetchPostcodeCandidates(ctx context.Context, region, city string, limit, offset int) ([]db.PostcodeCandidate, error) {
	if offset >= len(s.candidates) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.candidates) {
		end = len(s.candidates)
	}
	page := make([]db.PostcodeCandidate, end-offset)
	copy(page, s.candidates[offset:end])
	return page, nil
}

// Resolved and invalidated candidates drop out of the fetch filter, as
// the real store's WHERE clause does.
func (s *stubPostcodeStore) remove(name string) {
	for i, c := range s.candidates {
		if c.StreetFullName == name {
			s.candidates = append(s.candidates[:i], s.candidates[i+1:]...)
			return
		}
	}
}

func (s *stubPostcodeStore) SetPostalCode(ctx context.Context, c db.PostcodeCandidate, postalCode string) error {
	if s.resolved == nil {
		s.resolved = map[string]string{}
	}
	s.resolved[c.StreetFullName] = postalCode
	s.remove(c.StreetFullName)
	return nil
}

func (s *stubPostcodeStore) MarkInvalid(ctx context.Context, c db.PostcodeCandidate) error {
	s.invalid = append(s.invalid, c.StreetFullName)
	s.remove(c.StreetFullName)
	return nil
}

type stubLookup struct {
	codes   map[string]string
	failFor string
	queries []postal.Query
}

func (l *stubLookup) Lookup(ctx context.Context, q postal.Query) (string, error) {
	l.queries = append(l.queries, q)
	if q.StreetFullName == l.failFor {
		return "", errors.New("service unavailable")
	}
	return l.codes[q.StreetFullName], nil
}

func TestPostcodeRun(t *testing.T) {
	store := &stubPostcodeStore{
		candidates: []db.PostcodeCandidate{
			{StreetNo: "120", StreetFullName: "Bank St", City: "Ottawa", Region: "Ontario"},
			{StreetNo: "1", StreetFullName: "Nowhere Rd", City: "Ottawa", Region: "Ontario"},
			{StreetNo: "9", StreetFullName: "Flaky Ave", City: "Ottawa", Region: "Ontario"},
		},
	}
	lookup := &stubLookup{
		codes:   map[string]string{"Bank St": "K1P 5N2"},
		failFor: "Flaky Ave",
	}

	runner := NewPostcodeRunner(store, lookup, utils.NewLogger("test "), "Ontario", "Ottawa", 2)
	err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"Bank St": "K1P 5N2"}, store.resolved)
	// Both the miss and the failed lookup end up invalid.
	assert.ElementsMatch(t, []string{"Nowhere Rd", "Flaky Ave"}, store.invalid)
	require.Len(t, lookup.queries, 3)
	assert.Equal(t, "120 Bank St, Ottawa, ON", lookup.queries[0].Address)
	assert.Equal(t, "120 Bank St", lookup.queries[0].FullAddress)
	assert.Equal(t, "Ottawa, ON,", lookup.queries[0].CityRegion)
}

func TestRegionCode(t *testing.T) {
	assert.Equal(t, "ON", RegionCode("Ontario"))
	assert.Equal(t, "QC", RegionCode("Quebec"))
	assert.Equal(t, "BC", RegionCode("British Columbia"))
	// Already-short or unknown values pass through.
	assert.Equal(t, "ON", RegionCode("ON"))
	assert.Equal(t, "Atlantis", RegionCode("Atlantis"))
}
