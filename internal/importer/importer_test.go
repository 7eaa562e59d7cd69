package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myreportapp/osm2mrag/internal/address"
	"github.com/myreportapp/osm2mrag/pkg/db"
	"github.com/myreportapp/osm2mrag/pkg/utils"
)

// A 2x2 square polygon at the origin, SRID 3857; its centroid is (1, 1).
const squareEWKB = "0103000020110F000001000000050000000000000000000000000000000000000000000000000000400000000000000000000000000000004000000000000000400000000000000000000000000000004000000000000000000000000000000000"

type stubStore struct {
	rows     []db.SourceRow
	upserted []db.Record
	region   *string
	city     *string
	lookups  int
}

func (s *stubStore) CountSourceAddresses(ctx context.Context) (int64, error) {
	return int64(len(s.rows)), nil
}

func (s *stubStore) FetchSourceAddresses(ctx context.Context, limit, offset int) ([]db.SourceRow, error) {
	if offset >= len(s.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.rows) {
		end = len(s.rows)
	}
	return s.rows[offset:end], nil
}

func (s *stubStore) UpsertAddresses(ctx context.Context, records []db.Record, onError func(db.Record, error)) error {
	s.upserted = append(s.upserted, records...)
	return nil
}

func (s *stubStore) ContainingRegionCity(ctx context.Context, lon, lat float64) (*string, *string, error) {
	s.lookups++
	return s.region, s.city, nil
}

func strPtr(s string) *string { return &s }

func TestBuildRecord(t *testing.T) {
	store := &stubStore{}
	imp := New(store, utils.NewLogger("test "), 10)

	rec := imp.buildRecord(context.Background(), db.SourceRow{
		OSMID:       42,
		Street:      "123 Main Street NE",
		Postcode:    "k1a0b1",
		HouseNumber: "12-103A",
		Province:    strPtr("Ontario"),
		City:        strPtr("Ottawa"),
		Boundary:    squareEWKB,
	})

	assert.Equal(t, int64(42), rec.ID)
	require.NotNil(t, rec.StreetFullName)
	assert.Equal(t, "123 Main St NE", *rec.StreetFullName)
	require.NotNil(t, rec.StreetName)
	assert.Equal(t, "123 Main", *rec.StreetName)
	require.NotNil(t, rec.StreetType)
	assert.Equal(t, "St", *rec.StreetType)
	require.NotNil(t, rec.StreetQuad)
	assert.Equal(t, "NE", *rec.StreetQuad)
	require.NotNil(t, rec.FullAddress)
	assert.Equal(t, "12-103A 123 Main St NE", *rec.FullAddress)
	require.NotNil(t, rec.PostalCode)
	assert.Equal(t, "K1A 0B1", *rec.PostalCode)
	require.NotNil(t, rec.GeoLongitude)
	assert.InDelta(t, 1.0, *rec.GeoLongitude, 1e-9)
	require.NotNil(t, rec.GeoLatitude)
	assert.InDelta(t, 1.0, *rec.GeoLatitude, 1e-9)
	require.NotNil(t, rec.StreetNo)
	assert.Equal(t, "103A", *rec.StreetNo)
	require.NotNil(t, rec.HouseNumber)
	assert.Equal(t, "103", *rec.HouseNumber)
	require.NotNil(t, rec.HouseAlpha)
	assert.Equal(t, "A", *rec.HouseAlpha)
	require.NotNil(t, rec.Unit)
	assert.Equal(t, "12", *rec.Unit)
	require.NotNil(t, rec.Region)
	assert.Equal(t, "Ontario", *rec.Region)
	require.NotNil(t, rec.City)
	assert.Equal(t, "Ottawa", *rec.City)

	// The province tag made a boundary lookup unnecessary.
	assert.Zero(t, store.lookups)
}

func TestBuildRecordBoundaryLookup(t *testing.T) {
	store := &stubStore{region: strPtr("Ontario"), city: strPtr("Kanata")}
	imp := New(store, utils.NewLogger("test "), 10)

	rec := imp.buildRecord(context.Background(), db.SourceRow{
		OSMID:       7,
		Street:      "Oak Crescent",
		Postcode:    "K2K1X1",
		HouseNumber: "5",
		Boundary:    squareEWKB,
	})

	assert.Equal(t, 1, store.lookups)
	require.NotNil(t, rec.Region)
	assert.Equal(t, "Ontario", *rec.Region)
	require.NotNil(t, rec.City)
	assert.Equal(t, "Kanata", *rec.City)
}

func TestBuildRecordBadGeometry(t *testing.T) {
	store := &stubStore{}
	imp := New(store, utils.NewLogger("test "), 10)

	rec := imp.buildRecord(context.Background(), db.SourceRow{
		OSMID:       9,
		Street:      "Oak Crescent",
		Postcode:    "K2K1X1",
		HouseNumber: "5",
		City:        strPtr("Ottawa"),
		Boundary:    "not-a-geometry",
	})

	assert.Nil(t, rec.GeoLatitude)
	assert.Nil(t, rec.GeoLongitude)
	// No coordinates means no boundary lookup either.
	assert.Zero(t, store.lookups)
	assert.Nil(t, rec.Region)
}

func TestRunPages(t *testing.T) {
	store := &stubStore{
		rows: []db.SourceRow{
			{OSMID: 1, Street: "Main Street", Postcode: "K1A0B1", HouseNumber: "1", City: strPtr("Ottawa"), Boundary: squareEWKB},
			{OSMID: 2, Street: "Main Street", Postcode: "K1A0B1", HouseNumber: "2", City: strPtr("Ottawa"), Boundary: squareEWKB},
			{OSMID: 3, Street: "Main Street", Postcode: "K1A0B1", HouseNumber: "3", City: strPtr("Ottawa"), Boundary: squareEWKB},
		},
	}
	imp := New(store, utils.NewLogger("test "), 2)

	err := imp.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, store.upserted, 3)
	assert.Equal(t, int64(1), store.upserted[0].ID)
	assert.Equal(t, int64(3), store.upserted[2].ID)
}

func TestComposeStreetNo(t *testing.T) {
	tests := []struct {
		name     string
		parts    address.HouseNumberParts
		expected string
	}{
		{"Number only", address.HouseNumberParts{Number: "12"}, "12"},
		{"Fused alphabetic suffix", address.HouseNumberParts{Number: "103", Alpha: "A"}, "103A"},
		{"Non-alphabetic suffix in parentheses", address.HouseNumberParts{Number: "12", Alpha: ".5"}, "12(.5)"},
		{"Fraction suffix stays fused", address.HouseNumberParts{Number: "11", Alpha: "½"}, "11(½)"},
		{"Nothing derived", address.HouseNumberParts{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, composeStreetNo(tt.parts))
		})
	}
}
