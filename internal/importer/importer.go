package importer

import (
	"context"
	"strings"
	"unicode"

	"github.com/myreportapp/osm2mrag/internal/address"
	"github.com/myreportapp/osm2mrag/pkg/db"
	"github.com/myreportapp/osm2mrag/pkg/geo"
	"github.com/myreportapp/osm2mrag/pkg/utils"
)

// AddressStore is the persistence surface the importer needs.
type AddressStore interface {
	CountSourceAddresses(ctx context.Context) (int64, error)
	FetchSourceAddresses(ctx context.Context, limit, offset int) ([]db.SourceRow, error)
	UpsertAddresses(ctx context.Context, records []db.Record, onError func(db.Record, error)) error
	ContainingRegionCity(ctx context.Context, lon, lat float64) (region, city *string, err error)
}

// Importer turns raw OSM address features into normalized address records.
type Importer struct {
	store      AddressStore
	log        *utils.Logger
	normalizer *address.Normalizer
	batchSize  int
}

// New creates an Importer reading and writing through the given store.
func New(store AddressStore, log *utils.Logger, batchSize int) *Importer {
	return &Importer{
		store:      store,
		log:        log,
		normalizer: address.NewNormalizer(address.CanonicalCA()),
		batchSize:  batchSize,
	}
}

// Run processes every source address in pages. A record that fails to
// persist is logged and skipped; a store-level failure stops the run.
func (imp *Importer) Run(ctx context.Context) error {
	total, err := imp.store.CountSourceAddresses(ctx)
	if err != nil {
		return err
	}
	imp.log.Info("importing %d addresses", total)

	processed := 0
	for offset := 0; ; offset += imp.batchSize {
		rows, err := imp.store.FetchSourceAddresses(ctx, imp.batchSize, offset)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			break
		}

		records := make([]db.Record, 0, len(rows))
		for _, row := range rows {
			records = append(records, imp.buildRecord(ctx, row))
		}

		err = imp.store.UpsertAddresses(ctx, records, func(r db.Record, err error) {
			imp.log.Error("record %d rejected: %v", r.ID, err)
		})
		if err != nil {
			return err
		}

		processed += len(rows)
		imp.log.Info("processed %d of %d addresses", processed, total)
	}
	return nil
}

// buildRecord assembles one normalized record from a source row. It never
// fails: fields that cannot be derived stay NULL.
func (imp *Importer) buildRecord(ctx context.Context, row db.SourceRow) db.Record {
	norm := imp.normalizer.Normalize(row.Street)
	fullAddress := row.HouseNumber + " " + norm.FullAddress
	postalCode := address.FormatPostalCode(row.Postcode)
	parts := address.DecomposeHouseNumber(row.HouseNumber, norm.StreetName)
	streetNo := composeStreetNo(parts)

	var lat, lon *float64
	if g, err := geo.ParseEWKB(row.Boundary); err == nil {
		c := geo.Centroid(g)
		x, y := c.X(), c.Y()
		lon, lat = &x, &y
	} else {
		imp.log.Debug("record %d: unreadable boundary geometry: %v", row.OSMID, err)
	}

	region := row.State
	if region == nil {
		region = row.Province
	}
	city := row.City
	if region == nil && city == nil && lat != nil {
		r, c, err := imp.store.ContainingRegionCity(ctx, *lon, *lat)
		if err != nil {
			imp.log.Error("record %d: boundary lookup failed: %v", row.OSMID, err)
		} else {
			region, city = r, c
		}
	}

	return db.Record{
		ID:             row.OSMID,
		StreetFullName: nullable(norm.FullAddress),
		StreetName:     nullable(norm.StreetName),
		StreetType:     nullable(norm.StreetType),
		StreetQuad:     nullable(norm.StreetQuad),
		FullAddress:    nullable(fullAddress),
		PostalCode:     nullable(postalCode),
		GeoLatitude:    lat,
		GeoLongitude:   lon,
		Boundary:       nullable(row.Boundary),
		Region:         region,
		City:           city,
		StreetNo:       nullable(streetNo),
		HouseNumber:    nullable(parts.Number),
		HouseAlpha:     nullable(parts.Alpha),
		Unit:           nullable(parts.Unit),
	}
}

// composeStreetNo joins the base number and suffix back into the display
// form: fused when the suffix is purely alphabetic, parenthesized when it
// is not.
func composeStreetNo(p address.HouseNumberParts) string {
	switch {
	case p.Alpha != "" && isAlpha(p.Alpha):
		return strings.TrimSpace(p.Number) + strings.TrimSpace(p.Alpha)
	case p.Alpha != "":
		return strings.TrimSpace(p.Number) + "(" + strings.TrimSpace(p.Alpha) + ")"
	case p.Number != "":
		return strings.TrimSpace(p.Number)
	default:
		return ""
	}
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
