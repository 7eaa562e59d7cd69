package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SourceRow is one raw address feature read from the OSM polygon table.
// The query guarantees street, postcode and house number are present;
// the remaining tags may be absent.
type SourceRow struct {
	OSMID       int64
	Street      string
	Postcode    string
	HouseNumber string
	State       *string
	Province    *string
	City        *string
	// Boundary is the polygon geometry as a hex EWKB string. It passes
	// through to the target table untouched.
	Boundary string
}

// Record mirrors the mrag_ca_addresses columns. Nil pointers persist as
// SQL NULL.
type Record struct {
	ID             int64
	StreetFullName *string
	StreetName     *string
	StreetType     *string
	StreetQuad     *string
	FullAddress    *string
	PostalCode     *string
	GeoLatitude    *float64
	GeoLongitude   *float64
	Boundary       *string
	Region         *string
	City           *string
	StreetNo       *string
	HouseNumber    *string
	HouseAlpha     *string
	Unit           *string
}

// PostcodeCandidate is an address still missing a postal code.
type PostcodeCandidate struct {
	StreetNo       string
	StreetFullName string
	City           string
	Region         string
}

// Store wraps the connection pool with the queries the importer needs.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const sourceFilter = `tags ? 'addr:street' AND tags ? 'addr:postcode' AND tags ? 'addr:housenumber'`

// CountSourceAddresses returns the number of polygon features carrying
// the address tags the importer consumes.
func (s *Store) CountSourceAddresses(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM planet_osm_polygon WHERE `+sourceFilter,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count source addresses: %w", err)
	}
	return count, nil
}

// FetchSourceAddresses reads one page of raw address features.
func (s *Store) FetchSourceAddresses(ctx context.Context, limit, offset int) ([]SourceRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT
			osm_id,
			tags->'addr:street' AS street,
			tags->'addr:postcode' AS postcode,
			tags->'addr:housenumber' AS housenumber,
			tags->'addr:state' AS state,
			tags->'addr:province' AS province,
			tags->'addr:city' AS city,
			way::text AS boundary
		FROM planet_osm_polygon
		WHERE `+sourceFilter+`
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("fetch source addresses: %w", err)
	}
	defer rows.Close()

	var result []SourceRow
	for rows.Next() {
		var r SourceRow
		if err := rows.Scan(&r.OSMID, &r.Street, &r.Postcode, &r.HouseNumber,
			&r.State, &r.Province, &r.City, &r.Boundary); err != nil {
			return nil, fmt.Errorf("scan source address: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

const upsertAddressSQL = `
	INSERT INTO mrag_ca_addresses (
		id, street_full_name, street_name, street_type, street_quad,
		full_address, postal_code, geo_latitude, geo_longitude, boundary,
		region, city, street_no, house_number, house_alpha, unit)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::geometry, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (id) DO UPDATE SET
		street_full_name = EXCLUDED.street_full_name,
		street_name = EXCLUDED.street_name,
		street_type = EXCLUDED.street_type,
		street_quad = EXCLUDED.street_quad,
		full_address = EXCLUDED.full_address,
		postal_code = EXCLUDED.postal_code,
		street_no = EXCLUDED.street_no,
		house_number = EXCLUDED.house_number,
		house_alpha = EXCLUDED.house_alpha,
		unit = EXCLUDED.unit,
		geo_latitude = EXCLUDED.geo_latitude,
		geo_longitude = EXCLUDED.geo_longitude,
		boundary = EXCLUDED.boundary,
		region = EXCLUDED.region,
		city = EXCLUDED.city`

// UpsertAddresses writes a batch inside one transaction. Each record is
// guarded by a savepoint: a failing record is rolled back on its own and
// reported through onError while the rest of the batch goes through.
func (s *Store) UpsertAddresses(ctx context.Context, records []Record, onError func(Record, error)) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin upsert batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		// A nested Begin opens a savepoint on the enclosing transaction.
		inner, err := tx.Begin(ctx)
		if err != nil {
			return fmt.Errorf("open savepoint: %w", err)
		}
		_, err = inner.Exec(ctx, upsertAddressSQL,
			r.ID, r.StreetFullName, r.StreetName, r.StreetType, r.StreetQuad,
			r.FullAddress, r.PostalCode, r.GeoLatitude, r.GeoLongitude, r.Boundary,
			r.Region, r.City, r.StreetNo, r.HouseNumber, r.HouseAlpha, r.Unit)
		if err != nil {
			_ = inner.Rollback(ctx)
			if onError != nil {
				onError(r, err)
			}
			continue
		}
		if err := inner.Commit(ctx); err != nil {
			return fmt.Errorf("release savepoint: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit upsert batch: %w", err)
	}
	return nil
}

// ContainingRegionCity finds the region and city whose boundaries contain
// the given point. Either value may come back nil.
func (s *Store) ContainingRegionCity(ctx context.Context, lon, lat float64) (region, city *string, err error) {
	rows, err := s.pool.Query(ctx, `
		SELECT name, place
		FROM mrag_boundary_data
		WHERE ST_Contains(bound, ST_SetSRID(ST_Point($1, $2), 4326))`,
		lon, lat)
	if err != nil {
		return nil, nil, fmt.Errorf("boundary lookup: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, place string
		if err := rows.Scan(&name, &place); err != nil {
			return nil, nil, fmt.Errorf("scan boundary row: %w", err)
		}
		n := name
		if place == "state" {
			region = &n
		} else {
			city = &n
		}
	}
	return region, city, rows.Err()
}

// FetchPostcodeCandidates pages through addresses of one region and city
// that are still valid but have no postal code.
func (s *Store) FetchPostcodeCandidates(ctx context.Context, region, city string, limit, offset int) ([]PostcodeCandidate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT street_no, street_full_name, city, region
		FROM mrag_ca_addresses
		WHERE postal_code IS NULL AND is_valid = true
		  AND region = $1 AND city = $2
		LIMIT $3 OFFSET $4`,
		region, city, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("fetch postcode candidates: %w", err)
	}
	defer rows.Close()

	var result []PostcodeCandidate
	for rows.Next() {
		var c PostcodeCandidate
		if err := rows.Scan(&c.StreetNo, &c.StreetFullName, &c.City, &c.Region); err != nil {
			return nil, fmt.Errorf("scan postcode candidate: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// SetPostalCode stores a postal code found for the candidate address.
func (s *Store) SetPostalCode(ctx context.Context, c PostcodeCandidate, postalCode string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE mrag_ca_addresses
		SET postal_code = $1
		WHERE street_no = $2 AND street_full_name = $3 AND city = $4 AND region = $5`,
		postalCode, c.StreetNo, c.StreetFullName, c.City, c.Region)
	if err != nil {
		return fmt.Errorf("set postal code: %w", err)
	}
	return nil
}

// MarkInvalid flags an address whose postal code could not be resolved so
// later runs skip it.
func (s *Store) MarkInvalid(ctx context.Context, c PostcodeCandidate) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE mrag_ca_addresses
		SET is_valid = false
		WHERE street_no = $1 AND street_full_name = $2 AND city = $3 AND region = $4`,
		c.StreetNo, c.StreetFullName, c.City, c.Region)
	if err != nil {
		return fmt.Errorf("mark address invalid: %w", err)
	}
	return nil
}
