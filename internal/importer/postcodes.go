package importer

import (
	"context"
	"fmt"

	"github.com/myreportapp/osm2mrag/internal/postal"
	"github.com/myreportapp/osm2mrag/pkg/db"
	"github.com/myreportapp/osm2mrag/pkg/utils"
)

// PostalLookup resolves one address to a postal code, "" meaning no match.
type PostalLookup interface {
	Lookup(ctx context.Context, q postal.Query) (string, error)
}

// PostcodeStore is the persistence surface of the enrichment run.
type PostcodeStore interface {
	FetchPostcodeCandidates(ctx context.Context, region, city string, limit, offset int) ([]db.PostcodeCandidate, error)
	SetPostalCode(ctx context.Context, c db.PostcodeCandidate, postalCode string) error
	MarkInvalid(ctx context.Context, c db.PostcodeCandidate) error
}

// Two-letter codes for the Canadian provinces and territories, as the
// lookup service displays them.
var provinceAbbrev = map[string]string{
	"Alberta":                   "AB",
	"British Columbia":          "BC",
	"Manitoba":                  "MB",
	"New Brunswick":             "NB",
	"Northwest Territories":     "NT",
	"Nova Scotia":               "NS",
	"Ontario":                   "ON",
	"Prince Edward Island":      "PE",
	"Quebec":                    "QC",
	"Saskatchewan":              "SK",
	"Newfoundland and Labrador": "NL",
	"Yukon":                     "YT",
	"Nunavut":                   "NU",
}

// RegionCode maps a province name to its two-letter code, passing
// unknown values through unchanged.
func RegionCode(region string) string {
	if code, ok := provinceAbbrev[region]; ok {
		return code
	}
	return region
}

// PostcodeRunner enriches stored addresses with postal codes from the
// external lookup service.
type PostcodeRunner struct {
	store     PostcodeStore
	client    PostalLookup
	log       *utils.Logger
	region    string
	city      string
	batchSize int
}

// NewPostcodeRunner creates a runner for one region and city.
func NewPostcodeRunner(store PostcodeStore, client PostalLookup, log *utils.Logger, region, city string, batchSize int) *PostcodeRunner {
	return &PostcodeRunner{
		store:     store,
		client:    client,
		log:       log,
		region:    region,
		city:      city,
		batchSize: batchSize,
	}
}

// Run pages through the candidates and resolves each one. Lookup
// failures are misses, not errors: the candidate is marked invalid so the
// next run skips it. Store failures stop the run.
func (r *PostcodeRunner) Run(ctx context.Context) error {
	found, missed := 0, 0
	for {
		// Every processed candidate leaves the filter, either resolved or
		// marked invalid, so page zero always holds the next unseen rows.
		candidates, err := r.store.FetchPostcodeCandidates(ctx, r.region, r.city, r.batchSize, 0)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			break
		}

		for _, c := range candidates {
			q := buildQuery(c)
			r.log.Debug("fetching postal code for %s", q.Address)

			postalCode, err := r.client.Lookup(ctx, q)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.log.Error("lookup failed for %s: %v", q.Address, err)
			}

			if postalCode == "" {
				missed++
				if err := r.store.MarkInvalid(ctx, c); err != nil {
					return err
				}
				continue
			}

			found++
			r.log.Info("found postal code %s for %s", postalCode, q.Address)
			if err := r.store.SetPostalCode(ctx, c, postalCode); err != nil {
				return err
			}
		}
	}

	r.log.Info("postal codes resolved: %d found, %d marked invalid", found, missed)
	return nil
}

func buildQuery(c db.PostcodeCandidate) postal.Query {
	code := RegionCode(c.Region)
	return postal.Query{
		Address:        fmt.Sprintf("%s %s, %s, %s", c.StreetNo, c.StreetFullName, c.City, code),
		FullAddress:    fmt.Sprintf("%s %s", c.StreetNo, c.StreetFullName),
		StreetFullName: c.StreetFullName,
		CityRegion:     fmt.Sprintf("%s, %s,", c.City, code),
	}
}
