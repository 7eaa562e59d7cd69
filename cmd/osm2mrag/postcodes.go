package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/myreportapp/osm2mrag/internal/importer"
	"github.com/myreportapp/osm2mrag/internal/postal"
	"github.com/myreportapp/osm2mrag/pkg/db"
	"github.com/myreportapp/osm2mrag/pkg/utils"
)

var (
	postcodeRegion string
	postcodeCity   string
)

// postcodesCmd represents the postcodes command
var postcodesCmd = &cobra.Command{
	Use:   "postcodes",
	Short: "Resolve missing postal codes via the lookup service",
	Long: `Postcodes pages through imported addresses that have no postal
code yet and resolves them one by one against the external address-search
service. Addresses the service cannot match are marked invalid so later
runs skip them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		region := postcodeRegion
		if region == "" {
			region = cfg.Postal.Region
		}
		city := postcodeCity
		if city == "" {
			city = cfg.Postal.City
		}
		if region == "" || city == "" {
			return fmt.Errorf("a region and city are required (flags or config)")
		}
		if cfg.Postal.BaseURL == "" {
			return fmt.Errorf("postal.base_url is not configured")
		}

		pool, err := db.NewConnection(ctx, dbCreds())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		rateLimit := rate.Limit(0)
		if cfg.Postal.RateLimitSecs > 0 {
			rateLimit = rate.Every(time.Duration(cfg.Postal.RateLimitSecs) * time.Second)
		}
		client := postal.NewClient(postal.ClientConfig{
			BaseURL:   cfg.Postal.BaseURL,
			Timeout:   time.Duration(cfg.Postal.TimeoutSecs) * time.Second,
			RateLimit: rateLimit,
		})

		logger := utils.NewLogger("osm2mrag ")
		runner := importer.NewPostcodeRunner(db.NewStore(pool), client, logger,
			region, city, cfg.Postal.BatchSize)
		return runner.Run(ctx)
	},
}

func init() {
	postcodesCmd.Flags().StringVar(&postcodeRegion, "region", "", "region to process (overrides config)")
	postcodesCmd.Flags().StringVar(&postcodeCity, "city", "", "city to process (overrides config)")
	rootCmd.AddCommand(postcodesCmd)
}
