package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/myreportapp/osm2mrag/internal/importer"
	"github.com/myreportapp/osm2mrag/pkg/db"
	"github.com/myreportapp/osm2mrag/pkg/utils"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import and normalize OSM addresses",
	Long: `Import reads tagged address polygons from the OSM extract,
normalizes street names and house numbers, and upserts the result into
the mrag_ca_addresses table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := db.NewConnection(ctx, dbCreds())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logger := utils.NewLogger("osm2mrag ")
		imp := importer.New(db.NewStore(pool), logger, cfg.Import.BatchSize)
		return imp.Run(ctx)
	},
}

func dbCreds() db.DBCreds {
	return db.DBCreds{
		Host:     cfg.DBCreds.Host,
		Port:     cfg.DBCreds.Port,
		Username: cfg.DBCreds.Username,
		Password: cfg.DBCreds.Password,
		Database: cfg.DBCreds.Database,
	}
}

func init() {
	rootCmd.AddCommand(importCmd)
}
