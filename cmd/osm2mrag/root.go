package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/myreportapp/osm2mrag/pkg/config"
)

var cfgFile string
var cfg *config.Config

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "osm2mrag",
	Short: "osm2mrag - Canadian civic address importer",
	Long: `osm2mrag normalizes crowd-sourced civic addresses from an OSM
polygon extract and loads them into the mrag address tables: street types
are canonicalized, directional quadrants and house-number parts are split
out, and postal codes are resolved through an external lookup service.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = os.Getenv("CONFIG_PATH")
		}
		if path == "" {
			path = "config.yaml"
		}
		c, err := config.LoadConfig(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default config.yaml, or $CONFIG_PATH)")
}
