package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/myreportapp/osm2mrag/pkg/db"
)

// csvSource implements the pgx.CopyFromSource interface
type csvSource struct {
	reader *csv.Reader
	cols   []string
}

func (s *csvSource) Next() bool {
	record, err := s.reader.Read()
	if err != nil {
		return false
	}
	s.cols = record
	return true
}

func (s *csvSource) Values() ([]interface{}, error) {
	values := make([]interface{}, len(s.cols))
	for i, col := range s.cols {
		values[i] = col
	}
	return values, nil
}

func (s *csvSource) Err() error {
	return nil
}

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Bulk-load a CSV file into the configured load table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start := time.Now()

		if cfg.DBCreds.LoadTable == "" {
			return fmt.Errorf("db_creds.load_table is not configured")
		}

		pool, err := db.NewConnection(ctx, dbCreds())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		conn, err := pool.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("unable to acquire a connection: %w", err)
		}
		defer conn.Release()

		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("error opening file: %w", err)
		}
		defer file.Close()

		reader := csv.NewReader(bufio.NewReader(file))
		headers, err := reader.Read()
		if err != nil {
			return fmt.Errorf("error reading CSV header: %w", err)
		}

		copyCount, err := conn.Conn().CopyFrom(
			ctx,
			pgx.Identifier{cfg.DBCreds.LoadTable},
			headers,
			&csvSource{reader: reader},
		)
		if err != nil {
			return fmt.Errorf("error copying data to database: %w", err)
		}

		fmt.Printf("Copied %v rows to %s table in %v\n", copyCount, cfg.DBCreds.LoadTable, time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
