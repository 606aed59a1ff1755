//-------------------------------------------------------------------------
//
// ecomart - e-commerce data mart toolkit
//
// Copyright (c) 2025 - 2026, the ecomart authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecomart/ecomart/internal/db"
	"github.com/ecomart/ecomart/internal/logging"
	"github.com/ecomart/ecomart/internal/reports"
)

var (
	reportOutputDir string
	reportTopN      int
)

var reportCmd = &cobra.Command{
	Use:   "report <name>",
	Short: "Run an analytic report against the warehouse",
	Long: fmt.Sprintf(`Run one of the canned reports against the loaded warehouse and print
it as a table. With --output-dir the result is also exported as JSON.

Available reports: %s

The top_customers and rfm_segments reports read the customer_rfm table
and need a prior 'ecomart rfm --materialize'.

Example:
  ecomart report kpis
  ecomart report top_customers --top 25 --output-dir ./out`, strings.Join(reports.Names(), ", ")),
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportOutputDir, "output-dir", "",
		"directory to export the report as JSON")
	reportCmd.Flags().IntVar(&reportTopN, "top", 0,
		"row limit for the top_customers report")
}

func runReport(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if reportOutputDir != "" {
		cfg.Report.OutputDir = reportOutputDir
	}
	topN := cfg.RFM.TopN
	if reportTopN > 0 {
		topN = reportTopN
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	runner := reports.NewRunner(pool)
	result, err := runner.Run(ctx, args[0], topN)
	if err != nil {
		return err
	}

	if err := reports.WriteTable(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	if cfg.Report.OutputDir != "" {
		path := reports.TimestampedFilename(cfg.Report.OutputDir, result.Name)
		if err := reports.ExportJSON(path, result); err != nil {
			return err
		}
		logging.Info().Str("path", path).Msg("Report exported")
	}

	if meta, err := db.GetMetadataValue(ctx, pool, "rfm_refreshed_at"); err == nil && meta != "" {
		logging.Debug().Str("rfm_refreshed_at", meta).Msg("Profile set freshness")
	}
	return nil
}
