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
	"time"

	"github.com/spf13/cobra"

	"github.com/ecomart/ecomart/internal/db"
	"github.com/ecomart/ecomart/internal/logging"
	"github.com/ecomart/ecomart/internal/reports"
	"github.com/ecomart/ecomart/internal/rfm"
	"github.com/ecomart/ecomart/internal/warehouse"
)

var (
	rfmTopN        int
	rfmMaterialize bool
)

var rfmCmd = &cobra.Command{
	Use:   "rfm",
	Short: "Score customers on Recency, Frequency and Monetary value",
	Long: `Read the loaded warehouse, score every customer into quintiles on
recency, frequency and monetary value, and either print the best
customers or persist the full profile set into customer_rfm.

Score 1 is the best cohort on each dimension; 111 marks the very best
customers.

Example:
  ecomart rfm --top 10
  ecomart rfm --materialize`,
	RunE: runRFM,
}

func init() {
	rfmCmd.Flags().IntVar(&rfmTopN, "top", 0,
		"number of best customers to print")
	rfmCmd.Flags().BoolVar(&rfmMaterialize, "materialize", false,
		"persist the full profile set instead of printing")
}

func runRFM(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if rfmTopN > 0 {
		cfg.RFM.TopN = rfmTopN
	}
	if rfmMaterialize {
		cfg.RFM.Materialize = true
	}

	if err := cfg.ValidateRFM(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	items, err := warehouse.LoadFactItems(ctx, pool)
	if err != nil {
		return err
	}
	customers, err := warehouse.LoadCustomerDim(ctx, pool)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("warehouse is empty; run 'ecomart load' first")
	}

	logging.Info().
		Int("fact_rows", len(items)).
		Int("customers", len(customers)).
		Msg("Scoring customers")

	profiles, err := rfm.Compute(items, customers)
	if err != nil {
		return err
	}

	if cfg.RFM.Materialize {
		if err := warehouse.MaterializeProfiles(ctx, pool, profiles); err != nil {
			return err
		}
		return db.SaveRefreshedAt(ctx, pool, time.Now())
	}

	top := rfm.TopN(profiles, cfg.RFM.TopN)
	result := &reports.Result{
		Name: "top_customers",
		Columns: []string{
			"customer_unique_id", "city", "state",
			"recency", "frequency", "monetary", "segment",
		},
	}
	for _, p := range top {
		result.Rows = append(result.Rows, []any{
			p.CustomerID, p.City, p.State,
			p.Recency, p.Frequency, p.Monetary, p.Segment,
		})
	}
	return reports.WriteTable(cmd.OutOrStdout(), result)
}
