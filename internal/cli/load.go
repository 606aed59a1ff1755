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

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ecomart/ecomart/internal/db"
	"github.com/ecomart/ecomart/internal/etl"
	"github.com/ecomart/ecomart/internal/logging"
	"github.com/ecomart/ecomart/internal/rfm"
	"github.com/ecomart/ecomart/internal/warehouse"
)

var (
	loadDataDir      string
	loadBatchSize    int
	loadDropExisting bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a source dataset into the warehouse",
	Long: `Read the dataset CSV files, build the dimension and fact tables and
load them into the warehouse. The schema is created if it does not
exist yet.

Example:
  ecomart load --data-dir ./data --connection "postgres://..."`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadDataDir, "data-dir", "",
		"directory containing the dataset CSV files")
	loadCmd.Flags().IntVar(&loadBatchSize, "batch-size", 0,
		"rows per INSERT batch")
	loadCmd.Flags().BoolVar(&loadDropExisting, "drop-existing", false,
		"drop and recreate the warehouse tables before loading")
}

func runLoad(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if loadDataDir != "" {
		cfg.Load.DataDir = loadDataDir
	}
	if loadBatchSize > 0 {
		cfg.Load.BatchSize = loadBatchSize
	}
	if loadDropExisting {
		cfg.Load.DropExisting = true
	}

	if err := cfg.ValidateLoad(); err != nil {
		return err
	}

	logging.Info().
		Str("data_dir", cfg.Load.DataDir).
		Msg("Reading dataset")

	ds, err := etl.ReadDataset(cfg.Load.DataDir)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}

	tables, err := etl.Transform(ds)
	if err != nil {
		return fmt.Errorf("failed to transform dataset: %w", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Load.DropExisting {
		logging.Info().Msg("Dropping existing warehouse schema")
		if err := warehouse.DropSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}
	if err := warehouse.CreateSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	loader := etl.NewLoader(cfg.Load.BatchSize)
	if err := loader.Load(ctx, pool, tables); err != nil {
		return fmt.Errorf("failed to load warehouse: %w", err)
	}

	info := db.LoadRunInfo{
		RunID:    uuid.NewString(),
		DataDir:  cfg.Load.DataDir,
		FactRows: int64(len(tables.FactOrderItems)),
	}
	if err := db.SaveLoadRun(ctx, pool, info); err != nil {
		return fmt.Errorf("failed to save load metadata: %w", err)
	}

	logging.Info().
		Str("run_id", info.RunID).
		Int("customers", len(tables.DimCustomers)).
		Int("products", len(tables.DimProducts)).
		Int("sellers", len(tables.DimSellers)).
		Int("fact_rows", len(tables.FactOrderItems)).
		Msg("Warehouse load complete")

	if summary, ok := rfm.Summarize(tables.FactOrderItems); ok {
		logging.Info().
			Float64("total_revenue", summary.TotalRevenue).
			Int("total_orders", summary.TotalOrders).
			Float64("average_order_value", summary.AverageOrderValue).
			Msg("Dataset KPIs")
	}
	return nil
}
