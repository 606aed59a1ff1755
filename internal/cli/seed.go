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
	"time"

	"github.com/spf13/cobra"

	"github.com/ecomart/ecomart/internal/datagen"
)

var (
	seedOutputDir string
	seedCustomers int
	seedOrders    int
	seedSeed      uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a synthetic source dataset",
	Long: `Generate a synthetic dataset with the same CSV layout as the Olist
export, suitable as input for 'ecomart load'. Passing --seed makes the
output reproducible.

Example:
  ecomart seed --customers 5000 --orders 20000 --output-dir ./data`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedOutputDir, "output-dir", "",
		"directory to write the CSV files to")
	seedCmd.Flags().IntVar(&seedCustomers, "customers", 0,
		"number of distinct customers")
	seedCmd.Flags().IntVar(&seedOrders, "orders", 0,
		"number of orders")
	seedCmd.Flags().Uint64Var(&seedSeed, "seed", 0,
		"random seed (0 = time-based)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if seedOutputDir != "" {
		cfg.Seed.OutputDir = seedOutputDir
	}
	if seedCustomers > 0 {
		cfg.Seed.Customers = seedCustomers
	}
	if seedOrders > 0 {
		cfg.Seed.Orders = seedOrders
	}
	if seedSeed != 0 {
		cfg.Seed.Seed = seedSeed
	}

	if err := cfg.ValidateSeed(); err != nil {
		return err
	}

	seed := cfg.Seed.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	gen := datagen.NewGenerator(cfg.Seed.Customers, cfg.Seed.Orders, seed)
	_, err := gen.Generate(cfg.Seed.OutputDir)
	return err
}
