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

	"github.com/spf13/cobra"

	"github.com/ecomart/ecomart/internal/db"
	"github.com/ecomart/ecomart/internal/logging"
	"github.com/ecomart/ecomart/internal/warehouse"
)

var initDropExisting bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the warehouse schema",
	Long: `Create the star-schema tables, the customer_rfm profile table and
their indexes in the target database.

Example:
  ecomart init --connection "postgres://user@localhost/ecomart"`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop existing warehouse tables first")
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if initDropExisting {
		logging.Info().Msg("Dropping existing warehouse schema")
		if err := warehouse.DropSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
		if err := db.DropMetadata(ctx, pool); err != nil {
			logging.Debug().Err(err).Msg("No metadata table to drop")
		}
	}

	logging.Info().Msg("Creating warehouse schema")
	if err := warehouse.CreateSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	logging.Info().
		Strs("tables", warehouse.Tables()).
		Msg("Warehouse schema ready")
	return nil
}
