//-------------------------------------------------------------------------
//
// ecomart - e-commerce data mart toolkit
//
// Copyright (c) 2025 - 2026, the ecomart authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for ecomart.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/ecomart/ecomart/internal/config"
	"github.com/ecomart/ecomart/internal/logging"
	"github.com/ecomart/ecomart/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "ecomart",
		Short: "E-commerce data mart builder and RFM customer segmentation",
		Long: `ecomart builds a PostgreSQL star-schema data mart from the Olist
Brazilian e-commerce dataset, scores every customer on Recency,
Frequency and Monetary value, and runs analytic reports against the
result.

Typical workflow:
  ecomart init --connection "postgres://..."     create the warehouse schema
  ecomart load --data-dir ./data                 load a dataset
  ecomart rfm --top 10                           score and list the best customers
  ecomart rfm --materialize                      persist the full profile set
  ecomart report kpis                            run a report

No dataset at hand? 'ecomart seed' generates a synthetic one with the
same file layout.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./ecomart.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(rfmCmd)
	rootCmd.AddCommand(reportCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
