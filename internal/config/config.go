//-------------------------------------------------------------------------
//
// ecomart - e-commerce data mart toolkit
//
// Copyright (c) 2025 - 2026, the ecomart authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for ecomart.
// Configuration is loaded from config files and CLI flags; CLI flags take
// precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for ecomart.
type Config struct {
	// Connection is the PostgreSQL connection string for the warehouse.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Load holds configuration for the load subcommand.
	Load LoadConfig `mapstructure:"load"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`

	// RFM holds configuration for the rfm subcommand.
	RFM RFMConfig `mapstructure:"rfm"`

	// Report holds configuration for the report subcommand.
	Report ReportConfig `mapstructure:"report"`
}

// LoadConfig holds configuration for loading a dataset into the warehouse.
type LoadConfig struct {
	// DataDir is the directory containing the dataset CSV files.
	DataDir string `mapstructure:"data_dir"`

	// BatchSize is the number of rows per multi-row INSERT.
	BatchSize int `mapstructure:"batch_size"`

	// DropExisting drops and recreates the schema before loading.
	DropExisting bool `mapstructure:"drop_existing"`
}

// SeedConfig holds configuration for synthetic dataset generation.
type SeedConfig struct {
	// OutputDir is where the generated CSV files are written.
	OutputDir string `mapstructure:"output_dir"`

	// Customers is the number of distinct customers to generate.
	Customers int `mapstructure:"customers"`

	// Orders is the number of orders to generate.
	Orders int `mapstructure:"orders"`

	// Seed fixes the random seed (0 = time-based).
	Seed uint64 `mapstructure:"seed"`
}

// RFMConfig holds configuration for RFM segmentation runs.
type RFMConfig struct {
	// TopN limits ad hoc output to the N best customers.
	TopN int `mapstructure:"top_n"`

	// Materialize persists the full profile set into customer_rfm
	// instead of printing the ad hoc top-N listing.
	Materialize bool `mapstructure:"materialize"`
}

// ReportConfig holds configuration for the report subcommand.
type ReportConfig struct {
	// OutputDir is where exported report files are written ("" = no export).
	OutputDir string `mapstructure:"output_dir"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Load: LoadConfig{
			DataDir:      "data",
			BatchSize:    1000,
			DropExisting: false,
		},
		Seed: SeedConfig{
			OutputDir: "data",
			Customers: 5000,
			Orders:    20000,
		},
		RFM: RFMConfig{
			TopN: 10,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./ecomart.yaml
// 3. ~/.config/ecomart/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("ecomart")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "ecomart"))
	}

	// Use specific config file if provided
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Start with defaults
	cfg := DefaultConfig()

	// Unmarshal config file values
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// ValidateLoad checks configuration required for the load command.
func (c *Config) ValidateLoad() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Load.DataDir == "" {
		return fmt.Errorf("data directory is required for load")
	}
	if c.Load.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if c.Seed.OutputDir == "" {
		return fmt.Errorf("output directory is required for seed")
	}
	if c.Seed.Customers < 1 {
		return fmt.Errorf("customers must be at least 1")
	}
	if c.Seed.Orders < 1 {
		return fmt.Errorf("orders must be at least 1")
	}
	return nil
}

// ValidateRFM checks configuration required for the rfm command.
func (c *Config) ValidateRFM() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.RFM.Materialize && c.RFM.TopN < 1 {
		return fmt.Errorf("top_n must be at least 1")
	}
	return nil
}
