//-------------------------------------------------------------------------
//
// ecomart - e-commerce data mart toolkit
//
// Copyright (c) 2025 - 2026, the ecomart authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecomart/ecomart/internal/logging"
	"github.com/ecomart/ecomart/pkg/version"
)

const metadataTable = "ecomart_metadata"

const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS ecomart_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// LoadRunInfo describes a completed dataset load.
type LoadRunInfo struct {
	RunID    string
	DataDir  string
	FactRows int64
}

// SaveLoadRun records a completed load run in the metadata table.
func SaveLoadRun(ctx context.Context, pool *pgxpool.Pool, info LoadRunInfo) error {
	_, err := pool.Exec(ctx, createMetadataTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	metadata := map[string]string{
		"version":       version.Short(),
		"load_run_id":   info.RunID,
		"load_data_dir": info.DataDir,
		"loaded_at":     time.Now().UTC().Format(time.RFC3339),
		"fact_rows":     fmt.Sprintf("%d", info.FactRows),
	}

	for key, value := range metadata {
		_, err := pool.Exec(ctx, `
            INSERT INTO ecomart_metadata (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
        `, key, value)
		if err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Str("run_id", info.RunID).
		Int64("fact_rows", info.FactRows).
		Msg("Saved load metadata")

	return nil
}

// SaveRefreshedAt records the time of the last profile materialization.
func SaveRefreshedAt(ctx context.Context, pool *pgxpool.Pool, at time.Time) error {
	_, err := pool.Exec(ctx, createMetadataTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}
	_, err = pool.Exec(ctx, `
        INSERT INTO ecomart_metadata (key, value) VALUES ('rfm_refreshed_at', $1)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
    `, at.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save metadata rfm_refreshed_at: %w", err)
	}
	return nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, pool *pgxpool.Pool, key string) (string, error) {
	var value string
	err := pool.QueryRow(ctx, `
        SELECT value FROM ecomart_metadata WHERE key = $1
    `, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, pool *pgxpool.Pool) (map[string]string, error) {
	rows, err := pool.Query(ctx, `SELECT key, value FROM ecomart_metadata`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
	return err
}

// MetadataExists checks if the metadata table exists.
func MetadataExists(ctx context.Context, pool *pgxpool.Pool) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_name = $1
        )
    `, metadataTable).Scan(&exists)
	return exists, err
}
