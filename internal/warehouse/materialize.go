//-------------------------------------------------------------------------
//
// ecomart - e-commerce data mart toolkit
//
// Copyright (c) 2025 - 2026, the ecomart authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecomart/ecomart/internal/logging"
	"github.com/ecomart/ecomart/internal/rfm"
)

const materializeBatchSize = 1000

const insertProfilesPrefix = `INSERT INTO customer_rfm
    (customer_unique_id, customer_city, customer_state,
     recency, frequency, monetary,
     recency_score, frequency_score, monetary_score,
     rfm_segment, refreshed_at)
VALUES `

// MaterializeProfiles replaces the persisted profile set with the given
// profiles. The swap happens inside a single transaction so readers see
// either the old set or the new set, never a partial one.
func MaterializeProfiles(ctx context.Context, pool *pgxpool.Pool, profiles []rfm.Profile) error {
	rfm.SortForMaterialization(profiles)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE customer_rfm"); err != nil {
		return fmt.Errorf("failed to truncate customer_rfm: %w", err)
	}

	for start := 0; start < len(profiles); start += materializeBatchSize {
		end := start + materializeBatchSize
		if end > len(profiles) {
			end = len(profiles)
		}
		values := make([]string, 0, end-start)
		for _, p := range profiles[start:end] {
			values = append(values, fmt.Sprintf(
				"('%s', '%s', '%s', %d, %d, %.2f, %d, %d, %d, '%s', NOW())",
				escapeSingleQuote(p.CustomerID),
				escapeSingleQuote(p.City),
				escapeSingleQuote(p.State),
				p.Recency, p.Frequency, p.Monetary,
				p.RecencyScore, p.FrequencyScore, p.MonetaryScore,
				p.Segment,
			))
		}
		sql := insertProfilesPrefix + strings.Join(values, ", ")
		if _, err := tx.Exec(ctx, sql); err != nil {
			return fmt.Errorf("failed to insert profiles: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit profile refresh: %w", err)
	}

	logging.Info().Int("profiles", len(profiles)).Msg("Materialized RFM profiles")
	return nil
}

func escapeSingleQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
