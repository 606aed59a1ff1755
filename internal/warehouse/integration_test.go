//-------------------------------------------------------------------------
//
// ecomart - e-commerce data mart toolkit
//
// Copyright (c) 2025 - 2026, the ecomart authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

//go:build integration
// +build integration

// End-to-end integration test for the warehouse pipeline.
// Run with: go test -tags=integration ./internal/warehouse/...
// Requires PostgreSQL to be available.
// Set ECOMART_TEST_CONN environment variable to override connection string.

package warehouse_test

import (
	"context"
	"testing"
	"time"

	"github.com/ecomart/ecomart/internal/datagen"
	"github.com/ecomart/ecomart/internal/db"
	"github.com/ecomart/ecomart/internal/etl"
	"github.com/ecomart/ecomart/internal/reports"
	"github.com/ecomart/ecomart/internal/rfm"
	"github.com/ecomart/ecomart/internal/testutil"
	"github.com/ecomart/ecomart/internal/warehouse"
)

// TestWarehousePipeline covers the full path: generate a dataset, load
// it, score it, materialize the profiles and run every report.
func TestWarehousePipeline(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)

	testConnStr := testutil.CreateTestDB(t, baseConnStr, "pipeline")
	dbName := testutil.GetDBNameFromConnStr(testConnStr)

	cleanup := testutil.NewTestCleanup(t, baseConnStr, dbName)
	t.Cleanup(cleanup.Cleanup)

	pool := testutil.ConnectTestDB(t, testConnStr)
	cleanup.SetPool(pool)

	ctx := context.Background()

	dataDir := t.TempDir()
	var tables *etl.Tables
	var profiles []rfm.Profile

	t.Run("CreateSchema", func(t *testing.T) {
		if err := warehouse.CreateSchema(ctx, pool); err != nil {
			t.Fatalf("CreateSchema failed: %v", err)
		}
	})

	t.Run("LoadDataset", func(t *testing.T) {
		if _, err := datagen.NewGenerator(50, 300, 11).Generate(dataDir); err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		ds, err := etl.ReadDataset(dataDir)
		if err != nil {
			t.Fatalf("ReadDataset failed: %v", err)
		}
		tables, err = etl.Transform(ds)
		if err != nil {
			t.Fatalf("Transform failed: %v", err)
		}
		if err := etl.NewLoader(100).Load(ctx, pool, tables); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		count, err := warehouse.FactRowCount(ctx, pool)
		if err != nil {
			t.Fatalf("FactRowCount failed: %v", err)
		}
		if int(count) != len(tables.FactOrderItems) {
			t.Errorf("Loaded %d fact rows, expected %d", count, len(tables.FactOrderItems))
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		items, err := warehouse.LoadFactItems(ctx, pool)
		if err != nil {
			t.Fatalf("LoadFactItems failed: %v", err)
		}
		if len(items) != len(tables.FactOrderItems) {
			t.Fatalf("Read back %d fact rows, expected %d", len(items), len(tables.FactOrderItems))
		}
		customers, err := warehouse.LoadCustomerDim(ctx, pool)
		if err != nil {
			t.Fatalf("LoadCustomerDim failed: %v", err)
		}
		if len(customers) != len(tables.DimCustomers) {
			t.Fatalf("Read back %d customers, expected %d", len(customers), len(tables.DimCustomers))
		}

		profiles, err = rfm.Compute(items, customers)
		if err != nil {
			t.Fatalf("Compute failed: %v", err)
		}
		if len(profiles) == 0 {
			t.Fatal("Expected profiles from loaded warehouse")
		}
	})

	t.Run("MaterializeProfiles", func(t *testing.T) {
		if err := warehouse.MaterializeProfiles(ctx, pool, profiles); err != nil {
			t.Fatalf("MaterializeProfiles failed: %v", err)
		}
		if err := db.SaveRefreshedAt(ctx, pool, time.Now()); err != nil {
			t.Fatalf("SaveRefreshedAt failed: %v", err)
		}

		var count int
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM customer_rfm").Scan(&count); err != nil {
			t.Fatalf("Failed to count customer_rfm: %v", err)
		}
		if count != len(profiles) {
			t.Errorf("Materialized %d profiles, expected %d", count, len(profiles))
		}

		// Refresh is idempotent: a second run replaces, not appends
		if err := warehouse.MaterializeProfiles(ctx, pool, profiles); err != nil {
			t.Fatalf("Second MaterializeProfiles failed: %v", err)
		}
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM customer_rfm").Scan(&count); err != nil {
			t.Fatalf("Failed to count customer_rfm: %v", err)
		}
		if count != len(profiles) {
			t.Errorf("Second refresh left %d profiles, expected %d", count, len(profiles))
		}
	})

	t.Run("Reports", func(t *testing.T) {
		runner := reports.NewRunner(pool)
		for _, name := range reports.Names() {
			result, err := runner.Run(ctx, name, 10)
			if err != nil {
				t.Errorf("Report %s failed: %v", name, err)
				continue
			}
			if len(result.Rows) == 0 {
				t.Errorf("Report %s returned no rows", name)
			}
		}
	})

	t.Run("Metadata", func(t *testing.T) {
		refreshed, err := db.GetMetadataValue(ctx, pool, "rfm_refreshed_at")
		if err != nil {
			t.Fatalf("GetMetadataValue failed: %v", err)
		}
		if refreshed == "" {
			t.Error("Expected rfm_refreshed_at metadata after materialization")
		}
	})
}
