//-------------------------------------------------------------------------
//
// ecomart - e-commerce data mart toolkit
//
// Copyright (c) 2025 - 2026, the ecomart authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ecomart/ecomart/internal/etl"
	"github.com/ecomart/ecomart/internal/rfm"
)

func TestGenerateWritesAllFiles(t *testing.T) {
	dir := t.TempDir()
	gen := NewGenerator(50, 200, 1)

	summary, err := gen.Generate(dir)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if summary.Customers != 50 {
		t.Errorf("Expected 50 customers, got %d", summary.Customers)
	}
	if summary.Orders != 200 {
		t.Errorf("Expected 200 orders, got %d", summary.Orders)
	}
	if summary.Accounts != 200 {
		t.Errorf("Expected one account per order, got %d", summary.Accounts)
	}
	if summary.Items < summary.Orders {
		t.Errorf("Expected at least one item per order, got %d items", summary.Items)
	}

	for _, name := range etl.FileNames() {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("Expected file %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("File %s is empty", name)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()

	if _, err := NewGenerator(20, 60, 7).Generate(dir1); err != nil {
		t.Fatalf("First generate failed: %v", err)
	}
	if _, err := NewGenerator(20, 60, 7).Generate(dir2); err != nil {
		t.Fatalf("Second generate failed: %v", err)
	}

	for _, name := range etl.FileNames() {
		b1, err := os.ReadFile(filepath.Join(dir1, name))
		if err != nil {
			t.Fatalf("Failed to read %s: %v", name, err)
		}
		b2, err := os.ReadFile(filepath.Join(dir2, name))
		if err != nil {
			t.Fatalf("Failed to read %s: %v", name, err)
		}
		if string(b1) != string(b2) {
			t.Errorf("File %s differs between runs with the same seed", name)
		}
	}
}

func TestGeneratedDatasetTransforms(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewGenerator(40, 150, 3).Generate(dir); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	ds, err := etl.ReadDataset(dir)
	if err != nil {
		t.Fatalf("Generated dataset failed to parse: %v", err)
	}
	tables, err := etl.Transform(ds)
	if err != nil {
		t.Fatalf("Generated dataset failed to transform: %v", err)
	}
	if len(tables.DimCustomers) == 0 || len(tables.DimCustomers) > 40 {
		t.Errorf("Expected at most 40 unique customers, got %d", len(tables.DimCustomers))
	}
	if len(tables.FactOrderItems) < 150 {
		t.Errorf("Expected at least 150 fact rows, got %d", len(tables.FactOrderItems))
	}

	profiles, err := rfm.Compute(tables.FactOrderItems, tables.DimCustomers)
	if err != nil {
		t.Fatalf("RFM scoring failed on generated dataset: %v", err)
	}
	if len(profiles) == 0 {
		t.Fatal("Expected RFM profiles from generated dataset")
	}
	for _, p := range profiles {
		if p.RecencyScore < 1 || p.RecencyScore > 5 {
			t.Errorf("Customer %s recency score %d out of range", p.CustomerID, p.RecencyScore)
		}
		if p.Monetary <= 0 {
			t.Errorf("Customer %s has non-positive monetary %f", p.CustomerID, p.Monetary)
		}
	}
}
