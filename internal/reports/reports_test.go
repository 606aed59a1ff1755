//-------------------------------------------------------------------------
//
// ecomart - e-commerce data mart toolkit
//
// Copyright (c) 2025 - 2026, the ecomart authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package reports

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRunUnknownReport(t *testing.T) {
	runner := NewRunner(nil)
	_, err := runner.Run(context.Background(), "bogus", 10)
	if err == nil {
		t.Fatal("Expected error for unknown report")
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("Error should name the unknown report: %v", err)
	}
	if !strings.Contains(err.Error(), "kpis") {
		t.Errorf("Error should list available reports: %v", err)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 5 {
		t.Errorf("Expected 5 reports, got %d", len(names))
	}
	for _, want := range []string{"kpis", "sales_by_state", "top_customers", "rfm_segments"} {
		found := false
		for _, name := range names {
			if name == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Report %s missing from Names()", want)
		}
	}
}

func TestWriteTable(t *testing.T) {
	result := &Result{
		Name:    "sales_by_state",
		Columns: []string{"customer_state", "revenue", "orders"},
		Rows: [][]any{
			{"SP", 1234.50, int64(42)},
			{"RJ", 99.90, int64(3)},
		},
	}

	var sb strings.Builder
	if err := WriteTable(&sb, result); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	out := sb.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("Expected 5 output lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "customer_state") {
		t.Errorf("Header missing column name: %q", lines[0])
	}
	if !strings.Contains(lines[2], "1234.50") {
		t.Errorf("Float not rendered with 2 decimals: %q", lines[2])
	}
	if lines[4] != "(2 rows)" {
		t.Errorf("Expected row count footer, got %q", lines[4])
	}
	// Columns align: every data row starts at the same offset
	if strings.Index(lines[2], "1234.50") != strings.Index(lines[0], "revenue") {
		t.Errorf("revenue column not aligned:\n%s", out)
	}
}

func TestWriteTableFormatsValues(t *testing.T) {
	ts := time.Date(2018, 7, 1, 10, 30, 0, 0, time.UTC)
	result := &Result{
		Columns: []string{"a", "b", "c", "d"},
		Rows:    [][]any{{nil, []byte("bytes"), ts, 3.5}},
	}

	var sb strings.Builder
	if err := WriteTable(&sb, result); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "bytes") {
		t.Errorf("Byte slice not rendered as string:\n%s", out)
	}
	if !strings.Contains(out, "2018-07-01 10:30:00") {
		t.Errorf("Timestamp not rendered:\n%s", out)
	}
	if !strings.Contains(out, "3.50") {
		t.Errorf("Float not rendered:\n%s", out)
	}
}

func TestExportJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "kpis.json")

	result := &Result{
		Name:    "kpis",
		Columns: []string{"total_revenue", "total_orders"},
		Rows:    [][]any{{35.0, int64(2)}},
	}
	if err := ExportJSON(path, result); err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read exported file: %v", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("Exported file is not valid JSON: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0]["total_revenue"] != 35.0 {
		t.Errorf("Expected total_revenue 35, got %v", records[0]["total_revenue"])
	}
	if records[0]["total_orders"] != 2.0 {
		t.Errorf("Expected total_orders 2, got %v", records[0]["total_orders"])
	}
}

func TestTimestampedFilename(t *testing.T) {
	path := TimestampedFilename("out", "rfm_segments")
	if filepath.Dir(path) != "out" {
		t.Errorf("Expected directory out, got %s", filepath.Dir(path))
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "rfm_segments_") {
		t.Errorf("Expected report name prefix, got %s", base)
	}
	if !strings.HasSuffix(base, ".json") {
		t.Errorf("Expected .json suffix, got %s", base)
	}
}
