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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ExportJSON writes the result to path as an array of column-keyed
// objects, creating parent directories as needed.
func ExportJSON(path string, result *Result) error {
	records := make([]map[string]any, 0, len(result.Rows))
	for _, row := range result.Rows {
		record := make(map[string]any, len(result.Columns))
		for i, col := range result.Columns {
			var v any
			if i < len(row) {
				v = row[i]
			}
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			record[col] = v
		}
		records = append(records, record)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// TimestampedFilename builds an output path like
// dir/name_20060102_150405.json.
func TimestampedFilename(dir, name string) string {
	stamp := time.Now().Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.json", name, stamp))
}
