//-------------------------------------------------------------------------
//
// ecomart - e-commerce data mart toolkit
//
// Copyright (c) 2025 - 2026, the ecomart authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package reports runs canned analytic queries against the warehouse
// and renders them as text tables or JSON files.
package reports

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecomart/ecomart/internal/logging"
)

// Result holds the rows of one report query in column order.
type Result struct {
	Name    string
	Columns []string
	Rows    [][]any
	Elapsed time.Duration
}

// Runner executes report queries against a warehouse pool.
type Runner struct {
	pool *pgxpool.Pool
}

// NewRunner creates a report runner.
func NewRunner(pool *pgxpool.Pool) *Runner {
	return &Runner{pool: pool}
}

// Names lists the available report names.
func Names() []string {
	return []string{"kpis", "sales_by_state", "top_customers", "rfm_segments", "category_sales"}
}

// Run executes the named report. topN applies to the top_customers
// report and is ignored elsewhere.
func (r *Runner) Run(ctx context.Context, name string, topN int) (*Result, error) {
	var query string
	switch name {
	case "kpis":
		query = QueryKPIs
	case "sales_by_state":
		query = QuerySalesByState
	case "top_customers":
		query = fmt.Sprintf(QueryTopCustomers, topN)
	case "rfm_segments":
		query = QuerySegmentBreakdown
	case "category_sales":
		query = QueryCategorySales
	default:
		return nil, fmt.Errorf("unknown report %q (available: %s)", name, strings.Join(Names(), ", "))
	}

	start := time.Now()
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to run report %s: %w", name, err)
	}
	defer rows.Close()

	result := &Result{Name: name}
	for _, fd := range rows.FieldDescriptions() {
		result.Columns = append(result.Columns, fd.Name)
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read report row: %w", err)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", name, err)
	}
	result.Elapsed = time.Since(start)

	logging.Debug().
		Str("report", name).
		Int("rows", len(result.Rows)).
		Dur("elapsed", result.Elapsed).
		Msg("Report query completed")
	return result, nil
}

// WriteTable renders the result as an aligned text table.
func WriteTable(w io.Writer, result *Result) error {
	widths := make([]int, len(result.Columns))
	for i, col := range result.Columns {
		widths[i] = len(col)
	}
	cells := make([][]string, len(result.Rows))
	for ri, row := range result.Rows {
		cells[ri] = make([]string, len(row))
		for ci, v := range row {
			s := formatValue(v)
			cells[ri][ci] = s
			if ci < len(widths) && len(s) > widths[ci] {
				widths[ci] = len(s)
			}
		}
	}

	var b strings.Builder
	for i, col := range result.Columns {
		if i > 0 {
			b.WriteString("  ")
		}
		fmt.Fprintf(&b, "%-*s", widths[i], col)
	}
	b.WriteString("\n")
	for i := range result.Columns {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(strings.Repeat("-", widths[i]))
	}
	b.WriteString("\n")
	for _, row := range cells {
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%-*s", widths[i], cell)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "(%d rows)\n", len(result.Rows))

	_, err := io.WriteString(w, b.String())
	return err
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	case float64:
		return fmt.Sprintf("%.2f", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
