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
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecomart/ecomart/internal/rfm"
)

const selectFactItemsSQL = `
SELECT order_id, order_item_id,
       COALESCE(product_id, ''), COALESCE(seller_id, ''),
       customer_unique_id, COALESCE(order_status, ''),
       order_purchase_timestamp,
       price, COALESCE(freight_value, 0),
       COALESCE(payment_value, 0), COALESCE(payment_installments, 0),
       COALESCE(payment_type, ''), COALESCE(review_score, 0)
FROM fact_order_items
`

const selectCustomerDimSQL = `
SELECT customer_unique_id,
       COALESCE(customer_zip_code_prefix, ''),
       COALESCE(customer_city, ''), COALESCE(customer_state, '')
FROM dim_customers
`

// LoadFactItems reads the full fact table into memory.
func LoadFactItems(ctx context.Context, pool *pgxpool.Pool) ([]rfm.LineItem, error) {
	rows, err := pool.Query(ctx, selectFactItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query fact_order_items: %w", err)
	}
	defer rows.Close()

	var items []rfm.LineItem
	for rows.Next() {
		var item rfm.LineItem
		var purchased *time.Time
		err := rows.Scan(
			&item.OrderID, &item.OrderItemID,
			&item.ProductID, &item.SellerID,
			&item.CustomerID, &item.OrderStatus,
			&purchased,
			&item.Price, &item.FreightValue,
			&item.PaymentValue, &item.PaymentInstallments,
			&item.PaymentType, &item.ReviewScore,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fact row: %w", err)
		}
		if purchased != nil {
			item.PurchaseTimestamp = *purchased
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fact_order_items: %w", err)
	}
	return items, nil
}

// LoadCustomerDim reads the customer dimension into memory.
func LoadCustomerDim(ctx context.Context, pool *pgxpool.Pool) ([]rfm.Customer, error) {
	rows, err := pool.Query(ctx, selectCustomerDimSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query dim_customers: %w", err)
	}
	defer rows.Close()

	var customers []rfm.Customer
	for rows.Next() {
		var c rfm.Customer
		if err := rows.Scan(&c.ID, &c.ZipPrefix, &c.City, &c.State); err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dim_customers: %w", err)
	}
	return customers, nil
}

// FactRowCount returns the number of rows in the fact table.
func FactRowCount(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	var count int64
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM fact_order_items").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count fact_order_items: %w", err)
	}
	return count, nil
}
