//-------------------------------------------------------------------------
//
// ecomart - e-commerce data mart toolkit
//
// Copyright (c) 2025 - 2026, the ecomart authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse defines the star schema and the persisted RFM
// profile set.
package warehouse

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Star schema: one fact table of order line items surrounded by
// descriptive dimensions, each joined once.
const createSchemaSQL = `
-- Customer dimension: one row per unique customer across accounts
CREATE TABLE IF NOT EXISTS dim_customers (
    customer_unique_id       VARCHAR(32) PRIMARY KEY,
    customer_zip_code_prefix VARCHAR(5),
    customer_city            VARCHAR(100),
    customer_state           VARCHAR(2)
);

-- Product dimension, category names translated to English
CREATE TABLE IF NOT EXISTS dim_products (
    product_id            VARCHAR(32) PRIMARY KEY,
    product_category_name VARCHAR(100),
    product_weight_g      NUMERIC(10,1),
    product_length_cm     NUMERIC(10,1),
    product_height_cm     NUMERIC(10,1),
    product_width_cm      NUMERIC(10,1)
);

-- Seller dimension
CREATE TABLE IF NOT EXISTS dim_sellers (
    seller_id              VARCHAR(32) PRIMARY KEY,
    seller_zip_code_prefix VARCHAR(5),
    seller_city            VARCHAR(100),
    seller_state           VARCHAR(2)
);

-- Geolocation dimension, one row per zip prefix
CREATE TABLE IF NOT EXISTS dim_geolocation (
    geolocation_zip_code_prefix VARCHAR(5) PRIMARY KEY,
    geolocation_lat             NUMERIC(12,6),
    geolocation_lng             NUMERIC(12,6),
    geolocation_city            VARCHAR(100),
    geolocation_state           VARCHAR(2)
);

-- Fact table. Grain: one row per item within an order. Rows are
-- immutable once loaded.
CREATE TABLE IF NOT EXISTS fact_order_items (
    order_id                 VARCHAR(32) NOT NULL,
    order_item_id            INTEGER NOT NULL,
    product_id               VARCHAR(32),
    seller_id                VARCHAR(32),
    customer_unique_id       VARCHAR(32) NOT NULL REFERENCES dim_customers(customer_unique_id),
    order_status             VARCHAR(20),
    order_purchase_timestamp TIMESTAMP,
    price                    NUMERIC(10,2) NOT NULL,
    freight_value            NUMERIC(10,2) NOT NULL DEFAULT 0,
    payment_value            NUMERIC(10,2),
    payment_installments     INTEGER,
    payment_type             VARCHAR(20),
    review_score             NUMERIC(3,2),
    PRIMARY KEY (order_id, order_item_id)
);

-- Persisted RFM profile set: one row per customer, fully recomputed on
-- each explicit refresh. Score 1 denotes the best cohort per dimension.
CREATE TABLE IF NOT EXISTS customer_rfm (
    customer_unique_id VARCHAR(32) PRIMARY KEY,
    customer_city      VARCHAR(100),
    customer_state     VARCHAR(2),
    recency            INTEGER NOT NULL,
    frequency          INTEGER NOT NULL,
    monetary           NUMERIC(12,2) NOT NULL,
    recency_score      INTEGER NOT NULL CHECK (recency_score BETWEEN 1 AND 5),
    frequency_score    INTEGER NOT NULL CHECK (frequency_score BETWEEN 1 AND 5),
    monetary_score     INTEGER NOT NULL CHECK (monetary_score BETWEEN 1 AND 5),
    rfm_segment        CHAR(3) NOT NULL,
    refreshed_at       TIMESTAMP NOT NULL DEFAULT NOW()
);

-- Create indexes
CREATE INDEX IF NOT EXISTS idx_fact_customer ON fact_order_items(customer_unique_id);
CREATE INDEX IF NOT EXISTS idx_fact_product ON fact_order_items(product_id);
CREATE INDEX IF NOT EXISTS idx_fact_seller ON fact_order_items(seller_id);
CREATE INDEX IF NOT EXISTS idx_fact_purchase_ts ON fact_order_items(order_purchase_timestamp);

-- The dominant reporting pattern filters and sorts on the three scores
CREATE INDEX IF NOT EXISTS idx_rfm_scores ON customer_rfm(monetary_score, frequency_score, recency_score);
CREATE INDEX IF NOT EXISTS idx_rfm_segment ON customer_rfm(rfm_segment);
`

const dropSchemaSQL = `
DROP TABLE IF EXISTS customer_rfm CASCADE;
DROP TABLE IF EXISTS fact_order_items CASCADE;
DROP TABLE IF EXISTS dim_geolocation CASCADE;
DROP TABLE IF EXISTS dim_sellers CASCADE;
DROP TABLE IF EXISTS dim_products CASCADE;
DROP TABLE IF EXISTS dim_customers CASCADE;
`

// CreateSchema creates the warehouse schema.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, createSchemaSQL)
	return err
}

// DropSchema drops the warehouse schema.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, dropSchemaSQL)
	return err
}

// Tables lists the warehouse tables in load order.
func Tables() []string {
	return []string{
		"dim_customers",
		"dim_products",
		"dim_sellers",
		"dim_geolocation",
		"fact_order_items",
		"customer_rfm",
	}
}
