//-------------------------------------------------------------------------
//
// ecomart - e-commerce data mart toolkit
//
// Copyright (c) 2025 - 2026, the ecomart authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package reports

// Overall KPIs
const QueryKPIs = `
SELECT
    ROUND(SUM(price + freight_value), 2)::float8 AS total_revenue,
    COUNT(DISTINCT order_id) AS total_orders,
    ROUND(SUM(price + freight_value) / NULLIF(COUNT(DISTINCT order_id), 0), 2)::float8 AS average_order_value
FROM fact_order_items;
`

// Revenue by customer state
const QuerySalesByState = `
SELECT
    c.customer_state,
    ROUND(SUM(f.price + f.freight_value), 2)::float8 AS revenue,
    COUNT(DISTINCT f.order_id) AS orders,
    COUNT(DISTINCT f.customer_unique_id) AS customers
FROM fact_order_items f
JOIN dim_customers c ON c.customer_unique_id = f.customer_unique_id
GROUP BY c.customer_state
ORDER BY revenue DESC, c.customer_state;
`

// Best customers by RFM score. Score 1 is the best cohort, so the best
// customers sort first ascending.
const QueryTopCustomers = `
SELECT
    customer_unique_id,
    customer_city,
    customer_state,
    recency,
    frequency,
    monetary::float8,
    rfm_segment
FROM customer_rfm
ORDER BY monetary_score, frequency_score, recency_score,
         monetary DESC, customer_unique_id
LIMIT %d;
`

// Customer count and revenue share per RFM segment
const QuerySegmentBreakdown = `
SELECT
    rfm_segment,
    COUNT(*) AS customers,
    ROUND(SUM(monetary), 2)::float8 AS revenue,
    ROUND(AVG(recency), 1)::float8 AS avg_recency_days,
    ROUND(AVG(frequency), 2)::float8 AS avg_orders
FROM customer_rfm
GROUP BY rfm_segment
ORDER BY rfm_segment;
`

// Revenue by product category
const QueryCategorySales = `
SELECT
    COALESCE(p.product_category_name, 'unknown') AS category,
    ROUND(SUM(f.price + f.freight_value), 2)::float8 AS revenue,
    COUNT(*) AS items_sold
FROM fact_order_items f
LEFT JOIN dim_products p ON p.product_id = f.product_id
GROUP BY 1
ORDER BY revenue DESC;
`
