package etl

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecomart/ecomart/internal/logging"
	"github.com/ecomart/ecomart/internal/rfm"
)

// Loader writes transformed tables into the warehouse with multi-row
// batch INSERTs.
type Loader struct {
	batchSize int
}

// NewLoader creates a loader. batchSize is the number of rows per INSERT.
func NewLoader(batchSize int) *Loader {
	if batchSize < 1 {
		batchSize = 1000
	}
	return &Loader{batchSize: batchSize}
}

// Load writes all dimension tables and then the fact table. Targets are
// assumed empty (fresh schema or a reload after drop).
func (l *Loader) Load(ctx context.Context, pool *pgxpool.Pool, tables *Tables) error {
	if err := l.loadCustomers(ctx, pool, tables.DimCustomers); err != nil {
		return fmt.Errorf("failed to load dim_customers: %w", err)
	}
	if err := l.loadProducts(ctx, pool, tables.DimProducts); err != nil {
		return fmt.Errorf("failed to load dim_products: %w", err)
	}
	if err := l.loadSellers(ctx, pool, tables.DimSellers); err != nil {
		return fmt.Errorf("failed to load dim_sellers: %w", err)
	}
	if err := l.loadGeolocation(ctx, pool, tables.DimGeolocation); err != nil {
		return fmt.Errorf("failed to load dim_geolocation: %w", err)
	}
	if err := l.loadFactItems(ctx, pool, tables.FactOrderItems); err != nil {
		return fmt.Errorf("failed to load fact_order_items: %w", err)
	}
	return nil
}

func (l *Loader) loadCustomers(ctx context.Context, pool *pgxpool.Pool, customers []rfm.Customer) error {
	logging.Info().Int("count", len(customers)).Msg("Loading dim_customers")
	batch := make([]string, 0, l.batchSize)

	for _, c := range customers {
		batch = append(batch, fmt.Sprintf("('%s', '%s', '%s', '%s')",
			escapeSingleQuote(c.ID),
			escapeSingleQuote(c.ZipPrefix),
			escapeSingleQuote(c.City),
			escapeSingleQuote(c.State),
		))

		if len(batch) >= l.batchSize {
			if err := l.executeBatchInsert(ctx, pool, "dim_customers",
				"(customer_unique_id, customer_zip_code_prefix, customer_city, customer_state)", batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	return l.executeBatchInsert(ctx, pool, "dim_customers",
		"(customer_unique_id, customer_zip_code_prefix, customer_city, customer_state)", batch)
}

func (l *Loader) loadProducts(ctx context.Context, pool *pgxpool.Pool, products []DimProduct) error {
	logging.Info().Int("count", len(products)).Msg("Loading dim_products")
	batch := make([]string, 0, l.batchSize)

	for _, p := range products {
		batch = append(batch, fmt.Sprintf("('%s', '%s', %.1f, %.1f, %.1f, %.1f)",
			escapeSingleQuote(p.ProductID),
			escapeSingleQuote(p.Category),
			p.WeightG, p.LengthCm, p.HeightCm, p.WidthCm,
		))

		if len(batch) >= l.batchSize {
			if err := l.executeBatchInsert(ctx, pool, "dim_products",
				"(product_id, product_category_name, product_weight_g, product_length_cm, product_height_cm, product_width_cm)", batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	return l.executeBatchInsert(ctx, pool, "dim_products",
		"(product_id, product_category_name, product_weight_g, product_length_cm, product_height_cm, product_width_cm)", batch)
}

func (l *Loader) loadSellers(ctx context.Context, pool *pgxpool.Pool, sellers []SellerRecord) error {
	logging.Info().Int("count", len(sellers)).Msg("Loading dim_sellers")
	batch := make([]string, 0, l.batchSize)

	for _, s := range sellers {
		batch = append(batch, fmt.Sprintf("('%s', '%s', '%s', '%s')",
			escapeSingleQuote(s.SellerID),
			escapeSingleQuote(s.ZipPrefix),
			escapeSingleQuote(s.City),
			escapeSingleQuote(s.State),
		))

		if len(batch) >= l.batchSize {
			if err := l.executeBatchInsert(ctx, pool, "dim_sellers",
				"(seller_id, seller_zip_code_prefix, seller_city, seller_state)", batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	return l.executeBatchInsert(ctx, pool, "dim_sellers",
		"(seller_id, seller_zip_code_prefix, seller_city, seller_state)", batch)
}

func (l *Loader) loadGeolocation(ctx context.Context, pool *pgxpool.Pool, geo []GeolocationRecord) error {
	logging.Info().Int("count", len(geo)).Msg("Loading dim_geolocation")
	batch := make([]string, 0, l.batchSize)

	for _, g := range geo {
		batch = append(batch, fmt.Sprintf("('%s', %.6f, %.6f, '%s', '%s')",
			escapeSingleQuote(g.ZipPrefix),
			g.Lat, g.Lng,
			escapeSingleQuote(g.City),
			escapeSingleQuote(g.State),
		))

		if len(batch) >= l.batchSize {
			if err := l.executeBatchInsert(ctx, pool, "dim_geolocation",
				"(geolocation_zip_code_prefix, geolocation_lat, geolocation_lng, geolocation_city, geolocation_state)", batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	return l.executeBatchInsert(ctx, pool, "dim_geolocation",
		"(geolocation_zip_code_prefix, geolocation_lat, geolocation_lng, geolocation_city, geolocation_state)", batch)
}

func (l *Loader) loadFactItems(ctx context.Context, pool *pgxpool.Pool, items []rfm.LineItem) error {
	logging.Info().Int("count", len(items)).Msg("Loading fact_order_items")
	batch := make([]string, 0, l.batchSize)
	progress := int64(0)

	for _, it := range items {
		purchase := "NULL"
		if !it.PurchaseTimestamp.IsZero() {
			purchase = fmt.Sprintf("'%s'", it.PurchaseTimestamp.Format("2006-01-02 15:04:05"))
		}

		batch = append(batch, fmt.Sprintf("('%s', %d, '%s', '%s', '%s', '%s', %s, %.2f, %.2f, %.2f, %d, '%s', %.2f)",
			escapeSingleQuote(it.OrderID),
			it.OrderItemID,
			escapeSingleQuote(it.ProductID),
			escapeSingleQuote(it.SellerID),
			escapeSingleQuote(it.CustomerID),
			escapeSingleQuote(it.OrderStatus),
			purchase,
			it.Price,
			it.FreightValue,
			it.PaymentValue,
			it.PaymentInstallments,
			escapeSingleQuote(it.PaymentType),
			it.ReviewScore,
		))

		if len(batch) >= l.batchSize {
			if err := l.executeBatchInsert(ctx, pool, "fact_order_items", factColumns, batch); err != nil {
				return err
			}
			progress += int64(len(batch))
			if progress%100000 < int64(l.batchSize) {
				logging.Info().
					Int64("rows", progress).
					Int("total", len(items)).
					Msg("Loading fact rows")
			}
			batch = batch[:0]
		}
	}

	return l.executeBatchInsert(ctx, pool, "fact_order_items", factColumns, batch)
}

const factColumns = "(order_id, order_item_id, product_id, seller_id, customer_unique_id, " +
	"order_status, order_purchase_timestamp, price, freight_value, " +
	"payment_value, payment_installments, payment_type, review_score)"

func (l *Loader) executeBatchInsert(ctx context.Context, pool *pgxpool.Pool, table, columns string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	sql := fmt.Sprintf("INSERT INTO %s %s VALUES %s", table, columns, strings.Join(values, ", "))
	_, err := pool.Exec(ctx, sql)
	return err
}

func escapeSingleQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
