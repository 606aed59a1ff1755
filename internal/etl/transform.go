package etl

import (
	"fmt"
	"sort"

	"github.com/ecomart/ecomart/internal/logging"
	"github.com/ecomart/ecomart/internal/rfm"
)

// DimProduct is a product dimension row. Category holds the English
// category name where a translation exists, the original name otherwise.
type DimProduct struct {
	ProductID string
	Category  string
	WeightG   float64
	LengthCm  float64
	HeightCm  float64
	WidthCm   float64
}

// Tables holds the star-schema rows produced by Transform, ready for
// loading. Fact rows and the customer dimension use the segmentation
// engine's types directly so the loader, the warehouse readers and the
// engine all share one representation.
type Tables struct {
	DimCustomers   []rfm.Customer
	DimProducts    []DimProduct
	DimSellers     []SellerRecord
	DimGeolocation []GeolocationRecord
	FactOrderItems []rfm.LineItem
}

// orderPayment is the per-order payment rollup: orders can carry several
// payment rows (vouchers plus card, multi-sequential payments).
type orderPayment struct {
	value        float64
	installments int
	typeCounts   map[string]int
}

// modalType returns the most frequent payment type, ties broken
// lexicographically so the rollup is deterministic.
func (p *orderPayment) modalType() string {
	var best string
	bestCount := -1
	types := make([]string, 0, len(p.typeCounts))
	for t := range p.typeCounts {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		if p.typeCounts[t] > bestCount {
			best = t
			bestCount = p.typeCounts[t]
		}
	}
	return best
}

// Transform builds the dimension and fact tables from the raw dataset.
//
// An order item that references an unknown order, or an order that
// references an unknown customer account, fails the transform naming the
// offending identifiers; orphaned rows are never silently dropped.
func Transform(ds *Dataset) (*Tables, error) {
	tables := &Tables{}

	// English category translations
	translations := make(map[string]string, len(ds.CategoryTranslation))
	for _, tr := range ds.CategoryTranslation {
		translations[tr.Name] = tr.English
	}

	// Customer dimension: one row per unique customer, keyed by the
	// cross-account unique id. Accounts map order-level customer ids to
	// the unique id for the fact join.
	accounts := make(map[string]CustomerRecord, len(ds.Customers))
	seenUnique := make(map[string]bool)
	for _, c := range ds.Customers {
		accounts[c.CustomerID] = c
		if !seenUnique[c.UniqueID] {
			seenUnique[c.UniqueID] = true
			tables.DimCustomers = append(tables.DimCustomers, rfm.Customer{
				ID:        c.UniqueID,
				ZipPrefix: c.ZipPrefix,
				City:      c.City,
				State:     c.State,
			})
		}
	}

	// Product dimension, deduplicated by product id
	seenProduct := make(map[string]bool)
	for _, p := range ds.Products {
		if seenProduct[p.ProductID] {
			continue
		}
		seenProduct[p.ProductID] = true
		category := p.CategoryName
		if english, ok := translations[category]; ok && english != "" {
			category = english
		}
		tables.DimProducts = append(tables.DimProducts, DimProduct{
			ProductID: p.ProductID,
			Category:  category,
			WeightG:   p.WeightG,
			LengthCm:  p.LengthCm,
			HeightCm:  p.HeightCm,
			WidthCm:   p.WidthCm,
		})
	}

	// Seller dimension, deduplicated by seller id
	seenSeller := make(map[string]bool)
	for _, s := range ds.Sellers {
		if seenSeller[s.SellerID] {
			continue
		}
		seenSeller[s.SellerID] = true
		tables.DimSellers = append(tables.DimSellers, s)
	}

	// Geolocation dimension, deduplicated by zip prefix
	seenZip := make(map[string]bool)
	for _, g := range ds.Geolocation {
		if seenZip[g.ZipPrefix] {
			continue
		}
		seenZip[g.ZipPrefix] = true
		tables.DimGeolocation = append(tables.DimGeolocation, g)
	}

	// Per-order payment rollup: summed value, max installments, modal type
	payments := make(map[string]*orderPayment)
	for _, p := range ds.Payments {
		agg, ok := payments[p.OrderID]
		if !ok {
			agg = &orderPayment{typeCounts: make(map[string]int)}
			payments[p.OrderID] = agg
		}
		agg.value += p.Value
		if p.Installments > agg.installments {
			agg.installments = p.Installments
		}
		agg.typeCounts[p.Type]++
	}

	// Per-order mean review score
	reviewSums := make(map[string]float64)
	reviewCounts := make(map[string]int)
	for _, r := range ds.Reviews {
		reviewSums[r.OrderID] += r.Score
		reviewCounts[r.OrderID]++
	}

	orders := make(map[string]OrderRecord, len(ds.Orders))
	for _, o := range ds.Orders {
		orders[o.OrderID] = o
	}

	// Fact table: one row per order item, enriched with the order,
	// customer, payment and review joins. Orders with no payment or
	// review rows get zero values, as the source pipeline filled them.
	for _, it := range ds.OrderItems {
		order, ok := orders[it.OrderID]
		if !ok {
			return nil, fmt.Errorf("order item %s/%d references unknown order", it.OrderID, it.OrderItemID)
		}
		account, ok := accounts[order.CustomerID]
		if !ok {
			return nil, fmt.Errorf("order %s references unknown customer account %s", order.OrderID, order.CustomerID)
		}

		fact := rfm.LineItem{
			OrderID:           it.OrderID,
			OrderItemID:       it.OrderItemID,
			ProductID:         it.ProductID,
			SellerID:          it.SellerID,
			CustomerID:        account.UniqueID,
			OrderStatus:       order.Status,
			PurchaseTimestamp: order.PurchaseTimestamp,
			Price:             it.Price,
			FreightValue:      it.FreightValue,
		}
		if pay, ok := payments[it.OrderID]; ok {
			fact.PaymentValue = pay.value
			fact.PaymentInstallments = pay.installments
			fact.PaymentType = pay.modalType()
		}
		if n := reviewCounts[it.OrderID]; n > 0 {
			fact.ReviewScore = reviewSums[it.OrderID] / float64(n)
		}
		tables.FactOrderItems = append(tables.FactOrderItems, fact)
	}

	logging.Info().
		Int("dim_customers", len(tables.DimCustomers)).
		Int("dim_products", len(tables.DimProducts)).
		Int("dim_sellers", len(tables.DimSellers)).
		Int("dim_geolocation", len(tables.DimGeolocation)).
		Int("fact_order_items", len(tables.FactOrderItems)).
		Msg("Transform complete")

	return tables, nil
}
