//-------------------------------------------------------------------------
//
// ecomart - e-commerce data mart toolkit
//
// Copyright (c) 2025 - 2026, the ecomart authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package etl reads the raw e-commerce CSV dataset and transforms it
// into the warehouse star schema.
package etl

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ecomart/ecomart/internal/logging"
)

// Dataset file names, one CSV per source table.
var fileNames = map[string]string{
	"customers":            "olist_customers_dataset.csv",
	"geolocation":          "olist_geolocation_dataset.csv",
	"order_items":          "olist_order_items_dataset.csv",
	"payments":             "olist_order_payments_dataset.csv",
	"reviews":              "olist_order_reviews_dataset.csv",
	"orders":               "olist_orders_dataset.csv",
	"products":             "olist_products_dataset.csv",
	"sellers":              "olist_sellers_dataset.csv",
	"category_translation": "product_category_name_translation.csv",
}

const timestampLayout = "2006-01-02 15:04:05"

// CustomerRecord is a row of the raw customers file. CustomerID is the
// per-order account id; UniqueID identifies the person across accounts
// and is the key the warehouse uses.
type CustomerRecord struct {
	CustomerID string
	UniqueID   string
	ZipPrefix  string
	City       string
	State      string
}

// GeolocationRecord is a row of the raw geolocation file.
type GeolocationRecord struct {
	ZipPrefix string
	Lat       float64
	Lng       float64
	City      string
	State     string
}

// OrderItemRecord is a row of the raw order items file.
type OrderItemRecord struct {
	OrderID      string
	OrderItemID  int
	ProductID    string
	SellerID     string
	Price        float64
	FreightValue float64
}

// PaymentRecord is a row of the raw payments file.
type PaymentRecord struct {
	OrderID      string
	Sequential   int
	Type         string
	Installments int
	Value        float64
}

// ReviewRecord is a row of the raw reviews file.
type ReviewRecord struct {
	ReviewID string
	OrderID  string
	Score    float64
}

// OrderRecord is a row of the raw orders file.
type OrderRecord struct {
	OrderID           string
	CustomerID        string
	Status            string
	PurchaseTimestamp time.Time
}

// ProductRecord is a row of the raw products file.
type ProductRecord struct {
	ProductID    string
	CategoryName string
	WeightG      float64
	LengthCm     float64
	HeightCm     float64
	WidthCm      float64
}

// SellerRecord is a row of the raw sellers file.
type SellerRecord struct {
	SellerID  string
	ZipPrefix string
	City      string
	State     string
}

// CategoryTranslation maps a product category name to its English name.
type CategoryTranslation struct {
	Name    string
	English string
}

// Dataset holds the parsed contents of all nine source files.
type Dataset struct {
	Customers           []CustomerRecord
	Geolocation         []GeolocationRecord
	OrderItems          []OrderItemRecord
	Payments            []PaymentRecord
	Reviews             []ReviewRecord
	Orders              []OrderRecord
	Products            []ProductRecord
	Sellers             []SellerRecord
	CategoryTranslation []CategoryTranslation
}

// ReadDataset reads the nine dataset CSV files from dir. A missing file
// fails the whole read so a partial dataset is never loaded.
func ReadDataset(dir string) (*Dataset, error) {
	ds := &Dataset{}
	var err error

	if ds.Customers, err = readFile(dir, "customers", parseCustomer); err != nil {
		return nil, err
	}
	if ds.Geolocation, err = readFile(dir, "geolocation", parseGeolocation); err != nil {
		return nil, err
	}
	if ds.OrderItems, err = readFile(dir, "order_items", parseOrderItem); err != nil {
		return nil, err
	}
	if ds.Payments, err = readFile(dir, "payments", parsePayment); err != nil {
		return nil, err
	}
	if ds.Reviews, err = readFile(dir, "reviews", parseReview); err != nil {
		return nil, err
	}
	if ds.Orders, err = readFile(dir, "orders", parseOrder); err != nil {
		return nil, err
	}
	if ds.Products, err = readFile(dir, "products", parseProduct); err != nil {
		return nil, err
	}
	if ds.Sellers, err = readFile(dir, "sellers", parseSeller); err != nil {
		return nil, err
	}
	if ds.CategoryTranslation, err = readFile(dir, "category_translation", parseCategoryTranslation); err != nil {
		return nil, err
	}

	logging.Info().
		Int("customers", len(ds.Customers)).
		Int("orders", len(ds.Orders)).
		Int("order_items", len(ds.OrderItems)).
		Msg("Dataset read")

	return ds, nil
}

// row gives parse functions named access to the columns of one record.
type row struct {
	file    string
	line    int
	columns map[string]int
	fields  []string
}

func (r *row) get(name string) (string, error) {
	idx, ok := r.columns[name]
	if !ok {
		return "", fmt.Errorf("%s: missing column %q", r.file, name)
	}
	if idx >= len(r.fields) {
		return "", fmt.Errorf("%s line %d: short row: %d fields, column %q is field %d",
			r.file, r.line, len(r.fields), name, idx+1)
	}
	return strings.TrimSpace(r.fields[idx]), nil
}

func (r *row) getFloat(name string) (float64, error) {
	s, err := r.get(name)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s line %d: column %q: %w", r.file, r.line, name, err)
	}
	return v, nil
}

func (r *row) getInt(name string) (int, error) {
	s, err := r.get(name)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s line %d: column %q: %w", r.file, r.line, name, err)
	}
	return v, nil
}

// getTime parses a timestamp leniently: a malformed or empty value is
// coerced to the zero time with a warning, matching how the upstream
// pipeline treated unparseable dates.
func (r *row) getTime(name string) (time.Time, error) {
	s, err := r.get(name)
	if err != nil {
		return time.Time{}, err
	}
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		logging.Warn().
			Str("file", r.file).
			Int("line", r.line).
			Str("column", name).
			Str("value", s).
			Msg("Unparseable timestamp coerced to zero")
		return time.Time{}, nil
	}
	return t, nil
}

func readFile[T any](dir, name string, parse func(*row) (T, error)) ([]T, error) {
	filename := fileNames[name]
	path := filepath.Join(dir, filename)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", filename, err)
	}

	// Column names normalized to lowercase snake case.
	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")] = i
	}

	var records []T
	line := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s line %d: %w", filename, line+1, err)
		}
		line++

		r := &row{file: filename, line: line, columns: columns, fields: fields}
		record, err := parse(r)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func parseCustomer(r *row) (CustomerRecord, error) {
	var rec CustomerRecord
	var err error
	if rec.CustomerID, err = r.get("customer_id"); err != nil {
		return rec, err
	}
	if rec.UniqueID, err = r.get("customer_unique_id"); err != nil {
		return rec, err
	}
	if rec.ZipPrefix, err = r.get("customer_zip_code_prefix"); err != nil {
		return rec, err
	}
	if rec.City, err = r.get("customer_city"); err != nil {
		return rec, err
	}
	rec.State, err = r.get("customer_state")
	return rec, err
}

func parseGeolocation(r *row) (GeolocationRecord, error) {
	var rec GeolocationRecord
	var err error
	if rec.ZipPrefix, err = r.get("geolocation_zip_code_prefix"); err != nil {
		return rec, err
	}
	if rec.Lat, err = r.getFloat("geolocation_lat"); err != nil {
		return rec, err
	}
	if rec.Lng, err = r.getFloat("geolocation_lng"); err != nil {
		return rec, err
	}
	if rec.City, err = r.get("geolocation_city"); err != nil {
		return rec, err
	}
	rec.State, err = r.get("geolocation_state")
	return rec, err
}

func parseOrderItem(r *row) (OrderItemRecord, error) {
	var rec OrderItemRecord
	var err error
	if rec.OrderID, err = r.get("order_id"); err != nil {
		return rec, err
	}
	if rec.OrderItemID, err = r.getInt("order_item_id"); err != nil {
		return rec, err
	}
	if rec.ProductID, err = r.get("product_id"); err != nil {
		return rec, err
	}
	if rec.SellerID, err = r.get("seller_id"); err != nil {
		return rec, err
	}
	if rec.Price, err = r.getFloat("price"); err != nil {
		return rec, err
	}
	rec.FreightValue, err = r.getFloat("freight_value")
	return rec, err
}

func parsePayment(r *row) (PaymentRecord, error) {
	var rec PaymentRecord
	var err error
	if rec.OrderID, err = r.get("order_id"); err != nil {
		return rec, err
	}
	if rec.Sequential, err = r.getInt("payment_sequential"); err != nil {
		return rec, err
	}
	if rec.Type, err = r.get("payment_type"); err != nil {
		return rec, err
	}
	if rec.Installments, err = r.getInt("payment_installments"); err != nil {
		return rec, err
	}
	rec.Value, err = r.getFloat("payment_value")
	return rec, err
}

func parseReview(r *row) (ReviewRecord, error) {
	var rec ReviewRecord
	var err error
	if rec.ReviewID, err = r.get("review_id"); err != nil {
		return rec, err
	}
	if rec.OrderID, err = r.get("order_id"); err != nil {
		return rec, err
	}
	rec.Score, err = r.getFloat("review_score")
	return rec, err
}

func parseOrder(r *row) (OrderRecord, error) {
	var rec OrderRecord
	var err error
	if rec.OrderID, err = r.get("order_id"); err != nil {
		return rec, err
	}
	if rec.CustomerID, err = r.get("customer_id"); err != nil {
		return rec, err
	}
	if rec.Status, err = r.get("order_status"); err != nil {
		return rec, err
	}
	rec.PurchaseTimestamp, err = r.getTime("order_purchase_timestamp")
	return rec, err
}

func parseProduct(r *row) (ProductRecord, error) {
	var rec ProductRecord
	var err error
	if rec.ProductID, err = r.get("product_id"); err != nil {
		return rec, err
	}
	if rec.CategoryName, err = r.get("product_category_name"); err != nil {
		return rec, err
	}
	if rec.WeightG, err = r.getFloat("product_weight_g"); err != nil {
		return rec, err
	}
	if rec.LengthCm, err = r.getFloat("product_length_cm"); err != nil {
		return rec, err
	}
	if rec.HeightCm, err = r.getFloat("product_height_cm"); err != nil {
		return rec, err
	}
	rec.WidthCm, err = r.getFloat("product_width_cm")
	return rec, err
}

func parseSeller(r *row) (SellerRecord, error) {
	var rec SellerRecord
	var err error
	if rec.SellerID, err = r.get("seller_id"); err != nil {
		return rec, err
	}
	if rec.ZipPrefix, err = r.get("seller_zip_code_prefix"); err != nil {
		return rec, err
	}
	if rec.City, err = r.get("seller_city"); err != nil {
		return rec, err
	}
	rec.State, err = r.get("seller_state")
	return rec, err
}

func parseCategoryTranslation(r *row) (CategoryTranslation, error) {
	var rec CategoryTranslation
	var err error
	if rec.Name, err = r.get("product_category_name"); err != nil {
		return rec, err
	}
	rec.English, err = r.get("product_category_name_english")
	return rec, err
}

// FileNames returns the expected dataset file name for each source table.
func FileNames() map[string]string {
	names := make(map[string]string, len(fileNames))
	for k, v := range fileNames {
		names[k] = v
	}
	return names
}
