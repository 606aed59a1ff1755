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
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ecomart/ecomart/internal/etl"
	"github.com/ecomart/ecomart/internal/logging"
)

// location is a Brazilian city with its state and a zip prefix range.
type location struct {
	city      string
	state     string
	zipPrefix int
}

// State weights roughly follow the real dataset's skew toward the
// Southeast.
var locations = []location{
	{"sao paulo", "SP", 1000},
	{"campinas", "SP", 13000},
	{"guarulhos", "SP", 7000},
	{"rio de janeiro", "RJ", 20000},
	{"niteroi", "RJ", 24000},
	{"belo horizonte", "MG", 30000},
	{"uberlandia", "MG", 38400},
	{"curitiba", "PR", 80000},
	{"porto alegre", "RS", 90000},
	{"salvador", "BA", 40000},
	{"brasilia", "DF", 70000},
	{"fortaleza", "CE", 60000},
	{"recife", "PE", 50000},
	{"goiania", "GO", 74000},
	{"florianopolis", "SC", 88000},
}

var locationWeights = []int{
	30, 8, 6, 15, 4, 10, 3, 6, 6, 4, 3, 2, 2, 2, 2,
}

var categories = []struct{ name, english string }{
	{"cama_mesa_banho", "bed_bath_table"},
	{"beleza_saude", "health_beauty"},
	{"esporte_lazer", "sports_leisure"},
	{"moveis_decoracao", "furniture_decor"},
	{"informatica_acessorios", "computers_accessories"},
	{"utilidades_domesticas", "housewares"},
	{"relogios_presentes", "watches_gifts"},
	{"telefonia", "telephony"},
	{"brinquedos", "toys"},
	{"automotivo", "auto"},
}

var paymentTypes = []string{"credit_card", "boleto", "voucher", "debit_card"}
var paymentWeights = []int{74, 19, 5, 2}

var orderStatuses = []string{"delivered", "shipped", "canceled", "processing", "invoiced"}
var statusWeights = []int{90, 4, 3, 2, 1}

// Generator writes a synthetic Olist-shaped dataset to disk.
type Generator struct {
	faker     *Faker
	customers int
	orders    int
}

// Summary reports what a generation run produced.
type Summary struct {
	Customers int
	Accounts  int
	Products  int
	Sellers   int
	Orders    int
	Items     int
}

// NewGenerator creates a generator for the given population sizes. The
// same seed always produces the same dataset.
func NewGenerator(customers, orders int, seed uint64) *Generator {
	return &Generator{
		faker:     NewFakerWithSeed(seed),
		customers: customers,
		orders:    orders,
	}
}

type person struct {
	uniqueID string
	loc      location
	zip      string
}

type product struct {
	id       string
	category string
	weightG  float64
	lengthCm float64
	heightCm float64
	widthCm  float64
}

type seller struct {
	id  string
	loc location
	zip string
}

// Generate writes the nine dataset files into dir, creating it if
// needed.
func (g *Generator) Generate(dir string) (*Summary, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	f := g.faker

	people := make([]person, g.customers)
	for i := range people {
		loc := ChooseWeighted(f, locations, locationWeights)
		people[i] = person{
			uniqueID: f.HexID(),
			loc:      loc,
			zip:      strconv.Itoa(loc.zipPrefix + f.Int(0, 999)),
		}
	}

	productCount := g.customers / 10
	if productCount < 20 {
		productCount = 20
	}
	products := make([]product, productCount)
	for i := range products {
		products[i] = product{
			id:       f.HexID(),
			category: Choose(f, categories).name,
			weightG:  float64(f.Int(50, 30000)),
			lengthCm: float64(f.Int(10, 100)),
			heightCm: float64(f.Int(2, 60)),
			widthCm:  float64(f.Int(5, 80)),
		}
	}

	sellerCount := g.customers / 50
	if sellerCount < 10 {
		sellerCount = 10
	}
	sellers := make([]seller, sellerCount)
	for i := range sellers {
		loc := ChooseWeighted(f, locations, locationWeights)
		sellers[i] = seller{
			id:  f.HexID(),
			loc: loc,
			zip: strconv.Itoa(loc.zipPrefix + f.Int(0, 999)),
		}
	}

	windowStart := time.Date(2016, 9, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2018, 8, 31, 23, 59, 59, 0, time.UTC)

	names := etl.FileNames()
	summary := &Summary{
		Customers: len(people),
		Products:  len(products),
		Sellers:   len(sellers),
		Orders:    g.orders,
	}

	customerRows := [][]string{{"customer_id", "customer_unique_id", "customer_zip_code_prefix", "customer_city", "customer_state"}}
	orderRows := [][]string{{"order_id", "customer_id", "order_status", "order_purchase_timestamp"}}
	itemRows := [][]string{{"order_id", "order_item_id", "product_id", "seller_id", "shipping_limit_date", "price", "freight_value"}}
	paymentRows := [][]string{{"order_id", "payment_sequential", "payment_type", "payment_installments", "payment_value"}}
	reviewRows := [][]string{{"review_id", "order_id", "review_score"}}

	for i := 0; i < g.orders; i++ {
		p := people[f.Int(0, len(people)-1)]

		// Olist issues a fresh account id per order; the unique id
		// ties accounts back to one customer.
		accountID := f.HexID()
		customerRows = append(customerRows, []string{
			accountID, p.uniqueID, p.zip, p.loc.city, p.loc.state,
		})
		summary.Accounts++

		orderID := f.HexID()
		purchased := f.DateRange(windowStart, windowEnd)
		orderRows = append(orderRows, []string{
			orderID,
			accountID,
			ChooseWeighted(f, orderStatuses, statusWeights),
			purchased.Format("2006-01-02 15:04:05"),
		})

		itemCount := ChooseWeighted(f, []int{1, 2, 3}, []int{80, 15, 5})
		orderTotal := 0.0
		for item := 1; item <= itemCount; item++ {
			prod := products[f.Int(0, len(products)-1)]
			sel := sellers[f.Int(0, len(sellers)-1)]
			price := f.Price(10, 500)
			freight := f.Price(5, 60)
			orderTotal += price + freight
			itemRows = append(itemRows, []string{
				orderID,
				strconv.Itoa(item),
				prod.id,
				sel.id,
				purchased.AddDate(0, 0, 7).Format("2006-01-02 15:04:05"),
				fmt.Sprintf("%.2f", price),
				fmt.Sprintf("%.2f", freight),
			})
			summary.Items++
		}

		payType := ChooseWeighted(f, paymentTypes, paymentWeights)
		installments := 1
		if payType == "credit_card" {
			installments = ChooseWeighted(f, []int{1, 2, 3, 4, 6, 10}, []int{50, 12, 10, 8, 10, 10})
		}
		if f.Int(1, 100) <= 8 && orderTotal > 20 {
			// Split payment: a voucher covers part of the total.
			voucher := f.Price(5, orderTotal/2)
			paymentRows = append(paymentRows,
				[]string{orderID, "1", payType, strconv.Itoa(installments), fmt.Sprintf("%.2f", orderTotal-voucher)},
				[]string{orderID, "2", "voucher", "1", fmt.Sprintf("%.2f", voucher)},
			)
		} else {
			paymentRows = append(paymentRows,
				[]string{orderID, "1", payType, strconv.Itoa(installments), fmt.Sprintf("%.2f", orderTotal)},
			)
		}

		if f.Int(1, 100) <= 85 {
			score := ChooseWeighted(f, []int{1, 2, 3, 4, 5}, []int{9, 3, 8, 19, 61})
			reviewRows = append(reviewRows, []string{f.HexID(), orderID, strconv.Itoa(score)})
		}
	}

	productRows := [][]string{{"product_id", "product_category_name", "product_weight_g", "product_length_cm", "product_height_cm", "product_width_cm"}}
	for _, prod := range products {
		productRows = append(productRows, []string{
			prod.id, prod.category,
			fmt.Sprintf("%.1f", prod.weightG),
			fmt.Sprintf("%.1f", prod.lengthCm),
			fmt.Sprintf("%.1f", prod.heightCm),
			fmt.Sprintf("%.1f", prod.widthCm),
		})
	}

	sellerRows := [][]string{{"seller_id", "seller_zip_code_prefix", "seller_city", "seller_state"}}
	for _, sel := range sellers {
		sellerRows = append(sellerRows, []string{sel.id, sel.zip, sel.loc.city, sel.loc.state})
	}

	geoRows := [][]string{{"geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng", "geolocation_city", "geolocation_state"}}
	seenZips := make(map[string]bool)
	for _, p := range people {
		if seenZips[p.zip] {
			continue
		}
		seenZips[p.zip] = true
		geoRows = append(geoRows, []string{
			p.zip,
			fmt.Sprintf("%.6f", f.Float64(-33.7, 2.8)),
			fmt.Sprintf("%.6f", f.Float64(-73.9, -34.8)),
			p.loc.city,
			p.loc.state,
		})
	}

	translationRows := [][]string{{"product_category_name", "product_category_name_english"}}
	for _, c := range categories {
		translationRows = append(translationRows, []string{c.name, c.english})
	}

	files := map[string][][]string{
		names["customers"]:            customerRows,
		names["orders"]:               orderRows,
		names["order_items"]:          itemRows,
		names["payments"]:             paymentRows,
		names["reviews"]:              reviewRows,
		names["products"]:             productRows,
		names["sellers"]:              sellerRows,
		names["geolocation"]:          geoRows,
		names["category_translation"]: translationRows,
	}
	for name, rows := range files {
		if err := writeCSV(filepath.Join(dir, name), rows); err != nil {
			return nil, err
		}
	}

	logging.Info().
		Int("customers", summary.Customers).
		Int("accounts", summary.Accounts).
		Int("orders", summary.Orders).
		Int("items", summary.Items).
		Str("dir", dir).
		Msg("Generated sample dataset")
	return summary, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}
