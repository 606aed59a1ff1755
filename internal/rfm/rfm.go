//-------------------------------------------------------------------------
//
// ecomart - e-commerce data mart toolkit
//
// Copyright (c) 2025 - 2026, the ecomart authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package rfm implements customer segmentation by Recency, Frequency and
// Monetary value over order line items.
//
// The computation is a pure function of its inputs: it holds no state
// between invocations and recomputes the full profile set on every call,
// because quintile boundaries depend on the ranking of the entire customer
// population and cannot be maintained incrementally.
package rfm

import (
	"fmt"
	"sort"
	"time"
)

// LineItem is one item within an order, the grain of the fact table.
type LineItem struct {
	OrderID             string
	OrderItemID         int
	ProductID           string
	SellerID            string
	CustomerID          string
	OrderStatus         string
	PurchaseTimestamp   time.Time
	Price               float64
	FreightValue        float64
	PaymentValue        float64
	PaymentInstallments int
	PaymentType         string
	ReviewScore         float64
}

// Customer is a customer dimension record.
type Customer struct {
	ID        string
	ZipPrefix string
	City      string
	State     string
}

// Profile is the derived RFM profile for one customer.
//
// Scores run 1 through 5 and score 1 always denotes the best cohort:
// most recent purchase, highest order count, highest spend.
type Profile struct {
	CustomerID string
	City       string
	State      string

	// Recency is whole days between the population's most recent
	// purchase (the dataset's as-of date) and this customer's own
	// most recent purchase. Elapsed time is truncated, not rounded
	// by calendar date: 5 days minus one hour counts as 4.
	Recency int

	// Frequency is the count of distinct orders.
	Frequency int

	// Monetary is the sum of price + freight over all line items.
	Monetary float64

	RecencyScore   int
	FrequencyScore int
	MonetaryScore  int

	// Segment is the three scores concatenated, e.g. "531".
	Segment string
}

// UnknownCustomerError reports a fact row whose customer id has no
// matching dimension row.
type UnknownCustomerError struct {
	OrderID    string
	CustomerID string
}

func (e *UnknownCustomerError) Error() string {
	return fmt.Sprintf("order %s references unknown customer %s", e.OrderID, e.CustomerID)
}

// Compute derives one RFM profile per distinct customer in items.
//
// Every line-item customer must have a dimension row in customers;
// an orphaned fact row fails the whole computation rather than being
// silently dropped. An empty item set yields an empty profile set.
func Compute(items []LineItem, customers []Customer) ([]Profile, error) {
	if len(items) == 0 {
		return nil, nil
	}

	dims := make(map[string]Customer, len(customers))
	for _, c := range customers {
		dims[c.ID] = c
	}

	// The reference date is computed once over the whole fact set and
	// passed into the per-customer aggregation.
	referenceDate := items[0].PurchaseTimestamp
	for _, it := range items[1:] {
		if it.PurchaseTimestamp.After(referenceDate) {
			referenceDate = it.PurchaseTimestamp
		}
	}

	type aggregate struct {
		lastPurchase time.Time
		orders       map[string]struct{}
		monetary     float64
	}

	aggs := make(map[string]*aggregate)
	for _, it := range items {
		if _, ok := dims[it.CustomerID]; !ok {
			return nil, &UnknownCustomerError{OrderID: it.OrderID, CustomerID: it.CustomerID}
		}
		agg, ok := aggs[it.CustomerID]
		if !ok {
			agg = &aggregate{orders: make(map[string]struct{})}
			aggs[it.CustomerID] = agg
		}
		if it.PurchaseTimestamp.After(agg.lastPurchase) {
			agg.lastPurchase = it.PurchaseTimestamp
		}
		agg.orders[it.OrderID] = struct{}{}
		agg.monetary += it.Price + it.FreightValue
	}

	profiles := make([]Profile, 0, len(aggs))
	for id, agg := range aggs {
		dim := dims[id]
		profiles = append(profiles, Profile{
			CustomerID: id,
			City:       dim.City,
			State:      dim.State,
			Recency:    int(referenceDate.Sub(agg.lastPurchase).Hours() / 24),
			Frequency:  len(agg.orders),
			Monetary:   agg.monetary,
		})
	}

	// Stable base order so recomputation over unchanged input is
	// byte-for-byte identical.
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CustomerID < profiles[j].CustomerID
	})

	scoreRecency(profiles)
	scoreFrequency(profiles)
	scoreMonetary(profiles)

	for i := range profiles {
		p := &profiles[i]
		p.Segment = fmt.Sprintf("%d%d%d", p.RecencyScore, p.FrequencyScore, p.MonetaryScore)
	}

	return profiles, nil
}

// scoreRecency buckets by recency ascending: the most recent purchasers
// land in bucket 1.
func scoreRecency(profiles []Profile) {
	scores := quintiles(len(profiles), func(i, j int) bool {
		if profiles[i].Recency != profiles[j].Recency {
			return profiles[i].Recency < profiles[j].Recency
		}
		return profiles[i].CustomerID < profiles[j].CustomerID
	})
	for i, s := range scores {
		profiles[i].RecencyScore = s
	}
}

// scoreFrequency buckets by order count descending: the most frequent
// buyers land in bucket 1.
func scoreFrequency(profiles []Profile) {
	scores := quintiles(len(profiles), func(i, j int) bool {
		if profiles[i].Frequency != profiles[j].Frequency {
			return profiles[i].Frequency > profiles[j].Frequency
		}
		return profiles[i].CustomerID < profiles[j].CustomerID
	})
	for i, s := range scores {
		profiles[i].FrequencyScore = s
	}
}

// scoreMonetary buckets by lifetime spend descending: the biggest
// spenders land in bucket 1.
func scoreMonetary(profiles []Profile) {
	scores := quintiles(len(profiles), func(i, j int) bool {
		if profiles[i].Monetary != profiles[j].Monetary {
			return profiles[i].Monetary > profiles[j].Monetary
		}
		return profiles[i].CustomerID < profiles[j].CustomerID
	})
	for i, s := range scores {
		profiles[i].MonetaryScore = s
	}
}

// quintiles splits n ranked elements into 5 contiguous buckets and
// returns the 1-based bucket index per element, indexed by original
// position. Bucket sizes are n/5 rounded up for the first n mod 5
// buckets and rounded down for the rest, so sizes differ by at most 1
// and earlier (better) buckets get the larger share. less ranks
// elements best-first and must impose a total order; callers break
// value ties on customer id so bucket assignment is deterministic.
func quintiles(n int, less func(i, j int) bool) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return less(order[a], order[b])
	})

	scores := make([]int, n)
	base, remainder := n/5, n%5

	pos := 0
	for bucket := 1; bucket <= 5; bucket++ {
		size := base
		if bucket <= remainder {
			size++
		}
		for k := 0; k < size; k++ {
			scores[order[pos]] = bucket
			pos++
		}
	}
	return scores
}

// TopN returns the n best customers, best cohort first. Since score 1
// denotes the best cohort on every dimension, profiles sort ascending by
// (monetary score, frequency score, recency score), with raw spend and
// customer id as deterministic tie-breaks.
func TopN(profiles []Profile, n int) []Profile {
	if n < 0 {
		n = 0
	}
	ranked := make([]Profile, len(profiles))
	copy(ranked, profiles)

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.MonetaryScore != b.MonetaryScore {
			return a.MonetaryScore < b.MonetaryScore
		}
		if a.FrequencyScore != b.FrequencyScore {
			return a.FrequencyScore < b.FrequencyScore
		}
		if a.RecencyScore != b.RecencyScore {
			return a.RecencyScore < b.RecencyScore
		}
		if a.Monetary != b.Monetary {
			return a.Monetary > b.Monetary
		}
		return a.CustomerID < b.CustomerID
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// SortForMaterialization orders profiles the way the persisted profile
// table lays them out: (monetary score, frequency score, recency score,
// customer id), which matches the dominant filter/sort pattern of the
// downstream reporting queries.
func SortForMaterialization(profiles []Profile) {
	sort.Slice(profiles, func(i, j int) bool {
		a, b := profiles[i], profiles[j]
		if a.MonetaryScore != b.MonetaryScore {
			return a.MonetaryScore < b.MonetaryScore
		}
		if a.FrequencyScore != b.FrequencyScore {
			return a.FrequencyScore < b.FrequencyScore
		}
		if a.RecencyScore != b.RecencyScore {
			return a.RecencyScore < b.RecencyScore
		}
		return a.CustomerID < b.CustomerID
	})
}
