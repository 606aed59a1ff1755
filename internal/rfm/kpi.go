package rfm

import "sort"

// Summary holds the headline KPIs over a line-item set.
type Summary struct {
	TotalRevenue      float64
	TotalOrders       int
	AverageOrderValue float64
}

// Summarize computes total revenue (price + freight), distinct order
// count and average order value. The second return value is false when
// the item set is empty, so callers get an explicit no-data result
// instead of a division by zero.
func Summarize(items []LineItem) (Summary, bool) {
	if len(items) == 0 {
		return Summary{}, false
	}

	orders := make(map[string]struct{})
	var revenue float64
	for _, it := range items {
		orders[it.OrderID] = struct{}{}
		revenue += it.Price + it.FreightValue
	}

	return Summary{
		TotalRevenue:      revenue,
		TotalOrders:       len(orders),
		AverageOrderValue: revenue / float64(len(orders)),
	}, true
}

// StateSales aggregates revenue and order volume for one customer state.
type StateSales struct {
	State     string
	Revenue   float64
	Orders    int
	Customers int
}

// SalesByState aggregates revenue, distinct orders and distinct
// customers per customer state, highest revenue first. A fact row whose
// customer has no dimension row fails the aggregation, matching Compute.
func SalesByState(items []LineItem, customers []Customer) ([]StateSales, error) {
	dims := make(map[string]Customer, len(customers))
	for _, c := range customers {
		dims[c.ID] = c
	}

	type stateAgg struct {
		revenue   float64
		orders    map[string]struct{}
		customers map[string]struct{}
	}

	aggs := make(map[string]*stateAgg)
	for _, it := range items {
		dim, ok := dims[it.CustomerID]
		if !ok {
			return nil, &UnknownCustomerError{OrderID: it.OrderID, CustomerID: it.CustomerID}
		}
		agg, ok := aggs[dim.State]
		if !ok {
			agg = &stateAgg{
				orders:    make(map[string]struct{}),
				customers: make(map[string]struct{}),
			}
			aggs[dim.State] = agg
		}
		agg.revenue += it.Price + it.FreightValue
		agg.orders[it.OrderID] = struct{}{}
		agg.customers[it.CustomerID] = struct{}{}
	}

	result := make([]StateSales, 0, len(aggs))
	for state, agg := range aggs {
		result = append(result, StateSales{
			State:     state,
			Revenue:   agg.revenue,
			Orders:    len(agg.orders),
			Customers: len(agg.customers),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Revenue != result[j].Revenue {
			return result[i].Revenue > result[j].Revenue
		}
		return result[i].State < result[j].State
	})

	return result, nil
}
