package rfm

import (
	"errors"
	"testing"
)

func TestSummarize(t *testing.T) {
	items := []LineItem{
		item("order-1", "cust-a", 1, 10, 2),
		item("order-2", "cust-b", 2, 20, 3),
	}

	got, ok := Summarize(items)
	if !ok {
		t.Fatal("Summarize reported no data for a non-empty item set")
	}
	if got.TotalRevenue != 35 {
		t.Errorf("TotalRevenue = %v, want 35", got.TotalRevenue)
	}
	if got.TotalOrders != 2 {
		t.Errorf("TotalOrders = %d, want 2", got.TotalOrders)
	}
	if got.AverageOrderValue != 17.5 {
		t.Errorf("AverageOrderValue = %v, want 17.5", got.AverageOrderValue)
	}
}

func TestSummarizeCountsDistinctOrders(t *testing.T) {
	items := []LineItem{
		item("order-1", "cust-a", 1, 10, 2),
		item("order-1", "cust-a", 1, 20, 3),
	}

	got, ok := Summarize(items)
	if !ok {
		t.Fatal("Summarize reported no data")
	}
	if got.TotalOrders != 1 {
		t.Errorf("TotalOrders = %d, want 1 (two items, one order)", got.TotalOrders)
	}
	if got.AverageOrderValue != 35 {
		t.Errorf("AverageOrderValue = %v, want 35", got.AverageOrderValue)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	// An empty order set yields an explicit no-data result rather than
	// a divide-by-zero fault.
	got, ok := Summarize(nil)
	if ok {
		t.Error("Summarize reported data for an empty item set")
	}
	if got != (Summary{}) {
		t.Errorf("Expected zero summary, got %+v", got)
	}
}

func TestSalesByState(t *testing.T) {
	customers := []Customer{
		{ID: "cust-sp1", City: "sao paulo", State: "SP"},
		{ID: "cust-sp2", City: "campinas", State: "SP"},
		{ID: "cust-rj1", City: "rio de janeiro", State: "RJ"},
	}
	items := []LineItem{
		item("order-1", "cust-sp1", 1, 100, 10),
		item("order-2", "cust-sp2", 2, 50, 5),
		item("order-3", "cust-rj1", 3, 30, 3),
	}

	got, err := SalesByState(items, customers)
	if err != nil {
		t.Fatalf("SalesByState failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 states, got %d", len(got))
	}
	if got[0].State != "SP" || got[0].Revenue != 165 || got[0].Orders != 2 || got[0].Customers != 2 {
		t.Errorf("SP aggregate wrong: %+v", got[0])
	}
	if got[1].State != "RJ" || got[1].Revenue != 33 || got[1].Orders != 1 || got[1].Customers != 1 {
		t.Errorf("RJ aggregate wrong: %+v", got[1])
	}
}

func TestSalesByStateUnknownCustomer(t *testing.T) {
	items := []LineItem{item("order-9", "cust-ghost", 1, 10, 1)}

	_, err := SalesByState(items, nil)
	if err == nil {
		t.Fatal("Expected error for orphaned fact row, got nil")
	}
	var unknown *UnknownCustomerError
	if !errors.As(err, &unknown) {
		t.Fatalf("Expected UnknownCustomerError, got %T", err)
	}
}
