package pipeline

import (
	"testing"
	"time"

	"zapintel/internal"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestInactiveCustomers(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	orders := []internal.Order{
		{Phone: "1111111111", ClosedAt: datePtr(2024, 1, 21)}, // 40 days before now
		{Phone: "1111111111", ClosedAt: datePtr(2024, 1, 10)}, // older, must not win
		{Phone: "2222222222", ClosedAt: datePtr(2024, 2, 20)}, // 10 days before now
		{Phone: "3333333333", ClosedAt: nil},                  // undated only
	}
	customers := []internal.Customer{
		{Phone: "1111111111", FirstName: "Maria", Neighborhood: "centro", OrderCount: "5"},
	}

	inactive := InactiveCustomers(orders, customers, 30, now)
	if len(inactive) != 1 {
		t.Fatalf("len=%d", len(inactive))
	}
	row := inactive[0]
	if row.Phone != "1111111111" || row.DaysInactive != 40 {
		t.Fatalf("row: %+v", row)
	}
	if row.FirstName != "Maria" || row.Neighborhood != "centro" || row.OrderCount != "5" {
		t.Fatalf("customer enrichment missing: %+v", row)
	}
}

func TestInactiveCustomersExcludesUndatedOnly(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	orders := []internal.Order{
		{Phone: "1111111111", ClosedAt: nil},
		{Phone: "1111111111", ClosedAt: nil},
	}
	if got := InactiveCustomers(orders, nil, 30, now); len(got) != 0 {
		t.Fatalf("len=%d, undated-only phones cannot be judged inactive", len(got))
	}
}

func TestInactiveCustomersThresholdBoundary(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	orders := []internal.Order{
		{Phone: "1111111111", ClosedAt: datePtr(2024, 1, 31)}, // exactly 30 days
	}
	if got := InactiveCustomers(orders, nil, 30, now); len(got) != 0 {
		t.Fatalf("len=%d, exactly-at-threshold is not inactive", len(got))
	}
}

func TestHighTicketCustomers(t *testing.T) {
	orders := []internal.Order{
		{Phone: "1111111111", Total: 60, ClosedAt: datePtr(2024, 1, 1)},
		{Phone: "1111111111", Total: 40, ClosedAt: datePtr(2024, 2, 1)},
		{Phone: "2222222222", Total: 120, ClosedAt: datePtr(2024, 1, 15)},
	}
	customers := []internal.Customer{{Phone: "2222222222", FirstName: "Rui", Neighborhood: "centro"}}

	rows := HighTicketCustomers(orders, customers, 60)
	if len(rows) != 1 {
		t.Fatalf("len=%d, average 50 must not pass a 60 minimum", len(rows))
	}
	row := rows[0]
	if row.Phone != "2222222222" || row.AverageTicket != 120 || row.TotalSpent != 120 || row.OrderCount != 1 {
		t.Fatalf("row: %+v", row)
	}
	if row.FirstName != "Rui" {
		t.Fatalf("enrichment missing: %+v", row)
	}

	rows = HighTicketCustomers(orders, customers, 50)
	if len(rows) != 2 {
		t.Fatalf("len=%d, average exactly at the minimum qualifies", len(rows))
	}
	if rows[0].Phone != "1111111111" || rows[0].AverageTicket != 50 {
		t.Fatalf("row: %+v", rows[0])
	}
	if rows[0].LastOrder == nil || rows[0].LastOrder.Month() != time.February {
		t.Fatalf("lastOrder=%v", rows[0].LastOrder)
	}
}

func TestAnalyzeGeography(t *testing.T) {
	orders := []internal.Order{
		{Phone: "1111111111", Neighborhood: "centro", Total: 100},
		{Phone: "2222222222", Neighborhood: "centro", Total: 50},
		{Phone: "1111111111", Neighborhood: "fontanella", Total: 200},
		{Phone: "3333333333", Neighborhood: "", Total: 30},
	}

	report := AnalyzeGeography(orders)
	if len(report.Neighborhoods) != 3 {
		t.Fatalf("groups=%d, empty neighborhood is its own group", len(report.Neighborhoods))
	}

	centro := report.Neighborhoods[0]
	if centro.Neighborhood != "centro" || centro.Revenue != 150 || centro.OrderCount != 2 || centro.UniqueCustomers != 2 {
		t.Fatalf("centro: %+v", centro)
	}
	if centro.AverageTicket != 75 {
		t.Fatalf("avg=%v", centro.AverageTicket)
	}

	if report.TopByRevenue[0].Neighborhood != "fontanella" {
		t.Fatalf("top revenue: %+v", report.TopByRevenue[0])
	}
	if report.TopByOrders[0].Neighborhood != "centro" {
		t.Fatalf("top orders: %+v", report.TopByOrders[0])
	}
}

func TestAnalyzeGeographyStableTies(t *testing.T) {
	orders := []internal.Order{
		{Phone: "1", Neighborhood: "aaa", Total: 10},
		{Phone: "2", Neighborhood: "bbb", Total: 10},
	}
	report := AnalyzeGeography(orders)
	if report.TopByRevenue[0].Neighborhood != "aaa" || report.TopByRevenue[1].Neighborhood != "bbb" {
		t.Fatalf("tie broken against input order: %+v", report.TopByRevenue)
	}
}

func TestAnalyzePreferences(t *testing.T) {
	lines := []internal.OrderLine{
		{Phone: "1111111111", Category: "Frangos", Product: "Frango Inteiro", Quantity: 3, Revenue: 120},
		{Phone: "1111111111", Category: "Bebidas", Product: "Refrigerante", Quantity: 5, Revenue: 30},
		{Phone: "1111111111", Category: "Sobremesas", Product: "Pudim", Quantity: 1, Revenue: 12},
		{Phone: "1111111111", Category: "Acompanhamentos", Product: "Farofa", Quantity: 1, Revenue: 8},
		{Phone: "2222222222", Category: "Frangos", Product: "Frango Inteiro", Quantity: 2, Revenue: 80},
	}

	report := AnalyzePreferences(lines)

	if report.TopProducts[0].Product != "Frango Inteiro" || report.TopProducts[0].Quantity != 5 {
		t.Fatalf("top product: %+v", report.TopProducts[0])
	}

	perPhone := map[string]int{}
	for _, pref := range report.TopCategories {
		perPhone[pref.Phone]++
	}
	if perPhone["1111111111"] != 3 {
		t.Fatalf("customer with four categories should keep three, got %d", perPhone["1111111111"])
	}
	if perPhone["2222222222"] != 1 {
		t.Fatalf("got %d", perPhone["2222222222"])
	}

	if report.TopCategories[0].Category != "Bebidas" {
		t.Fatalf("first customer's top category should be its highest quantity, got %+v", report.TopCategories[0])
	}
}

func TestAggregationsTolerateEmptyInput(t *testing.T) {
	if got := InactiveCustomers(nil, nil, 30, time.Now()); len(got) != 0 {
		t.Fatal("inactive on nil orders")
	}
	if got := HighTicketCustomers(nil, nil, 50); len(got) != 0 {
		t.Fatal("high ticket on nil orders")
	}
	report := AnalyzeGeography(nil)
	if len(report.Neighborhoods) != 0 {
		t.Fatal("geography on nil orders")
	}
	prefs := AnalyzePreferences(nil)
	if len(prefs.TopProducts) != 0 || len(prefs.TopCategories) != 0 {
		t.Fatal("preferences on nil lines")
	}
}
