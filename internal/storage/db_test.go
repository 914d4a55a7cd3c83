package storage

import (
	"path/filepath"
	"testing"
	"time"

	"zapintel/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "zapintel.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestReplaceRunRoundTrip(t *testing.T) {
	db := openTestDB(t)

	closed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	contacts := []internal.Contact{
		{Name: "LT_01 Maria", RawPhone: "(11) 99999-1111", Phone: "11999991111", MarketingOptIn: true},
	}
	customers := []internal.Customer{
		{Phone: "11999991111", Name: "Maria Souza", FirstName: "Maria", Neighborhood: "centro", OrderCount: "3",
			Raw: internal.RawRecord{"Fone Principal": "(11) 99999-1111"}},
	}
	orders := []internal.Order{
		{Phone: "11999991111", Code: "100", Customer: "Maria", Neighborhood: "centro", ClosedAt: &closed, Total: 50, Origin: "app"},
		{Phone: "19988882222", Code: "101", Total: 20},
	}
	items := []internal.OrderItem{
		{OrderCode: "100", Product: "Frango Frito", Category: "Frango", Quantity: 2, Total: 40, ClosedAt: &closed},
	}

	if err := db.ReplaceRun(contacts, customers, orders, items); err != nil {
		t.Fatal(err)
	}

	gotOrders, err := db.ListOrders()
	if err != nil {
		t.Fatal(err)
	}
	if len(gotOrders) != 2 {
		t.Fatalf("orders=%d", len(gotOrders))
	}
	if gotOrders[0].Code != "100" || gotOrders[0].Total != 50 {
		t.Fatalf("order: %+v", gotOrders[0])
	}
	if gotOrders[0].ClosedAt == nil || !gotOrders[0].ClosedAt.Equal(closed) {
		t.Fatalf("closedAt: %v", gotOrders[0].ClosedAt)
	}
	if gotOrders[1].ClosedAt != nil {
		t.Fatal("undated order should come back undated")
	}

	gotCustomers, err := db.ListCustomers()
	if err != nil {
		t.Fatal(err)
	}
	if len(gotCustomers) != 1 || gotCustomers[0].FirstName != "Maria" {
		t.Fatalf("customers: %+v", gotCustomers)
	}
	if gotCustomers[0].Raw["Fone Principal"] != "(11) 99999-1111" {
		t.Fatalf("raw record lost: %+v", gotCustomers[0].Raw)
	}

	gotItems, err := db.ListOrderItems()
	if err != nil {
		t.Fatal(err)
	}
	if len(gotItems) != 1 || gotItems[0].Quantity != 2 || gotItems[0].ClosedAt == nil {
		t.Fatalf("items: %+v", gotItems)
	}
}

func TestReplaceRunDropsPreviousRows(t *testing.T) {
	db := openTestDB(t)

	first := []internal.Order{{Phone: "11999991111", Code: "1"}, {Phone: "11999991111", Code: "2"}}
	if err := db.ReplaceRun(nil, nil, first, nil); err != nil {
		t.Fatal(err)
	}
	second := []internal.Order{{Phone: "19988882222", Code: "9"}}
	if err := db.ReplaceRun(nil, nil, second, nil); err != nil {
		t.Fatal(err)
	}

	got, err := db.ListOrders()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Code != "9" {
		t.Fatalf("orders: %+v", got)
	}
}

func TestSaveLeadsDeduplicatesByPhone(t *testing.T) {
	db := openTestDB(t)

	inserted, err := db.SaveLeads([]internal.Lead{
		{Name: "LT_01 Maria", Phone: "11999991111"},
		{Name: "LT_01 José", Phone: "19988882222"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if inserted != 2 {
		t.Fatalf("inserted=%d", inserted)
	}

	inserted, err = db.SaveLeads([]internal.Lead{
		{Name: "LT_01 Maria", Phone: "11999991111"},
		{Name: "LT_01 Ana", Phone: "19977773333"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if inserted != 1 {
		t.Fatalf("repeat phone should be skipped, inserted=%d", inserted)
	}
}

func TestInsertRun(t *testing.T) {
	db := openTestDB(t)

	if err := db.InsertRun("abc123", map[string]int{"orders": 2, "leads": 1}); err != nil {
		t.Fatal(err)
	}
}
