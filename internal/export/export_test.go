package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"zapintel/internal"
)

func readSheet(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestWriteLeadsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "novos_clientes.csv")
	leads := []internal.Lead{
		{Name: "LT_01 Maria", Phone: "11999991111"},
		{Name: "LT_01 José", Phone: "19988882222"},
	}
	if err := WriteLeadsCSV(leads, path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("records=%d", len(records))
	}
	if records[0][0] != "nome" || records[0][1] != "telefone" {
		t.Fatalf("header: %v", records[0])
	}
	if records[1][0] != "LT_01 Maria" || records[1][1] != "11999991111" {
		t.Fatalf("row: %v", records[1])
	}
}

func TestWriteInactiveXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clientes_inativos.xlsx")
	last := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	rows := []internal.InactiveCustomer{
		{Phone: "11999991111", LastOrder: last, DaysInactive: 45, FirstName: "Maria", Neighborhood: "centro", OrderCount: "3"},
	}
	if err := WriteInactiveXLSX(rows, path); err != nil {
		t.Fatal(err)
	}

	got := readSheet(t, path)
	if len(got) != 2 {
		t.Fatalf("rows=%d", len(got))
	}
	if got[0][0] != "telefone" || got[0][6] != "whatsapp" {
		t.Fatalf("header: %v", got[0])
	}
	if got[1][3] != "15/01/2024" {
		t.Fatalf("date: %q", got[1][3])
	}
	if got[1][6] != "https://wa.me/5511999991111" {
		t.Fatalf("link: %q", got[1][6])
	}
}

func TestWriteHighTicketXLSXUndatedCustomer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clientes_alto_ticket.xlsx")
	rows := []internal.HighTicketCustomer{
		{Phone: "11999991111", AverageTicket: 75.5, TotalSpent: 151, OrderCount: 2, FirstName: "Maria"},
	}
	if err := WriteHighTicketXLSX(rows, path); err != nil {
		t.Fatal(err)
	}

	got := readSheet(t, path)
	if len(got) != 2 {
		t.Fatalf("rows=%d", len(got))
	}
	// GetRows trims trailing empty cells, so the blank date column may be
	// absent from the returned row.
	if len(got[1]) > 6 && got[1][6] != "" {
		t.Fatalf("date should be empty: %v", got[1])
	}
}

func TestWriteGeographyXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analise_geografica.xlsx")
	report := internal.GeographicReport{
		Neighborhoods: []internal.NeighborhoodStats{
			{Neighborhood: "centro", Revenue: 100, AverageTicket: 50, OrderCount: 2, UniqueCustomers: 2},
			{Neighborhood: "fontanella", Revenue: 60, AverageTicket: 60, OrderCount: 1, UniqueCustomers: 1},
		},
	}
	if err := WriteGeographyXLSX(report, path); err != nil {
		t.Fatal(err)
	}

	got := readSheet(t, path)
	if len(got) != 3 {
		t.Fatalf("rows=%d", len(got))
	}
	if got[1][0] != "centro" || got[2][0] != "fontanella" {
		t.Fatalf("order: %v", got)
	}
}

func TestWriteTopProductsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "produtos_mais_vendidos.xlsx")
	report := internal.PreferencesReport{
		TopProducts: []internal.ProductSales{
			{Product: "Frango Frito", Quantity: 10, Revenue: 200},
		},
	}
	if err := WriteTopProductsXLSX(report, path); err != nil {
		t.Fatal(err)
	}

	got := readSheet(t, path)
	if len(got) != 2 || got[1][0] != "Frango Frito" {
		t.Fatalf("rows: %v", got)
	}
}
