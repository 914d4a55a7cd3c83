// Package export writes report files. All output formatting lives
// here; the pipeline hands over plain structs and never sees a file.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"zapintel/internal"
	"zapintel/internal/util"
)

// WriteLeadsCSV writes the new-lead list in the two-column layout the
// contacts importer consumes.
func WriteLeadsCSV(leads []internal.Lead, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"nome", "telefone"}); err != nil {
		return err
	}
	for _, lead := range leads {
		if err := w.Write([]string{lead.Name, lead.Phone}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteInactiveXLSX writes the inactivity report, one customer per row
// with a ready-to-use WhatsApp link.
func WriteInactiveXLSX(rows []internal.InactiveCustomer, outputPath string) error {
	headers := []string{"telefone", "primeiro_nome", "bairro", "ultimo_pedido", "dias_inativo", "qtd_pedidos", "whatsapp"}
	return writeSheet(outputPath, headers, len(rows), func(i int, set func(col int, value any)) {
		row := rows[i]
		set(1, row.Phone)
		set(2, row.FirstName)
		set(3, row.Neighborhood)
		set(4, row.LastOrder.Format("02/01/2006"))
		set(5, row.DaysInactive)
		set(6, row.OrderCount)
		set(7, util.WhatsAppLink(row.Phone))
	})
}

// WriteHighTicketXLSX writes the average-ticket report.
func WriteHighTicketXLSX(rows []internal.HighTicketCustomer, outputPath string) error {
	headers := []string{"telefone", "primeiro_nome", "bairro", "ticket_medio", "valor_total", "qtd_pedidos", "ultimo_pedido"}
	return writeSheet(outputPath, headers, len(rows), func(i int, set func(col int, value any)) {
		row := rows[i]
		set(1, row.Phone)
		set(2, row.FirstName)
		set(3, row.Neighborhood)
		set(4, row.AverageTicket)
		set(5, row.TotalSpent)
		set(6, row.OrderCount)
		set(7, formatDate(row.LastOrder))
	})
}

// WriteGeographyXLSX writes the full per-neighborhood table.
func WriteGeographyXLSX(report internal.GeographicReport, outputPath string) error {
	headers := []string{"bairro", "valor_total", "ticket_medio", "qtd_pedidos", "clientes_unicos"}
	rows := report.Neighborhoods
	return writeSheet(outputPath, headers, len(rows), func(i int, set func(col int, value any)) {
		row := rows[i]
		set(1, row.Neighborhood)
		set(2, row.Revenue)
		set(3, row.AverageTicket)
		set(4, row.OrderCount)
		set(5, row.UniqueCustomers)
	})
}

// WriteTopProductsXLSX writes the product popularity ranking.
func WriteTopProductsXLSX(report internal.PreferencesReport, outputPath string) error {
	headers := []string{"produto", "quantidade", "valor"}
	rows := report.TopProducts
	return writeSheet(outputPath, headers, len(rows), func(i int, set func(col int, value any)) {
		row := rows[i]
		set(1, row.Product)
		set(2, row.Quantity)
		set(3, row.Revenue)
	})
}

func writeSheet(outputPath string, headers []string, rowCount int, fill func(i int, set func(col int, value any))) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i := 0; i < rowCount; i++ {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
		fill(i, set)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save %s: %w", outputPath, err)
	}
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02/01/2006")
}
