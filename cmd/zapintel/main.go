package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"zapintel/internal"
	"zapintel/internal/config"
	"zapintel/internal/export"
	"zapintel/internal/ingest"
	"zapintel/internal/neighborhood"
	"zapintel/internal/pipeline"
	"zapintel/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", cfg.InputDir, "directory with the source exports")
		out := fs.String("out", cfg.OutputDir, "directory for report files")
		days := fs.Int("inactive-days", cfg.InactiveDays, "inactivity threshold in days")
		minTicket := fs.Float64("min-ticket", cfg.MinTicketAverage, "minimum average ticket")
		_ = fs.Parse(os.Args[2:])

		run, db := processRun(cfg, *input, *days, *minTicket)
		defer db.Close()

		leads := run.NewLeads()
		inactive := run.Inactive()
		highTicket := run.HighTicket()
		geo := run.Geography()
		prefs := run.Preferences()

		must(db.ReplaceRun(run.Contacts, run.Customers, run.Orders, run.OrderItems))
		saved, err := db.SaveLeads(leads)
		must(err)
		must(db.InsertRun(traceID(), map[string]int{
			"contacts":   len(run.Contacts),
			"customers":  len(run.Customers),
			"orders":     len(run.Orders),
			"orderItems": len(run.OrderItems),
			"newLeads":   len(leads),
			"inactive":   len(inactive),
			"highTicket": len(highTicket),
		}))

		must(export.WriteLeadsCSV(leads, filepath.Join(*out, "novos_clientes_google_contacts.csv")))
		must(export.WriteInactiveXLSX(inactive, filepath.Join(*out, "clientes_inativos.xlsx")))
		must(export.WriteHighTicketXLSX(highTicket, filepath.Join(*out, "clientes_alto_ticket.xlsx")))
		must(export.WriteGeographyXLSX(geo, filepath.Join(*out, "analise_geografica.xlsx")))
		must(export.WriteTopProductsXLSX(prefs, filepath.Join(*out, "produtos_mais_vendidos.xlsx")))

		fmt.Printf("process done contacts=%d customers=%d orders=%d items=%d newLeads=%d (%d unseen) inactive=%d highTicket=%d\n",
			len(run.Contacts), len(run.Customers), len(run.Orders), len(run.OrderItems),
			len(leads), saved, len(inactive), len(highTicket))
	case "leads:new":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", cfg.InputDir, "directory with the source exports")
		out := fs.String("out", "", "output csv path")
		_ = fs.Parse(os.Args[2:])

		run, db := processRun(cfg, *input, cfg.InactiveDays, cfg.MinTicketAverage)
		defer db.Close()
		leads := run.NewLeads()
		if *out != "" {
			must(export.WriteLeadsCSV(leads, *out))
		}
		for _, lead := range leads {
			fmt.Printf("%s;%s\n", lead.Name, lead.Phone)
		}
		fmt.Printf("new leads: %d\n", len(leads))
	case "report:inactive":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		days := fs.Int("days", cfg.InactiveDays, "inactivity threshold in days")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])

		orders, customers, _ := storedRecords(cfg)
		rows := pipeline.InactiveCustomers(orders, customers, *days, time.Now())
		if *out != "" {
			must(export.WriteInactiveXLSX(rows, *out))
		}
		for _, row := range rows {
			fmt.Printf("%s last=%s days=%d\n", row.Phone, row.LastOrder.Format("02/01/2006"), row.DaysInactive)
		}
		fmt.Printf("inactive customers: %d (threshold %d days)\n", len(rows), *days)
	case "report:ticket":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		min := fs.Float64("min", cfg.MinTicketAverage, "minimum average ticket")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])

		orders, customers, _ := storedRecords(cfg)
		rows := pipeline.HighTicketCustomers(orders, customers, *min)
		if *out != "" {
			must(export.WriteHighTicketXLSX(rows, *out))
		}
		for _, row := range rows {
			fmt.Printf("%s avg=%.2f total=%.2f orders=%d\n", row.Phone, row.AverageTicket, row.TotalSpent, row.OrderCount)
		}
		fmt.Printf("high ticket customers: %d (min %.2f)\n", len(rows), *min)
	case "report:geo":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])

		orders, _, _ := storedRecords(cfg)
		report := pipeline.AnalyzeGeography(orders)
		if *out != "" {
			must(export.WriteGeographyXLSX(report, *out))
		}
		for _, stats := range report.TopByRevenue {
			fmt.Printf("%s revenue=%.2f orders=%d customers=%d\n",
				stats.Neighborhood, stats.Revenue, stats.OrderCount, stats.UniqueCustomers)
		}
	case "report:products":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])

		orders, _, items := storedRecords(cfg)
		report := pipeline.AnalyzePreferences(pipeline.JoinItemsToOrders(items, orders))
		if *out != "" {
			must(export.WriteTopProductsXLSX(report, *out))
		}
		for _, product := range report.TopProducts {
			fmt.Printf("%s qty=%.0f revenue=%.2f\n", product.Product, product.Quantity, product.Revenue)
		}
	default:
		usage()
		os.Exit(1)
	}
}

// processRun loads whatever source files the input directory holds and
// normalizes them into one run.
func processRun(cfg config.Config, inputDir string, days int, minTicket float64) (*pipeline.Run, *storage.DB) {
	inputs, err := ingest.Discover(inputDir)
	must(err)

	tables := pipeline.Tables{}
	load := func(path string, kind internal.TableKind, dst *internal.RawTable) {
		if path == "" {
			return
		}
		table, err := ingest.LoadFile(path, kind)
		must(err)
		fmt.Printf("loaded %s: %d rows\n", table.Name, len(table.Rows))
		*dst = table
	}
	load(inputs.Contacts, internal.KindContacts, &tables.Contacts)
	load(inputs.Customers, internal.KindCustomers, &tables.Customers)
	load(inputs.Orders, internal.KindOrders, &tables.Orders)
	load(inputs.OrderItems, internal.KindOrderItems, &tables.OrderItems)

	aliases := neighborhood.Default()
	if cfg.AliasPath != "" {
		aliases, err = neighborhood.Load(cfg.AliasPath)
		must(err)
	}

	run, err := pipeline.Process(tables, pipeline.Options{
		Aliases:      aliases,
		InactiveDays: days,
		MinTicket:    minTicket,
	})
	must(err)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	return run, db
}

func storedRecords(cfg config.Config) ([]internal.Order, []internal.Customer, []internal.OrderItem) {
	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	orders, err := db.ListOrders()
	must(err)
	customers, err := db.ListCustomers()
	must(err)
	items, err := db.ListOrderItems()
	must(err)
	return orders, customers, items
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

func usage() {
	fmt.Println("usage: zapintel <command>")
	fmt.Println("commands:")
	fmt.Println("  process [--input=dir] [--out=dir] [--inactive-days=30] [--min-ticket=50]")
	fmt.Println("  leads:new [--input=dir] [--out=file.csv]")
	fmt.Println("  report:inactive [--days=30] [--out=file.xlsx]")
	fmt.Println("  report:ticket [--min=50] [--out=file.xlsx]")
	fmt.Println("  report:geo [--out=file.xlsx]")
	fmt.Println("  report:products [--out=file.xlsx]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
