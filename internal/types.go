package internal

import "time"

// TableKind identifies which of the four source exports a raw table
// came from.
type TableKind string

const (
	KindContacts   TableKind = "contacts"
	KindCustomers  TableKind = "customers"
	KindOrders     TableKind = "orders"
	KindOrderItems TableKind = "order_items"
)

// RawRecord is one row of one input table, keyed by column header.
// Produced by the loader, consumed by a record processor, then discarded.
type RawRecord map[string]string

// RawTable is a parsed input file: the header row plus every data row.
type RawTable struct {
	Name    string
	Kind    TableKind
	Headers []string
	Rows    []RawRecord
}

// Contact is a normalized row of the contacts export. Phone is the
// digits-only join key; MarketingOptIn mirrors the LT_ tag on the name.
type Contact struct {
	Name           string
	RawPhone       string
	Phone          string
	MarketingOptIn bool
}

// Customer is a normalized row of the customer list. Phone is always
// non-empty; rows without a usable phone never become Customers.
// Raw keeps the untouched source columns for enrichment lookups.
type Customer struct {
	Phone        string
	Name         string
	FirstName    string
	Neighborhood string
	OrderCount   string
	Raw          RawRecord
}

// Order is a normalized delivery order. Orders without a phone (table
// or counter sales) are dropped before this type is built. ClosedAt is
// nil when the source date did not parse.
type Order struct {
	Phone        string
	Code         string
	Customer     string
	Neighborhood string
	ClosedAt     *time.Time
	Total        float64
	Origin       string
}

// OrderItem is one sold line of the item history, joined to Order by code.
type OrderItem struct {
	OrderCode string
	Product   string
	Category  string
	Quantity  float64
	Total     float64
	ClosedAt  *time.Time
}

// OrderLine is an item attached to the order it belongs to. Items whose
// code matches no order never become lines.
type OrderLine struct {
	Phone     string
	OrderCode string
	Product   string
	Category  string
	Quantity  float64
	Revenue   float64
}

// Lead is a customer missing from the contacts export, formatted the
// way the contacts importer expects it.
type Lead struct {
	Name  string
	Phone string
}

// InactiveCustomer is one row of the inactivity report.
type InactiveCustomer struct {
	Phone        string
	LastOrder    time.Time
	DaysInactive int
	FirstName    string
	Neighborhood string
	OrderCount   string
}

// HighTicketCustomer is one row of the average-ticket report.
type HighTicketCustomer struct {
	Phone         string
	AverageTicket float64
	TotalSpent    float64
	OrderCount    int
	LastOrder     *time.Time
	FirstName     string
	Neighborhood  string
}

// NeighborhoodStats is the per-neighborhood rollup. An empty
// Neighborhood groups the orders whose source had no usable value.
type NeighborhoodStats struct {
	Neighborhood    string
	Revenue         float64
	AverageTicket   float64
	OrderCount      int
	UniqueCustomers int
}

// GeographicReport holds the full per-neighborhood table plus the two
// top-10 views.
type GeographicReport struct {
	Neighborhoods []NeighborhoodStats
	TopByRevenue  []NeighborhoodStats
	TopByOrders   []NeighborhoodStats
}

// ProductSales is aggregate demand for one product name.
type ProductSales struct {
	Product  string
	Quantity float64
	Revenue  float64
}

// CategoryPreference is one of a customer's top categories.
type CategoryPreference struct {
	Phone    string
	Category string
	Quantity float64
	Revenue  float64
}

// PreferencesReport combines product popularity with the per-customer
// category rankings.
type PreferencesReport struct {
	TopProducts   []ProductSales
	TopCategories []CategoryPreference
}
