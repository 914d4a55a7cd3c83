package pipeline

import (
	"sync"
	"time"

	"zapintel/internal"
	"zapintel/internal/neighborhood"
)

// Options carries the run-level knobs. Zero values fall back to the
// business defaults the reports were designed around.
type Options struct {
	Aliases      neighborhood.AliasTable
	InactiveDays int
	MinTicket    float64
	Now          time.Time
}

const (
	DefaultInactiveDays = 30
	DefaultMinTicket    = 50.0
)

func (o Options) withDefaults() Options {
	if o.Aliases == nil {
		o.Aliases = neighborhood.Default()
	}
	if o.InactiveDays == 0 {
		o.InactiveDays = DefaultInactiveDays
	}
	if o.MinTicket == 0 {
		o.MinTicket = DefaultMinTicket
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// Tables is the raw input of one run. A nil Rows slice with empty
// headers means the source file was absent; the matching canonical set
// simply comes out empty.
type Tables struct {
	Contacts   internal.RawTable
	Customers  internal.RawTable
	Orders     internal.RawTable
	OrderItems internal.RawTable
}

// Run is one processing pass: the four canonical record sets plus the
// options they were built with. It is constructed fresh per run and
// never stored globally, so concurrent runs cannot see each other.
type Run struct {
	opts Options

	Contacts   []internal.Contact
	Customers  []internal.Customer
	Orders     []internal.Order
	OrderItems []internal.OrderItem
}

// Process normalizes all four tables into a new Run. The processors
// are independent and run concurrently; reconciliation and aggregation
// wait on all of them. A table-level resolution failure on any input
// fails the whole run with the first error in table order.
func Process(tables Tables, opts Options) (*Run, error) {
	opts = opts.withDefaults()
	run := &Run{opts: opts}

	var wg sync.WaitGroup
	errs := make([]error, 4)
	wg.Add(4)
	go func() {
		defer wg.Done()
		run.Contacts, errs[0] = ProcessContacts(tables.Contacts)
	}()
	go func() {
		defer wg.Done()
		run.Customers, errs[1] = ProcessCustomers(tables.Customers, opts.Aliases)
	}()
	go func() {
		defer wg.Done()
		run.Orders, errs[2] = ProcessOrders(tables.Orders, opts.Aliases)
	}()
	go func() {
		defer wg.Done()
		run.OrderItems, errs[3] = ProcessOrderItems(tables.OrderItems)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return run, nil
}

// NewLeads reconciles customers against contacts.
func (r *Run) NewLeads() []internal.Lead {
	return FindNewLeads(r.Contacts, r.Customers)
}

// Lines joins the item history onto the orders.
func (r *Run) Lines() []internal.OrderLine {
	return JoinItemsToOrders(r.OrderItems, r.Orders)
}

// Inactive builds the inactivity report with the run's threshold.
func (r *Run) Inactive() []internal.InactiveCustomer {
	return InactiveCustomers(r.Orders, r.Customers, r.opts.InactiveDays, r.opts.Now)
}

// HighTicket builds the average-ticket report with the run's minimum.
func (r *Run) HighTicket() []internal.HighTicketCustomer {
	return HighTicketCustomers(r.Orders, r.Customers, r.opts.MinTicket)
}

// Geography builds the per-neighborhood report.
func (r *Run) Geography() internal.GeographicReport {
	return AnalyzeGeography(r.Orders)
}

// Preferences builds the product and category report.
func (r *Run) Preferences() internal.PreferencesReport {
	return AnalyzePreferences(r.Lines())
}
