package pipeline

import (
	"sort"
	"time"

	"zapintel/internal"
	"zapintel/internal/util"
)

// Aggregations accumulate in first-seen order and sort with stable
// sorts, so equal keys keep input order and reruns over the same
// tables produce identical reports.

// InactiveCustomers reports every phone whose most recent order is
// older than thresholdDays as of now. Orders with no parsed date are
// ignored; a phone with only undated orders is excluded entirely,
// since its inactivity cannot be determined. Customer details are
// attached when the customer list knows the phone.
func InactiveCustomers(orders []internal.Order, customers []internal.Customer, thresholdDays int, now time.Time) []internal.InactiveCustomer {
	type lastSeen struct {
		phone string
		at    time.Time
	}
	index := map[string]int{}
	var latest []lastSeen
	for _, order := range orders {
		if order.ClosedAt == nil {
			continue
		}
		i, seen := index[order.Phone]
		if !seen {
			index[order.Phone] = len(latest)
			latest = append(latest, lastSeen{phone: order.Phone, at: *order.ClosedAt})
			continue
		}
		if order.ClosedAt.After(latest[i].at) {
			latest[i].at = *order.ClosedAt
		}
	}

	byPhone := customersByPhone(customers)
	out := make([]internal.InactiveCustomer, 0)
	for _, entry := range latest {
		days := util.DaysBetween(entry.at, now)
		if days <= thresholdDays {
			continue
		}
		row := internal.InactiveCustomer{
			Phone:        entry.phone,
			LastOrder:    entry.at,
			DaysInactive: days,
		}
		if customer, ok := byPhone[entry.phone]; ok {
			row.FirstName = customer.FirstName
			row.Neighborhood = customer.Neighborhood
			row.OrderCount = customer.OrderCount
		}
		out = append(out, row)
	}
	return out
}

// HighTicketCustomers reports the phones whose average order value is
// at least minAverage, with the totals behind the average.
func HighTicketCustomers(orders []internal.Order, customers []internal.Customer, minAverage float64) []internal.HighTicketCustomer {
	type bucket struct {
		phone string
		total float64
		count int
		last  *time.Time
	}
	index := map[string]int{}
	var buckets []bucket
	for _, order := range orders {
		i, seen := index[order.Phone]
		if !seen {
			i = len(buckets)
			index[order.Phone] = i
			buckets = append(buckets, bucket{phone: order.Phone})
		}
		buckets[i].total += order.Total
		buckets[i].count++
		if order.ClosedAt != nil && (buckets[i].last == nil || order.ClosedAt.After(*buckets[i].last)) {
			at := *order.ClosedAt
			buckets[i].last = &at
		}
	}

	byPhone := customersByPhone(customers)
	out := make([]internal.HighTicketCustomer, 0)
	for _, b := range buckets {
		average := b.total / float64(b.count)
		if average < minAverage {
			continue
		}
		row := internal.HighTicketCustomer{
			Phone:         b.phone,
			AverageTicket: average,
			TotalSpent:    b.total,
			OrderCount:    b.count,
			LastOrder:     b.last,
		}
		if customer, ok := byPhone[b.phone]; ok {
			row.FirstName = customer.FirstName
			row.Neighborhood = customer.Neighborhood
		}
		out = append(out, row)
	}
	return out
}

const topNeighborhoods = 10

// AnalyzeGeography rolls orders up by normalized neighborhood. The
// empty neighborhood is a group of its own; dropping it would hide the
// orders whose source had no usable value.
func AnalyzeGeography(orders []internal.Order) internal.GeographicReport {
	type bucket struct {
		name    string
		revenue float64
		count   int
		phones  map[string]struct{}
	}
	index := map[string]int{}
	var buckets []bucket
	for _, order := range orders {
		i, seen := index[order.Neighborhood]
		if !seen {
			i = len(buckets)
			index[order.Neighborhood] = i
			buckets = append(buckets, bucket{name: order.Neighborhood, phones: map[string]struct{}{}})
		}
		buckets[i].revenue += order.Total
		buckets[i].count++
		buckets[i].phones[order.Phone] = struct{}{}
	}

	stats := make([]internal.NeighborhoodStats, 0, len(buckets))
	for _, b := range buckets {
		stats = append(stats, internal.NeighborhoodStats{
			Neighborhood:    b.name,
			Revenue:         b.revenue,
			AverageTicket:   b.revenue / float64(b.count),
			OrderCount:      b.count,
			UniqueCustomers: len(b.phones),
		})
	}

	return internal.GeographicReport{
		Neighborhoods: stats,
		TopByRevenue: topNeighborhoodsBy(stats, func(a, b internal.NeighborhoodStats) bool {
			return a.Revenue > b.Revenue
		}),
		TopByOrders: topNeighborhoodsBy(stats, func(a, b internal.NeighborhoodStats) bool {
			return a.OrderCount > b.OrderCount
		}),
	}
}

func topNeighborhoodsBy(stats []internal.NeighborhoodStats, less func(a, b internal.NeighborhoodStats) bool) []internal.NeighborhoodStats {
	sorted := make([]internal.NeighborhoodStats, len(stats))
	copy(sorted, stats)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	if len(sorted) > topNeighborhoods {
		sorted = sorted[:topNeighborhoods]
	}
	return sorted
}

const (
	topProducts           = 20
	categoriesPerCustomer = 3
)

// AnalyzePreferences computes product popularity and each customer's
// top categories from the joined order lines.
func AnalyzePreferences(lines []internal.OrderLine) internal.PreferencesReport {
	productIndex := map[string]int{}
	var products []internal.ProductSales
	for _, line := range lines {
		i, seen := productIndex[line.Product]
		if !seen {
			i = len(products)
			productIndex[line.Product] = i
			products = append(products, internal.ProductSales{Product: line.Product})
		}
		products[i].Quantity += line.Quantity
		products[i].Revenue += line.Revenue
	}
	sort.SliceStable(products, func(i, j int) bool { return products[i].Quantity > products[j].Quantity })
	if len(products) > topProducts {
		products = products[:topProducts]
	}

	type customerPrefs struct {
		phone      string
		categories []internal.CategoryPreference
		index      map[string]int
	}
	customerIndex := map[string]int{}
	var perCustomer []customerPrefs
	for _, line := range lines {
		i, seen := customerIndex[line.Phone]
		if !seen {
			i = len(perCustomer)
			customerIndex[line.Phone] = i
			perCustomer = append(perCustomer, customerPrefs{phone: line.Phone, index: map[string]int{}})
		}
		prefs := &perCustomer[i]
		j, seen := prefs.index[line.Category]
		if !seen {
			j = len(prefs.categories)
			prefs.index[line.Category] = j
			prefs.categories = append(prefs.categories, internal.CategoryPreference{Phone: line.Phone, Category: line.Category})
		}
		prefs.categories[j].Quantity += line.Quantity
		prefs.categories[j].Revenue += line.Revenue
	}

	top := make([]internal.CategoryPreference, 0, len(perCustomer)*categoriesPerCustomer)
	for _, prefs := range perCustomer {
		sort.SliceStable(prefs.categories, func(i, j int) bool {
			return prefs.categories[i].Quantity > prefs.categories[j].Quantity
		})
		limit := len(prefs.categories)
		if limit > categoriesPerCustomer {
			limit = categoriesPerCustomer
		}
		top = append(top, prefs.categories[:limit]...)
	}

	return internal.PreferencesReport{TopProducts: products, TopCategories: top}
}

func customersByPhone(customers []internal.Customer) map[string]internal.Customer {
	byPhone := make(map[string]internal.Customer, len(customers))
	for _, customer := range customers {
		if _, exists := byPhone[customer.Phone]; !exists {
			byPhone[customer.Phone] = customer
		}
	}
	return byPhone
}
