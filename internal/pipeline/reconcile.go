package pipeline

import (
	"fmt"

	"zapintel/internal"
	"zapintel/internal/util"
)

// FindNewLeads returns the customers whose phone is absent from the
// contacts export, named the way the contacts importer expects
// ("LT_01 {first name}"). Customers without a usable first name are
// skipped, and output preserves customer-table order so the exported
// file is deterministic.
func FindNewLeads(contacts []internal.Contact, customers []internal.Customer) []internal.Lead {
	known := make(map[string]struct{}, len(contacts))
	for _, contact := range contacts {
		known[contact.Phone] = struct{}{}
	}

	leads := make([]internal.Lead, 0)
	for _, customer := range customers {
		if _, exists := known[customer.Phone]; exists {
			continue
		}
		if customer.FirstName == "" {
			continue
		}
		leads = append(leads, internal.Lead{
			Name:  fmt.Sprintf("%s01 %s", util.MarketingTagPrefix, customer.FirstName),
			Phone: customer.Phone,
		})
	}
	return leads
}

// JoinItemsToOrders attaches each item to the order carrying its code.
// Orphan items are dropped; orders with a blank code or no items
// contribute no lines. Line order follows order-table order, then
// item-table order within an order.
func JoinItemsToOrders(items []internal.OrderItem, orders []internal.Order) []internal.OrderLine {
	byCode := make(map[string][]internal.OrderItem, len(orders))
	for _, item := range items {
		if item.OrderCode == "" {
			continue
		}
		byCode[item.OrderCode] = append(byCode[item.OrderCode], item)
	}

	lines := make([]internal.OrderLine, 0, len(items))
	for _, order := range orders {
		if order.Code == "" {
			continue
		}
		for _, item := range byCode[order.Code] {
			lines = append(lines, internal.OrderLine{
				Phone:     order.Phone,
				OrderCode: order.Code,
				Product:   item.Product,
				Category:  item.Category,
				Quantity:  item.Quantity,
				Revenue:   item.Total,
			})
		}
	}
	return lines
}
