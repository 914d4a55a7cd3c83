// Package pipeline holds the normalization, reconciliation and
// aggregation core. Everything here is pure in-memory computation over
// one run's tables; files, databases and networks belong to the callers.
package pipeline

import (
	"strings"

	"zapintel/internal"
	"zapintel/internal/neighborhood"
	"zapintel/internal/schema"
	"zapintel/internal/util"
)

// ProcessContacts normalizes the contacts export. Rows without a
// usable phone are dropped; the marketing opt-in flag comes from the
// campaign tag on the name.
func ProcessContacts(table internal.RawTable) ([]internal.Contact, error) {
	if len(table.Headers) == 0 {
		return nil, nil
	}
	resolved, err := schema.Resolve(table, schema.RolesFor(internal.KindContacts))
	if err != nil {
		return nil, err
	}
	nameCol := resolved.Column(schema.RoleName)
	phoneCol := resolved.Column(schema.RolePhone)

	out := make([]internal.Contact, 0, len(table.Rows))
	for _, row := range table.Rows {
		phone := util.NormalizePhone(row[phoneCol])
		if phone == "" {
			continue
		}
		name := row[nameCol]
		out = append(out, internal.Contact{
			Name:           name,
			RawPhone:       row[phoneCol],
			Phone:          phone,
			MarketingOptIn: strings.HasPrefix(name, util.MarketingTagPrefix),
		})
	}
	return out, nil
}

// ProcessCustomers normalizes the customer list. Name and neighborhood
// columns are optional; only the phone is load-bearing.
func ProcessCustomers(table internal.RawTable, aliases neighborhood.AliasTable) ([]internal.Customer, error) {
	if len(table.Headers) == 0 {
		return nil, nil
	}
	resolved, err := schema.Resolve(table, schema.RolesFor(internal.KindCustomers))
	if err != nil {
		return nil, err
	}
	phoneCol := resolved.Column(schema.RolePhone)
	nameCol := resolved.Column(schema.RoleName)
	bairroCol := resolved.Column(schema.RoleNeighborhood)
	countCol := resolved.Column(schema.RoleOrderCount)

	out := make([]internal.Customer, 0, len(table.Rows))
	for _, row := range table.Rows {
		phone := util.NormalizePhone(row[phoneCol])
		if phone == "" {
			continue
		}
		customer := internal.Customer{Phone: phone, Raw: row}
		if nameCol != "" {
			customer.Name = row[nameCol]
			customer.FirstName = util.FirstName(row[nameCol])
		}
		if bairroCol != "" {
			customer.Neighborhood = aliases.Normalize(row[bairroCol])
		}
		if countCol != "" {
			customer.OrderCount = row[countCol]
		}
		out = append(out, customer)
	}
	return out, nil
}

// ProcessOrders normalizes the order history. Orders with no phone are
// walk-in or table sales with no customer identity and are dropped;
// an order with an unparsable closing date is kept with a nil date.
func ProcessOrders(table internal.RawTable, aliases neighborhood.AliasTable) ([]internal.Order, error) {
	if len(table.Headers) == 0 {
		return nil, nil
	}
	resolved, err := schema.Resolve(table, schema.RolesFor(internal.KindOrders))
	if err != nil {
		return nil, err
	}
	phoneCol := resolved.Column(schema.RolePhone)
	dateCol := resolved.Column(schema.RoleClosingDate)
	subtotalCol := resolved.Column(schema.RoleSubtotal)
	feeCol := resolved.Column(schema.RoleDeliveryFee)
	bairroCol := resolved.Column(schema.RoleNeighborhood)
	customerCol := resolved.Column(schema.RoleName)
	codeCol := resolved.Column(schema.RoleOrderCode)
	originCol := resolved.Column(schema.RoleOrigin)

	out := make([]internal.Order, 0, len(table.Rows))
	for _, row := range table.Rows {
		phone := util.NormalizePhone(row[phoneCol])
		if phone == "" {
			continue
		}

		order := internal.Order{
			Phone:    phone,
			Code:     row[codeCol],
			Customer: row[customerCol],
			Origin:   row[originCol],
			Total:    util.ParseAmount(row[subtotalCol], 0) + util.ParseAmount(row[feeCol], 0),
		}
		if dateCol != "" {
			order.ClosedAt = util.ParseDate(row[dateCol])
		}
		if bairroCol != "" {
			order.Neighborhood = aliases.Normalize(row[bairroCol])
		}
		out = append(out, order)
	}
	return out, nil
}

// ProcessOrderItems normalizes the sold-items history. There is no
// phone requirement: every row is kept, and items that belong to no
// known order fall out later at join time.
func ProcessOrderItems(table internal.RawTable) ([]internal.OrderItem, error) {
	if len(table.Headers) == 0 {
		return nil, nil
	}
	resolved, err := schema.Resolve(table, schema.RolesFor(internal.KindOrderItems))
	if err != nil {
		return nil, err
	}
	codeCol := resolved.Column(schema.RoleOrderCode)
	productCol := resolved.Column(schema.RoleProduct)
	categoryCol := resolved.Column(schema.RoleCategory)
	qtyCol := resolved.Column(schema.RoleQuantity)
	totalCol := resolved.Column(schema.RoleItemTotal)
	dateCol := resolved.Column(schema.RoleClosingDate)

	out := make([]internal.OrderItem, 0, len(table.Rows))
	for _, row := range table.Rows {
		item := internal.OrderItem{
			OrderCode: row[codeCol],
			Product:   row[productCol],
			Category:  row[categoryCol],
			Quantity:  util.ParseAmount(row[qtyCol], 1),
			Total:     util.ParseAmount(row[totalCol], 0),
		}
		if dateCol != "" {
			item.ClosedAt = util.ParseDate(row[dateCol])
		}
		out = append(out, item)
	}
	return out, nil
}
