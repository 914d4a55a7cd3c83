// Package schema resolves which physical column of a source table
// plays which semantic role. Header names drift between file vintages,
// so every role carries a prioritized candidate list and resolution
// happens once per table, not per row.
package schema

import (
	"fmt"
	"strings"

	"zapintel/internal"
	"zapintel/internal/util"
)

// Role is a closed enumeration of the field meanings the processors
// need out of a source table.
type Role string

const (
	RolePhone        Role = "phone"
	RoleName         Role = "name"
	RoleNeighborhood Role = "neighborhood"
	RoleClosingDate  Role = "closing_date"
	RoleSubtotal     Role = "subtotal"
	RoleDeliveryFee  Role = "delivery_fee"
	RoleOrderCode    Role = "order_code"
	RoleOrigin       Role = "origin"
	RoleOrderCount   Role = "order_count"
	RoleProduct      Role = "product"
	RoleCategory     Role = "category"
	RoleQuantity     Role = "quantity"
	RoleItemTotal    Role = "item_total"
)

// RoleSpec names one role a processor needs and the headers that may
// carry it, in preference order.
type RoleSpec struct {
	Role       Role
	Candidates []string
	Required   bool
}

// Resolution maps each resolved role to the physical column name to
// read for every row of the table.
type Resolution map[Role]string

// Column returns the resolved column for a role, or "" when the role
// was optional and absent.
func (r Resolution) Column(role Role) string { return r[role] }

// UnresolvedRolesError reports the required roles no header satisfied,
// together with the table's actual headers so an operator can see what
// the file really contained. The table is not partially processed.
type UnresolvedRolesError struct {
	Table   string
	Roles   []Role
	Headers []string
}

func (e *UnresolvedRolesError) Error() string {
	names := make([]string, len(e.Roles))
	for i, role := range e.Roles {
		names[i] = string(role)
	}
	return fmt.Sprintf("table %s: unresolved columns for %s (headers: %s)",
		e.Table, strings.Join(names, ", "), strings.Join(e.Headers, ", "))
}

// Resolve matches each role's candidates against the table headers.
// For the phone role a value-sampling fallback runs when no header
// matches: it is a heuristic, tried last and for that role only.
func Resolve(table internal.RawTable, specs []RoleSpec) (Resolution, error) {
	present := make(map[string]struct{}, len(table.Headers))
	for _, header := range table.Headers {
		present[header] = struct{}{}
	}

	resolution := Resolution{}
	var missing []Role
	for _, spec := range specs {
		column := ""
		for _, candidate := range spec.Candidates {
			if _, ok := present[candidate]; ok {
				column = candidate
				break
			}
		}
		if column == "" && spec.Role == RolePhone {
			column = guessPhoneColumn(table)
		}
		if column == "" {
			if spec.Required {
				missing = append(missing, spec.Role)
			}
			continue
		}
		resolution[spec.Role] = column
	}

	if len(missing) > 0 {
		return nil, &UnresolvedRolesError{Table: table.Name, Roles: missing, Headers: table.Headers}
	}
	return resolution, nil
}

const phoneSampleRows = 10

// guessPhoneColumn samples up to ten rows per column and picks the
// first column whose values look like phone numbers. Header names win
// whenever they exist; this only runs when none of them did.
func guessPhoneColumn(table internal.RawTable) string {
	for _, header := range table.Headers {
		sampled, hits := 0, 0
		for _, row := range table.Rows {
			value := strings.TrimSpace(row[header])
			if value == "" {
				continue
			}
			sampled++
			if util.IsValidPhone(value) {
				hits++
			}
			if sampled == phoneSampleRows {
				break
			}
		}
		if hits > 0 {
			return header
		}
	}
	return ""
}
