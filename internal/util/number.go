package util

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reAmountJunk = regexp.MustCompile(`[^0-9.,\-]`)
	reThousands  = regexp.MustCompile(`^-?\d{1,3}(?:\.\d{3})+$`)
)

// ParseAmount reads a currency or numeric cell. Accepts plain floats,
// "R$ 1.234,56" style pt-BR values and thousand-separated forms.
// Unparsable input yields the fallback so sums and averages downstream
// stay well-defined.
func ParseAmount(raw string, fallback float64) float64 {
	token := strings.TrimSpace(raw)
	if token == "" {
		return fallback
	}
	token = strings.ReplaceAll(token, " ", "")
	token = reAmountJunk.ReplaceAllString(token, "")
	token = normalizeNumericToken(token)
	parsed, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func normalizeNumericToken(token string) string {
	compact := strings.ReplaceAll(token, " ", "")
	if strings.Contains(compact, ",") {
		// Comma present: it is the decimal separator, dots group thousands.
		compact = strings.ReplaceAll(compact, ".", "")
		compact = strings.ReplaceAll(compact, ",", ".")
		return compact
	}
	if reThousands.MatchString(compact) {
		return strings.ReplaceAll(compact, ".", "")
	}
	return compact
}

const dateLayout = "02/01/2006"

// ParseDate reads a DD/MM/YYYY cell, tolerating a trailing time part.
// Nil means the row keeps its other fields but is excluded from any
// date-bounded analysis.
func ParseDate(raw string) *time.Time {
	token := strings.TrimSpace(raw)
	if token == "" {
		return nil
	}
	if datePart, _, ok := strings.Cut(token, " "); ok {
		token = datePart
	}
	for _, layout := range []string{dateLayout, "2/1/2006"} {
		if parsed, err := time.Parse(layout, token); err == nil {
			return &parsed
		}
	}
	return nil
}

// DaysBetween is the whole number of days from a to b, floored.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
