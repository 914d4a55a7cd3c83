package util

import (
	"regexp"
	"strings"
)

var reNonDigit = regexp.MustCompile(`\D`)

// NormalizePhone strips everything but digits and rejects placeholder
// numbers. The empty string means "no usable phone" and callers treat
// it as a drop signal, never as a key.
func NormalizePhone(raw string) string {
	digits := reNonDigit.ReplaceAllString(raw, "")
	if digits == "" {
		return ""
	}
	// Catches the all-zero placeholders too: any of them starts with 000.
	if len(digits) < 10 || strings.HasPrefix(digits, "000") {
		return ""
	}
	return digits
}

// IsValidPhone reports whether raw normalizes to a plausible phone
// number (10 to 15 digits).
func IsValidPhone(raw string) bool {
	n := len(NormalizePhone(raw))
	return n >= 10 && n <= 15
}

// WhatsAppPhone produces the country-code form WhatsApp expects.
// Stricter than NormalizePhone: a number that survives normalization
// can still come out empty here.
func WhatsAppPhone(raw string) string {
	phone := NormalizePhone(raw)
	if phone == "" {
		return ""
	}
	if strings.HasPrefix(phone, "0") {
		phone = "55" + phone[1:]
	} else if !strings.HasPrefix(phone, "55") && len(phone) == 11 {
		phone = "55" + phone
	}
	if len(phone) < 12 || len(phone) > 15 {
		return ""
	}
	return phone
}

// WhatsAppLink builds a wa.me URL, or "" when the phone is unusable.
func WhatsAppLink(raw string) string {
	phone := WhatsAppPhone(raw)
	if phone == "" {
		return ""
	}
	return "https://wa.me/" + phone
}
