package util

import (
	"testing"
	"time"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		fallback float64
		want     float64
	}{
		{name: "plain integer", input: "40", want: 40},
		{name: "plain decimal", input: "12.5", want: 12.5},
		{name: "decimal comma", input: "12,5", want: 12.5},
		{name: "currency prefix", input: "R$ 1.234,56", want: 1234.56},
		{name: "thousand dot only", input: "1.000", want: 1000},
		{name: "empty uses fallback", input: "", fallback: 1, want: 1},
		{name: "garbage uses fallback", input: "abc", fallback: 0, want: 0},
		{name: "negative", input: "-10,50", want: -10.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseAmount(tc.input, tc.fallback); got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got := ParseDate("01/01/2024")
	if got == nil {
		t.Fatal("date did not parse")
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}

	if ParseDate("2024-01-01") != nil {
		t.Fatal("ISO date should not parse")
	}
	if ParseDate("") != nil {
		t.Fatal("empty should not parse")
	}
	if ParseDate("31/02/2024") != nil {
		t.Fatal("impossible date should not parse")
	}

	withTime := ParseDate("15/06/2024 19:32")
	if withTime == nil || withTime.Day() != 15 || withTime.Month() != time.June {
		t.Fatalf("trailing time part not tolerated: %v", withTime)
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 40 {
		t.Fatalf("got %d want 40", got)
	}
}
