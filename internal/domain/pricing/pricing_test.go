package pricing

import (
	"testing"
	"time"

	"stayfinder/internal/domain/shared/daterange"
)

func TestQuote(t *testing.T) {
	cases := []struct {
		name   string
		rate   float64
		adults int
		nights int
		want   float64
	}{
		{"two adults three nights", 100, 2, 3, 600},
		{"no adults", 100, 0, 3, 0},
		{"single night", 79.5, 1, 1, 79.5},
		{"children never contribute", 120, 4, 2, 960},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Quote(tc.rate, tc.adults, tc.nights); got != tc.want {
				t.Fatalf("Quote(%v, %d, %d) = %v, want %v", tc.rate, tc.adults, tc.nights, got, tc.want)
			}
		})
	}
}

func TestQuoteStay(t *testing.T) {
	dr, err := daterange.New(
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatal(err)
	}
	total, err := QuoteStay(100, 2, dr)
	if err != nil {
		t.Fatal(err)
	}
	if total != 600 {
		t.Fatalf("QuoteStay = %v, want 600", total)
	}
	if _, err := QuoteStay(0, 2, dr); err != ErrInvalidRate {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
}
