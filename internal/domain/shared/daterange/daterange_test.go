package daterange

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRejectsInvertedRange(t *testing.T) {
	if _, err := New(date(2025, 1, 12), date(2025, 1, 10)); err != ErrInvalidRange {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := New(date(2025, 1, 10), date(2025, 1, 10)); err != ErrInvalidRange {
		t.Fatalf("zero-night range: expected ErrInvalidRange, got %v", err)
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	booked, err := New(date(2025, 1, 10), date(2025, 1, 12))
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name     string
		in, out  time.Time
		overlaps bool
	}{
		{"checkin on checkout day", date(2025, 1, 12), date(2025, 1, 14), false},
		{"checkout on checkin day", date(2025, 1, 8), date(2025, 1, 10), false},
		{"straddles", date(2025, 1, 11), date(2025, 1, 13), true},
		{"contained", date(2025, 1, 10), date(2025, 1, 11), true},
		{"containing", date(2025, 1, 9), date(2025, 1, 13), true},
		{"disjoint after", date(2025, 1, 20), date(2025, 1, 22), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dr, err := New(tc.in, tc.out)
			if err != nil {
				t.Fatal(err)
			}
			if got := booked.Overlaps(dr); got != tc.overlaps {
				t.Fatalf("Overlaps(%v) = %v, want %v", dr, got, tc.overlaps)
			}
			if got := dr.Overlaps(booked); got != tc.overlaps {
				t.Fatalf("overlap must be symmetric")
			}
		})
	}
}

func TestNights(t *testing.T) {
	full, _ := New(date(2025, 1, 1), date(2025, 1, 4))
	if n := full.Nights(); n != 3 {
		t.Fatalf("Nights() = %d, want 3", n)
	}
	partial, _ := New(
		time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
	)
	if n := partial.Nights(); n != 1 {
		t.Fatalf("partial day should round up to 1 night, got %d", n)
	}
}
