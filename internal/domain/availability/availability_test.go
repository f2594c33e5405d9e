package availability

import (
	"reflect"
	"testing"
	"time"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/hotel"
	"stayfinder/internal/domain/shared/daterange"
)

func stay(t *testing.T, adults, children int, from, to string) *booking.Booking {
	t.Helper()
	checkIn, err := time.Parse("2006-01-02", from)
	if err != nil {
		t.Fatal(err)
	}
	checkOut, err := time.Parse("2006-01-02", to)
	if err != nil {
		t.Fatal(err)
	}
	dr, err := daterange.New(checkIn, checkOut)
	if err != nil {
		t.Fatal(err)
	}
	return &booking.Booking{AdultCount: adults, ChildCount: children, Range: dr}
}

func TestComputeEmptyLedger(t *testing.T) {
	br := Compute(hotel.Capacity{Adults: 4, Children: 2}, nil)
	if br.AvailableAdults != 4 || br.AvailableChildren != 2 || br.AvailableCapacity != 6 {
		t.Fatalf("unexpected breakdown: %+v", br)
	}
	if br.IsFullyBooked || br.IsAdultsFullyBooked || br.IsChildrenFullyBooked {
		t.Fatalf("empty ledger must not be fully booked: %+v", br)
	}
}

func TestComputeSumsPools(t *testing.T) {
	overlap := []*booking.Booking{
		stay(t, 3, 0, "2025-01-01", "2025-01-05"),
		stay(t, 0, 2, "2025-01-02", "2025-01-04"),
	}
	br := Compute(hotel.Capacity{Adults: 4, Children: 2}, overlap)
	if br.TotalBookedAdults != 3 || br.TotalBookedChildren != 2 {
		t.Fatalf("booked sums wrong: %+v", br)
	}
	if br.AvailableAdults != 1 {
		t.Fatalf("AvailableAdults = %d, want 1", br.AvailableAdults)
	}
	if !br.IsChildrenFullyBooked {
		t.Fatal("children pool should be exhausted")
	}
	if br.IsFullyBooked {
		t.Fatal("combined pool still has one place")
	}
	if br.OverlappingBookings != 2 {
		t.Fatalf("OverlappingBookings = %d, want 2", br.OverlappingBookings)
	}
}

func TestComputeGoesNegativeInsteadOfFailing(t *testing.T) {
	// Over-booked by a race: the breakdown reports negative availability
	// rather than erroring.
	overlap := []*booking.Booking{stay(t, 5, 1, "2025-01-01", "2025-01-05")}
	br := Compute(hotel.Capacity{Adults: 4, Children: 0}, overlap)
	if br.AvailableAdults != -1 {
		t.Fatalf("AvailableAdults = %d, want -1", br.AvailableAdults)
	}
	if br.AvailableChildren != -1 {
		t.Fatalf("AvailableChildren = %d, want -1", br.AvailableChildren)
	}
	if !br.IsFullyBooked || !br.IsAdultsFullyBooked {
		t.Fatalf("over capacity must flag fully booked: %+v", br)
	}
}

func TestComputeIsPure(t *testing.T) {
	capacity := hotel.Capacity{Adults: 3, Children: 1}
	overlap := []*booking.Booking{stay(t, 2, 1, "2025-03-10", "2025-03-12")}
	first := Compute(capacity, overlap)
	second := Compute(capacity, overlap)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same inputs produced different breakdowns:\n%+v\n%+v", first, second)
	}
}

func TestAdmitPrefersSubPoolReason(t *testing.T) {
	// One adult place left, children pool open: the adult sub-pool reason
	// must win over the combined pool even though both would reject.
	br := Compute(hotel.Capacity{Adults: 4, Children: 2}, []*booking.Booking{
		stay(t, 3, 0, "2025-01-01", "2025-01-05"),
	})
	rej := br.Admit(2, 0)
	if rej == nil {
		t.Fatal("expected rejection")
	}
	if rej.Kind != booking.DynamicAvailabilityExceeded || rej.Pool != booking.PoolAdults {
		t.Fatalf("want adult availability rejection, got %+v", rej)
	}
	if rej.Limit != 1 || rej.Requested != 2 {
		t.Fatalf("rejection numbers wrong: %+v", rej)
	}
}

func TestAdmitCombinedPool(t *testing.T) {
	br := Compute(hotel.Capacity{Adults: 2, Children: 2}, []*booking.Booking{
		stay(t, 1, 1, "2025-01-01", "2025-01-05"),
	})
	// Each sub-pool has one place, but together the request needs three.
	rej := br.Admit(1, 2)
	if rej == nil || rej.Pool != booking.PoolChildren {
		t.Fatalf("children sub-pool should reject first, got %+v", rej)
	}
	if ok := br.Admit(1, 1); ok != nil {
		t.Fatalf("fitting request rejected: %+v", ok)
	}
}
