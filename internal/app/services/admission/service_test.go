package admission

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/hotel"
	"stayfinder/internal/domain/user"
	"stayfinder/internal/infra/storage/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	service  *Service
	hotels   *memory.HotelRepository
	bookings *memory.BookingRepository
	hotel    *hotel.Hotel
}

func newFixture(t *testing.T, capacity hotel.Capacity) *fixture {
	t.Helper()
	hotels := memory.NewHotelRepository()
	bookings := memory.NewBookingRepository()

	h, err := hotel.New(hotel.CreateParams{
		ID:            "hotel-1",
		OwnerID:       "owner-1",
		Name:          "Harbour View",
		City:          "Brighton",
		Country:       "United Kingdom",
		Type:          "Boutique",
		PricePerNight: 100,
		StarRating:    4,
		Capacity:      capacity,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := hotels.Save(context.Background(), h); err != nil {
		t.Fatal(err)
	}

	return &fixture{
		service:  &Service{UoW: memory.NewFactory(hotels, bookings)},
		hotels:   hotels,
		bookings: bookings,
		hotel:    h,
	}
}

func (f *fixture) attempt(adults, children int, in, out time.Time) (*booking.Booking, error) {
	return f.service.AttemptBooking(context.Background(), AttemptParams{
		HotelID:    f.hotel.ID,
		UserID:     "guest-1",
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@example.com",
		AdultCount: adults,
		ChildCount: children,
		CheckIn:    in,
		CheckOut:   out,
	})
}

func admissionErr(t *testing.T, err error) *booking.AdmissionError {
	t.Helper()
	ae, ok := booking.AsAdmissionError(err)
	if !ok {
		t.Fatalf("expected AdmissionError, got %v", err)
	}
	return ae
}

func TestStaticAdultCapacityWinsOverEverything(t *testing.T) {
	// Capacity {2 adults, 1 child}, empty ledger: asking for 3 adults is a
	// static rejection even though nothing is booked.
	f := newFixture(t, hotel.Capacity{Adults: 2, Children: 1})
	_, err := f.attempt(3, 0, date(2025, 2, 1), date(2025, 2, 3))
	ae := admissionErr(t, err)
	if ae.Kind != booking.StaticCapacityExceeded || ae.Pool != booking.PoolAdults {
		t.Fatalf("want static adult rejection, got %+v", ae)
	}
	if ae.Limit != 2 || ae.Requested != 3 {
		t.Fatalf("rejection numbers wrong: %+v", ae)
	}
}

func TestStaticValidationOrder(t *testing.T) {
	f := newFixture(t, hotel.Capacity{Adults: 2, Children: 1})

	// Adult check runs first even when the children pool also overflows.
	_, err := f.attempt(3, 2, date(2025, 2, 1), date(2025, 2, 3))
	if ae := admissionErr(t, err); ae.Pool != booking.PoolAdults || ae.Kind != booking.StaticCapacityExceeded {
		t.Fatalf("want static adult rejection first, got %+v", ae)
	}

	_, err = f.attempt(1, 2, date(2025, 2, 1), date(2025, 2, 3))
	if ae := admissionErr(t, err); ae.Pool != booking.PoolChildren || ae.Kind != booking.StaticCapacityExceeded {
		t.Fatalf("want static children rejection, got %+v", ae)
	}

	// A request filling both pools exactly passes every static check.
	if _, err := f.attempt(2, 1, date(2025, 2, 1), date(2025, 2, 3)); err != nil {
		t.Fatalf("exact-fit request rejected: %v", err)
	}
}

func TestInvalidDateRange(t *testing.T) {
	f := newFixture(t, hotel.Capacity{Adults: 2, Children: 0})
	if _, err := f.attempt(1, 0, date(2025, 2, 3), date(2025, 2, 1)); err == nil {
		t.Fatal("inverted range must be rejected")
	}
	if _, err := f.attempt(1, 0, date(2025, 2, 1), date(2025, 2, 1)); err == nil {
		t.Fatal("zero-night range must be rejected")
	}
	// No partial record may remain after a rejected attempt.
	left, _ := f.bookings.ListByHotel(context.Background(), f.hotel.ID)
	if len(left) != 0 {
		t.Fatalf("rejected attempts left %d ledger entries", len(left))
	}
}

func TestHotelNotFound(t *testing.T) {
	f := newFixture(t, hotel.Capacity{Adults: 2, Children: 0})
	_, err := f.service.AttemptBooking(context.Background(), AttemptParams{
		HotelID:    "missing",
		UserID:     "guest-1",
		AdultCount: 1,
		CheckIn:    date(2025, 2, 1),
		CheckOut:   date(2025, 2, 3),
	})
	if !errors.Is(err, hotel.ErrNotFound) {
		t.Fatalf("want hotel.ErrNotFound, got %v", err)
	}
}

func TestDynamicRejectionAndBoundary(t *testing.T) {
	// Capacity {4 adults, 2 children} with one booking {3 adults, Jan 1-5}.
	f := newFixture(t, hotel.Capacity{Adults: 4, Children: 2})
	if _, err := f.attempt(3, 0, date(2025, 1, 1), date(2025, 1, 5)); err != nil {
		t.Fatal(err)
	}

	// Jan 3-6 overlaps: one adult place left, two requested.
	_, err := f.attempt(2, 0, date(2025, 1, 3), date(2025, 1, 6))
	ae := admissionErr(t, err)
	if ae.Kind != booking.DynamicAvailabilityExceeded || ae.Pool != booking.PoolAdults {
		t.Fatalf("want dynamic adult rejection, got %+v", ae)
	}
	if ae.Limit != 1 || ae.Requested != 2 {
		t.Fatalf("rejection numbers wrong: %+v", ae)
	}

	// Jan 5-6 does not overlap (checkout day equals check-in day).
	if _, err := f.attempt(1, 0, date(2025, 1, 5), date(2025, 1, 6)); err != nil {
		t.Fatalf("boundary booking must be admitted: %v", err)
	}
}

func TestQuotePricesAdultsOnly(t *testing.T) {
	f := newFixture(t, hotel.Capacity{Adults: 4, Children: 2})
	entry, err := f.attempt(2, 2, date(2025, 3, 1), date(2025, 3, 4))
	if err != nil {
		t.Fatal(err)
	}
	if entry.TotalCost != 600 { // 100/night * 2 adults * 3 nights
		t.Fatalf("TotalCost = %v, want 600", entry.TotalCost)
	}

	total, err := f.service.Quote(context.Background(), f.hotel.ID, 2, 1, date(2025, 3, 10), date(2025, 3, 13))
	if err != nil {
		t.Fatal(err)
	}
	if total != 600 {
		t.Fatalf("Quote = %v, want 600", total)
	}
}

func TestQuoteRunsStaticChecks(t *testing.T) {
	f := newFixture(t, hotel.Capacity{Adults: 2, Children: 1})
	_, err := f.service.Quote(context.Background(), f.hotel.ID, 5, 0, date(2025, 3, 1), date(2025, 3, 3))
	if ae := admissionErr(t, err); ae.Kind != booking.StaticCapacityExceeded {
		t.Fatalf("quote must apply static checks, got %+v", ae)
	}
}

func TestAvailabilityReadPath(t *testing.T) {
	f := newFixture(t, hotel.Capacity{Adults: 4, Children: 2})
	if _, err := f.attempt(3, 1, date(2025, 1, 1), date(2025, 1, 5)); err != nil {
		t.Fatal(err)
	}

	br, err := f.service.Availability(context.Background(), f.hotel.ID, date(2025, 1, 2), date(2025, 1, 4))
	if err != nil {
		t.Fatal(err)
	}
	if br.TotalBookedAdults != 3 || br.TotalBookedChildren != 1 {
		t.Fatalf("unexpected breakdown: %+v", br)
	}
	if br.AvailableAdults != 1 || br.AvailableChildren != 1 || br.AvailableCapacity != 2 {
		t.Fatalf("unexpected availability: %+v", br)
	}

	// A non-overlapping window sees the full capacity.
	br, err = f.service.Availability(context.Background(), f.hotel.ID, date(2025, 1, 5), date(2025, 1, 7))
	if err != nil {
		t.Fatal(err)
	}
	if br.AvailableAdults != 4 || br.OverlappingBookings != 0 {
		t.Fatalf("non-overlapping window should be empty: %+v", br)
	}
}

func TestConcurrentAdmissionsNeverOverbook(t *testing.T) {
	// Many goroutines race for a single remaining adult place; exactly one
	// may win and the rest must get a dynamic availability rejection.
	f := newFixture(t, hotel.Capacity{Adults: 3, Children: 0})
	if _, err := f.attempt(2, 0, date(2025, 5, 1), date(2025, 5, 8)); err != nil {
		t.Fatal(err)
	}

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.attempt(1, 0, date(2025, 5, 3), date(2025, 5, 6))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var admitted, rejected int
	for err := range results {
		if err == nil {
			admitted++
			continue
		}
		ae, ok := booking.AsAdmissionError(err)
		if !ok || ae.Kind != booking.DynamicAvailabilityExceeded {
			t.Fatalf("unexpected failure mode: %v", err)
		}
		rejected++
	}
	if admitted != 1 {
		t.Fatalf("admitted %d bookings for the last place, want exactly 1", admitted)
	}
	if rejected != attempts-1 {
		t.Fatalf("rejected %d, want %d", rejected, attempts-1)
	}

	br, err := f.service.Availability(context.Background(), f.hotel.ID, date(2025, 5, 3), date(2025, 5, 6))
	if err != nil {
		t.Fatal(err)
	}
	if br.AvailableAdults != 0 {
		t.Fatalf("ledger over/under-committed: %+v", br)
	}
}

func TestCancelAuthorization(t *testing.T) {
	f := newFixture(t, hotel.Capacity{Adults: 4, Children: 0})
	entry, err := f.attempt(2, 0, date(2025, 4, 1), date(2025, 4, 3))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	err = f.service.Cancel(ctx, entry.ID, Actor{UserID: "someone-else", Role: user.RoleUser})
	if !errors.Is(err, booking.ErrNotAllowed) {
		t.Fatalf("stranger cancel: want ErrNotAllowed, got %v", err)
	}
	err = f.service.Cancel(ctx, entry.ID, Actor{UserID: "other-owner", Role: user.RoleHotelOwner})
	if !errors.Is(err, booking.ErrNotAllowed) {
		t.Fatalf("non-owning hotel owner: want ErrNotAllowed, got %v", err)
	}

	// The hotel's owner may cancel, and capacity is freed.
	if err := f.service.Cancel(ctx, entry.ID, Actor{UserID: "owner-1", Role: user.RoleHotelOwner}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.bookings.ByID(ctx, entry.ID); !errors.Is(err, booking.ErrNotFound) {
		t.Fatalf("entry should be gone, got %v", err)
	}
	br, _ := f.service.Availability(ctx, f.hotel.ID, date(2025, 4, 1), date(2025, 4, 3))
	if br.AvailableAdults != 4 {
		t.Fatalf("cancellation must free capacity: %+v", br)
	}

	if err := f.service.Cancel(ctx, "missing", Actor{UserID: "guest-1", Role: user.RoleAdmin}); !errors.Is(err, booking.ErrNotFound) {
		t.Fatalf("missing booking: want ErrNotFound, got %v", err)
	}
}

func TestCapacityChangeTakesEffectImmediately(t *testing.T) {
	// Shrinking capacity below the booked load is accepted; future queries
	// simply report negative availability.
	f := newFixture(t, hotel.Capacity{Adults: 4, Children: 0})
	if _, err := f.attempt(4, 0, date(2025, 6, 1), date(2025, 6, 5)); err != nil {
		t.Fatal(err)
	}
	f.hotel.Capacity = hotel.Capacity{Adults: 2, Children: 0}
	if err := f.hotels.Save(context.Background(), f.hotel); err != nil {
		t.Fatal(err)
	}
	br, err := f.service.Availability(context.Background(), f.hotel.ID, date(2025, 6, 2), date(2025, 6, 3))
	if err != nil {
		t.Fatal(err)
	}
	if br.AvailableAdults != -2 || !br.IsFullyBooked {
		t.Fatalf("expected over-capacity report, got %+v", br)
	}
}
