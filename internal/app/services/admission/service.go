// Package admission decides whether a booking request becomes a ledger entry
// or a structured rejection. It is the only writer of the booking ledger.
package admission

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stayfinder/internal/app/policies"
	"stayfinder/internal/app/uow"
	"stayfinder/internal/domain/availability"
	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
	"stayfinder/internal/domain/pricing"
	"stayfinder/internal/domain/shared/daterange"
	domainuser "stayfinder/internal/domain/user"
)

var ErrFactoryRequired = errors.New("admission: unit of work factory required")

type Service struct {
	UoW    uow.Factory
	Events policies.BookingEvents
	Logger *slog.Logger
}

type AttemptParams struct {
	HotelID    domainhotel.ID
	UserID     domainuser.ID
	FirstName  string
	LastName   string
	Email      string
	AdultCount int
	ChildCount int
	CheckIn    time.Time
	CheckOut   time.Time
}

// Actor identifies the caller of an authorization-sensitive operation. The
// identity itself was established upstream by the auth middleware.
type Actor struct {
	UserID domainuser.ID
	Role   domainuser.Role
}

// AttemptBooking runs the admission ladder: static capacity checks against
// the hotel alone, then a live availability recomputation against the
// overlap set, then quote and append. The dynamic check and the insert run
// inside one unit of work serialized per hotel, so two concurrent attempts
// for the last place cannot both pass.
func (s *Service) AttemptBooking(ctx context.Context, params AttemptParams) (*domainbooking.Booking, error) {
	if s.UoW == nil {
		return nil, ErrFactoryRequired
	}
	if params.AdultCount < 0 || params.ChildCount < 0 || params.AdultCount+params.ChildCount == 0 {
		return nil, domainbooking.ErrInvalidGuests
	}
	dr, err := daterange.New(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, err
	}

	unit, err := s.UoW.Begin(ctx, uow.TxOptions{HotelID: params.HotelID})
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(ctx)
		}
	}()
	txCtx := unit.Context(ctx)

	h, err := unit.Hotels().ByID(txCtx, params.HotelID)
	if err != nil {
		return nil, err
	}
	if rej := staticCheck(h.Capacity, params.AdultCount, params.ChildCount); rej != nil {
		return nil, rej
	}

	overlapping, err := unit.Bookings().Overlapping(txCtx, h.ID, dr)
	if err != nil {
		return nil, err
	}
	breakdown := availability.Compute(h.Capacity, overlapping)
	if rej := breakdown.Admit(params.AdultCount, params.ChildCount); rej != nil {
		return nil, rej
	}

	total, err := pricing.QuoteStay(h.PricePerNight, params.AdultCount, dr)
	if err != nil {
		return nil, err
	}
	entry, err := domainbooking.New(domainbooking.CreateParams{
		ID:         domainbooking.ID(uuid.NewString()),
		HotelID:    h.ID,
		UserID:     params.UserID,
		FirstName:  params.FirstName,
		LastName:   params.LastName,
		Email:      params.Email,
		AdultCount: params.AdultCount,
		ChildCount: params.ChildCount,
		Range:      dr,
		TotalCost:  total,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Bookings().Append(txCtx, entry); err != nil {
		return nil, err
	}
	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	committed = true

	s.publish(ctx, domainbooking.EventBookingConfirmed, entry)
	if s.Logger != nil {
		s.Logger.Info("booking admitted",
			"booking_id", entry.ID, "hotel_id", entry.HotelID,
			"adults", entry.AdultCount, "children", entry.ChildCount,
			"total_cost", entry.TotalCost)
	}
	return entry, nil
}

// Quote runs the static half of the ladder and prices the stay without
// touching the ledger. The payment collaborator charges this amount before
// the booking write is attempted.
func (s *Service) Quote(ctx context.Context, hotelID domainhotel.ID, adults, children int, checkIn, checkOut time.Time) (float64, error) {
	if s.UoW == nil {
		return 0, ErrFactoryRequired
	}
	if adults < 0 || children < 0 || adults+children == 0 {
		return 0, domainbooking.ErrInvalidGuests
	}
	dr, err := daterange.New(checkIn, checkOut)
	if err != nil {
		return 0, err
	}
	unit, err := s.UoW.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return 0, err
	}
	defer func() { _ = unit.Rollback(ctx) }()
	h, err := unit.Hotels().ByID(unit.Context(ctx), hotelID)
	if err != nil {
		return 0, err
	}
	if rej := staticCheck(h.Capacity, adults, children); rej != nil {
		return 0, rej
	}
	return pricing.QuoteStay(h.PricePerNight, adults, dr)
}

// Availability is the read path: capacity breakdown for a hotel and range.
// It never blocks admissions.
func (s *Service) Availability(ctx context.Context, hotelID domainhotel.ID, checkIn, checkOut time.Time) (availability.Breakdown, error) {
	if s.UoW == nil {
		return availability.Breakdown{}, ErrFactoryRequired
	}
	dr, err := daterange.New(checkIn, checkOut)
	if err != nil {
		return availability.Breakdown{}, err
	}
	unit, err := s.UoW.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return availability.Breakdown{}, err
	}
	defer func() { _ = unit.Rollback(ctx) }()
	txCtx := unit.Context(ctx)

	h, err := unit.Hotels().ByID(txCtx, hotelID)
	if err != nil {
		return availability.Breakdown{}, err
	}
	overlapping, err := unit.Bookings().Overlapping(txCtx, h.ID, dr)
	if err != nil {
		return availability.Breakdown{}, err
	}
	return availability.Compute(h.Capacity, overlapping), nil
}

// Cancel removes a ledger entry. Allowed for the booking owner, the owner of
// the booked hotel, and admins. Cancellation only frees capacity, so it does
// not take the per-hotel admission lock.
func (s *Service) Cancel(ctx context.Context, bookingID domainbooking.ID, actor Actor) error {
	if s.UoW == nil {
		return ErrFactoryRequired
	}
	unit, err := s.UoW.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(ctx)
		}
	}()
	txCtx := unit.Context(ctx)

	entry, err := unit.Bookings().ByID(txCtx, bookingID)
	if err != nil {
		return err
	}
	allowed := entry.UserID == actor.UserID || actor.Role == domainuser.RoleAdmin
	if !allowed && actor.Role == domainuser.RoleHotelOwner {
		h, err := unit.Hotels().ByID(txCtx, entry.HotelID)
		if err == nil && h.OwnedBy(actor.UserID) {
			allowed = true
		}
	}
	if !allowed {
		return domainbooking.ErrNotAllowed
	}
	if err := unit.Bookings().Remove(txCtx, entry.ID); err != nil {
		return err
	}
	if err := unit.Commit(ctx); err != nil {
		return err
	}
	committed = true

	s.publish(ctx, domainbooking.EventBookingCancelled, entry)
	if s.Logger != nil {
		s.Logger.Info("booking cancelled", "booking_id", entry.ID, "hotel_id", entry.HotelID, "by", actor.UserID)
	}
	return nil
}

func staticCheck(capacity domainhotel.Capacity, adults, children int) *domainbooking.AdmissionError {
	if adults > capacity.Adults {
		return &domainbooking.AdmissionError{
			Kind:      domainbooking.StaticCapacityExceeded,
			Pool:      domainbooking.PoolAdults,
			Requested: adults,
			Limit:     capacity.Adults,
		}
	}
	if children > capacity.Children {
		return &domainbooking.AdmissionError{
			Kind:      domainbooking.StaticCapacityExceeded,
			Pool:      domainbooking.PoolChildren,
			Requested: children,
			Limit:     capacity.Children,
		}
	}
	if adults+children > capacity.Total() {
		return &domainbooking.AdmissionError{
			Kind:      domainbooking.StaticCapacityExceeded,
			Pool:      domainbooking.PoolTotal,
			Requested: adults + children,
			Limit:     capacity.Total(),
		}
	}
	return nil
}

func (s *Service) publish(ctx context.Context, name string, entry *domainbooking.Booking) {
	if s.Events == nil {
		return
	}
	event := domainbooking.NewEvent(name, entry, time.Now())
	if err := s.Events.Publish(ctx, event); err != nil && s.Logger != nil {
		s.Logger.Warn("booking event publish failed", "event", name, "booking_id", entry.ID, "error", err)
	}
}
