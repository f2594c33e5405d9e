package booking

import (
	"time"

	"stayfinder/internal/domain/hotel"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

// Event is the payload published to the broker after a ledger change has
// been committed. It is a notification surface, not a durability point.
type Event struct {
	Name       string    `json:"name"`
	BookingID  ID        `json:"booking_id"`
	HotelID    hotel.ID  `json:"hotel_id"`
	AdultCount int       `json:"adult_count"`
	ChildCount int       `json:"child_count"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	TotalCost  float64   `json:"total_cost"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(name string, b *Booking, at time.Time) Event {
	return Event{
		Name:       name,
		BookingID:  b.ID,
		HotelID:    b.HotelID,
		AdultCount: b.AdultCount,
		ChildCount: b.ChildCount,
		CheckIn:    b.Range.CheckIn,
		CheckOut:   b.Range.CheckOut,
		TotalCost:  b.TotalCost,
		OccurredAt: at.UTC(),
	}
}
