package dto

import (
	"time"

	domainbooking "stayfinder/internal/domain/booking"
)

type Booking struct {
	ID         string    `json:"id"`
	HotelID    string    `json:"hotelId"`
	UserID     string    `json:"userId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	AdultCount int       `json:"adultCount"`
	ChildCount int       `json:"childCount"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	TotalCost  float64   `json:"totalCost"`
	CreatedAt  time.Time `json:"createdAt"`
}

func MapBooking(b *domainbooking.Booking) Booking {
	return Booking{
		ID:         string(b.ID),
		HotelID:    string(b.HotelID),
		UserID:     string(b.UserID),
		FirstName:  b.FirstName,
		LastName:   b.LastName,
		Email:      b.Email,
		AdultCount: b.AdultCount,
		ChildCount: b.ChildCount,
		CheckIn:    b.Range.CheckIn,
		CheckOut:   b.Range.CheckOut,
		TotalCost:  b.TotalCost,
		CreatedAt:  b.CreatedAt,
	}
}

func MapBookings(bs []*domainbooking.Booking) []Booking {
	out := make([]Booking, 0, len(bs))
	for _, b := range bs {
		out = append(out, MapBooking(b))
	}
	return out
}

// BookingWithHotel pairs a ledger entry with the hotel it was made against,
// for the guest's "my bookings" view.
type BookingWithHotel struct {
	Booking
	Hotel *Hotel `json:"hotel,omitempty"`
}

type PaymentIntentResponse struct {
	PaymentIntentID string  `json:"paymentIntentId"`
	ClientSecret    string  `json:"clientSecret"`
	TotalCost       float64 `json:"totalCost"`
}
