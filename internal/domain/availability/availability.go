// Package availability computes capacity breakdowns for a hotel and a set of
// bookings overlapping a queried date range. Compute is a pure function: the
// caller (the ledger query) hands it the already-filtered overlap set.
package availability

import (
	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/hotel"
)

// Breakdown is derived per query and never persisted. Available values go
// negative when a hotel has been over-booked; callers render "over capacity"
// instead of failing.
type Breakdown struct {
	TotalBookedAdults     int  `json:"totalBookedAdults"`
	TotalBookedChildren   int  `json:"totalBookedChildren"`
	TotalBookedGuests     int  `json:"totalBookedGuests"`
	AvailableAdults       int  `json:"availableAdults"`
	AvailableChildren     int  `json:"availableChildren"`
	AvailableCapacity     int  `json:"availableCapacity"`
	MaxAdults             int  `json:"maxAdults"`
	MaxChildren           int  `json:"maxChildren"`
	MaxCapacity           int  `json:"maxCapacity"`
	OverlappingBookings   int  `json:"overlappingBookings"`
	IsFullyBooked         bool `json:"isFullyBooked"`
	IsAdultsFullyBooked   bool `json:"isAdultsFullyBooked"`
	IsChildrenFullyBooked bool `json:"isChildrenFullyBooked"`
}

// Compute sums the guest counts of the overlap set against the capacity
// pools. Adults and children are independent pools that also roll up into a
// combined one; each can be exhausted on its own.
func Compute(capacity hotel.Capacity, overlapping []*booking.Booking) Breakdown {
	var adults, children int
	for _, b := range overlapping {
		adults += b.AdultCount
		children += b.ChildCount
	}

	br := Breakdown{
		TotalBookedAdults:   adults,
		TotalBookedChildren: children,
		TotalBookedGuests:   adults + children,
		AvailableAdults:     capacity.Adults - adults,
		AvailableChildren:   capacity.Children - children,
		AvailableCapacity:   capacity.Total() - (adults + children),
		MaxAdults:           capacity.Adults,
		MaxChildren:         capacity.Children,
		MaxCapacity:         capacity.Total(),
		OverlappingBookings: len(overlapping),
	}
	br.IsFullyBooked = br.AvailableCapacity <= 0
	br.IsAdultsFullyBooked = br.AvailableAdults <= 0
	br.IsChildrenFullyBooked = br.AvailableChildren <= 0
	return br
}

// Admit checks a request against the breakdown, sub-pool reasons first so
// the caller can surface the most specific rejection.
func (br Breakdown) Admit(adults, children int) *booking.AdmissionError {
	if adults > br.AvailableAdults {
		return &booking.AdmissionError{
			Kind:      booking.DynamicAvailabilityExceeded,
			Pool:      booking.PoolAdults,
			Requested: adults,
			Limit:     br.AvailableAdults,
		}
	}
	if children > br.AvailableChildren {
		return &booking.AdmissionError{
			Kind:      booking.DynamicAvailabilityExceeded,
			Pool:      booking.PoolChildren,
			Requested: children,
			Limit:     br.AvailableChildren,
		}
	}
	if adults+children > br.AvailableCapacity {
		return &booking.AdmissionError{
			Kind:      booking.DynamicAvailabilityExceeded,
			Pool:      booking.PoolTotal,
			Requested: adults + children,
			Limit:     br.AvailableCapacity,
		}
	}
	return nil
}
