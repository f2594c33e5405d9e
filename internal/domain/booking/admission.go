package booking

import (
	"errors"
	"fmt"
)

// Pool names the capacity pool a rejection refers to.
type Pool string

const (
	PoolAdults   Pool = "adults"
	PoolChildren Pool = "children"
	PoolTotal    Pool = "total"
)

// RejectionKind distinguishes a request that can never fit the hotel from one
// that conflicts with already-admitted bookings.
type RejectionKind string

const (
	// StaticCapacityExceeded: the request alone exceeds the hotel's
	// capacity, ignoring existing bookings.
	StaticCapacityExceeded RejectionKind = "static_capacity_exceeded"
	// DynamicAvailabilityExceeded: the request conflicts with overlapping
	// bookings already on the ledger.
	DynamicAvailabilityExceeded RejectionKind = "dynamic_availability_exceeded"
)

// AdmissionError is a structured rejection. The kind/pool pair reproduces the
// six capacity messages of the booking UI; date validation is the seventh.
type AdmissionError struct {
	Kind      RejectionKind
	Pool      Pool
	Requested int
	// Limit is the static pool size for StaticCapacityExceeded and the
	// remaining availability for DynamicAvailabilityExceeded. It may be
	// negative when a hotel is over capacity.
	Limit int
}

func (e *AdmissionError) Error() string {
	switch e.Kind {
	case StaticCapacityExceeded:
		switch e.Pool {
		case PoolAdults:
			return fmt.Sprintf("adult capacity exceeded: hotel accommodates %d adults, requested %d", e.Limit, e.Requested)
		case PoolChildren:
			return fmt.Sprintf("children capacity exceeded: hotel accommodates %d children, requested %d", e.Limit, e.Requested)
		default:
			return fmt.Sprintf("guest capacity exceeded: hotel accommodates %d guests, requested %d", e.Limit, e.Requested)
		}
	default:
		switch e.Pool {
		case PoolAdults:
			return fmt.Sprintf("insufficient adult availability: %d left for the selected dates, requested %d", e.Limit, e.Requested)
		case PoolChildren:
			return fmt.Sprintf("insufficient children availability: %d left for the selected dates, requested %d", e.Limit, e.Requested)
		default:
			return fmt.Sprintf("insufficient availability: %d places left for the selected dates, requested %d", e.Limit, e.Requested)
		}
	}
}

// AsAdmissionError unwraps err into an *AdmissionError if it carries one.
func AsAdmissionError(err error) (*AdmissionError, bool) {
	var ae *AdmissionError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
