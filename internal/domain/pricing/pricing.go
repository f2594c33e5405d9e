// Package pricing turns a stay into a total cost. Money stays a plain
// decimal amount: the rest of the platform stores costs the same way, so no
// minor-unit integer contract is imposed here.
package pricing

import (
	"errors"

	"stayfinder/internal/domain/shared/daterange"
)

var (
	ErrInvalidNights = errors.New("pricing: nights must be positive")
	ErrInvalidRate   = errors.New("pricing: nightly rate must be positive")
)

// Quote computes the stay total. Adults pay the full nightly rate, children
// stay free.
func Quote(pricePerNight float64, adultCount, nights int) float64 {
	return pricePerNight * float64(adultCount) * float64(nights)
}

// QuoteStay derives the night count from the range and validates the inputs
// the admission flow hands in.
func QuoteStay(pricePerNight float64, adultCount int, dr daterange.DateRange) (float64, error) {
	if pricePerNight <= 0 {
		return 0, ErrInvalidRate
	}
	nights := dr.Nights()
	if nights <= 0 {
		return 0, ErrInvalidNights
	}
	if adultCount < 0 {
		return 0, errors.New("pricing: adult count cannot be negative")
	}
	return Quote(pricePerNight, adultCount, nights), nil
}
