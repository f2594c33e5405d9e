package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayfinder/internal/domain/hotel"
	"stayfinder/internal/domain/shared/daterange"
	"stayfinder/internal/domain/user"
)

var (
	ErrNotFound      = errors.New("booking: not found")
	ErrInvalidGuests = errors.New("booking: at least one guest is required")
	ErrGuestRequired = errors.New("booking: guest identity is required")
	ErrNotAllowed    = errors.New("booking: caller is not allowed to manage this booking")
)

type ID string

// Booking is a confirmed ledger entry. Entries are appended by admission and
// removed by cancellation; they are never mutated in place.
type Booking struct {
	ID         ID
	HotelID    hotel.ID
	UserID     user.ID
	FirstName  string
	LastName   string
	Email      string
	AdultCount int
	ChildCount int
	Range      daterange.DateRange
	TotalCost  float64
	CreatedAt  time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Booking, error)
	// Append persists a new ledger entry. Only the admission flow may call it.
	Append(ctx context.Context, booking *Booking) error
	// Remove deletes a ledger entry, freeing its capacity.
	Remove(ctx context.Context, id ID) error
	// Overlapping returns entries for the hotel whose ranges share at least
	// one instant with dr under half-open interval semantics.
	Overlapping(ctx context.Context, hotelID hotel.ID, dr daterange.DateRange) ([]*Booking, error)
	ListByUser(ctx context.Context, userID user.ID) ([]*Booking, error)
	ListByHotel(ctx context.Context, hotelID hotel.ID) ([]*Booking, error)
}

type CreateParams struct {
	ID         ID
	HotelID    hotel.ID
	UserID     user.ID
	FirstName  string
	LastName   string
	Email      string
	AdultCount int
	ChildCount int
	Range      daterange.DateRange
	TotalCost  float64
	CreatedAt  time.Time
}

func New(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("booking: id is required")
	}
	if strings.TrimSpace(string(params.HotelID)) == "" {
		return nil, errors.New("booking: hotel id is required")
	}
	if strings.TrimSpace(string(params.UserID)) == "" {
		return nil, ErrGuestRequired
	}
	if params.AdultCount < 0 || params.ChildCount < 0 || params.AdultCount+params.ChildCount == 0 {
		return nil, ErrInvalidGuests
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	return &Booking{
		ID:         params.ID,
		HotelID:    params.HotelID,
		UserID:     params.UserID,
		FirstName:  strings.TrimSpace(params.FirstName),
		LastName:   strings.TrimSpace(params.LastName),
		Email:      strings.ToLower(strings.TrimSpace(params.Email)),
		AdultCount: params.AdultCount,
		ChildCount: params.ChildCount,
		Range:      params.Range,
		TotalCost:  params.TotalCost,
		CreatedAt:  now.UTC(),
	}, nil
}

// Guests returns the combined guest count.
func (b *Booking) Guests() int {
	return b.AdultCount + b.ChildCount
}
