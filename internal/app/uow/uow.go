package uow

import (
	"context"

	domainbooking "stayfinder/internal/domain/booking"
	domainhotel "stayfinder/internal/domain/hotel"
)

// UnitOfWork coordinates the capacity read and the ledger write inside one
// atomicity boundary.
type UnitOfWork interface {
	Hotels() domainhotel.Repository
	Bookings() domainbooking.Repository

	// Context binds the unit's transaction to ctx so repository calls made
	// through it participate in the boundary. Implementations without a
	// session concept return ctx unchanged.
	Context(ctx context.Context) context.Context

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Factory starts unit of work instances.
type Factory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
	// HotelID, when set, serializes this unit against other admissions on
	// the same hotel: the overlap-check-then-insert sequence must not
	// interleave with another admission's. Read paths leave it empty.
	HotelID domainhotel.ID
}
