package policies

import (
	"context"

	"stayfinder/internal/domain/booking"
)

// BookingEvents publishes committed ledger changes to interested consumers.
// Publishing happens after commit; a failed publish is logged by the caller
// and never undoes an admission.
type BookingEvents interface {
	Publish(ctx context.Context, event booking.Event) error
}
