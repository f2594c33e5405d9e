package policies

import (
	"context"
	"errors"
)

var (
	ErrIntentNotFound  = errors.New("payments: intent not found")
	ErrIntentMismatch  = errors.New("payments: intent does not belong to this booking request")
	ErrIntentNotCaught = errors.New("payments: intent has not succeeded")
)

// Intent mirrors the slice of a payment-provider intent the booking flow
// needs: identity, amount and whether the money actually moved.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       float64
	Currency     string
	Succeeded    bool
	Metadata     map[string]string
}

// PaymentsPort is the opaque external payment collaborator. Admission is
// gated on a succeeded intent; capture itself happens outside this system.
type PaymentsPort interface {
	CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
}
