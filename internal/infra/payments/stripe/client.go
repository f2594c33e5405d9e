package stripe

import (
	"context"
	"errors"
	"math"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"stayfinder/internal/app/policies"
)

// Provider adapts Stripe payment intents to the payments port. Amounts are
// stored in the smallest currency unit, so floats are converted to cents.
type Provider struct {
	api *client.API
}

func NewProvider(secretKey string) *Provider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Provider{api: api}
}

func (p *Provider) CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*policies.Intent, error) {
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toCents(amount)),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, err
	}
	return toIntent(pi), nil
}

func (p *Provider) RetrieveIntent(ctx context.Context, id string) (*policies.Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := p.api.PaymentIntents.Get(id, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return nil, policies.ErrIntentNotFound
		}
		return nil, err
	}
	return toIntent(pi), nil
}

func toIntent(pi *stripe.PaymentIntent) *policies.Intent {
	return &policies.Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       float64(pi.Amount) / 100,
		Currency:     string(pi.Currency),
		Succeeded:    pi.Status == stripe.PaymentIntentStatusSucceeded,
		Metadata:     pi.Metadata,
	}
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
