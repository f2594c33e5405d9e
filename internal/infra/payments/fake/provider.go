package fake

import (
	"context"
	"fmt"
	"sync"

	"stayfinder/internal/app/policies"
)

// Provider is an in-memory payment collaborator for dev and tests. Every
// intent it creates succeeds immediately.
type Provider struct {
	mu      sync.Mutex
	seq     int
	intents map[string]*policies.Intent
}

func NewProvider() *Provider {
	return &Provider{intents: make(map[string]*policies.Intent)}
}

func (p *Provider) CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*policies.Intent, error) {
	if currency == "" {
		currency = "usd"
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	copied := make(map[string]string, len(metadata))
	for k, v := range metadata {
		copied[k] = v
	}
	intent := &policies.Intent{
		ID:           fmt.Sprintf("pi_fake_%06d", p.seq),
		ClientSecret: fmt.Sprintf("pi_fake_%06d_secret", p.seq),
		Amount:       amount,
		Currency:     currency,
		Succeeded:    true,
		Metadata:     copied,
	}
	p.intents[intent.ID] = intent
	return intent, nil
}

func (p *Provider) RetrieveIntent(ctx context.Context, id string) (*policies.Intent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	intent, ok := p.intents[id]
	if !ok {
		return nil, policies.ErrIntentNotFound
	}
	copied := *intent
	return &copied, nil
}
