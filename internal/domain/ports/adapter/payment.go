package adapter

import "context"

// ChargeRequest is the provider-agnostic payload for a crypto charge.
type ChargeRequest struct {
	AmountCents int64
	Currency    string // fiat pricing currency, e.g. "USD"
	Description string
	SuccessURL  string // where the provider sends the buyer after settlement
	Meta        map[string]string
}

// PaymentGateway is the port for the external crypto payment collaborator.
// The provider renders its own method-selection UI at the hosted URL and
// settles asynchronously via webhook.
type PaymentGateway interface {
	Name() string
	// CreateCharge registers a charge and returns the provider charge id and
	// the hosted payment URL to redirect the buyer to.
	CreateCharge(ctx context.Context, req ChargeRequest) (chargeID, hostedURL string, err error)
	// ChargeStatus re-reads a charge's settlement state from the provider.
	ChargeStatus(ctx context.Context, chargeID string) (string, error)
}
