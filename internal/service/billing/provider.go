package billing

import (
	"context"

	"blogsmith/internal/domain/models/billing"
)

// CheckoutParams describes one hosted checkout page
type CheckoutParams struct {
	PriceID    string
	Mode       string
	UserID     string
	SuccessURL string
	CancelURL  string
}

// Provider is the part of the payment provider API the bridge calls.
// Webhook signatures are verified locally and need no provider call.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, params *CheckoutParams) (*billing.CheckoutSession, error)

	// SessionPriceID returns the price of the session's first line item
	SessionPriceID(ctx context.Context, sessionID string) (string, error)
}
