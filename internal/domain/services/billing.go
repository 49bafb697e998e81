package services

import (
	"context"

	"blogsmith/internal/domain/models/billing"
)

// CheckoutRequest asks for a hosted checkout page for one price.
type CheckoutRequest struct {
	PriceID string `json:"priceId"`
	Mode    string `json:"mode"`
}

// Credit sources, used as metrics labels and log fields
const (
	CreditSourceTokenPack    = "token_pack"
	CreditSourceSubscription = "subscription"
	CreditSourceRenewal      = "renewal"
	CreditSourceManual       = "manual"
)

// LedgerService credits and reads token balances. There is no debit path.
type LedgerService interface {
	Credit(ctx context.Context, userID string, amount int64, source string) (int64, error)
	Balance(ctx context.Context, userID string) (int64, error)
}

// BillingService bridges the payment provider and the ledger.
type BillingService interface {
	CreateCheckoutSession(ctx context.Context, userID string, req *CheckoutRequest) (*billing.CheckoutSession, error)

	// HandleWebhook verifies and applies one provider event. A nil return acknowledges the event.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error

	Summary(ctx context.Context, userID string) (*billing.Summary, error)
}
