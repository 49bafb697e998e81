package repositories

import (
	"context"
	"time"

	"blogsmith/internal/domain/models/billing"
)

// LedgerRepository stores token balances.
type LedgerRepository interface {
	// Credit atomically adds amount to the user's balance, creating the row when absent.
	// Returns the balance after the increment.
	Credit(ctx context.Context, userID string, amount int64) (int64, error)

	// GetBalance returns 0 when the user has never been credited
	GetBalance(ctx context.Context, userID string) (int64, error)
}

// SubscriptionRepository stores one subscription row per user.
type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub *billing.Subscription) error

	// GetByUserID returns nil when the user has no subscription
	GetByUserID(ctx context.Context, userID string) (*billing.Subscription, error)

	// GetByStripeID returns domain.ErrNotFound when no user owns the subscription
	GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*billing.Subscription, error)

	UpdatePeriod(ctx context.Context, userID, status string, periodEnd *time.Time) error
}

// PurchaseRepository appends token purchase records.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *billing.TokenPurchase) error
	ListByUser(ctx context.Context, userID string) ([]billing.TokenPurchase, error)
}

// CustomerRepository maps users to provider customer ids.
type CustomerRepository interface {
	Upsert(ctx context.Context, customer *billing.StripeCustomer) error
}

// WebhookEventRepository is the idempotency ledger for provider events.
type WebhookEventRepository interface {
	// MarkProcessed records the event id. It returns false when the id was already recorded.
	MarkProcessed(ctx context.Context, eventID, eventType string) (bool, error)
}
