package memory

import (
	"context"
	"fmt"
	"time"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/billing"
	"blogsmith/internal/domain/repositories"

	"github.com/google/uuid"
)

// LedgerRepository is the in-memory repositories.LedgerRepository
type LedgerRepository struct{ s *Store }

// NewLedgerRepository creates a ledger repository over s
func NewLedgerRepository(s *Store) repositories.LedgerRepository {
	return &LedgerRepository{s: s}
}

// Credit increments under the store mutex, so concurrent credits never interleave
func (r *LedgerRepository) Credit(ctx context.Context, userID string, amount int64) (int64, error) {
	defer r.s.lock(ctx)()

	b := r.s.balances[userID]
	b.UserID = userID
	b.Balance += amount
	b.UpdatedAt = time.Now()
	r.s.balances[userID] = b
	return b.Balance, nil
}

func (r *LedgerRepository) GetBalance(ctx context.Context, userID string) (int64, error) {
	defer r.s.lock(ctx)()
	return r.s.balances[userID].Balance, nil
}

// SubscriptionRepository is the in-memory repositories.SubscriptionRepository
type SubscriptionRepository struct{ s *Store }

// NewSubscriptionRepository creates a subscription repository over s
func NewSubscriptionRepository(s *Store) repositories.SubscriptionRepository {
	return &SubscriptionRepository{s: s}
}

func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *billing.Subscription) error {
	defer r.s.lock(ctx)()

	sub.UpdatedAt = time.Now()
	r.s.subscriptions[sub.UserID] = *sub
	return nil
}

func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*billing.Subscription, error) {
	defer r.s.lock(ctx)()

	sub, ok := r.s.subscriptions[userID]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (r *SubscriptionRepository) GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*billing.Subscription, error) {
	defer r.s.lock(ctx)()

	for _, sub := range r.s.subscriptions {
		if sub.StripeSubscriptionID == stripeSubscriptionID {
			return &sub, nil
		}
	}
	return nil, fmt.Errorf("subscription %s: %w", stripeSubscriptionID, domain.ErrNotFound)
}

func (r *SubscriptionRepository) UpdatePeriod(ctx context.Context, userID, status string, periodEnd *time.Time) error {
	defer r.s.lock(ctx)()

	sub, ok := r.s.subscriptions[userID]
	if !ok {
		return fmt.Errorf("subscription for user %s: %w", userID, domain.ErrNotFound)
	}
	sub.Status = status
	sub.CurrentPeriodEnd = periodEnd
	sub.UpdatedAt = time.Now()
	r.s.subscriptions[userID] = sub
	return nil
}

// PurchaseRepository is the in-memory repositories.PurchaseRepository
type PurchaseRepository struct{ s *Store }

// NewPurchaseRepository creates a purchase repository over s
func NewPurchaseRepository(s *Store) repositories.PurchaseRepository {
	return &PurchaseRepository{s: s}
}

func (r *PurchaseRepository) Create(ctx context.Context, purchase *billing.TokenPurchase) error {
	defer r.s.lock(ctx)()

	purchase.ID = uuid.NewString()
	purchase.CreatedAt = time.Now()
	r.s.purchases = append(r.s.purchases, *purchase)
	return nil
}

func (r *PurchaseRepository) ListByUser(ctx context.Context, userID string) ([]billing.TokenPurchase, error) {
	defer r.s.lock(ctx)()

	purchases := []billing.TokenPurchase{}
	for i := len(r.s.purchases) - 1; i >= 0; i-- {
		if p := r.s.purchases[i]; p.UserID == userID {
			purchases = append(purchases, p)
		}
	}
	return purchases, nil
}

// CustomerRepository is the in-memory repositories.CustomerRepository
type CustomerRepository struct{ s *Store }

// NewCustomerRepository creates a customer repository over s
func NewCustomerRepository(s *Store) repositories.CustomerRepository {
	return &CustomerRepository{s: s}
}

func (r *CustomerRepository) Upsert(ctx context.Context, customer *billing.StripeCustomer) error {
	defer r.s.lock(ctx)()

	customer.UpdatedAt = time.Now()
	r.s.customers[customer.UserID] = *customer
	return nil
}

// WebhookEventRepository is the in-memory repositories.WebhookEventRepository
type WebhookEventRepository struct{ s *Store }

// NewWebhookEventRepository creates a processed-event repository over s
func NewWebhookEventRepository(s *Store) repositories.WebhookEventRepository {
	return &WebhookEventRepository{s: s}
}

func (r *WebhookEventRepository) MarkProcessed(ctx context.Context, eventID, eventType string) (bool, error) {
	defer r.s.lock(ctx)()

	if _, seen := r.s.events[eventID]; seen {
		return false, nil
	}
	r.s.events[eventID] = eventType
	return true, nil
}
