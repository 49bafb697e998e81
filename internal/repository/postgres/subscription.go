package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/billing"
	"blogsmith/internal/domain/repositories"
)

// PostgresSubscriptionRepository implements repositories.SubscriptionRepository
type PostgresSubscriptionRepository struct {
	pool   repositories.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(config *RepositoryConfig) repositories.SubscriptionRepository {
	return &PostgresSubscriptionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Upsert creates or replaces the user's subscription row
func (r *PostgresSubscriptionRepository) Upsert(ctx context.Context, sub *billing.Subscription) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, stripe_subscription_id, status, current_period_end, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id) DO UPDATE SET
			stripe_subscription_id = EXCLUDED.stripe_subscription_id,
			status = EXCLUDED.status,
			current_period_end = EXCLUDED.current_period_end,
			updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`, r.tables.Subscriptions)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		sub.UserID,
		sub.StripeSubscriptionID,
		sub.Status,
		sub.CurrentPeriodEnd,
	).Scan(&sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	return nil
}

// GetByUserID returns the user's subscription or nil
func (r *PostgresSubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*billing.Subscription, error) {
	query := fmt.Sprintf(`
		SELECT user_id, stripe_subscription_id, status, current_period_end, updated_at
		FROM %s
		WHERE user_id = $1
	`, r.tables.Subscriptions)

	sub, err := r.scanOne(ctx, query, userID)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	return sub, nil
}

// GetByStripeID finds the subscription row for a provider subscription id
func (r *PostgresSubscriptionRepository) GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*billing.Subscription, error) {
	query := fmt.Sprintf(`
		SELECT user_id, stripe_subscription_id, status, current_period_end, updated_at
		FROM %s
		WHERE stripe_subscription_id = $1
		LIMIT 1
	`, r.tables.Subscriptions)

	sub, err := r.scanOne(ctx, query, stripeSubscriptionID)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("subscription %s: %w", stripeSubscriptionID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get subscription by stripe id: %w", err)
	}

	return sub, nil
}

// UpdatePeriod sets status and period end on the user's subscription
func (r *PostgresSubscriptionRepository) UpdatePeriod(ctx context.Context, userID, status string, periodEnd *time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, current_period_end = $2, updated_at = now()
		WHERE user_id = $3
	`, r.tables.Subscriptions)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, status, periodEnd, userID)
	if err != nil {
		return fmt.Errorf("update subscription period: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("subscription for user %s: %w", userID, domain.ErrNotFound)
	}

	return nil
}

func (r *PostgresSubscriptionRepository) scanOne(ctx context.Context, query string, arg interface{}) (*billing.Subscription, error) {
	var sub billing.Subscription
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, arg).Scan(
		&sub.UserID,
		&sub.StripeSubscriptionID,
		&sub.Status,
		&sub.CurrentPeriodEnd,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
