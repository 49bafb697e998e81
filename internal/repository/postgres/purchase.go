package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"blogsmith/internal/domain/models/billing"
	"blogsmith/internal/domain/repositories"
)

// PostgresPurchaseRepository implements repositories.PurchaseRepository
type PostgresPurchaseRepository struct {
	pool   repositories.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewPurchaseRepository creates a new token purchase repository
func NewPurchaseRepository(config *RepositoryConfig) repositories.PurchaseRepository {
	return &PostgresPurchaseRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create appends a purchase record
func (r *PostgresPurchaseRepository) Create(ctx context.Context, purchase *billing.TokenPurchase) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, stripe_session_id, stripe_payment_intent_id, tokens_purchased, amount_paid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.tables.TokenPurchases)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		purchase.UserID,
		purchase.StripeSessionID,
		purchase.StripePaymentIntentID,
		purchase.TokensPurchased,
		purchase.AmountPaid,
	).Scan(&purchase.ID, &purchase.CreatedAt)
	if err != nil {
		return fmt.Errorf("create token purchase: %w", err)
	}

	return nil
}

// ListByUser returns the user's purchases newest first
func (r *PostgresPurchaseRepository) ListByUser(ctx context.Context, userID string) ([]billing.TokenPurchase, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, stripe_session_id, stripe_payment_intent_id, tokens_purchased, amount_paid, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, r.tables.TokenPurchases)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list token purchases: %w", err)
	}
	defer rows.Close()

	purchases := []billing.TokenPurchase{}
	for rows.Next() {
		var p billing.TokenPurchase
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.StripeSessionID,
			&p.StripePaymentIntentID,
			&p.TokensPurchased,
			&p.AmountPaid,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan token purchase: %w", err)
		}
		purchases = append(purchases, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token purchases: %w", err)
	}

	return purchases, nil
}
