package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"blogsmith/internal/domain/models/billing"
	"blogsmith/internal/domain/repositories"
)

// PostgresCustomerRepository implements repositories.CustomerRepository
type PostgresCustomerRepository struct {
	pool   repositories.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewCustomerRepository creates a new payment customer repository
func NewCustomerRepository(config *RepositoryConfig) repositories.CustomerRepository {
	return &PostgresCustomerRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Upsert stores the customer mapping; the latest write wins
func (r *PostgresCustomerRepository) Upsert(ctx context.Context, customer *billing.StripeCustomer) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, stripe_customer_id, email, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE SET
			stripe_customer_id = EXCLUDED.stripe_customer_id,
			email = EXCLUDED.email,
			updated_at = EXCLUDED.updated_at
	`, r.tables.StripeCustomers)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, customer.UserID, customer.StripeCustomerID, customer.Email); err != nil {
		return fmt.Errorf("upsert stripe customer: %w", err)
	}

	return nil
}
