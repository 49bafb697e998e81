package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"blogsmith/internal/domain/repositories"
)

// PostgresLedgerRepository implements repositories.LedgerRepository
type PostgresLedgerRepository struct {
	pool   repositories.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewLedgerRepository creates a new token ledger repository
func NewLedgerRepository(config *RepositoryConfig) repositories.LedgerRepository {
	return &PostgresLedgerRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Credit adds amount to the balance in one statement. Concurrent credits for
// the same user serialize on the row lock taken by the upsert, so none are lost.
func (r *PostgresLedgerRepository) Credit(ctx context.Context, userID string, amount int64) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s AS t (user_id, balance, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET
			balance = t.balance + EXCLUDED.balance,
			updated_at = now()
		RETURNING balance
	`, r.tables.TokenBalances)

	var balance int64
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, userID, amount).Scan(&balance); err != nil {
		return 0, fmt.Errorf("credit tokens: %w", err)
	}

	return balance, nil
}

// GetBalance returns the user's balance, 0 when no row exists
func (r *PostgresLedgerRepository) GetBalance(ctx context.Context, userID string) (int64, error) {
	query := fmt.Sprintf(`SELECT balance FROM %s WHERE user_id = $1`, r.tables.TokenBalances)

	var balance int64
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		if IsPgNoRowsError(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}
