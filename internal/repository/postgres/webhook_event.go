package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"blogsmith/internal/domain/repositories"
)

// PostgresWebhookEventRepository implements repositories.WebhookEventRepository
type PostgresWebhookEventRepository struct {
	pool   repositories.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewWebhookEventRepository creates a new processed-event repository
func NewWebhookEventRepository(config *RepositoryConfig) repositories.WebhookEventRepository {
	return &PostgresWebhookEventRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// MarkProcessed inserts the event id. Zero affected rows means it was already recorded.
func (r *PostgresWebhookEventRepository) MarkProcessed(ctx context.Context, eventID, eventType string) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (event_id, event_type)
		VALUES ($1, $2)
		ON CONFLICT (event_id) DO NOTHING
	`, r.tables.ProcessedEvents)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, eventID, eventType)
	if err != nil {
		return false, fmt.Errorf("record webhook event: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
