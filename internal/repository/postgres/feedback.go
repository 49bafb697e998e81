package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/blog"
	"blogsmith/internal/domain/repositories"
)

// PostgresFeedbackRepository implements repositories.FeedbackRepository
type PostgresFeedbackRepository struct {
	pool   repositories.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(config *RepositoryConfig) repositories.FeedbackRepository {
	return &PostgresFeedbackRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a feedback row
func (r *PostgresFeedbackRepository) Create(ctx context.Context, feedback *blog.Feedback) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, outline_id, feedback_text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Feedback)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		feedback.UserID,
		feedback.OutlineID,
		feedback.Text,
	).Scan(&feedback.ID, &feedback.CreatedAt)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("outline %s: %w", feedback.OutlineID, domain.ErrNotFound)
		}
		return fmt.Errorf("create feedback: %w", err)
	}

	return nil
}

// ListByOutlines returns feedback for any of the given outlines, oldest first
func (r *PostgresFeedbackRepository) ListByOutlines(ctx context.Context, outlineIDs []string) ([]blog.Feedback, error) {
	if len(outlineIDs) == 0 {
		return []blog.Feedback{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, outline_id, feedback_text, created_at
		FROM %s
		WHERE outline_id = ANY($1)
		ORDER BY created_at ASC
	`, r.tables.Feedback)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, outlineIDs)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	feedback := []blog.Feedback{}
	for rows.Next() {
		var f blog.Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.OutlineID, &f.Text, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		feedback = append(feedback, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback: %w", err)
	}

	return feedback, nil
}
