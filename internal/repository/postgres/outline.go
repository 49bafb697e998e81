package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/blog"
	"blogsmith/internal/domain/repositories"
)

// PostgresOutlineRepository implements repositories.OutlineRepository.
// It issues no UPDATE statement: outlines are immutable once written.
type PostgresOutlineRepository struct {
	pool   repositories.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewOutlineRepository creates a new outline repository
func NewOutlineRepository(config *RepositoryConfig) repositories.OutlineRepository {
	return &PostgresOutlineRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new outline and fills in its id and created_at
func (r *PostgresOutlineRepository) Create(ctx context.Context, outline *blog.Outline) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, blog_post_id, title, main_keyword, key_points, brief)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, r.tables.Outlines)

	keyPoints := outline.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		outline.UserID,
		outline.PostID,
		outline.Title,
		outline.MainKeyword,
		keyPoints,
		outline.Brief,
	).Scan(&outline.ID, &outline.CreatedAt)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("blog post %v: %w", derefOr(outline.PostID, ""), domain.ErrNotFound)
		}
		return fmt.Errorf("create outline: %w", err)
	}

	outline.KeyPoints = keyPoints
	return nil
}

// GetByID retrieves an outline owned by userID
func (r *PostgresOutlineRepository) GetByID(ctx context.Context, id, userID string) (*blog.Outline, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, blog_post_id, title, main_keyword, key_points, brief, created_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Outlines)

	var o blog.Outline
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, userID).Scan(
		&o.ID,
		&o.UserID,
		&o.PostID,
		&o.Title,
		&o.MainKeyword,
		&o.KeyPoints,
		&o.Brief,
		&o.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("outline %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get outline: %w", err)
	}

	return &o, nil
}

// List retrieves a user's outlines newest first, optionally restricted to one post
func (r *PostgresOutlineRepository) List(ctx context.Context, userID, postID string) ([]blog.Outline, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, blog_post_id, title, main_keyword, key_points, brief, created_at
		FROM %s
		WHERE user_id = $1
	`, r.tables.Outlines)
	args := []interface{}{userID}

	if postID != "" {
		query += " AND blog_post_id = $2"
		args = append(args, postID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		if IsPgInvalidTextError(err) {
			return []blog.Outline{}, nil
		}
		return nil, fmt.Errorf("list outlines: %w", err)
	}
	defer rows.Close()

	outlines := []blog.Outline{}
	for rows.Next() {
		var o blog.Outline
		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.PostID,
			&o.Title,
			&o.MainKeyword,
			&o.KeyPoints,
			&o.Brief,
			&o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan outline: %w", err)
		}
		outlines = append(outlines, o)
	}

	if err := rows.Err(); err != nil {
		if IsPgInvalidTextError(err) {
			return []blog.Outline{}, nil
		}
		return nil, fmt.Errorf("iterate outlines: %w", err)
	}

	return outlines, nil
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
