package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/blog"
	"blogsmith/internal/domain/repositories"
)

// PostgresPostRepository implements repositories.PostRepository
type PostgresPostRepository struct {
	pool   repositories.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewPostRepository creates a new post repository
func NewPostRepository(config *RepositoryConfig) repositories.PostRepository {
	return &PostgresPostRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const postColumns = "id, user_id, title, slug, content, status, category_id, created_at, updated_at"

// Create inserts a new post
func (r *PostgresPostRepository) Create(ctx context.Context, post *blog.Post) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, title, slug, content, status, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, r.tables.Posts)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		post.UserID,
		post.Title,
		post.Slug,
		post.Content,
		post.Status,
		post.CategoryID,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("category %s: %w", post.CategoryID, domain.ErrNotFound)
		}
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

// Update replaces the editable fields of a post in a single statement
func (r *PostgresPostRepository) Update(ctx context.Context, post *blog.Post) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, slug = $2, content = $3, status = $4, category_id = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8
		RETURNING created_at
	`, r.tables.Posts)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		post.Title,
		post.Slug,
		post.Content,
		post.Status,
		post.CategoryID,
		post.UpdatedAt,
		post.ID,
		post.UserID,
	).Scan(&post.CreatedAt)
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
			return fmt.Errorf("post %s: %w", post.ID, domain.ErrNotFound)
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("category %s: %w", post.CategoryID, domain.ErrNotFound)
		}
		return fmt.Errorf("update post: %w", err)
	}

	return nil
}

// GetByID retrieves a post owned by userID
func (r *PostgresPostRepository) GetByID(ctx context.Context, id, userID string) (*blog.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, postColumns, r.tables.Posts)

	var p blog.Post
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Slug,
		&p.Content,
		&p.Status,
		&p.CategoryID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &p, nil
}

// List retrieves all posts for a user, newest first
func (r *PostgresPostRepository) List(ctx context.Context, userID string) ([]blog.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, postColumns, r.tables.Posts)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []blog.Post{}
	for rows.Next() {
		var p blog.Post
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Title,
			&p.Slug,
			&p.Content,
			&p.Status,
			&p.CategoryID,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}

// Delete removes a post owned by userID
func (r *PostgresPostRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, r.tables.Posts)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		if IsPgInvalidTextError(err) {
			return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("delete post: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// CountByUser aggregates post counts per owner
func (r *PostgresPostRepository) CountByUser(ctx context.Context) (map[string]int, error) {
	query := fmt.Sprintf(`SELECT user_id, COUNT(*) FROM %s GROUP BY user_id`, r.tables.Posts)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var userID string
		var n int
		if err := rows.Scan(&userID, &n); err != nil {
			return nil, fmt.Errorf("scan post count: %w", err)
		}
		counts[userID] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate post counts: %w", err)
	}

	return counts, nil
}
