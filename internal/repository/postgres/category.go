package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/blog"
	"blogsmith/internal/domain/repositories"
)

// PostgresCategoryRepository implements repositories.CategoryRepository
type PostgresCategoryRepository struct {
	pool   repositories.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(config *RepositoryConfig) repositories.CategoryRepository {
	return &PostgresCategoryRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a category. A duplicate slug for the same owner is a conflict.
func (r *PostgresCategoryRepository) Create(ctx context.Context, category *blog.Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, slug, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Categories)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		category.Name,
		category.Slug,
		category.UserID,
	).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("category '%s' already exists", category.Slug),
				ResourceType: "category",
			}
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

// GetVisible retrieves a category that is global or owned by userID
func (r *PostgresCategoryRepository) GetVisible(ctx context.Context, id, userID string) (*blog.Category, error) {
	query := fmt.Sprintf(`
		SELECT id, name, slug, user_id, created_at
		FROM %s
		WHERE id = $1 AND (user_id IS NULL OR user_id = $2)
	`, r.tables.Categories)

	var c blog.Category
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, userID).Scan(&c.ID, &c.Name, &c.Slug, &c.UserID, &c.CreatedAt)
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &c, nil
}

// ListVisible returns global categories followed by the user's own, each alphabetically
func (r *PostgresCategoryRepository) ListVisible(ctx context.Context, userID string) ([]blog.Category, error) {
	query := fmt.Sprintf(`
		SELECT id, name, slug, user_id, created_at
		FROM %s
		WHERE user_id IS NULL OR user_id = $1
		ORDER BY user_id NULLS FIRST, name ASC
	`, r.tables.Categories)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []blog.Category{}
	for rows.Next() {
		var c blog.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.UserID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// EnsureGlobal inserts a global category unless one with the slug exists, then returns it
func (r *PostgresCategoryRepository) EnsureGlobal(ctx context.Context, name, slug string) (*blog.Category, error) {
	insert := fmt.Sprintf(`
		INSERT INTO %s (name, slug, user_id)
		VALUES ($1, $2, NULL)
		ON CONFLICT (slug) WHERE user_id IS NULL DO NOTHING
	`, r.tables.Categories)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, insert, name, slug); err != nil {
		return nil, fmt.Errorf("ensure category: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, slug, user_id, created_at
		FROM %s
		WHERE slug = $1 AND user_id IS NULL
	`, r.tables.Categories)

	var c blog.Category
	if err := executor.QueryRow(ctx, query, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.UserID, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("get category %s: %w", slug, err)
	}

	return &c, nil
}
