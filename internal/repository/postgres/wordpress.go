package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/integration"
	"blogsmith/internal/domain/repositories"
)

// PostgresWordPressRepository implements repositories.WordPressIntegrationRepository
type PostgresWordPressRepository struct {
	pool   repositories.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewWordPressRepository creates a new WordPress integration repository
func NewWordPressRepository(config *RepositoryConfig) repositories.WordPressIntegrationRepository {
	return &PostgresWordPressRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByUserID retrieves the user's integration including credentials
func (r *PostgresWordPressRepository) GetByUserID(ctx context.Context, userID string) (*integration.WordPressIntegration, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, wp_url, wp_username, wp_app_password, wp_access_token, wp_refresh_token, created_at, updated_at
		FROM %s
		WHERE user_id = $1
	`, r.tables.WordPressIntegrations)

	var wp integration.WordPressIntegration
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(
		&wp.ID,
		&wp.UserID,
		&wp.WPURL,
		&wp.WPUsername,
		&wp.WPAppPassword,
		&wp.WPAccessToken,
		&wp.WPRefreshToken,
		&wp.CreatedAt,
		&wp.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("wordpress integration: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get wordpress integration: %w", err)
	}

	return &wp, nil
}

// Upsert replaces every credential field of the user's integration
func (r *PostgresWordPressRepository) Upsert(ctx context.Context, wp *integration.WordPressIntegration) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, wp_url, wp_username, wp_app_password, wp_access_token, wp_refresh_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (user_id) DO UPDATE SET
			wp_url = EXCLUDED.wp_url,
			wp_username = EXCLUDED.wp_username,
			wp_app_password = EXCLUDED.wp_app_password,
			wp_access_token = EXCLUDED.wp_access_token,
			wp_refresh_token = EXCLUDED.wp_refresh_token,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`, r.tables.WordPressIntegrations)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		wp.UserID,
		wp.WPURL,
		wp.WPUsername,
		wp.WPAppPassword,
		wp.WPAccessToken,
		wp.WPRefreshToken,
	).Scan(&wp.ID, &wp.CreatedAt, &wp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert wordpress integration: %w", err)
	}

	return nil
}

// Delete removes the user's integration
func (r *PostgresWordPressRepository) Delete(ctx context.Context, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, r.tables.WordPressIntegrations)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("delete wordpress integration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wordpress integration: %w", domain.ErrNotFound)
	}

	return nil
}
