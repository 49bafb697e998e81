package repositories

import (
	"context"

	"blogsmith/internal/domain/models/integration"
)

// WordPressIntegrationRepository stores one WordPress connection per user.
type WordPressIntegrationRepository interface {
	// GetByUserID returns domain.ErrNotFound when the user has not connected a site
	GetByUserID(ctx context.Context, userID string) (*integration.WordPressIntegration, error)

	// Upsert replaces every field of the user's integration
	Upsert(ctx context.Context, integration *integration.WordPressIntegration) error

	Delete(ctx context.Context, userID string) error
}
