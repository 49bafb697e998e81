package services

import (
	"context"

	"blogsmith/internal/domain/models/integration"
)

// PublishRequest sends an article to the user's WordPress site.
// PostID, when set, takes title and content from the stored post.
type PublishRequest struct {
	PostID     string  `json:"post_id"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Categories []int64 `json:"categories"`
	Status     string  `json:"status"`
	Date       string  `json:"date"`
}

// SaveIntegrationRequest replaces the user's WordPress connection.
type SaveIntegrationRequest struct {
	WPURL          string  `json:"wp_url"`
	WPUsername     string  `json:"wp_username"`
	WPAppPassword  string  `json:"wp_app_password"`
	WPAccessToken  *string `json:"wp_access_token"`
	WPRefreshToken *string `json:"wp_refresh_token"`
}

// PublisherService manages the WordPress integration and publishes to it.
type PublisherService interface {
	Publish(ctx context.Context, userID string, req *PublishRequest) (*integration.ExternalPostRef, error)
	ListRemoteCategories(ctx context.Context, userID string) ([]integration.RemoteCategory, error)

	// GetIntegration returns nil when the user has not connected a site
	GetIntegration(ctx context.Context, userID string) (*integration.WordPressIntegration, error)
	SaveIntegration(ctx context.Context, userID string, req *SaveIntegrationRequest) (*integration.WordPressIntegration, error)
	DeleteIntegration(ctx context.Context, userID string) error
}
