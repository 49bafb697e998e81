package services

import (
	"context"
	"time"

	"blogsmith/internal/domain/models"
)

// DirectoryUser is a user record as held by the identity provider.
type DirectoryUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	AppMetadata  map[string]interface{} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	CreatedAt    *time.Time             `json:"created_at"`
	LastSignInAt *time.Time             `json:"last_sign_in_at"`
}

// UserDirectory is the identity provider's admin surface.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]DirectoryUser, error)
	FindByEmail(ctx context.Context, email string) (*DirectoryUser, error)
	UpdateAppMetadata(ctx context.Context, userID string, appMetadata map[string]interface{}) error
}

// AdminService exposes operator-only views.
type AdminService interface {
	// ListUsers requires the caller to hold the admin role
	ListUsers(ctx context.Context, caller *models.SupabaseClaims) ([]models.AdminUser, error)

	// GrantAdmin merges role=admin into the user's app metadata
	GrantAdmin(ctx context.Context, email string) error
}
