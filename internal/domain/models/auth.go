package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the app_metadata role granting access to admin endpoints.
const RoleAdmin = "admin"

// SupabaseClaims represents the JWT claims structure from Supabase Auth.
// See: https://supabase.com/docs/guides/auth/jwts
type SupabaseClaims struct {
	jwt.RegisteredClaims
	Email        string                 `json:"email"`
	Phone        string                 `json:"phone"`
	AppMetadata  map[string]interface{} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	Role         string                 `json:"role"` // "authenticated" or "anon"
	SessionID    string                 `json:"session_id"`
	IsAnonymous  bool                   `json:"is_anonymous"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *SupabaseClaims) GetUserID() string {
	return c.Subject
}

// AppRole returns app_metadata.role, or "" when unset.
func (c *SupabaseClaims) AppRole() string {
	role, _ := c.AppMetadata["role"].(string)
	return role
}

// IsAdmin reports whether the token carries the admin application role.
func (c *SupabaseClaims) IsAdmin() bool {
	return c.AppRole() == RoleAdmin
}

// AdminUser is one row of the admin user listing.
type AdminUser struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
	BlogCount    int        `json:"blogCount"`
}
