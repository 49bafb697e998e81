package integration

import (
	"strings"
	"time"
)

// WordPress post statuses accepted by the publisher
const (
	WPStatusDraft   = "draft"
	WPStatusPublish = "publish"
	WPStatusFuture  = "future"
)

// WordPressIntegration holds one user's site credentials. One row per user.
type WordPressIntegration struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	WPURL          string    `json:"wp_url"`
	WPUsername     string    `json:"wp_username"`
	WPAppPassword  string    `json:"-"`
	WPAccessToken  *string   `json:"-"`
	WPRefreshToken *string   `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// APIBase returns the REST root of the site with any trailing slash removed.
func (i *WordPressIntegration) APIBase() string {
	return strings.TrimRight(i.WPURL, "/") + "/wp-json/wp/v2"
}

// ExternalPostRef identifies a post created on the remote site.
type ExternalPostRef struct {
	ID     int64  `json:"id"`
	Link   string `json:"link"`
	Status string `json:"status"`
}

// RemoteCategory is a category as reported by the remote site.
type RemoteCategory struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}
