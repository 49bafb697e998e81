package repositories

import (
	"context"

	"blogsmith/internal/domain/models/blog"
)

// OutlineRepository persists generated outlines. There is no update path.
type OutlineRepository interface {
	Create(ctx context.Context, outline *blog.Outline) error

	// GetByID returns the outline only when owned by userID (domain.ErrNotFound otherwise)
	GetByID(ctx context.Context, id, userID string) (*blog.Outline, error)

	// List returns the user's outlines newest first, filtered to postID when non-empty
	List(ctx context.Context, userID, postID string) ([]blog.Outline, error)
}

// FeedbackRepository persists feedback attached to outlines.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *blog.Feedback) error

	// ListByOutlines returns all feedback for the given outlines, oldest first
	ListByOutlines(ctx context.Context, outlineIDs []string) ([]blog.Feedback, error)
}

// PostRepository persists blog posts.
type PostRepository interface {
	Create(ctx context.Context, post *blog.Post) error

	// Update replaces title, slug, content, status and category of a post owned by post.UserID
	Update(ctx context.Context, post *blog.Post) error

	GetByID(ctx context.Context, id, userID string) (*blog.Post, error)
	List(ctx context.Context, userID string) ([]blog.Post, error)
	Delete(ctx context.Context, id, userID string) error

	// CountByUser returns the number of posts per user id
	CountByUser(ctx context.Context) (map[string]int, error)
}

// CategoryRepository persists categories. A category is visible to a user
// when it is global or owned by that user.
type CategoryRepository interface {
	Create(ctx context.Context, category *blog.Category) error
	GetVisible(ctx context.Context, id, userID string) (*blog.Category, error)
	ListVisible(ctx context.Context, userID string) ([]blog.Category, error)

	// EnsureGlobal creates a global category if none with the slug exists and returns it
	EnsureGlobal(ctx context.Context, name, slug string) (*blog.Category, error)
}
