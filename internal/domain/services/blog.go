package services

import (
	"context"

	"blogsmith/internal/domain/models/blog"
)

// GenerateOutlineRequest starts a fresh outline from a brief.
type GenerateOutlineRequest struct {
	Brief  blog.Brief
	PostID *string
}

// RegenerateOutlineRequest produces a new outline from an earlier outline's brief plus feedback.
type RegenerateOutlineRequest struct {
	PreviousOutlineID string
	Feedback          string
	// PostID overrides the post the new outline is attached to; nil inherits the previous one
	PostID *string
}

// WriteArticleRequest carries an outline and the brief it came from.
type WriteArticleRequest struct {
	Title       string   `json:"title"`
	MainKeyword string   `json:"main_keyword"`
	KeyPoints   []string `json:"key_points"`
	blog.Brief
}

// GenerationService covers outline generation, the feedback loop and article writing.
type GenerationService interface {
	// Research generates an outline without persisting it
	Research(ctx context.Context, brief blog.Brief) (*blog.OutlineDraft, error)

	GenerateOutline(ctx context.Context, userID string, req *GenerateOutlineRequest) (*blog.Outline, error)
	RegenerateWithFeedback(ctx context.Context, userID string, req *RegenerateOutlineRequest) (*blog.Outline, error)

	// ListOutlines returns outline history newest first with feedback attached
	ListOutlines(ctx context.Context, userID, postID string) ([]blog.Outline, error)

	// WriteArticle returns markdown for the outline. Nothing is persisted.
	WriteArticle(ctx context.Context, req *WriteArticleRequest) (string, error)
}

// Content formats accepted when saving a post
const (
	ContentFormatMarkdown = "markdown"
	ContentFormatHTML     = "html"
)

// SavePostRequest creates a post, or updates one when ID is set.
type SavePostRequest struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	ContentFormat string `json:"content_format"`
	Status        string `json:"status"`
	CategoryID    string `json:"category_id"`
}

// CreateCategoryRequest creates a category owned by the caller.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// PostService manages stored posts and the categories they belong to.
type PostService interface {
	SavePost(ctx context.Context, userID string, req *SavePostRequest) (*blog.Post, error)
	GetPost(ctx context.Context, id, userID string) (*blog.Post, error)
	ListPosts(ctx context.Context, userID string) ([]blog.Post, error)
	DeletePost(ctx context.Context, id, userID string) error

	ListCategories(ctx context.Context, userID string) ([]blog.Category, error)
	CreateCategory(ctx context.Context, userID string, req *CreateCategoryRequest) (*blog.Category, error)
}
