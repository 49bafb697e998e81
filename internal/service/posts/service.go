// Package posts implements the post store and category management.
package posts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"blogsmith/internal/config"
	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/blog"
	"blogsmith/internal/domain/repositories"
	"blogsmith/internal/domain/services"
	"blogsmith/internal/service/converter"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// postService implements the PostService interface
type postService struct {
	postRepo     repositories.PostRepository
	categoryRepo repositories.CategoryRepository
	converters   *converter.ConverterRegistry
	logger       *slog.Logger
}

// NewService creates a new post service
func NewService(
	postRepo repositories.PostRepository,
	categoryRepo repositories.CategoryRepository,
	converters *converter.ConverterRegistry,
	logger *slog.Logger,
) services.PostService {
	return &postService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		converters:   converters,
		logger:       logger,
	}
}

// SavePost creates a post, or replaces an existing one when req.ID is set
func (s *postService) SavePost(ctx context.Context, userID string, req *services.SavePostRequest) (*blog.Post, error) {
	if req.Status == "" {
		req.Status = blog.PostStatusDraft
	}
	if req.ContentFormat == "" {
		req.ContentFormat = services.ContentFormatMarkdown
	}
	if err := s.validateSaveRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	title := strings.TrimSpace(req.Title)
	slug := blog.Slugify(title)
	if slug == "" {
		return nil, fmt.Errorf("%w: title: must contain a letter or digit", domain.ErrValidation)
	}

	content, err := s.converters.ToMarkdown(ctx, req.ContentFormat, req.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: content: %v", domain.ErrValidation, err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content: nothing left after sanitizing", domain.ErrValidation)
	}

	if _, err := s.categoryRepo.GetVisible(ctx, req.CategoryID, userID); err != nil {
		return nil, err
	}

	now := time.Now()
	post := &blog.Post{
		ID:         strings.TrimSpace(req.ID),
		UserID:     userID,
		Title:      title,
		Slug:       slug,
		Content:    content,
		Status:     req.Status,
		CategoryID: req.CategoryID,
		UpdatedAt:  now,
	}

	if post.ID != "" {
		if err := s.postRepo.Update(ctx, post); err != nil {
			return nil, err
		}
		s.logger.Info("post updated", "id", post.ID, "slug", post.Slug, "user_id", userID)
		return post, nil
	}

	post.CreatedAt = now
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post created",
		"id", post.ID,
		"slug", post.Slug,
		"status", post.Status,
		"words", converter.CountWords(post.Content),
		"user_id", userID,
	)

	return post, nil
}

func (s *postService) GetPost(ctx context.Context, id, userID string) (*blog.Post, error) {
	return s.postRepo.GetByID(ctx, id, userID)
}

func (s *postService) ListPosts(ctx context.Context, userID string) ([]blog.Post, error) {
	return s.postRepo.List(ctx, userID)
}

func (s *postService) DeletePost(ctx context.Context, id, userID string) error {
	if err := s.postRepo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("post deleted", "id", id, "user_id", userID)
	return nil
}

// ListCategories returns global categories then the user's own
func (s *postService) ListCategories(ctx context.Context, userID string) ([]blog.Category, error) {
	return s.categoryRepo.ListVisible(ctx, userID)
}

// CreateCategory creates a category owned by the user
func (s *postService) CreateCategory(ctx context.Context, userID string, req *services.CreateCategoryRequest) (*blog.Category, error) {
	name := strings.TrimSpace(req.Name)
	err := validation.Validate(name,
		validation.Required.Error("name is required"),
		validation.RuneLength(1, config.MaxCategoryNameLength),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	slug := blog.Slugify(name)
	if slug == "" {
		return nil, fmt.Errorf("%w: name: must contain a letter or digit", domain.ErrValidation)
	}

	owner := userID
	category := &blog.Category{Name: name, Slug: slug, UserID: &owner}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category created", "id", category.ID, "slug", slug, "user_id", userID)
	return category, nil
}

func (s *postService) validateSaveRequest(req *services.SavePostRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.By(notBlank("title is required")),
			validation.RuneLength(1, config.MaxTitleLength),
		),
		validation.Field(&req.Content,
			validation.By(notBlank("content is required")),
			validation.Length(1, config.MaxPostContentLength),
		),
		validation.Field(&req.CategoryID, validation.By(notBlank("category_id is required"))),
		validation.Field(&req.Status, validation.In(blog.PostStatusDraft, blog.PostStatusPublished)),
		validation.Field(&req.ContentFormat, validation.In(services.ContentFormatMarkdown, services.ContentFormatHTML)),
	)
}

// notBlank rejects empty and whitespace-only strings
func notBlank(msg string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return validation.NewError("validation_required", msg)
		}
		return nil
	}
}
