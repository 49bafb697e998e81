// Package publisher publishes posts to a user's WordPress site and manages the connection.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/integration"
	"blogsmith/internal/domain/repositories"
	"blogsmith/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// localDateLayout is WordPress's site-local date format
const localDateLayout = "2006-01-02T15:04:05"

// publisherService implements the PublisherService interface
type publisherService struct {
	integrationRepo repositories.WordPressIntegrationRepository
	postRepo        repositories.PostRepository
	renderer        services.MarkdownRenderer
	wp              *wpClient
	logger          *slog.Logger
}

// NewService creates a new publisher service. timeout bounds every WordPress request.
func NewService(
	integrationRepo repositories.WordPressIntegrationRepository,
	postRepo repositories.PostRepository,
	renderer services.MarkdownRenderer,
	timeout time.Duration,
	logger *slog.Logger,
) services.PublisherService {
	return &publisherService{
		integrationRepo: integrationRepo,
		postRepo:        postRepo,
		renderer:        renderer,
		wp:              newWPClient(timeout),
		logger:          logger,
	}
}

// Publish renders markdown to HTML and creates the post on the user's site.
// The request is validated before any credentials are loaded.
func (s *publisherService) Publish(ctx context.Context, userID string, req *services.PublishRequest) (*integration.ExternalPostRef, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = integration.WPStatusDraft
	}
	if err := validation.Validate(status,
		validation.In(integration.WPStatusDraft, integration.WPStatusPublish, integration.WPStatusFuture),
	); err != nil {
		return nil, fmt.Errorf("%w: status: %v", domain.ErrValidation, err)
	}

	date := strings.TrimSpace(req.Date)
	if status == integration.WPStatusFuture {
		if date == "" {
			return nil, fmt.Errorf("%w: date is required for scheduled posts", domain.ErrValidation)
		}
		if !validDate(date) {
			return nil, fmt.Errorf("%w: date must be ISO 8601", domain.ErrValidation)
		}
	} else {
		date = ""
	}

	title, content, err := s.resolveContent(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	site, err := s.loadIntegration(ctx, userID)
	if err != nil {
		return nil, err
	}

	html, err := s.renderer.Render(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("render content: %w", err)
	}

	categories := req.Categories
	if categories == nil {
		categories = []int64{}
	}

	ref, err := s.wp.createPost(ctx, site, &wpPostBody{
		Title:      title,
		Content:    html,
		Status:     status,
		Categories: categories,
		Date:       date,
	})
	if err != nil {
		s.logger.Warn("wordpress publish failed", "user_id", userID, "wp_url", site.WPURL, "error", err)
		return nil, err
	}

	s.logger.Info("post published",
		"user_id", userID,
		"wp_post_id", ref.ID,
		"status", ref.Status,
	)

	return ref, nil
}

// ListRemoteCategories lists the categories defined on the user's site
func (s *publisherService) ListRemoteCategories(ctx context.Context, userID string) ([]integration.RemoteCategory, error) {
	site, err := s.loadIntegration(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.wp.listCategories(ctx, site)
}

func (s *publisherService) GetIntegration(ctx context.Context, userID string) (*integration.WordPressIntegration, error) {
	site, err := s.integrationRepo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return site, err
}

// SaveIntegration replaces every field of the user's connection
func (s *publisherService) SaveIntegration(ctx context.Context, userID string, req *services.SaveIntegrationRequest) (*integration.WordPressIntegration, error) {
	wpURL := strings.TrimSpace(req.WPURL)
	if wpURL == "" {
		return nil, &domain.ValidationError{Message: "Missing WordPress site URL"}
	}
	u, err := url.Parse(wpURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &domain.ValidationError{Message: "WordPress site URL must be an absolute http(s) URL"}
	}

	site := &integration.WordPressIntegration{
		UserID:         userID,
		WPURL:          strings.TrimRight(wpURL, "/"),
		WPUsername:     strings.TrimSpace(req.WPUsername),
		WPAppPassword:  req.WPAppPassword,
		WPAccessToken:  req.WPAccessToken,
		WPRefreshToken: req.WPRefreshToken,
	}
	if err := s.integrationRepo.Upsert(ctx, site); err != nil {
		return nil, err
	}

	s.logger.Info("wordpress integration saved", "user_id", userID, "wp_url", site.WPURL)
	return site, nil
}

func (s *publisherService) DeleteIntegration(ctx context.Context, userID string) error {
	if err := s.integrationRepo.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("wordpress integration deleted", "user_id", userID)
	return nil
}

// resolveContent returns the title and markdown to publish
func (s *publisherService) resolveContent(ctx context.Context, userID string, req *services.PublishRequest) (string, string, error) {
	title := strings.TrimSpace(req.Title)
	content := req.Content

	if postID := strings.TrimSpace(req.PostID); postID != "" {
		post, err := s.postRepo.GetByID(ctx, postID, userID)
		if err != nil {
			return "", "", err
		}
		if title == "" {
			title = post.Title
		}
		content = post.Content
	}

	if title == "" || strings.TrimSpace(content) == "" {
		return "", "", &domain.ValidationError{Message: "Missing title or content"}
	}
	return title, content, nil
}

func (s *publisherService) loadIntegration(ctx context.Context, userID string) (*integration.WordPressIntegration, error) {
	site, err := s.integrationRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NoIntegrationError{}
		}
		return nil, fmt.Errorf("load integration: %w", err)
	}
	return site, nil
}

func validDate(value string) bool {
	if _, err := time.Parse(time.RFC3339, value); err == nil {
		return true
	}
	_, err := time.Parse(localDateLayout, value)
	return err == nil
}
