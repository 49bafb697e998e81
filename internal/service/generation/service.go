// Package generation implements outline generation, the feedback loop and article writing.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"blogsmith/internal/config"
	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/blog"
	"blogsmith/internal/domain/repositories"
	"blogsmith/internal/domain/services"
	"blogsmith/internal/metrics"
	"blogsmith/internal/prompts"
	"blogsmith/internal/service/converter"

	"github.com/google/uuid"
)

// Models names the completion model per generation kind
type Models struct {
	Outline string
	Article string
}

// generationService implements the GenerationService interface
type generationService struct {
	outlineRepo  repositories.OutlineRepository
	feedbackRepo repositories.FeedbackRepository
	postRepo     repositories.PostRepository
	txManager    repositories.TransactionManager
	completion   services.CompletionClient
	prompts      *prompts.Catalog
	models       Models
	logger       *slog.Logger
}

// NewService creates a new generation service
func NewService(
	outlineRepo repositories.OutlineRepository,
	feedbackRepo repositories.FeedbackRepository,
	postRepo repositories.PostRepository,
	txManager repositories.TransactionManager,
	completion services.CompletionClient,
	catalog *prompts.Catalog,
	models Models,
	logger *slog.Logger,
) services.GenerationService {
	return &generationService{
		outlineRepo:  outlineRepo,
		feedbackRepo: feedbackRepo,
		postRepo:     postRepo,
		txManager:    txManager,
		completion:   completion,
		prompts:      catalog,
		models:       models,
		logger:       logger,
	}
}

// Research generates an outline draft without persisting it
func (s *generationService) Research(ctx context.Context, brief blog.Brief) (*blog.OutlineDraft, error) {
	brief = normalizeBrief(brief)
	if err := validateBrief(&brief); err != nil {
		return nil, err
	}
	return s.generateOutline(ctx, brief, "")
}

// GenerateOutline generates and stores a fresh outline
func (s *generationService) GenerateOutline(ctx context.Context, userID string, req *services.GenerateOutlineRequest) (*blog.Outline, error) {
	brief := normalizeBrief(req.Brief)
	if err := validateBrief(&brief); err != nil {
		return nil, err
	}

	postID, err := s.ownedPostID(ctx, req.PostID, userID)
	if err != nil {
		return nil, err
	}

	draft, err := s.generateOutline(ctx, brief, "")
	if err != nil {
		return nil, err
	}

	outline := newOutline(userID, postID, brief, draft)
	if err := s.outlineRepo.Create(ctx, outline); err != nil {
		return nil, fmt.Errorf("save outline: %w", err)
	}

	s.logger.Info("outline generated",
		"id", outline.ID,
		"user_id", userID,
		"key_points", len(outline.KeyPoints),
	)

	return outline, nil
}

// RegenerateWithFeedback generates a new outline from a previous outline's brief
// plus feedback. The feedback row and the new outline are written together.
func (s *generationService) RegenerateWithFeedback(ctx context.Context, userID string, req *services.RegenerateOutlineRequest) (*blog.Outline, error) {
	if strings.TrimSpace(req.PreviousOutlineID) == "" {
		return nil, &domain.NoPriorOutlineError{}
	}
	feedbackText := strings.TrimSpace(req.Feedback)
	if err := validateFeedback(feedbackText); err != nil {
		return nil, err
	}

	previous, err := s.outlineRepo.GetByID(ctx, req.PreviousOutlineID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NoPriorOutlineError{}
		}
		return nil, fmt.Errorf("load previous outline: %w", err)
	}

	postID := previous.PostID
	if req.PostID != nil {
		if postID, err = s.ownedPostID(ctx, req.PostID, userID); err != nil {
			return nil, err
		}
	}

	brief := previous.Brief.WithDefaults()
	draft, err := s.generateOutline(ctx, brief, feedbackText)
	if err != nil {
		return nil, err
	}

	outline := newOutline(userID, postID, brief, draft)
	feedback := &blog.Feedback{
		UserID:    userID,
		OutlineID: previous.ID,
		Text:      feedbackText,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.feedbackRepo.Create(txCtx, feedback); err != nil {
			return fmt.Errorf("save feedback: %w", err)
		}
		if err := s.outlineRepo.Create(txCtx, outline); err != nil {
			return fmt.Errorf("save outline: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("outline regenerated",
		"id", outline.ID,
		"previous_id", previous.ID,
		"feedback_id", feedback.ID,
		"user_id", userID,
	)

	return outline, nil
}

// ListOutlines returns outline history newest first with feedback attached
func (s *generationService) ListOutlines(ctx context.Context, userID, postID string) ([]blog.Outline, error) {
	postID = strings.TrimSpace(postID)
	if postID != "" {
		if _, err := uuid.Parse(postID); err != nil {
			return nil, fmt.Errorf("%w: post_id must be a UUID", domain.ErrValidation)
		}
	}

	outlines, err := s.outlineRepo.List(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if len(outlines) == 0 {
		return outlines, nil
	}

	ids := make([]string, len(outlines))
	for i := range outlines {
		ids[i] = outlines[i].ID
	}

	feedback, err := s.feedbackRepo.ListByOutlines(ctx, ids)
	if err != nil {
		return nil, err
	}

	byOutline := make(map[string][]blog.Feedback, len(outlines))
	for _, f := range feedback {
		byOutline[f.OutlineID] = append(byOutline[f.OutlineID], f)
	}
	for i := range outlines {
		outlines[i].Feedback = byOutline[outlines[i].ID]
	}

	return outlines, nil
}

// WriteArticle returns markdown for an outline
func (s *generationService) WriteArticle(ctx context.Context, req *services.WriteArticleRequest) (string, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || len(req.KeyPoints) == 0 {
		return "", &domain.InvalidOutlineError{Message: "missing or invalid outline fields"}
	}

	brief := req.Brief.WithDefaults()
	if err := validateTiers(&brief); err != nil {
		return "", err
	}

	prompt, err := s.prompts.Article(prompts.ArticleInput{
		Title:       title,
		MainKeyword: strings.TrimSpace(req.MainKeyword),
		KeyPoints:   req.KeyPoints,
		Topic:       brief.Topic,
		ICP:         brief.ICP,
		Style:       brief.Style,
		Keywords:    brief.Keywords,
		Length:      brief.Length,
		SEO:         brief.SEO,
		Citations:   brief.Citations,
	})
	if err != nil {
		return "", err
	}

	result, err := s.completion.Complete(ctx, &services.CompletionRequest{
		Kind:        services.CompletionKindArticle,
		Model:       s.models.Article,
		System:      prompt.System,
		User:        prompt.User,
		MaxTokens:   config.ArticleMaxTokens,
		Temperature: config.ArticleTemperature,
	})
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(services.CompletionKindArticle, metrics.ResultError).Inc()
		return "", err
	}

	if strings.TrimSpace(result.Text) == "" {
		metrics.GenerationTotal.WithLabelValues(services.CompletionKindArticle, metrics.ResultError).Inc()
		return "", &domain.EmptyGenerationError{}
	}

	metrics.GenerationTotal.WithLabelValues(services.CompletionKindArticle, metrics.ResultOK).Inc()
	s.logger.Info("article written",
		"title", title,
		"words", converter.CountWords(result.Text),
		"output_tokens", result.OutputTokens,
	)

	return result.Text, nil
}

// generateOutline runs one outline completion and parses it
func (s *generationService) generateOutline(ctx context.Context, brief blog.Brief, feedback string) (*blog.OutlineDraft, error) {
	prompt, err := s.prompts.Outline(prompts.OutlineInput{
		Topic:    brief.Topic,
		ICP:      brief.ICP,
		Style:    brief.Style,
		Keywords: brief.Keywords,
		Feedback: feedback,
	})
	if err != nil {
		return nil, err
	}

	result, err := s.completion.Complete(ctx, &services.CompletionRequest{
		Kind:        services.CompletionKindOutline,
		Model:       s.models.Outline,
		System:      prompt.System,
		User:        prompt.User,
		MaxTokens:   config.OutlineMaxTokens,
		Temperature: brief.Temperature(),
		JSON:        true,
	})
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(services.CompletionKindOutline, metrics.ResultError).Inc()
		return nil, err
	}

	draft, err := parseOutline(result.Text)
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(services.CompletionKindOutline, metrics.ResultError).Inc()
		s.logger.Warn("outline response rejected", "error", err, "model", result.Model)
		return nil, err
	}

	metrics.GenerationTotal.WithLabelValues(services.CompletionKindOutline, metrics.ResultOK).Inc()
	return draft, nil
}

// ownedPostID returns postID when it names a post owned by userID
func (s *generationService) ownedPostID(ctx context.Context, postID *string, userID string) (*string, error) {
	if postID == nil || strings.TrimSpace(*postID) == "" {
		return nil, nil
	}
	post, err := s.postRepo.GetByID(ctx, strings.TrimSpace(*postID), userID)
	if err != nil {
		return nil, fmt.Errorf("blog post: %w", err)
	}
	return &post.ID, nil
}

func newOutline(userID string, postID *string, brief blog.Brief, draft *blog.OutlineDraft) *blog.Outline {
	return &blog.Outline{
		UserID:      userID,
		PostID:      postID,
		Title:       draft.Title,
		MainKeyword: draft.MainKeyword,
		KeyPoints:   draft.KeyPoints,
		Brief:       brief,
	}
}
