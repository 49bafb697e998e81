package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"blogsmith/internal/domain/models/blog"
	"blogsmith/internal/domain/services"
	"blogsmith/internal/httputil"
)

// GenerationHandler handles outline and article generation
type GenerationHandler struct {
	service services.GenerationService
	logger  *slog.Logger
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(service services.GenerationService, logger *slog.Logger) *GenerationHandler {
	return &GenerationHandler{service: service, logger: logger}
}

// outlineRequest generates a fresh outline, or regenerates one when
// previous_outline_id or feedback is present.
type outlineRequest struct {
	blog.Brief
	BlogPostID        *string `json:"blog_post_id"`
	PreviousOutlineID string  `json:"previous_outline_id"`
	Feedback          string  `json:"feedback"`
}

// Research returns an outline without storing it
// POST /blog/research
func (h *GenerationHandler) Research(w http.ResponseWriter, r *http.Request) {
	var brief blog.Brief
	if err := httputil.ParseJSON(w, r, &brief); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	draft, err := h.service.Research(r.Context(), brief)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, draft)
}

// CreateOutline generates and stores an outline
// POST /blog/outlines
func (h *GenerationHandler) CreateOutline(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req outlineRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var (
		outline *blog.Outline
		err     error
	)
	if strings.TrimSpace(req.PreviousOutlineID) != "" || strings.TrimSpace(req.Feedback) != "" {
		outline, err = h.service.RegenerateWithFeedback(r.Context(), userID, &services.RegenerateOutlineRequest{
			PreviousOutlineID: req.PreviousOutlineID,
			Feedback:          req.Feedback,
			PostID:            req.BlogPostID,
		})
	} else {
		outline, err = h.service.GenerateOutline(r.Context(), userID, &services.GenerateOutlineRequest{
			Brief:  req.Brief,
			PostID: req.BlogPostID,
		})
	}
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]interface{}{"outline": outline})
}

// ListOutlines returns outline history with feedback
// GET /blog/outlines?post_id=
func (h *GenerationHandler) ListOutlines(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	postID := r.URL.Query().Get("post_id")
	if postID == "" {
		postID = r.URL.Query().Get("blog_post_id")
	}

	outlines, err := h.service.ListOutlines(r.Context(), userID, postID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"outlines": outlines})
}

// WriteArticle returns a markdown article for an outline
// POST /blog/write
func (h *GenerationHandler) WriteArticle(w http.ResponseWriter, r *http.Request) {
	var req services.WriteArticleRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	article, err := h.service.WriteArticle(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"article": article})
}
