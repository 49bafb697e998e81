package handler

import (
	"log/slog"
	"net/http"

	"blogsmith/internal/domain/services"
	"blogsmith/internal/httputil"
)

// PostHandler handles stored posts and categories
type PostHandler struct {
	service services.PostService
	logger  *slog.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(service services.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{service: service, logger: logger}
}

// SavePost creates a post, or updates it when the body carries an id
// POST /blog/posts
func (h *PostHandler) SavePost(w http.ResponseWriter, r *http.Request) {
	var req services.SavePostRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.service.SavePost(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	status := http.StatusCreated
	if req.ID != "" {
		status = http.StatusOK
	}
	httputil.RespondJSON(w, status, map[string]interface{}{"post": post})
}

// ListPosts returns the user's posts newest first
// GET /blog/posts
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

// GetPost returns one post
// GET /blog/posts/{id}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPost(r.Context(), r.PathValue("id"), httputil.GetUserID(r))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"post": post})
}

// DeletePost removes a post
// DELETE /blog/posts/{id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePost(r.Context(), r.PathValue("id"), httputil.GetUserID(r)); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ListCategories returns global and own categories
// GET /blog/categories
func (h *PostHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// CreateCategory creates a category owned by the user
// POST /blog/categories
func (h *PostHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req services.CreateCategoryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.service.CreateCategory(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, map[string]interface{}{"category": category})
}
