package handler

import (
	"log/slog"
	"net/http"

	"blogsmith/internal/domain/services"
	"blogsmith/internal/httputil"
)

// IntegrationHandler handles the WordPress connection and publishing
type IntegrationHandler struct {
	service services.PublisherService
	logger  *slog.Logger
}

// NewIntegrationHandler creates a new integration handler
func NewIntegrationHandler(service services.PublisherService, logger *slog.Logger) *IntegrationHandler {
	return &IntegrationHandler{service: service, logger: logger}
}

// GetWordPress returns the connection without credentials, or null
// GET /integrations/wordpress
func (h *IntegrationHandler) GetWordPress(w http.ResponseWriter, r *http.Request) {
	site, err := h.service.GetIntegration(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"integration": site})
}

// SaveWordPress replaces the connection
// POST /integrations/wordpress
func (h *IntegrationHandler) SaveWordPress(w http.ResponseWriter, r *http.Request) {
	var req services.SaveIntegrationRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.service.SaveIntegration(r.Context(), httputil.GetUserID(r), &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// DeleteWordPress disconnects the site
// DELETE /integrations/wordpress
func (h *IntegrationHandler) DeleteWordPress(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteIntegration(r.Context(), httputil.GetUserID(r)); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ListCategories lists categories on the remote site
// GET /integrations/wordpress/categories
func (h *IntegrationHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListRemoteCategories(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// Publish creates a post on the remote site
// POST /integrations/wordpress/publish
func (h *IntegrationHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req services.PublishRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ref, err := h.service.Publish(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"post": ref})
}
