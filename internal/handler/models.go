package handler

import (
	"log/slog"
	"net/http"

	"blogsmith/internal/capabilities"
	"blogsmith/internal/config"
	"blogsmith/internal/httputil"
)

// ModelsHandler reports which completion models generation runs on
type ModelsHandler struct {
	config   *config.Config
	logger   *slog.Logger
	registry *capabilities.Registry
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(cfg *config.Config, logger *slog.Logger, registry *capabilities.Registry) *ModelsHandler {
	return &ModelsHandler{
		config:   cfg,
		logger:   logger,
		registry: registry,
	}
}

// ModelsResponse is the configured provider and its catalog
type ModelsResponse struct {
	Provider     string                           `json:"provider"`
	OutlineModel string                           `json:"outline_model"`
	ArticleModel string                           `json:"article_model"`
	Models       []capabilities.ModelCapabilities `json:"models"`
}

// GetModels returns the active provider's model catalog
// GET /blog/models
func (h *ModelsHandler) GetModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.registry.ListProviderModels(h.config.CompletionProvider)
	if err != nil {
		h.logger.Warn("no capability catalog for provider", "provider", h.config.CompletionProvider)
		models = []capabilities.ModelCapabilities{}
	}

	httputil.RespondJSON(w, http.StatusOK, ModelsResponse{
		Provider:     h.config.CompletionProvider,
		OutlineModel: h.config.OutlineModel,
		ArticleModel: h.config.ArticleModel,
		Models:       models,
	})
}
