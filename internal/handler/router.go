package handler

import (
	"log/slog"
	"net/http"

	"blogsmith/internal/auth"
	"blogsmith/internal/metrics"
	"blogsmith/internal/middleware"
)

// Paths reachable without a bearer token
const (
	PathHealth  = "/health"
	PathMetrics = "/metrics"
	PathWebhook = "/billing/webhook"
)

// Handlers bundles every route handler
type Handlers struct {
	Generation   *GenerationHandler
	Posts        *PostHandler
	Billing      *BillingHandler
	Integrations *IntegrationHandler
	Admin        *AdminHandler
	Models       *ModelsHandler
}

// NewRouter registers every route and wraps the mux in the middleware chain.
// Order: Recovery → Metrics → Auth → Route → mux. CORS is applied by the caller.
func NewRouter(h *Handlers, verifier auth.JWTVerifier, limiter *middleware.RateLimiter, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+PathHealth, Health)
	mux.Handle("GET "+PathMetrics, metrics.Handler())

	// Generation routes are rate limited per user
	mux.HandleFunc("POST /blog/research", limiter.Wrap(h.Generation.Research))
	mux.HandleFunc("POST /blog/outlines", limiter.Wrap(h.Generation.CreateOutline))
	mux.HandleFunc("GET /blog/outlines", h.Generation.ListOutlines)
	mux.HandleFunc("POST /blog/write", limiter.Wrap(h.Generation.WriteArticle))
	mux.HandleFunc("GET /blog/models", h.Models.GetModels)

	mux.HandleFunc("GET /blog/posts", h.Posts.ListPosts)
	mux.HandleFunc("POST /blog/posts", h.Posts.SavePost)
	mux.HandleFunc("GET /blog/posts/{id}", h.Posts.GetPost)
	mux.HandleFunc("DELETE /blog/posts/{id}", h.Posts.DeletePost)
	mux.HandleFunc("GET /blog/categories", h.Posts.ListCategories)
	mux.HandleFunc("POST /blog/categories", h.Posts.CreateCategory)

	mux.HandleFunc("POST /billing/checkout", h.Billing.CreateCheckout)
	mux.HandleFunc("POST "+PathWebhook, h.Billing.Webhook)
	mux.HandleFunc("GET /billing/summary", h.Billing.Summary)

	mux.HandleFunc("GET /integrations/wordpress", h.Integrations.GetWordPress)
	mux.HandleFunc("POST /integrations/wordpress", h.Integrations.SaveWordPress)
	mux.HandleFunc("DELETE /integrations/wordpress", h.Integrations.DeleteWordPress)
	mux.HandleFunc("GET /integrations/wordpress/categories", h.Integrations.ListCategories)
	mux.HandleFunc("POST /integrations/wordpress/publish", h.Integrations.Publish)

	mux.HandleFunc("GET /admin/users", h.Admin.ListUsers)

	var handler http.Handler = middleware.Route(mux)
	handler = middleware.Auth(verifier, logger, PathHealth, PathMetrics, PathWebhook)(handler)
	handler = middleware.Metrics(handler)
	handler = middleware.Recovery(logger)(handler)
	return handler
}
