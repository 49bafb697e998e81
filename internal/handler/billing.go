package handler

import (
	"log/slog"
	"net/http"

	"blogsmith/internal/domain/services"
	"blogsmith/internal/httputil"
)

// BillingHandler handles checkout, webhooks and the balance view
type BillingHandler struct {
	service services.BillingService
	logger  *slog.Logger
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(service services.BillingService, logger *slog.Logger) *BillingHandler {
	return &BillingHandler{service: service, logger: logger}
}

// CreateCheckout returns a hosted checkout URL
// POST /billing/checkout
func (h *BillingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req services.CheckoutRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.service.CreateCheckoutSession(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"url": session.URL})
}

// Webhook receives Stripe events. The route is public; the signature authenticates it.
// POST /billing/webhook
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := httputil.ReadBody(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"received": true})
}

// Summary returns balance and subscription status
// GET /billing/summary
func (h *BillingHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, summary)
}
