package handler

import (
	"log/slog"
	"net/http"

	"blogsmith/internal/domain/services"
	"blogsmith/internal/httputil"
)

// AdminHandler serves operator endpoints
type AdminHandler struct {
	service services.AdminService
	logger  *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service services.AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: logger}
}

// ListUsers returns every user with their post count
// GET /admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context(), httputil.GetClaims(r))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}
