package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"blogsmith/internal/domain"
	"blogsmith/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Typed errors carry their own status; bare sentinels fall back to the switch below.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, message := translate(err)

	attrs := []any{"error", err, "status", status, "path", r.URL.Path, "method", r.Method}
	if userID := httputil.GetUserID(r); userID != "" {
		attrs = append(attrs, "user_id", userID)
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
	} else {
		logger.Debug("request rejected", attrs...)
	}

	httputil.RespondError(w, status, message)
}

func translate(err error) (int, string) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode(), httpErr.Error()
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
