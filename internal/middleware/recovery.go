package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"blogsmith/internal/httputil"
	"blogsmith/internal/metrics"
)

// Recovery turns a handler panic into a 500 JSON error. It sits outermost so
// Auth is covered too. http.ErrAbortHandler is re-raised untouched.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, info := withRequestInfo(r)
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}

				route := info.label(r)
				metrics.HTTPPanics.WithLabelValues(route).Inc()
				logger.Error("panic recovered",
					"panic", v,
					"route", route,
					"method", r.Method,
					"user_id", info.caller(r),
					"stack", string(debug.Stack()),
				)

				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
