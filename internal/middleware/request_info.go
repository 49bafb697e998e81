package middleware

import (
	"context"
	"net/http"

	"blogsmith/internal/httputil"
)

// requestInfo is filled in by Route so middleware running outside Auth and
// the ServeMux can still label by pattern and caller.
type requestInfo struct {
	route  string
	userID string
}

type requestInfoKey struct{}

// withRequestInfo returns r carrying a requestInfo, reusing one set further out
func withRequestInfo(r *http.Request) (*http.Request, *requestInfo) {
	if info, ok := r.Context().Value(requestInfoKey{}).(*requestInfo); ok {
		return r, info
	}
	info := &requestInfo{}
	return r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info)), info
}

// Route records the matched pattern and the authenticated caller for the
// outer middleware. It must wrap the ServeMux directly.
func Route(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if info, ok := r.Context().Value(requestInfoKey{}).(*requestInfo); ok {
			info.userID = httputil.GetUserID(r)
			defer func() { info.route = r.Pattern }()
		}
		next.ServeHTTP(w, r)
	})
}

// label is the matched ServeMux pattern, which keeps label cardinality bounded
func (i *requestInfo) label(r *http.Request) string {
	if i.route != "" {
		return i.route
	}
	if r.Pattern != "" {
		return r.Pattern
	}
	return "unmatched"
}

func (i *requestInfo) caller(r *http.Request) string {
	if i.userID != "" {
		return i.userID
	}
	return httputil.GetUserID(r)
}
