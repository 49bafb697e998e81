package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models"
	"blogsmith/internal/httputil"
	"blogsmith/internal/metrics"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*models.SupabaseClaims, error) {
	if token != "good" {
		return nil, domain.ErrUnauthorized
	}
	return &models.SupabaseClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}, nil
}

func (stubVerifier) Close() error { return nil }

func echoUser(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(httputil.GetUserID(r)))
}

func TestAuth(t *testing.T) {
	h := Auth(stubVerifier{}, discard, "/health")(http.HandlerFunc(echoUser))

	tests := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{name: "valid token", path: "/blog/posts", header: "Bearer good", status: http.StatusOK, body: "user-1"},
		{name: "missing header", path: "/blog/posts", status: http.StatusUnauthorized},
		{name: "wrong scheme", path: "/blog/posts", header: "Basic good", status: http.StatusUnauthorized},
		{name: "bad token", path: "/blog/posts", header: "Bearer bad", status: http.StatusUnauthorized},
		{name: "public path", path: "/health", status: http.StatusOK, body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
			} else {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := Recovery(discard)(mux)
	before := testutil.ToFloat64(metrics.HTTPPanics.WithLabelValues("GET /boom"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.HTTPPanics.WithLabelValues("GET /boom")))
}

func TestRecoveryReraisesAbort(t *testing.T) {
	h := Recovery(discard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestRateLimiterPerUser(t *testing.T) {
	l := NewRateLimiter(2)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	l.lastSweep = now

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"), "buckets are per user")

	now = now.Add(31 * time.Second)
	assert.True(t, l.Allow("a"), "one token refills every 30s")

	now = now.Add(time.Hour)
	l.Allow("c")
	assert.NotContains(t, l.users, "b", "idle buckets are swept")
}

func TestRateLimiterNonPositiveRate(t *testing.T) {
	for _, perMinute := range []int{0, -3} {
		var l *RateLimiter
		require.NotPanics(t, func() { l = NewRateLimiter(perMinute) })
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		l.now = func() time.Time { return now }
		l.lastSweep = now

		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"), "falls back to one request per minute")
	}
}

func TestRateLimiterWrap(t *testing.T) {
	l := NewRateLimiter(1)
	h := Auth(stubVerifier{}, discard)(l.Wrap(echoUser))

	call := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/blog/write", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, call().Code)
	rec := call()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestMetricsRecordsPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	h := Metrics(Auth(stubVerifier{}, discard)(Route(mux)))

	tests := []struct {
		name   string
		header string
		route  string
		status int
	}{
		{name: "matched route", header: "Bearer good", route: "GET /things/{id}", status: http.StatusAccepted},
		{name: "rejected by auth", route: "unmatched", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels := []string{tt.route, strconv.Itoa(tt.status)}

			req := httptest.NewRequest(http.MethodGet, "/things/7", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, histogramSeries(t), strings.Join(labels, "|"))
		})
	}
}

// histogramSeries lists "route|status" for every observed request duration series
func histogramSeries(t *testing.T) []string {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	var series []string
	for _, mf := range families {
		if mf.GetName() != "blogsmith_http_request_duration_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var route, status string
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "route":
					route = lp.GetValue()
				case "status":
					status = lp.GetValue()
				}
			}
			series = append(series, route+"|"+status)
		}
	}
	return series
}

type panicVerifier struct{}

func (panicVerifier) VerifyToken(string) (*models.SupabaseClaims, error) { panic("verifier exploded") }

func (panicVerifier) Close() error { return nil }

func TestRecoveryCoversAuth(t *testing.T) {
	h := Recovery(discard)(Metrics(Auth(panicVerifier{}, discard)(Route(http.NewServeMux()))))
	req := httptest.NewRequest(http.MethodGet, "/blog/posts", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()

	require.NotPanics(t, func() { h.ServeHTTP(rec, req) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestRecoveryLogsRouteAndCaller(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom/{id}", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := Recovery(logger)(Metrics(Auth(stubVerifier{}, discard)(Route(mux))))

	req := httptest.NewRequest(http.MethodGet, "/boom/1", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), `"route":"GET /boom/{id}"`)
	assert.Contains(t, buf.String(), `"user_id":"user-1"`)
}
