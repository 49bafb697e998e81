// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values
const (
	ResultOK        = "ok"
	ResultError     = "error"
	ResultDuplicate = "duplicate"
	ResultIgnored   = "ignored"
)

var (
	// GenerationTotal counts outline and article generations by outcome
	GenerationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogsmith_generation_total",
		Help: "Total generations by kind and result",
	}, []string{"kind", "result"})

	// CompletionDuration tracks upstream completion latency
	CompletionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blogsmith_completion_duration_seconds",
		Help:    "Completion API call duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 9), // 250ms to ~64s
	}, []string{"provider", "kind"})

	// CompletionTokens counts tokens reported by the completion API
	CompletionTokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogsmith_completion_tokens_total",
		Help: "Completion tokens by provider and direction",
	}, []string{"provider", "direction"})

	// WebhookEventsTotal counts Stripe webhook deliveries by type and outcome
	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogsmith_webhook_events_total",
		Help: "Total webhook events by type and result",
	}, []string{"type", "result"})

	// TokensCredited counts tokens added to ledgers by source
	TokensCredited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogsmith_tokens_credited_total",
		Help: "Total tokens credited by source",
	}, []string{"source"})

	// WordPressRequests counts outbound WordPress REST calls
	WordPressRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogsmith_wordpress_requests_total",
		Help: "Total WordPress requests by operation and result",
	}, []string{"operation", "result"})

	// HTTPPanics counts handler panics turned into 500s
	HTTPPanics = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogsmith_http_panics_total",
		Help: "Recovered handler panics by route",
	}, []string{"route"})

	// HTTPRequestDuration tracks API latency by route pattern
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blogsmith_http_request_duration_seconds",
		Help:    "HTTP request duration by route and status class",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "status"})
)

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveCompletion records one completion call
func ObserveCompletion(provider, kind string, started time.Time, inputTokens, outputTokens int) {
	CompletionDuration.WithLabelValues(provider, kind).Observe(time.Since(started).Seconds())
	if inputTokens > 0 {
		CompletionTokens.WithLabelValues(provider, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		CompletionTokens.WithLabelValues(provider, "output").Add(float64(outputTokens))
	}
}

// Result maps an error to a result label
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
