package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests and multiple servers in one
// process do not collide on the default one.
type Metrics struct {
	registry *prometheus.Registry

	AuthDecisions    *prometheus.CounterVec
	KeySetFetches    *prometheus.CounterVec
	KeySetFetchTime  prometheus.Histogram
	HTTPRequests     *prometheus.CounterVec
	HTTPRequestTime  *prometheus.HistogramVec
	RateLimitedTotal prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AuthDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casting_auth_decisions_total",
				Help: "Authorization decisions by outcome kind and HTTP status",
			},
			[]string{"outcome", "status"},
		),
		KeySetFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casting_jwks_fetches_total",
				Help: "Signing key set fetches by outcome",
			},
			[]string{"outcome"},
		),
		KeySetFetchTime: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "casting_jwks_fetch_duration_seconds",
				Help:    "Duration of signing key set fetches",
				Buckets: prometheus.DefBuckets,
			},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casting_http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestTime: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "casting_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "casting_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
	}
}

func (m *Metrics) ObserveAuthDecision(outcome string, status int) {
	m.AuthDecisions.WithLabelValues(outcome, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ObserveKeySetFetch(outcome string, elapsed time.Duration) {
	m.KeySetFetches.WithLabelValues(outcome).Inc()
	m.KeySetFetchTime.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestTime.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveRateLimited() {
	m.RateLimitedTotal.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
