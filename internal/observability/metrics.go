package observability

import (
	"net/http"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// Page server request rate. Watch for: sudden drops (server down) or spikes.
	HTTPRequestsTotal *prometheus.CounterVec

	// Page server latency, dominated by the provider fetch on /weather.
	HTTPRequestDuration *prometheus.HistogramVec

	HTTPRequestsInFlight prometheus.Gauge

	// Provider call rate by HTTP status class. The status never decides success;
	// this only shows what the provider sent.
	ProviderCallsTotal *prometheus.CounterVec

	// Provider latency. Watch for: p95 > 2s, submissions feel hung.
	ProviderDuration *prometheus.HistogramVec

	// Form submissions by outcome (success, validation_error, request_error).
	SubmissionsTotal *prometheus.CounterVec

	// Failed fetches by category (transport, timeout, decode, provider).
	RequestErrorsTotal *prometheus.CounterVec

	// Per-location submissions (allow-list; others go to "other").
	SubmissionsByLocationTotal *prometheus.CounterVec

	// Page server sessions currently holding a display.
	SessionsActive prometheus.Gauge

	// Rate limit denials on the submit route.
	RateLimitDeniedTotal prometheus.Counter

	trackedLocationsMu sync.RWMutex
	trackedLocations   map[string]struct{}
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	ProviderCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "providerCallsTotal",
			Help: "Total number of weather provider calls",
		},
		[]string{"endpoint", "status"},
	)
	ProviderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "providerDurationSeconds",
			Help:    "Weather provider latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "status"},
	)
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formSubmissionsTotal",
			Help: "Total number of weather form submissions by outcome",
		},
		[]string{"outcome"},
	)
	RequestErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "providerRequestErrorsTotal",
			Help: "Failed weather fetches by error category",
		},
		[]string{"category"},
	)
	SubmissionsByLocationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formSubmissionsByLocationTotal",
			Help: "Form submissions by location (allow-list; others use location=other)",
		},
		[]string{"location"},
	)
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessionsActive",
			Help: "Page sessions currently holding a weather display",
		},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of submissions denied by rate limiter (429)",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		ProviderCallsTotal, ProviderDuration,
		SubmissionsTotal, RequestErrorsTotal, SubmissionsByLocationTotal,
		SessionsActive, RateLimitDeniedTotal,
	)
}

// SetTrackedLocations sets the allow-list for location metrics. Non-tracked locations increment "other".
func SetTrackedLocations(locations []string) {
	trackedLocationsMu.Lock()
	defer trackedLocationsMu.Unlock()
	trackedLocations = make(map[string]struct{}, len(locations))
	for _, loc := range locations {
		trackedLocations[normalizeLocationForMetrics(loc)] = struct{}{}
	}
}

// RecordSubmission records a form submission outcome for the given location.
func RecordSubmission(location, outcome string) {
	SubmissionsTotal.WithLabelValues(outcome).Inc()
	if location == "" {
		return
	}
	SubmissionsByLocationTotal.WithLabelValues(MetricLocationLabel(location)).Inc()
}

// MetricLocationLabel returns the normalized location when tracked, "other" otherwise.
func MetricLocationLabel(location string) string {
	loc := normalizeLocationForMetrics(location)
	trackedLocationsMu.RLock()
	_, ok := trackedLocations[loc] // nil map read is safe in Go
	trackedLocationsMu.RUnlock()
	if ok {
		return loc
	}
	return "other"
}

func normalizeLocationForMetrics(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
