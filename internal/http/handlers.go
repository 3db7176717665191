package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-form/internal/form"
	"github.com/kjstillabower/weather-form/internal/lifecycle"
	"github.com/kjstillabower/weather-form/internal/observability"
	"github.com/kjstillabower/weather-form/internal/traffic"
)

// HealthConfig holds the thresholds the health handler applies to recent
// submission outcomes. A zero percentage disables that check.
type HealthConfig struct {
	Window time.Duration
	// DegradedFailurePct is the provider failure rate that marks the server degraded.
	DegradedFailurePct int
	// DegradedMinSubmissions is how many fetches the window needs before the failure
	// rate is trusted.
	DegradedMinSubmissions int
	// OverloadDenialPct is the share of rate-limited submissions that marks the
	// server overloaded.
	OverloadDenialPct int
}

// Handler serves the form page and runs submissions against the caller's session.
type Handler struct {
	sessions         *SessionStore
	health           *HealthConfig
	logger           *zap.Logger
	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler. A nil health config reports healthy until shutdown.
func NewHandler(sessions *SessionStore, health *HealthConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		sessions: sessions,
		health:   health,
		logger:   logger,
	}
}

// GetPage handles GET /.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, sess, pageData{})
}

// PostWeather handles POST /weather: one form submission.
func (h *Handler) PostWeather(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_FORM", "form body could not be parsed")
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var alerts requestAlerts
	ctx := form.WithPrompter(r.Context(), &alerts)
	ev := &form.ValueEvent{Location: r.PostFormValue("location")}
	err := sess.Handler.OnSubmit(ctx, ev)
	recordOutcome(err)
	h.render(w, r, submitStatus(err), sess, pageData{Location: ev.Location, Alerts: alerts})
}

// GetForecast handles GET /forecast?location=.
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var alerts requestAlerts
	location := r.URL.Query().Get("location")
	summary, err := sess.Handler.Forecast(form.WithPrompter(r.Context(), &alerts), location)
	recordOutcome(err)
	h.render(w, r, submitStatus(err), sess, pageData{Location: location, Alerts: alerts, Forecast: summary})
}

// GetTips handles GET /tips?location=: farming advice for current conditions.
func (h *Handler) GetTips(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var alerts requestAlerts
	location := r.URL.Query().Get("location")
	tips, err := sess.Handler.Tips(form.WithPrompter(r.Context(), &alerts), location)
	recordOutcome(err)
	h.render(w, r, submitStatus(err), sess, pageData{Location: location, Alerts: alerts, Tips: tips})
}

// requestAlerts collects the prompts raised while serving one request, so that
// concurrent requests in the same session each render only their own.
type requestAlerts []string

func (a *requestAlerts) Alert(message string) { *a = append(*a, message) }

// healthResult holds the computed health status and metadata for logging.
type healthResult struct {
	status     string
	statusCode int
	reason     string
	counts     traffic.Counts
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	result := h.computeHealthStatus()

	h.healthStatusMu.Lock()
	if h.healthStatusPrev != "" && h.healthStatusPrev != result.status {
		h.logger.Info("health status transition",
			zap.String("previous_status", h.healthStatusPrev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	writeJSON(w, result.statusCode, map[string]interface{}{
		"status":   result.status,
		"service":  "weather-form",
		"version":  "dev",
		"sessions": h.sessions.Len(),
		"window": map[string]int{
			"successes": result.counts.Successes,
			"failures":  result.counts.Failures,
			"denials":   result.counts.Denials,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// computeHealthStatus evaluates, in order: shutting-down > overloaded > degraded > healthy.
func (h *Handler) computeHealthStatus() healthResult {
	if lifecycle.IsShuttingDown() {
		return healthResult{status: "shutting-down", statusCode: http.StatusServiceUnavailable, reason: "signal"}
	}
	if h.health == nil || h.health.Window <= 0 {
		return healthResult{status: "healthy", statusCode: http.StatusOK}
	}
	counts := traffic.Window(h.health.Window)
	if h.health.OverloadDenialPct > 0 && counts.Denials > 0 && counts.DenialPct() >= float64(h.health.OverloadDenialPct) {
		return healthResult{"overloaded", http.StatusServiceUnavailable, "rate_limit_denials", counts}
	}
	if h.health.DegradedFailurePct > 0 && counts.Successes+counts.Failures >= h.health.DegradedMinSubmissions &&
		counts.Failures > 0 && counts.FailurePct() >= float64(h.health.DegradedFailurePct) {
		return healthResult{"degraded", http.StatusServiceUnavailable, "provider_failure_rate", counts}
	}
	return healthResult{"healthy", http.StatusOK, "", counts}
}

// recordOutcome feeds the health window. Validation failures never reach the
// provider and are not counted.
func recordOutcome(err error) {
	var rerr *form.RequestError
	switch {
	case err == nil:
		traffic.Record(traffic.Success)
	case errors.As(err, &rerr):
		traffic.Record(traffic.Failure)
	}
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, err := h.sessions.FromRequest(w, r)
	if err != nil {
		observability.LoggerFromContext(r.Context(), h.logger).Error("session", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "SESSION_UNAVAILABLE", "session could not be created")
		return nil, false
	}
	return sess, true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, sess *Session, data pageData) {
	data.Alerts = append(sess.TakeAlerts(), data.Alerts...)
	data.Display = sess.Page.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		observability.LoggerFromContext(r.Context(), h.logger).Error("render page", zap.Error(err))
	}
}

// submitStatus maps a submission result to the page's response status. The page
// is rendered either way.
func submitStatus(err error) int {
	var verr *form.ValidationError
	var rerr *form.RequestError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &rerr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes a JSON response with the specified HTTP status code.
// Sets Content-Type header to application/json and encodes the provided value.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard error format with code, message,
// and requestId (correlation ID) if available in request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": observability.CorrelationID(r.Context()),
		},
	})
}
