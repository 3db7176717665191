// Package form implements the weather form submit handler: validate the location,
// fetch once from the provider, then either fill the display or prompt the user.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/kjstillabower/weather-form/internal/client"
	"github.com/kjstillabower/weather-form/internal/display"
	"github.com/kjstillabower/weather-form/internal/models"
	"github.com/kjstillabower/weather-form/internal/observability"
	"github.com/kjstillabower/weather-form/internal/validation"
)

// Submission outcomes used as the formSubmissionsTotal label.
const (
	OutcomeSuccess         = "success"
	OutcomeValidationError = "validation_error"
	OutcomeRequestError    = "request_error"
)

// Event is a form submission as delivered by the host.
type Event interface {
	// PreventDefault stops the host's own handling of the submission.
	PreventDefault()
	// Value is the location field's current text.
	Value() string
}

// Prompter shows a blocking user-facing message.
type Prompter interface {
	Alert(message string)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(message string)

func (f PrompterFunc) Alert(message string) { f(message) }

type prompterKey struct{}

// WithPrompter returns a context whose submissions prompt p instead of the
// handler's own prompter. Hosts serving several callers from one handler use it
// to keep each caller's alerts apart.
func WithPrompter(ctx context.Context, p Prompter) context.Context {
	return context.WithValue(ctx, prompterKey{}, p)
}

// Handler is the weather form submit handler. It is safe for concurrent use;
// concurrent submissions are not ordered and the last one to resolve owns the
// display.
type Handler struct {
	provider  client.WeatherProvider
	elements  display.Elements
	formatter display.Formatter
	prompter  Prompter
	logger    *zap.Logger
	tracer    trace.Tracer

	// mu makes the six-element write atomic.
	mu sync.Mutex
}

// NewHandler binds the handler to its elements. It returns an error wrapping
// display.ErrElementsMissing when a handle is absent; hosts must then leave the
// form unattached.
func NewHandler(provider client.WeatherProvider, elements display.Elements, formatter display.Formatter, prompter Prompter, logger *zap.Logger) (*Handler, error) {
	if provider == nil {
		return nil, errors.New("form: provider is required")
	}
	if prompter == nil {
		return nil, errors.New("form: prompter is required")
	}
	if err := elements.Check(); err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		provider:  provider,
		elements:  elements,
		formatter: formatter,
		prompter:  prompter,
		logger:    logger,
		tracer:    otel.Tracer("github.com/kjstillabower/weather-form/internal/form"),
	}, nil
}

// OnSubmit handles one submission. It blocks until the provider answers and
// returns nil on success, *ValidationError or *RequestError otherwise. On any
// error the display is left as it was and the user has been prompted.
func (h *Handler) OnSubmit(ctx context.Context, ev Event) error {
	ev.PreventDefault()
	logger := observability.LoggerFromContext(ctx, h.logger)
	prompter := h.prompterFor(ctx)

	location, err := validation.ValidateLocation(ev.Value())
	if err != nil {
		verr := &ValidationError{Err: err}
		observability.RecordSubmission("", OutcomeValidationError)
		logger.Debug("submission rejected", zap.Error(err))
		prompter.Alert(verr.Prompt())
		return verr
	}

	ctx, span := h.tracer.Start(ctx, "form.submit")
	defer span.End()
	span.SetAttributes(attribute.String("weather.location", location))

	logger.Debug("fetching weather", zap.String("location", location))
	result, err := h.provider.GetWeather(ctx, location)
	if err != nil {
		rerr := &RequestError{Err: err}
		observability.RecordSubmission(location, OutcomeRequestError)
		observability.RequestErrorsTotal.WithLabelValues(string(rerr.Category())).Inc()
		span.RecordError(err)
		logger.Warn("weather request failed",
			zap.String("location", location),
			zap.String("category", string(rerr.Category())),
			zap.Error(err))
		prompter.Alert(rerr.Prompt())
		return rerr
	}

	h.render(location, result)
	observability.RecordSubmission(location, OutcomeSuccess)
	logger.Debug("weather displayed", zap.String("location", location))
	return nil
}

// Submit runs OnSubmit for a bare location, for hosts without a native event.
func (h *Handler) Submit(ctx context.Context, location string) error {
	return h.OnSubmit(ctx, &ValueEvent{Location: location})
}

// Dispatch runs OnSubmit on its own goroutine and returns immediately; the
// channel receives the result once. Hosts use it to stay responsive while the
// request is in flight.
func (h *Handler) Dispatch(ctx context.Context, ev Event) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- h.OnSubmit(ctx, ev)
	}()
	return done
}

func (h *Handler) prompterFor(ctx context.Context) Prompter {
	if p, ok := ctx.Value(prompterKey{}).(Prompter); ok && p != nil {
		return p
	}
	return h.prompter
}

func (h *Handler) render(location string, result models.WeatherResult) {
	fields := h.formatter.Format(location, result)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.elements.Apply(fields)
}

// ValueEvent is an Event carrying a fixed location.
type ValueEvent struct {
	Location  string
	Prevented bool
}

func (e *ValueEvent) PreventDefault() { e.Prevented = true }

func (e *ValueEvent) Value() string { return e.Location }
