package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kjstillabower/weather-form/internal/models"
	"github.com/kjstillabower/weather-form/internal/observability"
)

// Paths and query parameter of the provider endpoints, relative to the page origin.
const (
	WeatherPath   = "/api/weather"
	ForecastPath  = "/api/forecast"
	LocationParam = "location"
)

const maxBodyBytes = 1 << 20

// WeatherProvider fetches provider bodies for a location. Implementations make
// exactly one request per call: no retries, no client-side timeout.
type WeatherProvider interface {
	GetWeather(ctx context.Context, location string) (models.WeatherResult, error)
	GetForecast(ctx context.Context, location string) (models.ForecastResult, error)
}

var ErrInvalidBaseURL = errors.New("invalid provider base URL")

// Kind classifies a failed fetch. It never changes what the user is shown.
type Kind string

const (
	KindTransport Kind = "transport"
	KindDecode    Kind = "decode"
	KindProvider  Kind = "provider"
)

// FetchError is a failed provider fetch. Error() is the underlying message text:
// the provider's error string, or the transport/parse failure message.
type FetchError struct {
	Kind     Kind
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string { return e.Err.Error() }

func (e *FetchError) Unwrap() error { return e.Err }

// HTTPProvider talks to the provider over HTTP.
type HTTPProvider struct {
	baseURL *url.URL
	client  *http.Client
	tracer  trace.Tracer
}

// NewHTTPProvider returns a provider rooted at baseURL (scheme and host, optional
// path prefix). A nil httpClient gets a client with no timeout.
func NewHTTPProvider(baseURL string, httpClient *http.Client) (*HTTPProvider, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q needs an http(s) scheme and host", ErrInvalidBaseURL, baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPProvider{
		baseURL: u,
		client:  httpClient,
		tracer:  otel.Tracer("github.com/kjstillabower/weather-form/internal/client"),
	}, nil
}

// GetWeather issues GET /api/weather?location=<location>.
func (p *HTTPProvider) GetWeather(ctx context.Context, location string) (models.WeatherResult, error) {
	var result models.WeatherResult
	if err := p.fetch(ctx, "weather", WeatherPath, location, &result); err != nil {
		return models.WeatherResult{}, err
	}
	return result, nil
}

// GetForecast issues GET /api/forecast?location=<location>.
func (p *HTTPProvider) GetForecast(ctx context.Context, location string) (models.ForecastResult, error) {
	var result models.ForecastResult
	if err := p.fetch(ctx, "forecast", ForecastPath, location, &result); err != nil {
		return models.ForecastResult{}, err
	}
	return result, nil
}

// RequestURL returns the URL fetched for location on path.
func (p *HTTPProvider) RequestURL(path, location string) string {
	u := *p.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawPath = ""
	u.RawQuery = LocationParam + "=" + EncodeComponent(location)
	u.Fragment = ""
	return u.String()
}

func (p *HTTPProvider) fetch(ctx context.Context, endpoint, path, location string, out interface{}) error {
	ctx, span := p.tracer.Start(ctx, "provider."+endpoint, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("weather.location", location))

	err := p.do(ctx, endpoint, path, location, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(CategorizeError(err)))
	}
	return err
}

func (p *HTTPProvider) do(ctx context.Context, endpoint, path, location string, out interface{}) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.RequestURL(path, location), nil)
	if err != nil {
		return &FetchError{Kind: KindTransport, Endpoint: endpoint, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	corrID := observability.CorrelationID(ctx)
	if corrID == "" {
		corrID = uuid.New().String()
	}
	req.Header.Set("X-Correlation-ID", corrID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := p.client.Do(req)
	if err != nil {
		observability.ProviderCallsTotal.WithLabelValues(endpoint, "error").Inc()
		observability.ProviderDuration.WithLabelValues(endpoint, "error").Observe(time.Since(start).Seconds())
		return &FetchError{Kind: KindTransport, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	status := statusLabel(resp.StatusCode)
	observability.ProviderCallsTotal.WithLabelValues(endpoint, status).Inc()
	observability.ProviderDuration.WithLabelValues(endpoint, status).Observe(time.Since(start).Seconds())

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &FetchError{Kind: KindTransport, Endpoint: endpoint, Err: fmt.Errorf("read response body: %w", err)}
	}
	return decodeBody(endpoint, body, out)
}

// decodeBody applies the provider contract: the body must be a JSON object, and a
// truthy "error" field is a failure whatever the HTTP status was.
func decodeBody(endpoint string, body []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		var probe interface{}
		err := json.Unmarshal(trimmed, &probe)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return &FetchError{Kind: KindDecode, Endpoint: endpoint, Err: err}
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return &FetchError{Kind: KindDecode, Endpoint: endpoint, Err: errors.New("response body is not a JSON object")}
	}

	var perr models.ProviderError
	if err := json.Unmarshal(trimmed, &perr); err != nil {
		return &FetchError{Kind: KindDecode, Endpoint: endpoint, Err: err}
	}
	if perr.Failed() {
		return &FetchError{Kind: KindProvider, Endpoint: endpoint, Err: errors.New(perr.Message())}
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return &FetchError{Kind: KindDecode, Endpoint: endpoint, Err: err}
	}
	return nil
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == 429 {
		return "rate_limited"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}
