//go:build integration
// +build integration

package testhelpers

import (
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/kjstillabower/weather-form/internal/client"
	"github.com/kjstillabower/weather-form/internal/display"
	"github.com/kjstillabower/weather-form/internal/form"
)

// IntegrationTestConfig holds configuration for integration tests.
type IntegrationTestConfig struct {
	ProviderBaseURL string
	// Location is expected to resolve at the provider.
	Location string
	// UnknownLocation is expected to make the provider answer with an error body.
	UnknownLocation string
}

// GetIntegrationConfig loads integration test configuration from environment.
// Skips test if PROVIDER_BASE_URL is not set.
func GetIntegrationConfig(t *testing.T) IntegrationTestConfig {
	t.Helper()
	baseURL := os.Getenv("PROVIDER_BASE_URL")
	if baseURL == "" {
		t.Skip("PROVIDER_BASE_URL not set, skipping integration test")
	}

	location := os.Getenv("INTEGRATION_LOCATION")
	if location == "" {
		location = "London"
	}
	unknown := os.Getenv("INTEGRATION_UNKNOWN_LOCATION")
	if unknown == "" {
		unknown = "Xyzzyville-" + time.Now().Format("150405")
	}

	return IntegrationTestConfig{
		ProviderBaseURL: baseURL,
		Location:        location,
		UnknownLocation: unknown,
	}
}

// SetupIntegrationProvider creates a provider client for integration tests.
func SetupIntegrationProvider(t *testing.T, cfg IntegrationTestConfig) *client.HTTPProvider {
	t.Helper()
	provider, err := client.NewHTTPProvider(cfg.ProviderBaseURL, nil)
	if err != nil {
		t.Fatalf("NewHTTPProvider() error = %v", err)
	}
	return provider
}

// Alerts records prompts raised during an integration test.
type Alerts struct {
	mu       sync.Mutex
	messages []string
}

func (a *Alerts) Alert(message string) {
	a.mu.Lock()
	a.messages = append(a.messages, message)
	a.mu.Unlock()
}

// Messages returns a copy of the recorded prompts.
func (a *Alerts) Messages() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.messages...)
}

// SetupIntegrationForm wires a form handler to a fresh in-memory page against the
// configured provider.
func SetupIntegrationForm(t *testing.T, cfg IntegrationTestConfig) (*form.Handler, *display.Page, *Alerts) {
	t.Helper()
	page := display.NewPage()
	alerts := &Alerts{}
	h, err := form.NewHandler(SetupIntegrationProvider(t, cfg), page.Elements(), display.Formatter{Location: time.UTC}, alerts, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("form.NewHandler() error = %v", err)
	}
	return h, page, alerts
}
