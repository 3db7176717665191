package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kjstillabower/weather-form/internal/display"
)

var overrideVars = []string{"ENV_NAME", "SERVER_PORT", "PROVIDER_BASE_URL", "DISPLAY_TIMEZONE", "ZIPKIN_ENDPOINT"}

// clearEnv unsets the override variables for the test and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range overrideVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDir_Minimal(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeEnvFile(t, dir, "dev", minimalEnvYAML)

	cfg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.ProviderBaseURL != "http://localhost:5000" {
		t.Errorf("ProviderBaseURL = %q", cfg.ProviderBaseURL)
	}
	if cfg.TimestampLayout != display.DefaultTimestampLayout {
		t.Errorf("TimestampLayout = %q, want default", cfg.TimestampLayout)
	}
	if cfg.TimeZone != time.Local {
		t.Errorf("TimeZone = %v, want Local", cfg.TimeZone)
	}
	if cfg.RateLimitRPS != 20 || cfg.RateLimitBurst != 40 {
		t.Errorf("rate limit = %d/%d, want 20/40", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.SessionIdleTimeout != 30*time.Minute {
		t.Errorf("SessionIdleTimeout = %v, want 30m", cfg.SessionIdleTimeout)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
	}
	if cfg.ShutdownInFlightTimeout != 10*time.Second || cfg.ShutdownInFlightCheckInterval != 100*time.Millisecond {
		t.Errorf("in-flight drain = %v/%v", cfg.ShutdownInFlightTimeout, cfg.ShutdownInFlightCheckInterval)
	}
	if cfg.HealthWindow != time.Minute || cfg.HealthDegradedFailurePct != 0 || cfg.HealthDegradedMinSubmissions != 5 {
		t.Errorf("health = %v %d %d", cfg.HealthWindow, cfg.HealthDegradedFailurePct, cfg.HealthDegradedMinSubmissions)
	}
	if cfg.ZipkinEndpoint != "" {
		t.Errorf("ZipkinEndpoint = %q, want empty", cfg.ZipkinEndpoint)
	}
	if cfg.ServiceName != "weather-form" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
}

func TestLoadDir_FullFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeEnvFile(t, dir, "dev", `
server:
  port: "9090"
provider:
  base_url: "https://weather.example.com/app"
display:
  timestamp_layout: "2006-01-02 15:04"
  timezone: "UTC"
reliability:
  rate_limit_rps: 5
  rate_limit_burst: 10
session:
  idle_timeout: "5m"
health:
  window: "2m"
  degraded_failure_pct: 50
  degraded_min_submissions: 10
  overload_denial_pct: 80
shutdown:
  timeout: "10s"
  in_flight_timeout: "3s"
  in_flight_check_interval: "50ms"
tracing:
  zipkin_endpoint: "http://zipkin:9411/api/v2/spans"
  service_name: "form-edge"
metrics:
  tracked_locations: ["Paris", "London"]
`)

	cfg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if cfg.ServerPort != "9090" || cfg.ProviderBaseURL != "https://weather.example.com/app" {
		t.Errorf("server/provider = %q %q", cfg.ServerPort, cfg.ProviderBaseURL)
	}
	if cfg.TimeZone != time.UTC || cfg.TimestampLayout != "2006-01-02 15:04" {
		t.Errorf("display = %q %v", cfg.TimestampLayout, cfg.TimeZone)
	}
	if cfg.RateLimitRPS != 5 || cfg.RateLimitBurst != 10 {
		t.Errorf("rate limit = %d/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.SessionIdleTimeout != 5*time.Minute || cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("durations = %v %v", cfg.SessionIdleTimeout, cfg.ShutdownTimeout)
	}
	if cfg.ShutdownInFlightTimeout != 3*time.Second || cfg.ShutdownInFlightCheckInterval != 50*time.Millisecond {
		t.Errorf("in-flight drain = %v/%v", cfg.ShutdownInFlightTimeout, cfg.ShutdownInFlightCheckInterval)
	}
	if cfg.HealthWindow != 2*time.Minute || cfg.HealthDegradedFailurePct != 50 ||
		cfg.HealthDegradedMinSubmissions != 10 || cfg.HealthOverloadDenialPct != 80 {
		t.Errorf("health = %v %d %d %d", cfg.HealthWindow, cfg.HealthDegradedFailurePct,
			cfg.HealthDegradedMinSubmissions, cfg.HealthOverloadDenialPct)
	}
	if cfg.ZipkinEndpoint != "http://zipkin:9411/api/v2/spans" || cfg.ServiceName != "form-edge" {
		t.Errorf("tracing = %q %q", cfg.ZipkinEndpoint, cfg.ServiceName)
	}
	if len(cfg.TrackedLocations) != 2 || cfg.TrackedLocations[0] != "Paris" {
		t.Errorf("TrackedLocations = %v", cfg.TrackedLocations)
	}

	f := cfg.Formatter()
	if f.Layout != "2006-01-02 15:04" || f.Location != time.UTC {
		t.Errorf("Formatter() = %+v", f)
	}
}

func TestLoadDir_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("PROVIDER_BASE_URL", "http://upstream:8000")
	t.Setenv("DISPLAY_TIMEZONE", "UTC")
	t.Setenv("ZIPKIN_ENDPOINT", "http://collector:9411/api/v2/spans")
	dir := t.TempDir()
	writeEnvFile(t, dir, "dev", minimalEnvYAML)

	cfg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if cfg.ServerPort != "7000" {
		t.Errorf("ServerPort = %q, want 7000", cfg.ServerPort)
	}
	if cfg.ProviderBaseURL != "http://upstream:8000" {
		t.Errorf("ProviderBaseURL = %q", cfg.ProviderBaseURL)
	}
	if cfg.TimeZone != time.UTC {
		t.Errorf("TimeZone = %v, want UTC", cfg.TimeZone)
	}
	if cfg.ZipkinEndpoint != "http://collector:9411/api/v2/spans" {
		t.Errorf("ZipkinEndpoint = %q", cfg.ZipkinEndpoint)
	}
}

func TestLoadDir_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeEnvFile(t, dir, "staging", `
provider:
  base_url: "http://from-yaml:5000"
`)
	dotenv := "ENV_NAME=staging\nPROVIDER_BASE_URL=http://from-dotenv:5000\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if cfg.ProviderBaseURL != "http://from-dotenv:5000" {
		t.Errorf("ProviderBaseURL = %q, want value from .env", cfg.ProviderBaseURL)
	}
}

func TestLoadDir_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROVIDER_BASE_URL", "http://from-env:5000")
	dir := t.TempDir()
	writeEnvFile(t, dir, "dev", minimalEnvYAML)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PROVIDER_BASE_URL=http://from-dotenv:5000\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if cfg.ProviderBaseURL != "http://from-env:5000" {
		t.Errorf("ProviderBaseURL = %q, want environment value", cfg.ProviderBaseURL)
	}
}

func TestLoadDir_EnvFileNotFound(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV_NAME", "nonexistent")

	cfg, err := LoadDir(t.TempDir())
	if err == nil {
		t.Fatal("LoadDir() expected error for missing env file, got nil")
	}
	if cfg != nil {
		t.Fatalf("LoadDir() expected nil config on error, got %+v", cfg)
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("LoadDir() error = %v, want message about config file not found", err)
	}
}

func TestLoadDir_InvalidConfigYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeEnvFile(t, dir, "dev", "server: [unclosed\n")

	_, err := LoadDir(dir)
	if err == nil {
		t.Fatal("LoadDir() expected error for invalid YAML, got nil")
	}
	if !strings.Contains(err.Error(), "parse config file") {
		t.Errorf("LoadDir() error = %v, want parse error", err)
	}
}

func TestLoadDir_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "base url without scheme",
			yaml:    "provider:\n  base_url: \"weather.example.com\"\n",
			wantErr: "provider.base_url",
		},
		{
			name:    "base url with unsupported scheme",
			yaml:    "provider:\n  base_url: \"ftp://weather.example.com\"\n",
			wantErr: "provider.base_url",
		},
		{
			name:    "zipkin endpoint without host",
			yaml:    "tracing:\n  zipkin_endpoint: \"/api/v2/spans\"\n",
			wantErr: "tracing.zipkin_endpoint",
		},
		{
			name:    "failure pct out of range",
			yaml:    "health:\n  degraded_failure_pct: 150\n",
			wantErr: "health.degraded_failure_pct",
		},
		{
			name:    "unknown timezone",
			yaml:    "display:\n  timezone: \"Mars/Olympus_Mons\"\n",
			wantErr: "display.timezone",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			writeEnvFile(t, dir, "dev", tt.yaml)

			cfg, err := LoadDir(dir)
			if err == nil {
				t.Fatalf("LoadDir() = %+v, want error", cfg)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadDir() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDir_InvalidDurationFallsBackToDefault(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeEnvFile(t, dir, "dev", `
session:
  idle_timeout: "invalid"
shutdown:
  timeout: "-5s"
  in_flight_timeout: ""
`)

	cfg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if cfg.SessionIdleTimeout != 30*time.Minute {
		t.Errorf("SessionIdleTimeout = %v, want default", cfg.SessionIdleTimeout)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v, want default", cfg.ShutdownTimeout)
	}
	if cfg.ShutdownInFlightTimeout != 10*time.Second {
		t.Errorf("ShutdownInFlightTimeout = %v, want default", cfg.ShutdownInFlightTimeout)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	clearEnv(t)
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(findProjectRoot(t)); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	defer func() { _ = os.Chdir(origWd) }()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ProviderBaseURL == "" {
		t.Error("ProviderBaseURL empty")
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", time.Second},
		{"  ", time.Second},
		{"250ms", 250 * time.Millisecond},
		{" 2m ", 2 * time.Minute},
		{"0s", time.Second},
		{"soon", time.Second},
	}
	for _, tt := range tests {
		if got := parseDuration(tt.in, time.Second); got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

const minimalEnvYAML = `
server:
  port: "8080"
provider:
  base_url: "http://localhost:5000"
`

func writeEnvFile(t *testing.T, dir, env, content string) {
	t.Helper()
	configDir := filepath.Join(dir, "config")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, env+".yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
}

// TestCoverageGaps_IntentionallyUntested documents paths we reviewed but chose not to test.
func TestCoverageGaps_IntentionallyUntested(t *testing.T) {
	t.Run("LoadDir_read_config_error", func(t *testing.T) {
		t.Skip("ReadFile error path (permission denied, etc.) requires injecting a filesystem failure")
	})
	t.Run("Load_getwd_error", func(t *testing.T) {
		t.Skip("os.Getwd only fails when the working directory was removed underneath the process")
	})
}

func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "config", "dev.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("config/dev.yaml not found (run tests from project root)")
		}
		dir = parent
	}
}
