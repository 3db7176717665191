package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kjstillabower/weather-form/internal/display"
)

// Config holds configuration loaded from YAML, .env and the environment.
type Config struct {
	ServerPort string

	// ProviderBaseURL is the page origin; the form fetches /api/weather under it.
	ProviderBaseURL string

	TimestampLayout string
	TimeZone        *time.Location

	RateLimitRPS   int
	RateLimitBurst int

	SessionIdleTimeout time.Duration

	HealthWindow                 time.Duration
	HealthDegradedFailurePct     int
	HealthDegradedMinSubmissions int
	HealthOverloadDenialPct      int

	ShutdownTimeout               time.Duration
	ShutdownInFlightTimeout       time.Duration
	ShutdownInFlightCheckInterval time.Duration

	ZipkinEndpoint string
	ServiceName    string

	TrackedLocations []string
}

type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Provider struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"provider"`

	Display struct {
		TimestampLayout string `yaml:"timestamp_layout"`
		Timezone        string `yaml:"timezone"`
	} `yaml:"display"`

	Reliability struct {
		RateLimitRPS   int `yaml:"rate_limit_rps"`
		RateLimitBurst int `yaml:"rate_limit_burst"`
	} `yaml:"reliability"`

	Session struct {
		IdleTimeout string `yaml:"idle_timeout"`
	} `yaml:"session"`

	Health struct {
		Window                 string `yaml:"window"`
		DegradedFailurePct     int    `yaml:"degraded_failure_pct"`
		DegradedMinSubmissions int    `yaml:"degraded_min_submissions"`
		OverloadDenialPct      int    `yaml:"overload_denial_pct"`
	} `yaml:"health"`

	Shutdown struct {
		Timeout               string `yaml:"timeout"`
		InFlightTimeout       string `yaml:"in_flight_timeout"`
		InFlightCheckInterval string `yaml:"in_flight_check_interval"`
	} `yaml:"shutdown"`

	Tracing struct {
		ZipkinEndpoint string `yaml:"zipkin_endpoint"`
		ServiceName    string `yaml:"service_name"`
	} `yaml:"tracing"`

	Metrics struct {
		TrackedLocations []string `yaml:"tracked_locations"`
	} `yaml:"metrics"`
}

// Load reads .env (when present) and config/{ENV_NAME}.yaml (default dev) from the
// working directory. Call from project root.
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}
	return LoadDir(cwd)
}

// LoadDir is Load rooted at dir. Existing environment variables win over .env.
func LoadDir(dir string) (*Config, error) {
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	configPath := filepath.Join(dir, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return fromFile(fc)
}

func fromFile(fc fileConfig) (*Config, error) {
	cfg := &Config{}

	cfg.ServerPort = strings.TrimSpace(os.Getenv("SERVER_PORT"))
	if cfg.ServerPort == "" {
		cfg.ServerPort = fc.Server.Port
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	cfg.ProviderBaseURL = strings.TrimSpace(os.Getenv("PROVIDER_BASE_URL"))
	if cfg.ProviderBaseURL == "" {
		cfg.ProviderBaseURL = strings.TrimSpace(fc.Provider.BaseURL)
	}
	if cfg.ProviderBaseURL == "" {
		cfg.ProviderBaseURL = "http://localhost:5000"
	}

	cfg.TimestampLayout = fc.Display.TimestampLayout
	if strings.TrimSpace(cfg.TimestampLayout) == "" {
		cfg.TimestampLayout = display.DefaultTimestampLayout
	}
	tz := strings.TrimSpace(os.Getenv("DISPLAY_TIMEZONE"))
	if tz == "" {
		tz = strings.TrimSpace(fc.Display.Timezone)
	}
	loc, err := loadLocation(tz)
	if err != nil {
		return nil, err
	}
	cfg.TimeZone = loc

	cfg.RateLimitRPS = fc.Reliability.RateLimitRPS
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 20
	}
	cfg.RateLimitBurst = fc.Reliability.RateLimitBurst
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 40
	}

	cfg.SessionIdleTimeout = parseDuration(fc.Session.IdleTimeout, 30*time.Minute)

	cfg.HealthWindow = parseDuration(fc.Health.Window, 60*time.Second)
	cfg.HealthDegradedFailurePct = fc.Health.DegradedFailurePct
	cfg.HealthDegradedMinSubmissions = fc.Health.DegradedMinSubmissions
	if cfg.HealthDegradedMinSubmissions <= 0 {
		cfg.HealthDegradedMinSubmissions = 5
	}
	cfg.HealthOverloadDenialPct = fc.Health.OverloadDenialPct

	cfg.ShutdownTimeout = parseDuration(fc.Shutdown.Timeout, 30*time.Second)
	cfg.ShutdownInFlightTimeout = parseDuration(fc.Shutdown.InFlightTimeout, 10*time.Second)
	cfg.ShutdownInFlightCheckInterval = parseDuration(fc.Shutdown.InFlightCheckInterval, 100*time.Millisecond)

	cfg.ZipkinEndpoint = strings.TrimSpace(os.Getenv("ZIPKIN_ENDPOINT"))
	if cfg.ZipkinEndpoint == "" {
		cfg.ZipkinEndpoint = strings.TrimSpace(fc.Tracing.ZipkinEndpoint)
	}
	cfg.ServiceName = strings.TrimSpace(fc.Tracing.ServiceName)
	if cfg.ServiceName == "" {
		cfg.ServiceName = "weather-form"
	}

	cfg.TrackedLocations = fc.Metrics.TrackedLocations

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Formatter returns the display formatter configured by the display section.
func (c *Config) Formatter() display.Formatter {
	return display.Formatter{Layout: c.TimestampLayout, Location: c.TimeZone}
}

func loadLocation(name string) (*time.Location, error) {
	switch name {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("display.timezone %q: %w", name, err)
	}
	return loc, nil
}

// parseDuration parses a duration string and returns defaultVal if parsing fails or result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// validate performs post-load validation of configuration values.
func validate(cfg *Config) error {
	u, err := url.Parse(cfg.ProviderBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("provider.base_url must be an http(s) URL with a host, got %q", cfg.ProviderBaseURL)
	}
	for name, pct := range map[string]int{
		"health.degraded_failure_pct": cfg.HealthDegradedFailurePct,
		"health.overload_denial_pct":  cfg.HealthOverloadDenialPct,
	} {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("%s must be between 0 and 100, got %d", name, pct)
		}
	}
	if cfg.ZipkinEndpoint != "" {
		if u, err := url.Parse(cfg.ZipkinEndpoint); err != nil || u.Host == "" {
			return fmt.Errorf("tracing.zipkin_endpoint must be a URL, got %q", cfg.ZipkinEndpoint)
		}
	}
	return nil
}
