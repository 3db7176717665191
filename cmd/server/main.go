package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/weather-form/internal/client"
	"github.com/kjstillabower/weather-form/internal/config"
	"github.com/kjstillabower/weather-form/internal/display"
	"github.com/kjstillabower/weather-form/internal/form"
	httphandler "github.com/kjstillabower/weather-form/internal/http"
	"github.com/kjstillabower/weather-form/internal/lifecycle"
	"github.com/kjstillabower/weather-form/internal/observability"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	tp, err := observability.NewTracerProvider(cfg.ZipkinEndpoint, cfg.ServiceName)
	if err != nil {
		logger.Fatal("tracer provider", zap.Error(err))
	}
	if cfg.ZipkinEndpoint != "" {
		logger.Info("zipkin export enabled", zap.String("endpoint", cfg.ZipkinEndpoint))
	}

	// No client timeout: a submission waits as long as the provider does.
	provider, err := client.NewHTTPProvider(cfg.ProviderBaseURL, nil)
	if err != nil {
		logger.Fatal("weather provider", zap.Error(err))
	}

	if len(cfg.TrackedLocations) > 0 {
		observability.SetTrackedLocations(cfg.TrackedLocations)
	}

	formatter := cfg.Formatter()
	sessions := httphandler.NewSessionStore(cfg.SessionIdleTimeout, func(page *display.Page, prompter form.Prompter) (*form.Handler, error) {
		return form.NewHandler(provider, page.Elements(), formatter, prompter, logger)
	})
	healthConfig := &httphandler.HealthConfig{
		Window:                 cfg.HealthWindow,
		DegradedFailurePct:     cfg.HealthDegradedFailurePct,
		DegradedMinSubmissions: cfg.HealthDegradedMinSubmissions,
		OverloadDenialPct:      cfg.HealthOverloadDenialPct,
	}
	handler := httphandler.NewHandler(sessions, healthConfig, logger)

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}
	router := httphandler.NewRouter(handler, logger, limiter)

	srv := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", ":"+cfg.ServerPort),
			zap.String("provider", cfg.ProviderBaseURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	lifecycle.SetShuttingDown(true)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	logger.Info("waiting for in-flight requests", zap.Int64("count", httphandler.InFlightCount()))
	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownInFlightTimeout)
	defer waitCancel()
	if err := httphandler.WaitForInFlight(waitCtx, cfg.ShutdownInFlightCheckInterval); err != nil {
		logger.Warn("in-flight requests not completed", zap.Error(err), zap.Int64("remaining", httphandler.InFlightCount()))
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	if err := observability.FlushTelemetry(flushCtx, logger, tp); err != nil {
		logger.Error("telemetry flush", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
