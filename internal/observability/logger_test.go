package observability

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies that parseLogLevel correctly parses log level
// strings from environment variables, handling case-insensitivity and whitespace.
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		env    string
		expect zapcore.Level
	}{
		{"", zap.InfoLevel},
		{"INFO", zap.InfoLevel},
		{"DEBUG", zap.DebugLevel},
		{"WARN", zap.WarnLevel},
		{"ERROR", zap.ErrorLevel},
		{"debug", zap.DebugLevel},
		{"  warn  ", zap.WarnLevel},
		{"invalid", zap.InfoLevel},
	}
	for _, tt := range tests {
		level := parseLogLevel(tt.env)
		if got := level.Level(); got != tt.expect {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.env, got, tt.expect)
		}
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Info("test message")
	_ = logger.Sync() // best-effort; can fail on /dev/stderr in test env
}

// TestNewConsoleLogger_DefaultsToWarn verifies the terminal logger stays quiet
// at info level unless LOG_LEVEL says otherwise.
func TestNewConsoleLogger_DefaultsToWarn(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	logger, err := NewConsoleLogger()
	if err != nil {
		t.Fatalf("NewConsoleLogger() error = %v", err)
	}
	if logger.Core().Enabled(zap.InfoLevel) {
		t.Error("console logger enabled at INFO, want WARN default")
	}
	if !logger.Core().Enabled(zap.WarnLevel) {
		t.Error("console logger disabled at WARN")
	}
}
