package observability

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the JSON production logger used by the page server.
func NewLogger() (*zap.Logger, error) {
	return buildLogger("json", os.Getenv("LOG_LEVEL"))
}

// NewConsoleLogger builds a human-readable logger on stderr for the terminal
// front-end, so stdout stays reserved for the display block.
func NewConsoleLogger() (*zap.Logger, error) {
	level := os.Getenv("LOG_LEVEL")
	if strings.TrimSpace(level) == "" {
		level = "WARN"
	}
	return buildLogger("console", level)
}

func buildLogger(encoding, level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = encoding
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = parseLogLevel(level)
	config.OutputPaths = []string{"stderr"}
	if encoding == "console" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		config.DisableStacktrace = true
	}
	return config.Build()
}

func parseLogLevel(s string) zap.AtomicLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "WARN":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "ERROR":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}
