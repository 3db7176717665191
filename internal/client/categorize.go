package client

import (
	"context"
	"errors"
)

// ErrorCategory is a stable label for error classification in metrics.
type ErrorCategory string

// Error category constants used as the providerRequestErrorsTotal label.
const (
	ErrorCategoryTimeout   ErrorCategory = "timeout"
	ErrorCategoryTransport ErrorCategory = "transport"
	ErrorCategoryDecode    ErrorCategory = "decode"
	ErrorCategoryProvider  ErrorCategory = "provider"
	ErrorCategoryUnknown   ErrorCategory = "unknown"
)

// CategorizeError maps an error to a stable ErrorCategory for metrics.
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorCategoryTimeout
	}

	var fe *FetchError
	if errors.As(err, &fe) {
		switch fe.Kind {
		case KindTransport:
			return ErrorCategoryTransport
		case KindDecode:
			return ErrorCategoryDecode
		case KindProvider:
			return ErrorCategoryProvider
		}
	}

	return ErrorCategoryUnknown
}
