package client

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, ""},
		{"deadline", context.DeadlineExceeded, ErrorCategoryTimeout},
		{"canceled transport", &FetchError{Kind: KindTransport, Err: fmt.Errorf("get: %w", context.Canceled)}, ErrorCategoryTimeout},
		{"transport", &FetchError{Kind: KindTransport, Err: errors.New("connection refused")}, ErrorCategoryTransport},
		{"decode", &FetchError{Kind: KindDecode, Err: errors.New("invalid character")}, ErrorCategoryDecode},
		{"provider", &FetchError{Kind: KindProvider, Err: errors.New("location not found")}, ErrorCategoryProvider},
		{"wrapped provider", fmt.Errorf("submit: %w", &FetchError{Kind: KindProvider, Err: errors.New("x")}), ErrorCategoryProvider},
		{"unknown", errors.New("something"), ErrorCategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategorizeError(tt.err); got != tt.want {
				t.Errorf("CategorizeError() = %q, want %q", got, tt.want)
			}
		})
	}
}
