package form

import (
	"github.com/kjstillabower/weather-form/internal/client"
)

// ValidationError is an empty location. No request was made.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// Prompt is the text shown to the user.
func (e *ValidationError) Prompt() string { return e.Err.Error() }

// RequestError covers transport failures, unreadable bodies and provider-reported
// errors. The user sees the same prompt format for all of them.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return e.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }

// Prompt is "Error: " followed by the underlying message.
func (e *RequestError) Prompt() string { return "Error: " + e.Err.Error() }

// Category is the metrics label of the underlying failure.
func (e *RequestError) Category() client.ErrorCategory { return client.CategorizeError(e.Err) }
