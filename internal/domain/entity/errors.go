package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrMissingCredential indicates that an API key or model endpoint is not configured.
	// It is fatal for news sources and degrades translation and summarization.
	ErrMissingCredential = errors.New("missing credential")

	// ErrFetchFailed indicates that news could not be retrieved from a source
	ErrFetchFailed = errors.New("news fetch failed")

	// ErrEmptyResult indicates that no valid data remained after filtering
	ErrEmptyResult = errors.New("empty result")

	// ErrTranslationFailed indicates that every translation path failed
	ErrTranslationFailed = errors.New("translation failed")

	// ErrSummarizationFailed indicates that no usable summary was produced
	ErrSummarizationFailed = errors.New("summarization failed")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedLanguage indicates a language code outside the supported set
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// TransientRequestError is a failed request to an external endpoint that may
// succeed when retried: a transport error or a non-2xx response.
type TransientRequestError struct {
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *TransientRequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request failed: %s", e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap returns the underlying transport error, if any.
func (e *TransientRequestError) Unwrap() error {
	return e.Err
}
