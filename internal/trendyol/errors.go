package trendyol

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every failure returned by the Requester is an *APIError whose
// Kind is one of these, so callers can branch with errors.Is.
var (
	// ErrTransientNetwork marks a failure the Requester retries. Callers only
	// see it wrapped inside ErrRetryExhausted.
	ErrTransientNetwork = errors.New("transient network error")
	// ErrValidation marks a 4xx (or non-retryable 5xx) response.
	ErrValidation = errors.New("API validation error")
	// ErrRetryExhausted marks a transient failure that outlived the retry budget.
	ErrRetryExhausted = errors.New("retry attempts exhausted")
	// ErrTransport marks any other failure: encoding, decoding, cancellation.
	ErrTransport = errors.New("transport error")
)

// APIError is the single error type surfaced by the client.
type APIError struct {
	Kind     error
	Message  string
	Code     int
	Attempts int
	Err      error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("trendyol: %s (code %d)", e.Message, e.Code)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *APIError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// StatusCode returns the code carried by an *APIError anywhere in err's
// chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

func transportError(msg string, err error) *APIError {
	return &APIError{
		Kind:    ErrTransport,
		Message: fmt.Sprintf("%s: %v", msg, err),
		Code:    http.StatusInternalServerError,
		Err:     err,
	}
}
