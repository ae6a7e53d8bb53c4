package fetcher

import (
	"errors"
	"fmt"
)

// Kind represents the category of failure a request resolved to.
// The set is closed: every failed request maps to exactly one Kind.
type Kind string

const (
	// KindUnreachable indicates no HTTP response was obtained
	// (DNS failure, connection refused, timeout, etc.)
	KindUnreachable Kind = "unreachable"
	// KindRateLimited indicates the server rejected the request with HTTP 429
	KindRateLimited Kind = "rate_limited"
	// KindServerError indicates any other non-success HTTP status (4xx/5xx)
	KindServerError Kind = "server_error"
)

// Fixed user-facing messages for failures that carry no useful body.
const (
	unreachableMessage = "Network error — unable to reach the server"
	rateLimitMessage   = "Rate limit exceeded — please wait a moment"
)

// Error is a classified request failure.
type Error struct {
	Kind       Kind
	StatusCode int    // 0 when no response was obtained
	Body       string // raw response body, if any
	Message    string // human-readable text shown to the user
	Retryable  bool
	Cause      error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewUnreachableError creates an error for a request that never
// produced an HTTP response.
func NewUnreachableError(cause error) *Error {
	return &Error{
		Kind:      KindUnreachable,
		Retryable: true,
		Message:   unreachableMessage,
		Cause:     cause,
	}
}

// NewRateLimitError creates an error for an HTTP 429 response.
func NewRateLimitError() *Error {
	return &Error{
		Kind:       KindRateLimited,
		Retryable:  true,
		StatusCode: 429,
		Message:    rateLimitMessage,
	}
}

// NewServerError creates an error for any non-success, non-429 status.
// The message is the response body when the server sent one, otherwise
// a synthesized message naming the status code.
func NewServerError(statusCode int, body string) *Error {
	message := body
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", statusCode)
	}
	return &Error{
		Kind:       KindServerError,
		Retryable:  statusCode >= 500,
		StatusCode: statusCode,
		Body:       body,
		Message:    message,
	}
}

// Classify maps the outcome of an attempted request to exactly one
// Error. A non-nil transportErr means no response reached the caller
// and takes priority over any status code. Classification is total:
// any failure input yields a classified error, never nil.
func Classify(statusCode int, body string, transportErr error) *Error {
	switch {
	case transportErr != nil:
		return NewUnreachableError(transportErr)
	case statusCode == 429:
		return NewRateLimitError()
	default:
		return NewServerError(statusCode, body)
	}
}

// Message returns the user-facing text for err: the classified Message
// when err is (or wraps) an *Error, otherwise err.Error().
func Message(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return err.Error()
}
