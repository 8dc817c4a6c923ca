package engine

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a pipeline failure. The set is closed.
type ErrorKind string

const (
	KindInvalidFormat     ErrorKind = "invalid_format"
	KindRateLimitExceeded ErrorKind = "rate_limit_exceeded"
	KindFetch             ErrorKind = "fetch_error"
	KindRemote            ErrorKind = "remote_error"
	KindNoResponse        ErrorKind = "no_response"
	KindRequestSetup      ErrorKind = "request_setup_error"
	KindUnknown           ErrorKind = "unknown_error"
)

// Error is the typed failure returned by validation, fetching and generation.
// Status and Message are only set for KindRemote.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindRemote:
		return fmt.Sprintf("%s: %d - %s", e.Kind, e.Status, e.Message)
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNoResponse) works
// regardless of message or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidFormat     = &Error{Kind: KindInvalidFormat}
	ErrRateLimitExceeded = &Error{Kind: KindRateLimitExceeded}
	ErrFetch             = &Error{Kind: KindFetch}
	ErrRemote            = &Error{Kind: KindRemote}
	ErrNoResponse        = &Error{Kind: KindNoResponse}
	ErrRequestSetup      = &Error{Kind: KindRequestSetup}
	ErrUnknown           = &Error{Kind: KindUnknown}
)

// Configuration faults, not part of the per-request taxonomy.
var (
	ErrMissingAPIKey  = errors.New("generation API key is not set")
	ErrLLMUnavailable = errors.New("LLM client is not configured")
)

// NewError builds a classified error.
func NewError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// KindOf returns the classification of err, or KindUnknown when err carries none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// HTTPStatus maps an error kind to the status code returned to inbound callers.
func HTTPStatus(kind ErrorKind) int {
	switch kind {
	case KindInvalidFormat:
		return http.StatusBadRequest
	case KindRateLimitExceeded:
		return http.StatusTooManyRequests
	case KindFetch, KindRemote, KindNoResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage is the caller-visible text for err. Causes stay in the logs.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "Failed to generate clip"
	}
	switch e.Kind {
	case KindInvalidFormat:
		if e.Message != "" {
			return e.Message
		}
		return "Invalid input format"
	case KindRateLimitExceeded:
		return "Rate limit exceeded, try again later"
	case KindFetch:
		return "Failed to extract and process transcript"
	case KindRemote:
		return fmt.Sprintf("Generation API error: %d - %s", e.Status, e.Message)
	case KindNoResponse:
		return "No response received from generation API"
	case KindRequestSetup:
		return "Error setting up generation request"
	}
	return "Failed to generate clip"
}
