// Package domain defines the core types, ports, and errors shared by the
// aggregation layer and the query job runner.
package domain

import (
	"errors"
	"fmt"
)

// Stable error kinds exposed to API and CLI consumers.
const (
	KindNotFound            = "not_found"
	KindValidation          = "validation"
	KindUpstreamUnavailable = "upstream_unavailable"
	KindEngineNotConfigured = "engine_not_configured"
	KindEngineUnavailable   = "engine_unavailable"
	KindQueryFailed         = "query_failed"
	KindQueryCancelled      = "query_cancelled"
	KindQueryTimedOut       = "query_timeout"
	KindInternal            = "internal"
)

// NotFoundError indicates the primary entity of a request does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// UpstreamError reports a failed call to one upstream service. StatusCode is
// zero when no HTTP response was received (transport failure or timeout).
type UpstreamError struct {
	Source     Source
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s service responded %d", e.Source, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s service unavailable: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s service unavailable", e.Source)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NotFound reports whether the upstream answered 404.
func (e *UpstreamError) NotFound() bool { return e.StatusCode == 404 }

// Responded reports whether the upstream produced an HTTP response at all.
func (e *UpstreamError) Responded() bool { return e.StatusCode > 0 }

// EngineNotConfiguredError is returned by every query operation when the
// process started without a usable query engine.
type EngineNotConfiguredError struct {
	Reason string
}

func (e *EngineNotConfiguredError) Error() string {
	if e.Reason == "" {
		return "query engine is not configured"
	}
	return "query engine is not configured: " + e.Reason
}

// EngineUnavailableError wraps a failed call to a configured engine.
type EngineUnavailableError struct {
	Op  string
	Err error
}

func (e *EngineUnavailableError) Error() string {
	return fmt.Sprintf("query engine %s: %v", e.Op, e.Err)
}

func (e *EngineUnavailableError) Unwrap() error { return e.Err }

// QueryFailedError carries an engine-reported terminal failure. Reason is the
// engine's message, unmodified.
type QueryFailedError struct {
	JobID  string
	State  QueryJobState
	Reason string
}

func (e *QueryFailedError) Error() string {
	return fmt.Sprintf("query %s %s: %s", e.JobID, e.State, e.Reason)
}

// Cancelled reports whether the engine cancelled the job rather than failing it.
func (e *QueryFailedError) Cancelled() bool { return e.State == QueryJobCancelled }

// QueryTimedOutError means the poll budget ran out before the engine reached a
// terminal state. The job may still be running on the engine.
type QueryTimedOutError struct {
	JobID    string
	Attempts int
}

func (e *QueryTimedOutError) Error() string {
	return fmt.Sprintf("query %s timed out after %d polls", e.JobID, e.Attempts)
}

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrEngineNotConfigured creates an EngineNotConfiguredError.
func ErrEngineNotConfigured(format string, args ...interface{}) *EngineNotConfiguredError {
	return &EngineNotConfiguredError{Reason: fmt.Sprintf(format, args...)}
}

// ErrorKind classifies err into one of the Kind constants.
func ErrorKind(err error) string {
	var (
		notFound      *NotFoundError
		validation    *ValidationError
		upstream      *UpstreamError
		notConfigured *EngineNotConfiguredError
		unavailable   *EngineUnavailableError
		failed        *QueryFailedError
		timedOut      *QueryTimedOutError
	)
	switch {
	case errors.As(err, &notFound):
		return KindNotFound
	case errors.As(err, &validation):
		return KindValidation
	case errors.As(err, &notConfigured):
		return KindEngineNotConfigured
	case errors.As(err, &failed):
		if failed.Cancelled() {
			return KindQueryCancelled
		}
		return KindQueryFailed
	case errors.As(err, &timedOut):
		return KindQueryTimedOut
	case errors.As(err, &unavailable):
		return KindEngineUnavailable
	case errors.As(err, &upstream):
		return KindUpstreamUnavailable
	default:
		return KindInternal
	}
}
