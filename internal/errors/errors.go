package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies a routing failure. The orchestrator branches on the
// code instead of matching library-specific error types.
type ErrorCode string

const (
	// ErrCodeConfiguration indicates a missing endpoint or credential.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeUpstreamTimeout indicates an upstream call exceeded its deadline.
	ErrCodeUpstreamTimeout ErrorCode = "UPSTREAM_TIMEOUT"
	// ErrCodeUpstreamHTTP indicates a non-2xx response from an upstream.
	ErrCodeUpstreamHTTP ErrorCode = "UPSTREAM_HTTP"
	// ErrCodeUpstreamNetwork indicates a connection-level failure.
	ErrCodeUpstreamNetwork ErrorCode = "UPSTREAM_NETWORK"
	// ErrCodeParse indicates an upstream response could not be decomposed.
	ErrCodeParse ErrorCode = "PARSE"
	// ErrCodeInternal indicates anything unanticipated.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// maxBodyExcerpt bounds how much upstream body text an error may carry.
const maxBodyExcerpt = 512

// RouteError is a structured error for pipeline operations.
type RouteError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RouteError) Unwrap() error {
	return e.Cause
}

// Configuration creates a configuration error.
func Configuration(msg string) *RouteError {
	return &RouteError{Code: ErrCodeConfiguration, Message: msg}
}

// InvalidArgument creates an invalid-argument error.
func InvalidArgument(msg string) *RouteError {
	return &RouteError{Code: ErrCodeInvalidArgument, Message: msg}
}

// UpstreamTimeout creates a timeout error for the named operation.
func UpstreamTimeout(op string, cause error) *RouteError {
	return &RouteError{Code: ErrCodeUpstreamTimeout, Message: op + " timed out", Cause: cause}
}

// UpstreamHTTP creates an error for a non-2xx upstream status. The body
// excerpt is truncated so raw upstream pages never flood logs or callers.
func UpstreamHTTP(op string, status int, body string) *RouteError {
	return &RouteError{
		Code:    ErrCodeUpstreamHTTP,
		Message: fmt.Sprintf("%s returned status %d: %s", op, status, TruncateBody(body)),
	}
}

// UpstreamNetwork creates a connection-level error for the named operation.
func UpstreamNetwork(op string, cause error) *RouteError {
	return &RouteError{Code: ErrCodeUpstreamNetwork, Message: op + " is unreachable", Cause: cause}
}

// Parse creates an error for a malformed upstream response.
func Parse(msg string, cause error) *RouteError {
	return &RouteError{Code: ErrCodeParse, Message: msg, Cause: cause}
}

// Internal creates an error for an unanticipated failure.
func Internal(msg string, cause error) *RouteError {
	return &RouteError{Code: ErrCodeInternal, Message: msg, Cause: cause}
}

// CodeOf extracts the error code from err. Context deadline errors map to
// UPSTREAM_TIMEOUT; everything unclassified maps to INTERNAL.
func CodeOf(err error) ErrorCode {
	var re *RouteError
	if stderrors.As(err, &re) {
		return re.Code
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return ErrCodeUpstreamTimeout
	}
	return ErrCodeInternal
}

// UserMessage returns the text safe to surface to external callers.
// Upstream failures describe an external dependency and keep their bounded
// diagnostic text; internal failures get a generic message so raw error
// detail never leaks out.
func UserMessage(err error) string {
	var re *RouteError
	if stderrors.As(err, &re) {
		switch re.Code {
		case ErrCodeUpstreamTimeout, ErrCodeUpstreamHTTP, ErrCodeUpstreamNetwork, ErrCodeParse:
			return re.Message
		case ErrCodeConfiguration:
			return "The service is not configured correctly. Please contact the administrator."
		case ErrCodeInvalidArgument:
			return re.Message
		}
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return "The request timed out."
	}
	return "An internal error occurred while processing the request."
}

// TruncateBody bounds an upstream body excerpt for inclusion in messages.
func TruncateBody(body string) string {
	if len(body) > maxBodyExcerpt {
		return body[:maxBodyExcerpt] + "..."
	}
	return body
}
