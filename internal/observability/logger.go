package observability

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	// LogFieldRequestID is the field name for request ID.
	LogFieldRequestID = "request_id"
	// LogFieldRoute is the field name for the routing path taken.
	LogFieldRoute = "route"
	// LogFieldDuration is the field name for duration in milliseconds.
	LogFieldDuration = "duration_ms"
	// LogFieldMessageLen is the field name for message length.
	LogFieldMessageLen = "message_length"
	// LogFieldErrorCode is the field name for error code.
	LogFieldErrorCode = "error_code"
	// LogFieldTerm is the field name for the extracted search term.
	LogFieldTerm = "term"
)

// RequestContext carries structured logging state for a single request.
type RequestContext struct {
	RequestID string
	StartTime time.Time
	Logger    *slog.Logger
}

// NewRequestContext creates a new request context with a generated request ID.
func NewRequestContext(logger *slog.Logger) *RequestContext {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New().String()
	return &RequestContext{
		RequestID: id,
		StartTime: time.Now(),
		Logger:    logger.With(slog.String(LogFieldRequestID, id)),
	}
}

// DurationMs returns the elapsed time since the request started.
func (rc *RequestContext) DurationMs() int64 {
	return time.Since(rc.StartTime).Milliseconds()
}

// Debug logs a debug message with request fields.
func (rc *RequestContext) Debug(msg string, args ...any) {
	rc.Logger.Debug(msg, args...)
}

// Info logs an info message with request fields.
func (rc *RequestContext) Info(msg string, args ...any) {
	rc.Logger.Info(msg, args...)
}

// Warn logs a warning with request fields.
func (rc *RequestContext) Warn(msg string, args ...any) {
	rc.Logger.Warn(msg, args...)
}

// Error logs an error with request fields.
func (rc *RequestContext) Error(msg string, err error, args ...any) {
	all := append([]any{slog.Any("error", err)}, args...)
	rc.Logger.Error(msg, all...)
}
