// Package observability provides structured logging and metrics
// collection for the audit pipeline. Components obtain their logger and
// metrics instances from a shared Provider so that field conventions and
// metric naming stay consistent across the service.
package observability

import "context"

// Fields is a map of key-value pairs attached to log entries.
type Fields map[string]interface{}

// Logger is the contract for structured, context-aware logging.
// Implementations emit JSON suitable for log aggregation systems.
type Logger interface {
	// Info logs general operational information.
	Info(ctx context.Context, msg string, fields Fields)

	// Error logs a failure with its associated error.
	Error(ctx context.Context, msg string, err error, fields Fields)

	// Warn logs a potentially harmful situation that does not prevent
	// operation.
	Warn(ctx context.Context, msg string, fields Fields)

	// Debug logs detailed troubleshooting information, typically
	// filtered out in production.
	Debug(ctx context.Context, msg string, fields Fields)

	// WithFields returns a Logger that includes the given fields in
	// every subsequent entry.
	WithFields(fields Fields) Logger
}

// Metrics is the contract for Prometheus-compatible metrics collection.
type Metrics interface {
	// RecordSuccess increments the success counter for an operation.
	RecordSuccess(operation string)

	// RecordError increments the error counter for an operation with an
	// error type label.
	RecordError(operation, errorType string)

	// RecordDuration observes the duration of an operation in seconds.
	RecordDuration(operation string, seconds float64)

	// StartOperation increments the in-progress gauge for an operation.
	StartOperation(operation string)

	// EndOperation decrements the in-progress gauge for an operation.
	EndOperation(operation string)
}

// Config holds the observability settings shared by all components.
type Config struct {
	ServiceName      string
	Environment      string
	LogLevel         string
	AdditionalFields Fields
}

// Provider manages Logger and Metrics instances per component.
type Provider interface {
	Logger(component string) Logger
	Metrics(component string) Metrics
}
