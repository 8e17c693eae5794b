// Package logger implements structured JSON logging with consistent
// field structure for efficient querying in log aggregation systems.
package logger

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/anshuman444/hacknovation2.0/internal/observability"
)

// Level represents the severity of a log message.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// ParseLevel converts a string to a Level. Unrecognized values default
// to InfoLevel.
func ParseLevel(level string) Level {
	switch level {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return "unknown"
	}
}

// JSONLogger implements observability.Logger with one JSON object per
// line. Safe for concurrent use.
type JSONLogger struct {
	mu               sync.Mutex
	output           io.Writer
	serviceName      string
	environment      string
	hostname         string
	minLevel         Level
	persistentFields observability.Fields
}

// New creates a JSONLogger. Output defaults to os.Stdout when nil.
func New(serviceName, environment, logLevel string, output io.Writer, fields observability.Fields) *JSONLogger {
	if output == nil {
		output = os.Stdout
	}
	hostname, _ := os.Hostname()

	persistent := make(observability.Fields, len(fields))
	for k, v := range fields {
		persistent[k] = v
	}

	return &JSONLogger{
		output:           output,
		serviceName:      serviceName,
		environment:      environment,
		hostname:         hostname,
		minLevel:         ParseLevel(logLevel),
		persistentFields: persistent,
	}
}

type entry struct {
	Timestamp   string                 `json:"timestamp"`
	Level       string                 `json:"level"`
	Service     string                 `json:"service"`
	Environment string                 `json:"environment"`
	Hostname    string                 `json:"hostname"`
	Message     string                 `json:"message"`
	Error       string                 `json:"error,omitempty"`
	Fields      map[string]interface{} `json:"fields,omitempty"`
}

func (l *JSONLogger) log(_ context.Context, level Level, msg string, err error, fields observability.Fields) {
	if level < l.minLevel {
		return
	}

	merged := make(map[string]interface{}, len(l.persistentFields)+len(fields))
	for k, v := range l.persistentFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	e := entry{
		Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
		Level:       level.String(),
		Service:     l.serviceName,
		Environment: l.environment,
		Hostname:    l.hostname,
		Message:     msg,
		Fields:      merged,
	}
	if err != nil {
		e.Error = err.Error()
	}

	line, marshalErr := json.Marshal(e)
	if marshalErr != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.Write(append(line, '\n'))
}

func (l *JSONLogger) Info(ctx context.Context, msg string, fields observability.Fields) {
	l.log(ctx, InfoLevel, msg, nil, fields)
}

func (l *JSONLogger) Error(ctx context.Context, msg string, err error, fields observability.Fields) {
	l.log(ctx, ErrorLevel, msg, err, fields)
}

func (l *JSONLogger) Warn(ctx context.Context, msg string, fields observability.Fields) {
	l.log(ctx, WarnLevel, msg, nil, fields)
}

func (l *JSONLogger) Debug(ctx context.Context, msg string, fields observability.Fields) {
	l.log(ctx, DebugLevel, msg, nil, fields)
}

// WithFields returns a logger whose entries always include the given
// fields, in addition to the receiver's persistent fields.
func (l *JSONLogger) WithFields(fields observability.Fields) observability.Logger {
	merged := make(observability.Fields, len(l.persistentFields)+len(fields))
	for k, v := range l.persistentFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &JSONLogger{
		output:           l.output,
		serviceName:      l.serviceName,
		environment:      l.environment,
		hostname:         l.hostname,
		minLevel:         l.minLevel,
		persistentFields: merged,
	}
}
