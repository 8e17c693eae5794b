package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/anshuman444/hacknovation2.0/internal/observability"
)

// Request is the runtime-agnostic envelope delivered by a transport
// adapter.
type Request struct {
	ID        string            `json:"id"`
	Source    string            `json:"source"`
	Type      string            `json:"type"`
	Payload   json.RawMessage   `json:"payload"`
	Metadata  map[string]string `json:"metadata"`
	Timestamp time.Time         `json:"timestamp"`
}

// Unmarshal decodes the payload into v.
func (r *Request) Unmarshal(v interface{}) error {
	return json.Unmarshal(r.Payload, v)
}

// Response is the envelope returned to the transport adapter.
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

// ErrorInfo carries the domain error code so callers can distinguish a
// bad submission from a missing record from a pipeline-ordering
// violation.
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// Handler is implemented by the pipeline request handler and consumed by
// the runtime adapters.
type Handler interface {
	Name() string
	Handle(ctx context.Context, req Request) (Response, error)
	Logger() observability.Logger
	Metrics() observability.Metrics
}

// NewSuccessResponse marshals data into a success envelope.
func NewSuccessResponse(data interface{}) (Response, error) {
	marshaled, err := json.Marshal(data)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Success: true,
		Data:    marshaled,
	}, nil
}

// NewErrorResponse builds a failure envelope.
func NewErrorResponse(code, message string, retryable bool) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			Retryable: retryable,
		},
	}
}
