// Package http runs the pipeline handler behind a plain HTTP server.
// Requests are POSTed to / as request envelopes; /healthz and /metrics
// serve liveness and Prometheus scrapes.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anshuman444/hacknovation2.0/internal/config"
	"github.com/anshuman444/hacknovation2.0/internal/domain"
	"github.com/anshuman444/hacknovation2.0/internal/handler"
	"github.com/anshuman444/hacknovation2.0/internal/observability"
)

// Adapter handles HTTP server runtime integration.
type Adapter struct {
	handler handler.Handler
	config  *config.HTTPConfig
	server  *http.Server
}

// NewAdapter creates an HTTP adapter for the given handler.
func NewAdapter(h handler.Handler, cfg *config.HTTPConfig) *Adapter {
	return &Adapter{
		handler: h,
		config:  cfg,
	}
}

// Start begins serving and blocks until the server stops.
func (a *Adapter) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", a.handleRequest)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	a.server = &http.Server{
		Addr:         a.config.Addr,
		Handler:      mux,
		ReadTimeout:  a.config.Timeout,
		WriteTimeout: a.config.Timeout,
	}

	a.handler.Logger().Info(context.Background(), "Starting HTTP adapter", observability.Fields{
		"address": a.config.Addr,
	})

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down.
func (a *Adapter) Stop(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	a.handler.Logger().Info(ctx, "Shutting down HTTP server", nil)
	return a.server.Shutdown(ctx)
}

func (a *Adapter) handleRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.writeResponse(w, http.StatusMethodNotAllowed,
			handler.NewErrorResponse(domain.CodeInvalidInput, "Only POST is supported", false))
		return
	}

	body, err := io.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		a.writeResponse(w, http.StatusBadRequest,
			handler.NewErrorResponse(domain.CodeInvalidInput, "Failed to read request body", false))
		return
	}

	var req handler.Request
	if err := json.Unmarshal(body, &req); err != nil {
		a.writeResponse(w, http.StatusBadRequest,
			handler.NewErrorResponse(domain.CodeInvalidInput, "Invalid JSON payload", false))
		return
	}
	a.enrichRequest(&req, r)

	ctx := r.Context()
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	resp, err := a.handler.Handle(ctx, req)
	if err != nil {
		a.handler.Logger().Error(ctx, "Handler failed", err, observability.Fields{
			"request_id": req.ID,
		})
		a.writeResponse(w, http.StatusInternalServerError,
			handler.NewErrorResponse("INTERNAL_ERROR", "Internal error", true))
		return
	}

	a.writeResponse(w, statusFor(resp), resp)
}

// enrichRequest fills envelope defaults and HTTP metadata.
func (a *Adapter) enrichRequest(req *handler.Request, r *http.Request) {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.Source == "" {
		req.Source = "http"
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now().UTC()
	}

	if req.Metadata == nil {
		req.Metadata = make(map[string]string)
	}
	req.Metadata["http_remote_addr"] = r.RemoteAddr
	if userAgent := r.Header.Get("User-Agent"); userAgent != "" {
		req.Metadata["http_user_agent"] = userAgent
	}
}

// statusFor maps the envelope error code onto an HTTP status so plain
// HTTP clients can branch without parsing the body.
func statusFor(resp handler.Response) int {
	if resp.Success {
		return http.StatusOK
	}
	if resp.Error == nil {
		return http.StatusInternalServerError
	}
	switch resp.Error.Code {
	case domain.CodeInvalidInput:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodePreconditionFailed:
		return http.StatusConflict
	case domain.CodeCollaboratorFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (a *Adapter) writeResponse(w http.ResponseWriter, status int, resp handler.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		a.handler.Logger().Error(context.Background(), "Failed to write response", err, nil)
	}
}
