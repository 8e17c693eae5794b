// Package handler exposes the pipeline operations through a
// runtime-agnostic request envelope, dispatched on request type.
package handler

import (
	"context"
	"errors"
	"time"

	"github.com/anshuman444/hacknovation2.0/internal/domain"
	"github.com/anshuman444/hacknovation2.0/internal/observability"
	"github.com/anshuman444/hacknovation2.0/internal/service"
)

// Request types understood by the pipeline handler.
const (
	TypeAuditCreate   = "audit.create"
	TypeAuditGet      = "audit.get"
	TypeAuditList     = "audit.list"
	TypeAuditAnalyze  = "audit.analyze"
	TypeAuditValidate = "audit.validate"
	TypeAuditPublish  = "audit.publish"
	TypeRegistryList  = "registry.list"
	TypeRegistryGet   = "registry.get"
	TypeOwnerResolve  = "owner.resolve"
)

// Payload shapes per request type.
type (
	CreateAuditPayload struct {
		OwnerAddress string  `json:"owner_address"`
		Source       string  `json:"contract_source"`
		FileName     *string `json:"file_name,omitempty"`
	}

	AuditIDPayload struct {
		AuditID int64 `json:"audit_id"`
	}

	OwnerIDPayload struct {
		OwnerID int64 `json:"owner_id"`
	}

	AnalyzePayload struct {
		AuditID   int64   `json:"audit_id"`
		Narrative *string `json:"narrative,omitempty"`
	}

	ContractIDPayload struct {
		ContractID int64 `json:"contract_id"`
	}

	ResolveOwnerPayload struct {
		OwnerAddress string `json:"owner_address"`
	}
)

// PipelineHandler adapts the pipeline to the request envelope.
type PipelineHandler struct {
	pipeline *service.Pipeline
	logger   observability.Logger
	metrics  observability.Metrics
}

// New creates the handler.
func New(pipeline *service.Pipeline, logger observability.Logger, metrics observability.Metrics) *PipelineHandler {
	return &PipelineHandler{
		pipeline: pipeline,
		logger:   logger,
		metrics:  metrics,
	}
}

var _ Handler = (*PipelineHandler)(nil)

func (h *PipelineHandler) Name() string {
	return "audit-pipeline"
}

func (h *PipelineHandler) Logger() observability.Logger {
	return h.logger
}

func (h *PipelineHandler) Metrics() observability.Metrics {
	return h.metrics
}

// Handle dispatches a request to the matching pipeline operation. Domain
// failures come back as error envelopes, not transport errors; the
// returned error is reserved for handler-level faults.
func (h *PipelineHandler) Handle(ctx context.Context, req Request) (Response, error) {
	h.metrics.StartOperation("handle")
	defer h.metrics.EndOperation("handle")
	start := time.Now()
	defer func() { h.metrics.RecordDuration("handle", time.Since(start).Seconds()) }()

	h.logger.Debug(ctx, "Handling request", observability.Fields{
		"request_id":   req.ID,
		"request_type": req.Type,
	})

	switch req.Type {
	case TypeAuditCreate:
		var payload CreateAuditPayload
		if err := req.Unmarshal(&payload); err != nil {
			return h.invalidPayload(err), nil
		}
		return h.respond(ctx, req, func() (interface{}, error) {
			return h.pipeline.CreateAudit(ctx, payload.OwnerAddress, payload.Source, payload.FileName)
		})

	case TypeAuditGet:
		var payload AuditIDPayload
		if err := req.Unmarshal(&payload); err != nil {
			return h.invalidPayload(err), nil
		}
		return h.respond(ctx, req, func() (interface{}, error) {
			return h.pipeline.GetAudit(ctx, payload.AuditID)
		})

	case TypeAuditList:
		var payload OwnerIDPayload
		if err := req.Unmarshal(&payload); err != nil {
			return h.invalidPayload(err), nil
		}
		return h.respond(ctx, req, func() (interface{}, error) {
			return h.pipeline.ListAuditsForOwner(ctx, payload.OwnerID)
		})

	case TypeAuditAnalyze:
		var payload AnalyzePayload
		if err := req.Unmarshal(&payload); err != nil {
			return h.invalidPayload(err), nil
		}
		return h.respond(ctx, req, func() (interface{}, error) {
			return h.pipeline.SubmitAnalysis(ctx, payload.AuditID, payload.Narrative)
		})

	case TypeAuditValidate:
		var payload AuditIDPayload
		if err := req.Unmarshal(&payload); err != nil {
			return h.invalidPayload(err), nil
		}
		return h.respond(ctx, req, func() (interface{}, error) {
			return h.pipeline.Validate(ctx, payload.AuditID)
		})

	case TypeAuditPublish:
		var payload AuditIDPayload
		if err := req.Unmarshal(&payload); err != nil {
			return h.invalidPayload(err), nil
		}
		return h.respond(ctx, req, func() (interface{}, error) {
			return h.pipeline.Publish(ctx, payload.AuditID)
		})

	case TypeRegistryList:
		return h.respond(ctx, req, func() (interface{}, error) {
			return h.pipeline.ListVerifiedContracts(ctx)
		})

	case TypeRegistryGet:
		var payload ContractIDPayload
		if err := req.Unmarshal(&payload); err != nil {
			return h.invalidPayload(err), nil
		}
		return h.respond(ctx, req, func() (interface{}, error) {
			return h.pipeline.GetVerifiedContract(ctx, payload.ContractID)
		})

	case TypeOwnerResolve:
		var payload ResolveOwnerPayload
		if err := req.Unmarshal(&payload); err != nil {
			return h.invalidPayload(err), nil
		}
		return h.respond(ctx, req, func() (interface{}, error) {
			id, err := h.pipeline.ResolveOwner(ctx, payload.OwnerAddress)
			if err != nil {
				return nil, err
			}
			return OwnerIDPayload{OwnerID: id}, nil
		})

	default:
		h.metrics.RecordError("handle", "unknown_type")
		return NewErrorResponse(domain.CodeInvalidInput, "Unknown request type: "+req.Type, false), nil
	}
}

func (h *PipelineHandler) respond(ctx context.Context, req Request, op func() (interface{}, error)) (Response, error) {
	result, err := op()
	if err != nil {
		h.logger.Error(ctx, "Request failed", err, observability.Fields{
			"request_id":   req.ID,
			"request_type": req.Type,
		})
		return h.errorResponse(err), nil
	}

	resp, err := NewSuccessResponse(result)
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}

func (h *PipelineHandler) invalidPayload(err error) Response {
	h.metrics.RecordError("handle", "invalid_payload")
	return NewErrorResponse(domain.CodeInvalidInput, "Failed to parse request payload: "+err.Error(), false)
}

func (h *PipelineHandler) errorResponse(err error) Response {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return NewErrorResponse(de.Code, de.Message, de.Retryable)
	}
	return NewErrorResponse("INTERNAL_ERROR", "Internal error", true)
}
