package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anshuman444/hacknovation2.0/internal/config"
	"github.com/anshuman444/hacknovation2.0/internal/domain"
	"github.com/anshuman444/hacknovation2.0/internal/handler"
	"github.com/anshuman444/hacknovation2.0/internal/observability"
	obsmocks "github.com/anshuman444/hacknovation2.0/internal/observability/mocks"
)

// stubHandler records the last request and returns a fixed response.
type stubHandler struct {
	lastRequest handler.Request
	response    handler.Response
	err         error
	logger      observability.Logger
	metrics     observability.Metrics
}

func (s *stubHandler) Name() string { return "stub" }

func (s *stubHandler) Handle(_ context.Context, req handler.Request) (handler.Response, error) {
	s.lastRequest = req
	return s.response, s.err
}

func (s *stubHandler) Logger() observability.Logger   { return s.logger }
func (s *stubHandler) Metrics() observability.Metrics { return s.metrics }

func newStub(resp handler.Response, err error) *stubHandler {
	return &stubHandler{
		response: resp,
		err:      err,
		logger:   obsmocks.NewRelaxedLogger(),
		metrics:  obsmocks.NewRelaxedMetrics(),
	}
}

func postEnvelope(t *testing.T, adapter *Adapter, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	adapter.handleRequest(rec, req)
	return rec
}

func TestAdapter_HandleRequest(t *testing.T) {
	cfg := &config.HTTPConfig{Addr: ":0"}

	t.Run("success envelope returns 200", func(t *testing.T) {
		success, err := handler.NewSuccessResponse(map[string]int64{"id": 1})
		require.NoError(t, err)
		stub := newStub(success, nil)
		adapter := NewAdapter(stub, cfg)

		rec := postEnvelope(t, adapter, []byte(`{"type":"audit.get","payload":{"audit_id":1}}`))

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp handler.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
	})

	t.Run("envelope defaults are filled in", func(t *testing.T) {
		success, err := handler.NewSuccessResponse(nil)
		require.NoError(t, err)
		stub := newStub(success, nil)
		adapter := NewAdapter(stub, cfg)

		postEnvelope(t, adapter, []byte(`{"type":"registry.list"}`))

		assert.NotEmpty(t, stub.lastRequest.ID)
		assert.Equal(t, "http", stub.lastRequest.Source)
		assert.False(t, stub.lastRequest.Timestamp.IsZero())
		assert.Contains(t, stub.lastRequest.Metadata, "http_remote_addr")
	})

	t.Run("non-POST is rejected", func(t *testing.T) {
		stub := newStub(handler.Response{}, nil)
		adapter := NewAdapter(stub, cfg)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		adapter.handleRequest(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		stub := newStub(handler.Response{}, nil)
		adapter := NewAdapter(stub, cfg)

		rec := postEnvelope(t, adapter, []byte(`{not json`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("handler fault returns 500", func(t *testing.T) {
		stub := newStub(handler.Response{}, assert.AnError)
		adapter := NewAdapter(stub, cfg)

		rec := postEnvelope(t, adapter, []byte(`{"type":"audit.get"}`))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name     string
		response handler.Response
		expected int
	}{
		{"success", handler.Response{Success: true}, http.StatusOK},
		{"invalid input", handler.NewErrorResponse(domain.CodeInvalidInput, "bad", false), http.StatusBadRequest},
		{"not found", handler.NewErrorResponse(domain.CodeNotFound, "missing", false), http.StatusNotFound},
		{"precondition failed", handler.NewErrorResponse(domain.CodePreconditionFailed, "not validated", false), http.StatusConflict},
		{"collaborator failure", handler.NewErrorResponse(domain.CodeCollaboratorFailure, "upstream", true), http.StatusBadGateway},
		{"unclassified", handler.NewErrorResponse("INTERNAL_ERROR", "boom", true), http.StatusInternalServerError},
		{"failure without error info", handler.Response{Success: false}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, statusFor(tc.response))
		})
	}
}
