// Package lambda runs the pipeline handler as an AWS Lambda function.
// Direct invocations carry a request envelope; SQS event sources are
// unwrapped record by record with partial batch failure reporting.
package lambda

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/anshuman444/hacknovation2.0/internal/config"
	"github.com/anshuman444/hacknovation2.0/internal/handler"
)

// Adapter handles Lambda runtime integration.
type Adapter struct {
	handler handler.Handler
	config  *config.HTTPConfig
}

// NewAdapter creates a Lambda adapter for the given handler. The HTTP
// config supplies the per-request timeout.
func NewAdapter(h handler.Handler, cfg *config.HTTPConfig) *Adapter {
	return &Adapter{
		handler: h,
		config:  cfg,
	}
}

// Start hands control to the Lambda runtime and never returns.
func (a *Adapter) Start() error {
	lambda.Start(a.handleEvent)
	return nil
}

// Stop is a no-op; the Lambda runtime owns the lifecycle.
func (a *Adapter) Stop(_ context.Context) error {
	return nil
}

func (a *Adapter) handleEvent(ctx context.Context, event json.RawMessage) (interface{}, error) {
	var sqsEvent events.SQSEvent
	if err := json.Unmarshal(event, &sqsEvent); err == nil && len(sqsEvent.Records) > 0 {
		return a.handleSQSEvent(ctx, sqsEvent)
	}

	var req handler.Request
	if err := json.Unmarshal(event, &req); err == nil && req.Type != "" {
		reqCtx := ctx
		if a.config.Timeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, a.config.Timeout)
			defer cancel()
		}
		return a.handler.Handle(reqCtx, req)
	}

	return nil, fmt.Errorf("unsupported event type")
}

func (a *Adapter) handleSQSEvent(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	response := events.SQSEventResponse{
		BatchItemFailures: []events.SQSBatchItemFailure{},
	}

	for _, record := range event.Records {
		if !a.handleRecord(ctx, record) {
			response.BatchItemFailures = append(response.BatchItemFailures,
				events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}

	return response, nil
}

func (a *Adapter) handleRecord(ctx context.Context, record events.SQSMessage) bool {
	var req handler.Request
	if err := json.Unmarshal([]byte(record.Body), &req); err != nil {
		return false
	}
	if req.ID == "" {
		req.ID = record.MessageId
	}
	if req.Source == "" {
		req.Source = "sqs"
	}

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	resp, err := a.handler.Handle(ctx, req)
	return err == nil && resp.Success
}
