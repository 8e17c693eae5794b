// Package mocks provides mock observability implementations for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/anshuman444/hacknovation2.0/internal/observability"
)

// MockLogger is a mock implementation of observability.Logger.
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Info(ctx context.Context, msg string, fields observability.Fields) {
	m.Called(ctx, msg, fields)
}

func (m *MockLogger) Error(ctx context.Context, msg string, err error, fields observability.Fields) {
	m.Called(ctx, msg, err, fields)
}

func (m *MockLogger) Warn(ctx context.Context, msg string, fields observability.Fields) {
	m.Called(ctx, msg, fields)
}

func (m *MockLogger) Debug(ctx context.Context, msg string, fields observability.Fields) {
	m.Called(ctx, msg, fields)
}

func (m *MockLogger) WithFields(fields observability.Fields) observability.Logger {
	args := m.Called(fields)
	if logger, ok := args.Get(0).(observability.Logger); ok {
		return logger
	}
	return m
}

// NewRelaxedLogger returns a MockLogger that accepts any call. Use it in
// tests that assert behavior rather than logging.
func NewRelaxedLogger() *MockLogger {
	m := &MockLogger{}
	m.On("Info", mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	m.On("Error", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	m.On("Warn", mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	m.On("Debug", mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	m.On("WithFields", mock.Anything).Return(nil).Maybe()
	return m
}
