// Package mocks provides mock implementations of the domain ports.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAnalysisProvider is a mock implementation of domain.AnalysisProvider.
type MockAnalysisProvider struct {
	mock.Mock
}

func (m *MockAnalysisProvider) Analyze(ctx context.Context, source string) (string, error) {
	args := m.Called(ctx, source)
	return args.String(0), args.Error(1)
}
