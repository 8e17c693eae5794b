package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAttestor is a mock implementation of domain.Attestor.
type MockAttestor struct {
	mock.Mock
}

func (m *MockAttestor) Attest(ctx context.Context, auditID int64) error {
	args := m.Called(ctx, auditID)
	return args.Error(0)
}
