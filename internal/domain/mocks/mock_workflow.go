// Package mocks provides testify mocks for domain interfaces used in
// command tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"crucible.dev/pkg/crucible/internal/domain"
)

// MockWorkflow is a mock implementation of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a new MockWorkflow bound to the test's lifecycle.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	m := &MockWorkflow{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Run mocks the full pipeline run.
func (m *MockWorkflow) Run(ctx context.Context, args domain.RunArgs) error {
	ret := m.Called(ctx, args)

	return ret.Error(0)
}

// CheckGate mocks the gate-only check.
func (m *MockWorkflow) CheckGate(ctx context.Context, args domain.RunArgs) error {
	ret := m.Called(ctx, args)

	return ret.Error(0)
}

// List mocks candidate listing.
func (m *MockWorkflow) List(ctx context.Context, args domain.RunArgs) error {
	ret := m.Called(ctx, args)

	return ret.Error(0)
}
