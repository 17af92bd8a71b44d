package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockInspector struct {
	mock.Mock
}

func (m *MockInspector) Name() string {
	return m.Called().String(0)
}

func (m *MockInspector) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockInspector) ListCollections(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
