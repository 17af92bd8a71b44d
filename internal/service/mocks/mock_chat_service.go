package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Ask(ctx context.Context, documentID, question string) (string, error) {
	args := m.Called(ctx, documentID, question)
	return args.String(0), args.Error(1)
}
