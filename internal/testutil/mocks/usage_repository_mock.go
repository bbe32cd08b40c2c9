package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mkotas/flashdeck/internal/models"
)

// MockUsageRepository is a mock implementation of repository.UsageRepository
type MockUsageRepository struct {
	mock.Mock
}

func (m *MockUsageRepository) Get(ctx context.Context, userID string) (*models.AiUsage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AiUsage), args.Error(1)
}

func (m *MockUsageRepository) IncrementMessages(ctx context.Context, userID string, imageCount int, now time.Time) error {
	args := m.Called(ctx, userID, imageCount, now)
	return args.Error(0)
}

func (m *MockUsageRepository) IncrementToolCalls(ctx context.Context, userID string, count int, now time.Time) error {
	args := m.Called(ctx, userID, count, now)
	return args.Error(0)
}
