package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mkotas/flashdeck/internal/models"
)

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Get(ctx context.Context, userID string) (models.UserStats, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.UserStats), args.Error(1)
}
