package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mkotas/flashdeck/internal/models"
	"github.com/mkotas/flashdeck/internal/srs"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, userID string, cardID int64) (*models.CardProgress, error) {
	args := m.Called(ctx, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardProgress), args.Error(1)
}

func (m *MockProgressRepository) GetOrCreate(ctx context.Context, userID string, cardID int64, now time.Time) (models.CardProgress, error) {
	args := m.Called(ctx, userID, cardID, now)
	return args.Get(0).(models.CardProgress), args.Error(1)
}

func (m *MockProgressRepository) RecordGrade(ctx context.Context, userID string, cardID int64, grade srs.Grade, now time.Time) (models.CardProgress, error) {
	args := m.Called(ctx, userID, cardID, grade, now)
	return args.Get(0).(models.CardProgress), args.Error(1)
}

func (m *MockProgressRepository) DueQueue(ctx context.Context, userID string, deckID *int64, now time.Time, limit int) ([]models.DueCard, error) {
	args := m.Called(ctx, userID, deckID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DueCard), args.Error(1)
}
