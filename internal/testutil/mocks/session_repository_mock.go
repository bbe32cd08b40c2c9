package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mkotas/flashdeck/internal/models"
)

// MockSessionRepository is a mock implementation of repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Get(ctx context.Context, id int64) (*models.StudySession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudySession), args.Error(1)
}

func (m *MockSessionRepository) Start(ctx context.Context, userID string, deckID int64, now time.Time) (models.StudySession, error) {
	args := m.Called(ctx, userID, deckID, now)
	return args.Get(0).(models.StudySession), args.Error(1)
}

func (m *MockSessionRepository) RecordAnswer(ctx context.Context, sessionID int64, correct bool) error {
	args := m.Called(ctx, sessionID, correct)
	return args.Error(0)
}

func (m *MockSessionRepository) End(ctx context.Context, sessionID int64, now time.Time) (models.StudySession, bool, error) {
	args := m.Called(ctx, sessionID, now)
	return args.Get(0).(models.StudySession), args.Bool(1), args.Error(2)
}

func (m *MockSessionRepository) CloseStale(ctx context.Context, idleFor time.Duration, now time.Time) (int, error) {
	args := m.Called(ctx, idleFor, now)
	return args.Int(0), args.Error(1)
}
