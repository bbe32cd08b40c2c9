package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mkotas/flashdeck/internal/models"
)

// MockTagRepository is a mock implementation of repository.TagRepository
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) Get(ctx context.Context, id int64) (*models.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockTagRepository) List(ctx context.Context, userID string) ([]models.Tag, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagRepository) ListByDeck(ctx context.Context, deckID int64) ([]models.Tag, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagRepository) Insert(ctx context.Context, tag models.Tag) (int64, error) {
	args := m.Called(ctx, tag)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTagRepository) Attach(ctx context.Context, deckID, tagID int64) error {
	args := m.Called(ctx, deckID, tagID)
	return args.Error(0)
}

func (m *MockTagRepository) Detach(ctx context.Context, deckID, tagID int64) error {
	args := m.Called(ctx, deckID, tagID)
	return args.Error(0)
}
