package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mkotas/flashdeck/internal/models"
)

// MockDeckRepository is a mock implementation of repository.DeckRepository
type MockDeckRepository struct {
	mock.Mock
}

func (m *MockDeckRepository) Get(ctx context.Context, id int64) (*models.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockDeckRepository) List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Deck), args.Error(1)
}

func (m *MockDeckRepository) Insert(ctx context.Context, deck models.Deck) (int64, error) {
	args := m.Called(ctx, deck)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDeckRepository) Update(ctx context.Context, id int64, upd models.DeckUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *MockDeckRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDeckRepository) Fork(ctx context.Context, src models.Deck, userID string) (int64, error) {
	args := m.Called(ctx, src, userID)
	return args.Get(0).(int64), args.Error(1)
}
