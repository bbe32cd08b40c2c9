package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mkotas/flashdeck/internal/models"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) Insert(ctx context.Context, card models.Card) (int64, error) {
	args := m.Called(ctx, card)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCardRepository) InsertBatch(ctx context.Context, deckID int64, cards []models.Card) ([]int64, error) {
	args := m.Called(ctx, deckID, cards)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockCardRepository) Update(ctx context.Context, id int64, upd models.CardUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *MockCardRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCardRepository) Reorder(ctx context.Context, deckID int64, cardIDs []int64) error {
	args := m.Called(ctx, deckID, cardIDs)
	return args.Error(0)
}
