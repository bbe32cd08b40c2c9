package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mkotas/flashdeck/internal/models"
)

// MockFolderRepository is a mock implementation of repository.FolderRepository
type MockFolderRepository struct {
	mock.Mock
}

func (m *MockFolderRepository) Get(ctx context.Context, id int64) (*models.Folder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Folder), args.Error(1)
}

func (m *MockFolderRepository) List(ctx context.Context, userID string) ([]models.Folder, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Folder), args.Error(1)
}

func (m *MockFolderRepository) Insert(ctx context.Context, folder models.Folder) (int64, error) {
	args := m.Called(ctx, folder)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFolderRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
