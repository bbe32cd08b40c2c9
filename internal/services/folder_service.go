package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/mkotas/flashdeck/internal/errors"
	"github.com/mkotas/flashdeck/internal/models"
	"github.com/mkotas/flashdeck/internal/repository"
)

// FolderService handles deck folders.
type FolderService interface {
	ListFolders(ctx context.Context, userID string) ([]models.Folder, error)
	CreateFolder(ctx context.Context, userID, name string, parentID *int64) (*models.Folder, error)
	DeleteFolder(ctx context.Context, userID string, folderID int64) error
}

type folderService struct {
	folders repository.FolderRepository
}

// NewFolderService creates a new FolderService
func NewFolderService(folders repository.FolderRepository) FolderService {
	return &folderService{folders: folders}
}

func (s *folderService) ListFolders(ctx context.Context, userID string) ([]models.Folder, error) {
	folders, err := s.folders.List(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return folders, nil
}

func (s *folderService) CreateFolder(ctx context.Context, userID, name string, parentID *int64) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewInvalidArgumentError("name", "must not be empty")
	}
	if parentID != nil {
		parent, err := s.folders.Get(ctx, *parentID)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if parent == nil || parent.UserID != userID {
			return nil, errors.NewNotFoundError("folder", *parentID)
		}
	}

	folder := models.Folder{UserID: userID, Name: name, ParentID: parentID, CreatedAt: time.Now().UTC()}
	id, err := s.folders.Insert(ctx, folder)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	folder.ID = id
	return &folder, nil
}

func (s *folderService) DeleteFolder(ctx context.Context, userID string, folderID int64) error {
	folder, err := s.folders.Get(ctx, folderID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if folder == nil || folder.UserID != userID {
		return errors.NewNotFoundError("folder", folderID)
	}
	if err := s.folders.Delete(ctx, folderID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("folder", folderID)
		}
		return errors.NewInternalError(err)
	}
	return nil
}
