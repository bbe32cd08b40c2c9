package services

import (
	"context"
	"strings"
	"time"

	"github.com/mkotas/flashdeck/internal/errors"
	"github.com/mkotas/flashdeck/internal/logger"
	"github.com/mkotas/flashdeck/internal/models"
	"github.com/mkotas/flashdeck/internal/repository"
)

// DeckService handles deck-related business logic
type DeckService interface {
	GetDeck(ctx context.Context, userID string, deckID int64) (*models.Deck, error)
	ListDecks(ctx context.Context, userID string, folderID *int64, limit, offset int) ([]models.Deck, error)
	ListPublicDecks(ctx context.Context, limit, offset int) ([]models.Deck, error)
	CreateDeck(ctx context.Context, userID, name, description string, folderID *int64) (*models.Deck, error)
	UpdateDeck(ctx context.Context, userID string, deckID int64, upd models.DeckUpdate) (*models.Deck, error)
	DeleteDeck(ctx context.Context, userID string, deckID int64) error
	ForkDeck(ctx context.Context, userID string, deckID int64) (*models.Deck, error)
}

type deckService struct {
	decks   repository.DeckRepository
	folders repository.FolderRepository
}

// NewDeckService creates a new DeckService
func NewDeckService(decks repository.DeckRepository, folders repository.FolderRepository) DeckService {
	return &deckService{decks: decks, folders: folders}
}

// visibleDeck loads the deck and applies the visibility rule: the owner and
// anyone reading a public deck may see it, everyone else gets NOT_FOUND.
func (s *deckService) visibleDeck(ctx context.Context, userID string, deckID int64) (*models.Deck, error) {
	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil || (deck.UserID != userID && !deck.IsPublic) {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	return deck, nil
}

// ownedDeck is visibleDeck restricted to the owner, for mutations.
func (s *deckService) ownedDeck(ctx context.Context, userID string, deckID int64) (*models.Deck, error) {
	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil || deck.UserID != userID {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	return deck, nil
}

func (s *deckService) GetDeck(ctx context.Context, userID string, deckID int64) (*models.Deck, error) {
	return s.visibleDeck(ctx, userID, deckID)
}

func (s *deckService) ListDecks(ctx context.Context, userID string, folderID *int64, limit, offset int) ([]models.Deck, error) {
	decks, err := s.decks.List(ctx, models.DeckFilter{
		UserID:   userID,
		FolderID: folderID,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}

func (s *deckService) ListPublicDecks(ctx context.Context, limit, offset int) ([]models.Deck, error) {
	public := true
	decks, err := s.decks.List(ctx, models.DeckFilter{
		Public: &public,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}

func (s *deckService) CreateDeck(ctx context.Context, userID, name, description string, folderID *int64) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating deck: user_id=%s, name=%s", userID, name)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewInvalidArgumentError("name", "must not be empty")
	}

	if folderID != nil {
		folder, err := s.folders.Get(ctx, *folderID)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if folder == nil || folder.UserID != userID {
			return nil, errors.NewNotFoundError("folder", *folderID)
		}
	}

	now := time.Now().UTC()
	deck := models.Deck{
		UserID:      userID,
		Name:        name,
		Description: description,
		FolderID:    folderID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.decks.Insert(ctx, deck)
	if err != nil {
		log.Error("failed to create deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	deck.ID = id
	return &deck, nil
}

func (s *deckService) UpdateDeck(ctx context.Context, userID string, deckID int64, upd models.DeckUpdate) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating deck: id=%d", deckID)

	if _, err := s.ownedDeck(ctx, userID, deckID); err != nil {
		return nil, err
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, errors.NewInvalidArgumentError("name", "must not be empty")
	}
	if upd.FolderID != nil {
		folder, err := s.folders.Get(ctx, *upd.FolderID)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if folder == nil || folder.UserID != userID {
			return nil, errors.NewNotFoundError("folder", *upd.FolderID)
		}
	}

	if err := s.decks.Update(ctx, deckID, upd); err != nil {
		log.Error("failed to update deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return deck, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, userID string, deckID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting deck: id=%d", deckID)

	if _, err := s.ownedDeck(ctx, userID, deckID); err != nil {
		return err
	}
	if err := s.decks.Delete(ctx, deckID); err != nil {
		log.Error("failed to delete deck: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *deckService) ForkDeck(ctx context.Context, userID string, deckID int64) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("forking deck: id=%d, user_id=%s", deckID, userID)

	src, err := s.visibleDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}
	if !src.IsPublic {
		return nil, errors.NewInvalidArgumentError("deck", "only public decks can be forked")
	}

	newID, err := s.decks.Fork(ctx, *src, userID)
	if err != nil {
		log.Error("failed to fork deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	fork, err := s.decks.Get(ctx, newID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return fork, nil
}
