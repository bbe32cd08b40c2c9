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

// TagService handles tags and their attachment to decks.
type TagService interface {
	ListTags(ctx context.Context, userID string) ([]models.Tag, error)
	ListDeckTags(ctx context.Context, userID string, deckID int64) ([]models.Tag, error)
	CreateTag(ctx context.Context, userID, name, color string) (*models.Tag, error)
	TagDeck(ctx context.Context, userID string, deckID, tagID int64) error
	UntagDeck(ctx context.Context, userID string, deckID, tagID int64) error
}

type tagService struct {
	decks repository.DeckRepository
	tags  repository.TagRepository
}

// NewTagService creates a new TagService
func NewTagService(decks repository.DeckRepository, tags repository.TagRepository) TagService {
	return &tagService{decks: decks, tags: tags}
}

func (s *tagService) ListTags(ctx context.Context, userID string) ([]models.Tag, error) {
	tags, err := s.tags.List(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return tags, nil
}

func (s *tagService) ListDeckTags(ctx context.Context, userID string, deckID int64) ([]models.Tag, error) {
	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil || (deck.UserID != userID && !deck.IsPublic) {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	tags, err := s.tags.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return tags, nil
}

func (s *tagService) CreateTag(ctx context.Context, userID, name, color string) (*models.Tag, error) {
	log := logger.FromContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewInvalidArgumentError("name", "must not be empty")
	}

	tag := models.Tag{UserID: userID, Name: name, Color: color, CreatedAt: time.Now().UTC()}
	id, err := s.tags.Insert(ctx, tag)
	if err != nil {
		// Tag names are unique per user.
		return nil, errors.NewConflictError("tag already exists", err)
	}
	tag.ID = id
	log.Debug("tag created: id=%d, name=%s", id, name)
	return &tag, nil
}

// deckAndTag checks the caller owns both sides of the link.
func (s *tagService) deckAndTag(ctx context.Context, userID string, deckID, tagID int64) error {
	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if deck == nil || deck.UserID != userID {
		return errors.NewNotFoundError("deck", deckID)
	}
	tag, err := s.tags.Get(ctx, tagID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if tag == nil || tag.UserID != userID {
		return errors.NewNotFoundError("tag", tagID)
	}
	return nil
}

func (s *tagService) TagDeck(ctx context.Context, userID string, deckID, tagID int64) error {
	if err := s.deckAndTag(ctx, userID, deckID, tagID); err != nil {
		return err
	}
	if err := s.tags.Attach(ctx, deckID, tagID); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *tagService) UntagDeck(ctx context.Context, userID string, deckID, tagID int64) error {
	if err := s.deckAndTag(ctx, userID, deckID, tagID); err != nil {
		return err
	}
	if err := s.tags.Detach(ctx, deckID, tagID); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}
