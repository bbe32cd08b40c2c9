package services

import (
	"context"
	"database/sql"
	"encoding/csv"
	stderrors "errors"
	"io"
	"strings"

	"github.com/mkotas/flashdeck/internal/errors"
	"github.com/mkotas/flashdeck/internal/logger"
	"github.com/mkotas/flashdeck/internal/models"
	"github.com/mkotas/flashdeck/internal/repository"
	"github.com/mkotas/flashdeck/internal/worker"
)

// maxImportRows caps a single CSV upload.
const maxImportRows = 5000

// CardService handles card-related business logic
type CardService interface {
	ListCards(ctx context.Context, userID string, deckID int64) ([]models.Card, error)
	CreateCard(ctx context.Context, userID string, card models.Card) (*models.Card, error)
	UpdateCard(ctx context.Context, userID string, cardID int64, upd models.CardUpdate) (*models.Card, error)
	DeleteCard(ctx context.Context, userID string, cardID int64) error
	ReorderCards(ctx context.Context, userID string, deckID int64, cardIDs []int64) error
	// ImportCSV parses front,back rows and queues the batch insert on the
	// worker pool. Returns the number of rows accepted.
	ImportCSV(ctx context.Context, userID string, deckID int64, r io.Reader) (int, error)
}

type cardService struct {
	decks repository.DeckRepository
	cards repository.CardRepository
	pool  *worker.Pool
}

// NewCardService creates a new CardService
func NewCardService(decks repository.DeckRepository, cards repository.CardRepository, pool *worker.Pool) CardService {
	return &cardService{decks: decks, cards: cards, pool: pool}
}

func (s *cardService) ownedDeck(ctx context.Context, userID string, deckID int64) error {
	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if deck == nil || deck.UserID != userID {
		return errors.NewNotFoundError("deck", deckID)
	}
	return nil
}

func (s *cardService) ListCards(ctx context.Context, userID string, deckID int64) ([]models.Card, error) {
	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil || (deck.UserID != userID && !deck.IsPublic) {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	cards, err := s.cards.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *cardService) CreateCard(ctx context.Context, userID string, card models.Card) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating card: deck_id=%d", card.DeckID)

	if err := s.ownedDeck(ctx, userID, card.DeckID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(card.FrontText) == "" && card.FrontImageURL == "" {
		return nil, errors.NewInvalidArgumentError("front", "must have text or an image")
	}

	id, err := s.cards.Insert(ctx, card)
	if err != nil {
		log.Error("failed to create card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	created, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return created, nil
}

// ownedCard resolves a card through its deck's ownership.
func (s *cardService) ownedCard(ctx context.Context, userID string, cardID int64) (*models.Card, error) {
	card, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}
	if err := s.ownedDeck(ctx, userID, card.DeckID); err != nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}
	return card, nil
}

func (s *cardService) UpdateCard(ctx context.Context, userID string, cardID int64, upd models.CardUpdate) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating card: id=%d", cardID)

	if _, err := s.ownedCard(ctx, userID, cardID); err != nil {
		return nil, err
	}
	if err := s.cards.Update(ctx, cardID, upd); err != nil {
		log.Error("failed to update card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	card, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return card, nil
}

func (s *cardService) DeleteCard(ctx context.Context, userID string, cardID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting card: id=%d", cardID)

	if _, err := s.ownedCard(ctx, userID, cardID); err != nil {
		return err
	}
	if err := s.cards.Delete(ctx, cardID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("card", cardID)
		}
		log.Error("failed to delete card: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *cardService) ReorderCards(ctx context.Context, userID string, deckID int64, cardIDs []int64) error {
	log := logger.FromContext(ctx)
	log.Debug("reordering cards: deck_id=%d", deckID)

	if err := s.ownedDeck(ctx, userID, deckID); err != nil {
		return err
	}
	if err := s.cards.Reorder(ctx, deckID, cardIDs); err != nil {
		if stderrors.Is(err, repository.ErrCardSetMismatch) {
			return errors.NewInvalidArgumentError("card_ids", "must be exactly the deck's current card set")
		}
		log.Error("failed to reorder cards: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *cardService) ImportCSV(ctx context.Context, userID string, deckID int64, r io.Reader) (int, error) {
	log := logger.FromContext(ctx)

	if err := s.ownedDeck(ctx, userID, deckID); err != nil {
		return 0, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows []models.Card
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, errors.NewInvalidArgumentError("csv", err.Error())
		}
		if len(record) < 2 {
			return 0, errors.NewInvalidArgumentError("csv", "each row needs front and back columns")
		}
		front := strings.TrimSpace(record[0])
		back := strings.TrimSpace(record[1])
		if front == "" {
			continue
		}
		rows = append(rows, models.Card{FrontText: front, BackText: back})
		if len(rows) > maxImportRows {
			return 0, errors.NewInvalidArgumentError("csv", "too many rows")
		}
	}
	if len(rows) == 0 {
		return 0, errors.NewInvalidArgumentError("csv", "no importable rows")
	}

	job := &worker.ImportCardsJob{Cards: s.cards, DeckID: deckID, Rows: rows}
	if err := s.pool.Submit(job); err != nil {
		return 0, errors.NewConflictError("import queue is full, retry later", err)
	}
	log.Info("queued csv import: deck_id=%d, rows=%d", deckID, len(rows))
	return len(rows), nil
}
