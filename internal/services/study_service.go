package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/mkotas/flashdeck/internal/errors"
	"github.com/mkotas/flashdeck/internal/logger"
	"github.com/mkotas/flashdeck/internal/models"
	"github.com/mkotas/flashdeck/internal/repository"
	"github.com/mkotas/flashdeck/internal/srs"
)

// StudyService drives the review loop: pulling the due queue and recording
// graded answers.
type StudyService interface {
	// DueQueue returns cards due for review, earliest first, optionally scoped
	// to one deck. An empty queue is a valid result.
	DueQueue(ctx context.Context, userID string, deckID *int64, limit int) ([]models.DueCard, error)
	// Grade applies a review grade to a card and, when sessionID is given,
	// counts the answer into that session. Grades again/hard count as
	// incorrect, good/easy as correct.
	Grade(ctx context.Context, userID string, cardID int64, grade srs.Grade, sessionID *int64) (*models.CardProgress, error)
}

type studyService struct {
	decks    repository.DeckRepository
	cards    repository.CardRepository
	progress repository.ProgressRepository
	sessions repository.SessionRepository
}

// NewStudyService creates a new StudyService
func NewStudyService(
	decks repository.DeckRepository,
	cards repository.CardRepository,
	progress repository.ProgressRepository,
	sessions repository.SessionRepository,
) StudyService {
	return &studyService{decks: decks, cards: cards, progress: progress, sessions: sessions}
}

func (s *studyService) DueQueue(ctx context.Context, userID string, deckID *int64, limit int) ([]models.DueCard, error) {
	log := logger.FromContext(ctx)
	log.Debug("building due queue: user_id=%s", userID)

	if deckID != nil {
		deck, err := s.decks.Get(ctx, *deckID)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if deck == nil || (deck.UserID != userID && !deck.IsPublic) {
			return nil, errors.NewNotFoundError("deck", *deckID)
		}
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	due, err := s.progress.DueQueue(ctx, userID, deckID, time.Now().UTC(), limit)
	if err != nil {
		log.Error("failed to build due queue: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return due, nil
}

func (s *studyService) Grade(ctx context.Context, userID string, cardID int64, grade srs.Grade, sessionID *int64) (*models.CardProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("grading card: user_id=%s, card_id=%d, grade=%s", userID, cardID, grade)

	if !grade.IsValid() {
		return nil, errors.NewInvalidArgumentError("grade", "must be one of again, hard, good, easy")
	}

	// The card must be in a deck the user can study: their own or a public one.
	card, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}
	deck, err := s.decks.Get(ctx, card.DeckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil || (deck.UserID != userID && !deck.IsPublic) {
		return nil, errors.NewNotFoundError("card", cardID)
	}

	progress, err := s.progress.RecordGrade(ctx, userID, cardID, grade, time.Now().UTC())
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("card", cardID)
		}
		log.Error("failed to record grade: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if sessionID != nil {
		// The session must belong to the grading user; a foreign session id
		// reads as nonexistent.
		session, err := s.sessions.Get(ctx, *sessionID)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if session == nil || session.UserID != userID {
			return nil, errors.NewNotFoundError("session", *sessionID)
		}

		correct := grade == srs.Good || grade == srs.Easy
		if err := s.sessions.RecordAnswer(ctx, *sessionID, correct); err != nil {
			if stderrors.Is(err, repository.ErrSessionClosed) {
				return nil, errors.NewConflictError("session already ended", err)
			}
			log.Error("failed to record session answer: %v", err)
			return nil, errors.NewInternalError(err)
		}
	}
	return &progress, nil
}
