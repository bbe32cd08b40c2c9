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
)

// SessionService handles study session lifecycle and the stats they feed.
type SessionService interface {
	StartSession(ctx context.Context, userID string, deckID int64) (*models.StudySession, error)
	RecordAnswer(ctx context.Context, userID string, sessionID int64, correct bool) error
	EndSession(ctx context.Context, userID string, sessionID int64) (*models.StudySession, error)
	GetStats(ctx context.Context, userID string) (models.UserStats, error)
	// CloseStaleSessions ends sessions idle longer than idleFor; the sweeper
	// calls this periodically.
	CloseStaleSessions(ctx context.Context, idleFor time.Duration) (int, error)
}

type sessionService struct {
	decks    repository.DeckRepository
	sessions repository.SessionRepository
	stats    repository.StatsRepository
}

// NewSessionService creates a new SessionService
func NewSessionService(
	decks repository.DeckRepository,
	sessions repository.SessionRepository,
	stats repository.StatsRepository,
) SessionService {
	return &sessionService{decks: decks, sessions: sessions, stats: stats}
}

func (s *sessionService) StartSession(ctx context.Context, userID string, deckID int64) (*models.StudySession, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: user_id=%s, deck_id=%d", userID, deckID)

	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil || (deck.UserID != userID && !deck.IsPublic) {
		return nil, errors.NewNotFoundError("deck", deckID)
	}

	session, err := s.sessions.Start(ctx, userID, deckID, time.Now().UTC())
	if err != nil {
		log.Error("failed to start session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &session, nil
}

// ownedSession loads the session and hides other users' sessions as NOT_FOUND.
func (s *sessionService) ownedSession(ctx context.Context, userID string, sessionID int64) (*models.StudySession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if session == nil || session.UserID != userID {
		return nil, errors.NewNotFoundError("session", sessionID)
	}
	return session, nil
}

func (s *sessionService) RecordAnswer(ctx context.Context, userID string, sessionID int64, correct bool) error {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := s.sessions.RecordAnswer(ctx, sessionID, correct); err != nil {
		if stderrors.Is(err, repository.ErrSessionClosed) {
			return errors.NewConflictError("session already ended", err)
		}
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *sessionService) EndSession(ctx context.Context, userID string, sessionID int64) (*models.StudySession, error) {
	log := logger.FromContext(ctx)
	log.Debug("ending session: id=%d", sessionID)

	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	session, closed, err := s.sessions.End(ctx, sessionID, time.Now().UTC())
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("session", sessionID)
		}
		log.Error("failed to end session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if !closed {
		log.Debug("session %d already ended", sessionID)
	}
	return &session, nil
}

func (s *sessionService) GetStats(ctx context.Context, userID string) (models.UserStats, error) {
	stats, err := s.stats.Get(ctx, userID)
	if err != nil {
		return models.UserStats{}, errors.NewInternalError(err)
	}
	return stats, nil
}

func (s *sessionService) CloseStaleSessions(ctx context.Context, idleFor time.Duration) (int, error) {
	n, err := s.sessions.CloseStale(ctx, idleFor, time.Now().UTC())
	if err != nil {
		return 0, errors.NewInternalError(err)
	}
	return n, nil
}
