package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mkotas/flashdeck/internal/logger"
	"github.com/mkotas/flashdeck/internal/models"
	"github.com/mkotas/flashdeck/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `id, user_id, deck_id, started_at, ended_at, cards_studied, correct_count, incorrect_count`

func scanSession(row interface{ Scan(...any) error }) (*models.StudySession, error) {
	var s models.StudySession
	var endedAt sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &s.DeckID, &s.StartedAt, &endedAt,
		&s.CardsStudied, &s.CorrectCount, &s.IncorrectCount)
	if err != nil {
		return nil, err
	}
	if endedAt.Valid {
		s.EndedAt = &endedAt.Time
	}
	return &s, nil
}

func (r *sessionRepository) Get(ctx context.Context, id int64) (*models.StudySession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM study_sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) Start(ctx context.Context, userID string, deckID int64, now time.Time) (models.StudySession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("starting session: user_id=%s, deck_id=%d", userID, deckID)

	var out models.StudySession
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		// A dangling open session is closed first, folding into stats the
		// same way an explicit close would.
		row := tx.QueryRowContext(ctx,
			`SELECT `+sessionColumns+` FROM study_sessions WHERE user_id = ? AND ended_at IS NULL`, userID)
		open, err := scanSession(row)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if open != nil {
			if err := closeSessionTx(ctx, tx, open, now); err != nil {
				return err
			}
		}

		res, err := tx.ExecContext(ctx, `
INSERT INTO study_sessions (user_id, deck_id, started_at, cards_studied, correct_count, incorrect_count)
VALUES (?, ?, ?, 0, 0, 0)
`, userID, deckID, now)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		out = models.StudySession{ID: id, UserID: userID, DeckID: deckID, StartedAt: now}
		return nil
	})
	if err != nil {
		log.Error("failed to start session: %v", err)
		return models.StudySession{}, err
	}
	log.Debug("session started: id=%d", out.ID)
	return out, nil
}

func (r *sessionRepository) RecordAnswer(ctx context.Context, sessionID int64, correct bool) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("recording answer: session_id=%d, correct=%t", sessionID, correct)

	correctDelta := 0
	incorrectDelta := 0
	if correct {
		correctDelta = 1
	} else {
		incorrectDelta = 1
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE study_sessions
SET cards_studied = cards_studied + 1,
    correct_count = correct_count + ?,
    incorrect_count = incorrect_count + ?
WHERE id = ? AND ended_at IS NULL
`, correctDelta, incorrectDelta, sessionID)
	if err != nil {
		log.Error("failed to record answer: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrSessionClosed
	}
	return nil
}

func (r *sessionRepository) End(ctx context.Context, sessionID int64, now time.Time) (models.StudySession, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("ending session: id=%d", sessionID)

	var out models.StudySession
	var closed bool
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM study_sessions WHERE id = ?`, sessionID)
		s, err := scanSession(row)
		if err != nil {
			return err
		}
		if s.EndedAt != nil {
			// Already closed; ending twice is a no-op.
			out = *s
			return nil
		}
		if err := closeSessionTx(ctx, tx, s, now); err != nil {
			return err
		}
		s.EndedAt = &now
		out = *s
		closed = true
		return nil
	})
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error("failed to end session: %v", err)
		}
		return models.StudySession{}, false, err
	}
	return out, closed, nil
}

func (r *sessionRepository) CloseStale(ctx context.Context, idleFor time.Duration, now time.Time) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	cutoff := now.Add(-idleFor)
	var count int
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT `+sessionColumns+` FROM study_sessions WHERE ended_at IS NULL AND started_at <= ?`, cutoff)
		if err != nil {
			return err
		}
		var stale []models.StudySession
		for rows.Next() {
			s, err := scanSession(rows)
			if err != nil {
				rows.Close()
				return err
			}
			stale = append(stale, *s)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, s := range stale {
			s := s
			// Fold at the idle cutoff rather than sweep time, so an
			// abandoned session does not book the gap until the sweep ran.
			endAt := s.StartedAt.Add(idleFor)
			if endAt.After(now) {
				endAt = now
			}
			if err := closeSessionTx(ctx, tx, &s, endAt); err != nil {
				return err
			}
		}
		count = len(stale)
		return nil
	})
	if err != nil {
		log.Error("failed to close stale sessions: %v", err)
		return 0, err
	}
	if count > 0 {
		log.Info("closed %d stale sessions", count)
	}
	return count, nil
}

// closeSessionTx stamps the end time and folds the session into user_stats.
// Both writes stay inside the caller's transaction.
func closeSessionTx(ctx context.Context, tx *sql.Tx, s *models.StudySession, now time.Time) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE study_sessions SET ended_at = ? WHERE id = ?`, now, s.ID); err != nil {
		return err
	}

	var stats models.UserStats
	err := tx.QueryRowContext(ctx, `
SELECT user_id, current_streak, longest_streak, last_study_date, total_cards_studied, total_time_spent
FROM user_stats
WHERE user_id = ?
`, s.UserID).Scan(&stats.UserID, &stats.CurrentStreak, &stats.LongestStreak,
		&stats.LastStudyDate, &stats.TotalCardsStudied, &stats.TotalTimeSpent)
	if errors.Is(err, sql.ErrNoRows) {
		stats = models.UserStats{UserID: s.UserID}
	} else if err != nil {
		return err
	}

	stats = stats.AdvanceStreak(*s, now)

	_, err = tx.ExecContext(ctx, `
INSERT INTO user_stats (user_id, current_streak, longest_streak, last_study_date, total_cards_studied, total_time_spent)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
    current_streak = excluded.current_streak,
    longest_streak = excluded.longest_streak,
    last_study_date = excluded.last_study_date,
    total_cards_studied = excluded.total_cards_studied,
    total_time_spent = excluded.total_time_spent
`, stats.UserID, stats.CurrentStreak, stats.LongestStreak, stats.LastStudyDate,
		stats.TotalCardsStudied, stats.TotalTimeSpent)
	return err
}
