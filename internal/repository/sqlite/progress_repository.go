package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/mkotas/flashdeck/internal/logger"
	"github.com/mkotas/flashdeck/internal/models"
	"github.com/mkotas/flashdeck/internal/repository"
	"github.com/mkotas/flashdeck/internal/srs"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

const progressColumns = `id, user_id, card_id, deck_id, status, ease_factor, interval, repetitions, next_review_at, last_reviewed_at, created_at`

func scanProgress(row interface{ Scan(...any) error }) (*models.CardProgress, error) {
	var p models.CardProgress
	var status string
	var lastReviewed sql.NullTime
	err := row.Scan(&p.ID, &p.UserID, &p.CardID, &p.DeckID, &status, &p.EaseFactor,
		&p.Interval, &p.Repetitions, &p.NextReviewAt, &lastReviewed, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Status, err = srs.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	if lastReviewed.Valid {
		p.LastReviewedAt = &lastReviewed.Time
	}
	return &p, nil
}

func (r *progressRepository) Get(ctx context.Context, userID string, cardID int64) (*models.CardProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")

	row := r.db.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM card_progress WHERE user_id = ? AND card_id = ?`,
		userID, cardID)
	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("progress not found: user_id=%s, card_id=%d", userID, cardID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	return p, nil
}

func (r *progressRepository) GetOrCreate(ctx context.Context, userID string, cardID int64, now time.Time) (models.CardProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("get-or-create progress: user_id=%s, card_id=%d", userID, cardID)

	var out models.CardProgress
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		p, err := getProgressTx(ctx, tx, userID, cardID)
		if err != nil {
			return err
		}
		if p == nil {
			p, err = createProgressTx(ctx, tx, userID, cardID, now)
			if err != nil {
				return err
			}
		}
		out = *p
		return nil
	})
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error("failed to get-or-create progress: %v", err)
		}
		return models.CardProgress{}, err
	}
	return out, nil
}

func (r *progressRepository) RecordGrade(ctx context.Context, userID string, cardID int64, grade srs.Grade, now time.Time) (models.CardProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("recording grade: user_id=%s, card_id=%d, grade=%s", userID, cardID, grade)

	var out models.CardProgress
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		p, err := getProgressTx(ctx, tx, userID, cardID)
		if err != nil {
			return err
		}
		if p == nil {
			// Lazy first-exposure creation inside the same transaction.
			p, err = createProgressTx(ctx, tx, userID, cardID, now)
			if err != nil {
				return err
			}
		}

		res := srs.Apply(p.State(), grade, now)
		p.Status = res.Status
		p.EaseFactor = res.EaseFactor
		p.Interval = res.Interval
		p.Repetitions = res.Repetitions
		p.NextReviewAt = res.NextReviewAt
		p.LastReviewedAt = &res.LastReviewedAt

		_, err = tx.ExecContext(ctx, `
UPDATE card_progress
SET status = ?, ease_factor = ?, interval = ?, repetitions = ?, next_review_at = ?, last_reviewed_at = ?
WHERE id = ?
`, p.Status.String(), p.EaseFactor, p.Interval, p.Repetitions, p.NextReviewAt, p.LastReviewedAt, p.ID)
		if err != nil {
			return err
		}
		out = *p
		return nil
	})
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error("failed to record grade: %v", err)
		}
		return models.CardProgress{}, err
	}
	log.Debug("grade recorded: status=%s, interval=%d, ease=%.2f", out.Status, out.Interval, out.EaseFactor)
	return out, nil
}

func getProgressTx(ctx context.Context, tx *sql.Tx, userID string, cardID int64) (*models.CardProgress, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM card_progress WHERE user_id = ? AND card_id = ?`,
		userID, cardID)
	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// createProgressTx inserts a fresh record for a first exposure. The deck id
// is denormalized from the card row, which stays the canonical source.
// Returns sql.ErrNoRows when the card does not exist. The unique index on
// (user_id, card_id) backstops concurrent first-creation.
func createProgressTx(ctx context.Context, tx *sql.Tx, userID string, cardID int64, now time.Time) (*models.CardProgress, error) {
	var deckID int64
	if err := tx.QueryRowContext(ctx, `SELECT deck_id FROM cards WHERE id = ?`, cardID).Scan(&deckID); err != nil {
		return nil, err
	}

	state := srs.NewState()
	_, err := tx.ExecContext(ctx, `
INSERT INTO card_progress (user_id, card_id, deck_id, status, ease_factor, interval, repetitions, next_review_at, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, card_id) DO NOTHING
`, userID, cardID, deckID, state.Status.String(), state.EaseFactor, state.Interval, state.Repetitions, now, now)
	if err != nil {
		return nil, err
	}
	return getProgressTx(ctx, tx, userID, cardID)
}

func (r *progressRepository) DueQueue(ctx context.Context, userID string, deckID *int64, now time.Time, limit int) ([]models.DueCard, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("fetching due queue: user_id=%s, limit=%d", userID, limit)

	query := sqlBuilder.Select(
		"p.id", "p.user_id", "p.card_id", "p.deck_id", "p.status", "p.ease_factor",
		"p.interval", "p.repetitions", "p.next_review_at", "p.last_reviewed_at", "p.created_at",
		"c.id", "c.deck_id", "c.front_text", "c.front_image_url", "c.back_text",
		"c.back_image_url", "c.position", "c.created_at", "c.updated_at",
	).
		From("card_progress p").
		Join("cards c ON c.id = p.card_id").
		Where(squirrel.Eq{"p.user_id": userID}).
		Where(squirrel.LtOrEq{"p.next_review_at": now}).
		OrderBy("p.next_review_at ASC", "c.id ASC")

	if deckID != nil {
		query = query.Where(squirrel.Eq{"p.deck_id": *deckID})
	}
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build due queue query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query due queue: %v", err)
		return nil, err
	}
	defer rows.Close()

	var due []models.DueCard
	for rows.Next() {
		var d models.DueCard
		var status string
		var lastReviewed sql.NullTime
		err := rows.Scan(
			&d.Progress.ID, &d.Progress.UserID, &d.Progress.CardID, &d.Progress.DeckID,
			&status, &d.Progress.EaseFactor, &d.Progress.Interval, &d.Progress.Repetitions,
			&d.Progress.NextReviewAt, &lastReviewed, &d.Progress.CreatedAt,
			&d.Card.ID, &d.Card.DeckID, &d.Card.FrontText, &d.Card.FrontImageURL,
			&d.Card.BackText, &d.Card.BackImageURL, &d.Card.Position,
			&d.Card.CreatedAt, &d.Card.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan due card: %v", err)
			return nil, err
		}
		d.Progress.Status, err = srs.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		if lastReviewed.Valid {
			d.Progress.LastReviewedAt = &lastReviewed.Time
		}
		due = append(due, d)
	}
	log.Debug("found %d due cards", len(due))
	return due, rows.Err()
}
