package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/mkotas/flashdeck/internal/logger"
	"github.com/mkotas/flashdeck/internal/models"
	"github.com/mkotas/flashdeck/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

const deckColumns = `id, user_id, name, description, is_public, folder_id, forked_from_id, card_count, created_at, updated_at`

func scanDeck(row interface{ Scan(...any) error }) (*models.Deck, error) {
	var d models.Deck
	var folderID, forkedFromID sql.NullInt64
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Description, &d.IsPublic,
		&folderID, &forkedFromID, &d.CardCount, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if folderID.Valid {
		d.FolderID = &folderID.Int64
	}
	if forkedFromID.Valid {
		d.ForkedFromID = &forkedFromID.Int64
	}
	return &d, nil
}

func (r *deckRepository) Get(ctx context.Context, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")

	row := r.db.QueryRowContext(ctx, `SELECT `+deckColumns+` FROM decks WHERE id = ?`, id)
	deck, err := scanDeck(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	return deck, nil
}

func (r *deckRepository) List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: user_id=%s", filter.UserID)

	query := sqlBuilder.Select(
		"id", "user_id", "name", "description", "is_public",
		"folder_id", "forked_from_id", "card_count", "created_at", "updated_at",
	).From("decks")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.FolderID != nil {
		query = query.Where(squirrel.Eq{"folder_id": *filter.FolderID})
	}
	if filter.Public != nil {
		query = query.Where(squirrel.Eq{"is_public": *filter.Public})
	}
	query = query.OrderBy("updated_at DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		decks = append(decks, *deck)
	}
	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

func (r *deckRepository) Insert(ctx context.Context, d models.Deck) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: name=%s", d.Name)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO decks (user_id, name, description, is_public, folder_id, forked_from_id, card_count, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)
`, d.UserID, d.Name, d.Description, d.IsPublic, d.FolderID, d.ForkedFromID, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get deck id: %v", err)
		return 0, err
	}
	log.Debug("deck inserted: id=%d", id)
	return id, nil
}

func (r *deckRepository) Update(ctx context.Context, id int64, upd models.DeckUpdate) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("updating deck: id=%d", id)

	query := sqlBuilder.Update("decks").Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP"))
	if upd.Name != nil {
		query = query.Set("name", *upd.Name)
	}
	if upd.Description != nil {
		query = query.Set("description", *upd.Description)
	}
	if upd.IsPublic != nil {
		query = query.Set("is_public", *upd.IsPublic)
	}
	if upd.FolderID != nil {
		query = query.Set("folder_id", *upd.FolderID)
	}
	query = query.Where(squirrel.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build update: %v", err)
		return err
	}
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		log.Error("failed to update deck: %v", err)
		return err
	}
	return nil
}

func (r *deckRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%d", id)

	// Cascade order: progress, cards, tag links, deck. Per-card count
	// bookkeeping is skipped since the deck itself goes away.
	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM card_progress WHERE deck_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE deck_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM deck_tags WHERE deck_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
}

func (r *deckRepository) Fork(ctx context.Context, src models.Deck, userID string) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("forking deck: src=%d, user_id=%s", src.ID, userID)

	var newID int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO decks (user_id, name, description, is_public, forked_from_id, card_count, created_at, updated_at)
VALUES (?, ?, ?, 0, ?, 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
`, userID, src.Name, src.Description, src.ID)
		if err != nil {
			return err
		}
		newID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx, `
SELECT front_text, front_image_url, back_text, back_image_url
FROM cards
WHERE deck_id = ?
ORDER BY position, id
`, src.ID)
		if err != nil {
			return err
		}
		type cardContent struct {
			frontText, frontImage, backText, backImage string
		}
		var contents []cardContent
		for rows.Next() {
			var c cardContent
			if err := rows.Scan(&c.frontText, &c.frontImage, &c.backText, &c.backImage); err != nil {
				rows.Close()
				return err
			}
			contents = append(contents, c)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for i, c := range contents {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO cards (deck_id, front_text, front_image_url, back_text, back_image_url, position, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
`, newID, c.frontText, c.frontImage, c.backText, c.backImage, i); err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx, `UPDATE decks SET card_count = ? WHERE id = ?`, len(contents), newID)
		return err
	})
	if err != nil {
		log.Error("failed to fork deck: %v", err)
		return 0, err
	}
	log.Debug("deck forked: new_id=%d", newID)
	return newID, nil
}
