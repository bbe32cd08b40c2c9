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

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

const cardColumns = `id, deck_id, front_text, front_image_url, back_text, back_image_url, position, created_at, updated_at`

func scanCard(row interface{ Scan(...any) error }) (*models.Card, error) {
	var c models.Card
	err := row.Scan(&c.ID, &c.DeckID, &c.FrontText, &c.FrontImageURL,
		&c.BackText, &c.BackImageURL, &c.Position, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	row := r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return card, nil
}

func (r *cardRepository) ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: deck_id=%d", deckID)

	rows, err := r.db.QueryContext(ctx, `
SELECT `+cardColumns+`
FROM cards
WHERE deck_id = ?
ORDER BY position, id
`, deckID)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, *card)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: deck_id=%d", c.DeckID)

	var id int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		id, err = insertCardTx(ctx, tx, c)
		if err != nil {
			return err
		}
		return bumpCardCount(ctx, tx, c.DeckID, 1)
	})
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return 0, err
	}
	log.Debug("card inserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) InsertBatch(ctx context.Context, deckID int64, cards []models.Card) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting %d cards: deck_id=%d", len(cards), deckID)

	if len(cards) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(cards))
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, c := range cards {
			c.DeckID = deckID
			id, err := insertCardTx(ctx, tx, c)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return bumpCardCount(ctx, tx, deckID, len(cards))
	})
	if err != nil {
		log.Error("failed to insert card batch: %v", err)
		return nil, err
	}
	return ids, nil
}

// insertCardTx appends a card at the tail of the deck: position = max+1, or 0
// for an empty deck.
func insertCardTx(ctx context.Context, tx *sql.Tx, c models.Card) (int64, error) {
	// The MAX aggregate below always yields a row, so a missing deck has to be
	// detected explicitly to surface as sql.ErrNoRows instead of an FK error.
	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM decks WHERE id = ?`, c.DeckID).Scan(&one); err != nil {
		return 0, err
	}

	var position int
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM cards WHERE deck_id = ?`, c.DeckID,
	).Scan(&position)
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `
INSERT INTO cards (deck_id, front_text, front_image_url, back_text, back_image_url, position, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
`, c.DeckID, c.FrontText, c.FrontImageURL, c.BackText, c.BackImageURL, position)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func bumpCardCount(ctx context.Context, tx *sql.Tx, deckID int64, delta int) error {
	res, err := tx.ExecContext(ctx, `
UPDATE decks
SET card_count = MAX(card_count + ?, 0), updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, delta, deckID)
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
}

func (r *cardRepository) Update(ctx context.Context, id int64, upd models.CardUpdate) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card: id=%d", id)

	query := sqlBuilder.Update("cards").Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP"))
	if upd.FrontText != nil {
		query = query.Set("front_text", *upd.FrontText)
	}
	if upd.FrontImageURL != nil {
		query = query.Set("front_image_url", *upd.FrontImageURL)
	}
	if upd.BackText != nil {
		query = query.Set("back_text", *upd.BackText)
	}
	if upd.BackImageURL != nil {
		query = query.Set("back_image_url", *upd.BackImageURL)
	}
	query = query.Where(squirrel.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build update: %v", err)
		return err
	}

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return err
		}
		// Content edits also touch the owning deck's updated_at.
		_, err := tx.ExecContext(ctx, `
UPDATE decks SET updated_at = CURRENT_TIMESTAMP
WHERE id = (SELECT deck_id FROM cards WHERE id = ?)
`, id)
		return err
	})
}

func (r *cardRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: id=%d", id)

	// Positions of the remaining cards keep their gaps; only an explicit
	// reorder renumbers them.
	return tx(ctx, r.db, func(tx *sql.Tx) error {
		var deckID int64
		err := tx.QueryRowContext(ctx, `SELECT deck_id FROM cards WHERE id = ?`, id).Scan(&deckID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM card_progress WHERE card_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id); err != nil {
			return err
		}
		return bumpCardCount(ctx, tx, deckID, -1)
	})
}

func (r *cardRepository) Reorder(ctx context.Context, deckID int64, cardIDs []int64) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("reordering deck: deck_id=%d, cards=%d", deckID, len(cardIDs))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id FROM cards WHERE deck_id = ?`, deckID)
		if err != nil {
			return err
		}
		current := make(map[int64]bool)
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			current[id] = true
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		// The id list must be a permutation of the deck's card set.
		if len(cardIDs) != len(current) {
			return repository.ErrCardSetMismatch
		}
		seen := make(map[int64]bool, len(cardIDs))
		for _, id := range cardIDs {
			if !current[id] || seen[id] {
				return repository.ErrCardSetMismatch
			}
			seen[id] = true
		}

		for i, id := range cardIDs {
			if _, err := tx.ExecContext(ctx,
				`UPDATE cards SET position = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, i, id,
			); err != nil {
				return err
			}
		}
		_, err = tx.ExecContext(ctx, `UPDATE decks SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, deckID)
		return err
	})
}
