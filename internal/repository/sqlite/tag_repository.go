package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mkotas/flashdeck/internal/logger"
	"github.com/mkotas/flashdeck/internal/models"
	"github.com/mkotas/flashdeck/internal/repository"
)

type tagRepository struct {
	db *sql.DB
}

// NewTagRepository creates a new TagRepository implementation
func NewTagRepository(db *sql.DB) repository.TagRepository {
	return &tagRepository{db: db}
}

func scanTag(row interface{ Scan(...any) error }) (*models.Tag, error) {
	var t models.Tag
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tagRepository) Get(ctx context.Context, id int64) (*models.Tag, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, color, created_at FROM tags WHERE id = ?`, id)
	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

func (r *tagRepository) List(ctx context.Context, userID string) ([]models.Tag, error) {
	log := logger.FromContext(ctx).WithPrefix("tag_repo")

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, color, created_at FROM tags WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		log.Error("failed to list tags: %v", err)
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			log.Error("failed to scan tag row: %v", err)
			return nil, err
		}
		tags = append(tags, *t)
	}
	return tags, rows.Err()
}

func (r *tagRepository) ListByDeck(ctx context.Context, deckID int64) ([]models.Tag, error) {
	log := logger.FromContext(ctx).WithPrefix("tag_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT t.id, t.user_id, t.name, t.color, t.created_at
FROM tags t
JOIN deck_tags dt ON dt.tag_id = t.id
WHERE dt.deck_id = ?
ORDER BY t.name
`, deckID)
	if err != nil {
		log.Error("failed to list deck tags: %v", err)
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *t)
	}
	return tags, rows.Err()
}

func (r *tagRepository) Insert(ctx context.Context, t models.Tag) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("tag_repo")
	log.Debug("inserting tag: name=%s", t.Name)

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tags (user_id, name, color, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		t.UserID, t.Name, t.Color)
	if err != nil {
		log.Error("failed to insert tag: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *tagRepository) Attach(ctx context.Context, deckID, tagID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO deck_tags (deck_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		deckID, tagID)
	return err
}

func (r *tagRepository) Detach(ctx context.Context, deckID, tagID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM deck_tags WHERE deck_id = ? AND tag_id = ?`, deckID, tagID)
	return err
}
