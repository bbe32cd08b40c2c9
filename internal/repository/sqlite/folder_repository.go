package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mkotas/flashdeck/internal/logger"
	"github.com/mkotas/flashdeck/internal/models"
	"github.com/mkotas/flashdeck/internal/repository"
)

type folderRepository struct {
	db *sql.DB
}

// NewFolderRepository creates a new FolderRepository implementation
func NewFolderRepository(db *sql.DB) repository.FolderRepository {
	return &folderRepository{db: db}
}

func scanFolder(row interface{ Scan(...any) error }) (*models.Folder, error) {
	var f models.Folder
	var parentID sql.NullInt64
	if err := row.Scan(&f.ID, &f.UserID, &f.Name, &parentID, &f.CreatedAt); err != nil {
		return nil, err
	}
	if parentID.Valid {
		f.ParentID = &parentID.Int64
	}
	return &f, nil
}

func (r *folderRepository) Get(ctx context.Context, id int64) (*models.Folder, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, parent_id, created_at FROM folders WHERE id = ?`, id)
	f, err := scanFolder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return f, err
}

func (r *folderRepository) List(ctx context.Context, userID string) ([]models.Folder, error) {
	log := logger.FromContext(ctx).WithPrefix("folder_repo")

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, parent_id, created_at FROM folders WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		log.Error("failed to list folders: %v", err)
		return nil, err
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, *f)
	}
	return folders, rows.Err()
}

func (r *folderRepository) Insert(ctx context.Context, f models.Folder) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("folder_repo")
	log.Debug("inserting folder: name=%s", f.Name)

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO folders (user_id, name, parent_id, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		f.UserID, f.Name, f.ParentID)
	if err != nil {
		log.Error("failed to insert folder: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *folderRepository) Delete(ctx context.Context, id int64) error {
	// Decks in the folder fall back to the root (folder_id set NULL by FK).
	res, err := r.db.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id)
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
