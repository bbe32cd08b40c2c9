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

type usageRepository struct {
	db *sql.DB
}

// NewUsageRepository creates a new UsageRepository implementation
func NewUsageRepository(db *sql.DB) repository.UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) Get(ctx context.Context, userID string) (*models.AiUsage, error) {
	log := logger.FromContext(ctx).WithPrefix("usage_repo")

	var u models.AiUsage
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, message_count, tool_call_count, image_upload_count, last_used_at, created_at
FROM ai_usage
WHERE user_id = ?
`, userID).Scan(&u.UserID, &u.MessageCount, &u.ToolCallCount, &u.ImageUploadCount,
		&u.LastUsedAt, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get usage: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *usageRepository) IncrementMessages(ctx context.Context, userID string, imageCount int, now time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("usage_repo")
	log.Debug("incrementing message usage: user_id=%s, images=%d", userID, imageCount)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO ai_usage (user_id, message_count, tool_call_count, image_upload_count, last_used_at, created_at)
VALUES (?, 1, 0, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
    message_count = message_count + 1,
    image_upload_count = image_upload_count + ?,
    last_used_at = excluded.last_used_at
`, userID, imageCount, now, now, imageCount)
	if err != nil {
		log.Error("failed to increment message usage: %v", err)
	}
	return err
}

func (r *usageRepository) IncrementToolCalls(ctx context.Context, userID string, count int, now time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("usage_repo")
	log.Debug("incrementing tool call usage: user_id=%s, count=%d", userID, count)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO ai_usage (user_id, message_count, tool_call_count, image_upload_count, last_used_at, created_at)
VALUES (?, 0, ?, 0, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
    tool_call_count = tool_call_count + ?,
    last_used_at = excluded.last_used_at
`, userID, count, now, now, count)
	if err != nil {
		log.Error("failed to increment tool call usage: %v", err)
	}
	return err
}
