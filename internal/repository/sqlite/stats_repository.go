package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mkotas/flashdeck/internal/logger"
	"github.com/mkotas/flashdeck/internal/models"
	"github.com/mkotas/flashdeck/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Get(ctx context.Context, userID string) (models.UserStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	var stats models.UserStats
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, current_streak, longest_streak, last_study_date, total_cards_studied, total_time_spent
FROM user_stats
WHERE user_id = ?
`, userID).Scan(&stats.UserID, &stats.CurrentStreak, &stats.LongestStreak,
		&stats.LastStudyDate, &stats.TotalCardsStudied, &stats.TotalTimeSpent)
	if errors.Is(err, sql.ErrNoRows) {
		// Never studied: zero-valued stats, not an error.
		return models.UserStats{UserID: userID}, nil
	}
	if err != nil {
		log.Error("failed to get user stats: %v", err)
		return models.UserStats{}, err
	}
	return stats, nil
}
