package models

import "time"

// UserStats is the single per-user aggregate updated at session close.
// LastStudyDate is a calendar date ("2006-01-02", UTC), not a timestamp; the
// streak continuity check compares whole days.
type UserStats struct {
	UserID            string `json:"user_id"`
	CurrentStreak     int    `json:"current_streak"`
	LongestStreak     int    `json:"longest_streak"`
	LastStudyDate     string `json:"last_study_date,omitempty"`
	TotalCardsStudied int    `json:"total_cards_studied"`
	TotalTimeSpent    int    `json:"total_time_spent"` // seconds
}

// DateLayout is the wire and storage format of LastStudyDate.
const DateLayout = "2006-01-02"

// AdvanceStreak folds a closed session into the stats. Same-day re-study is
// idempotent for the streak; a one-day gap extends it; anything longer resets
// it to 1.
func (s UserStats) AdvanceStreak(session StudySession, now time.Time) UserStats {
	today := now.UTC().Format(DateLayout)
	yesterday := now.UTC().AddDate(0, 0, -1).Format(DateLayout)

	switch s.LastStudyDate {
	case today:
		// streak unchanged
	case yesterday:
		s.CurrentStreak++
	default:
		s.CurrentStreak = 1
	}
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.LastStudyDate = today
	s.TotalCardsStudied += session.CardsStudied
	s.TotalTimeSpent += int(now.Sub(session.StartedAt).Seconds())
	return s
}

// AiUsage is the per-user ledger of assistant activity. The engine only
// counts; the assistant itself lives outside this service.
type AiUsage struct {
	UserID           string    `json:"user_id"`
	MessageCount     int       `json:"message_count"`
	ToolCallCount    int       `json:"tool_call_count"`
	ImageUploadCount int       `json:"image_upload_count"`
	LastUsedAt       time.Time `json:"last_used_at"`
	CreatedAt        time.Time `json:"created_at"`
}
