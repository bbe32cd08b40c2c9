package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceStreak_FirstSession(t *testing.T) {
	now := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	session := StudySession{StartedAt: now.Add(-10 * time.Minute), CardsStudied: 5}

	stats := UserStats{UserID: "alice"}.AdvanceStreak(session, now)

	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 1, stats.LongestStreak)
	assert.Equal(t, "2024-03-10", stats.LastStudyDate)
	assert.Equal(t, 5, stats.TotalCardsStudied)
	assert.Equal(t, 600, stats.TotalTimeSpent)
}

func TestAdvanceStreak_SameDayIdempotent(t *testing.T) {
	now := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	stats := UserStats{UserID: "alice", CurrentStreak: 4, LongestStreak: 7, LastStudyDate: "2024-03-10"}

	stats = stats.AdvanceStreak(StudySession{StartedAt: now}, now)

	assert.Equal(t, 4, stats.CurrentStreak)
	assert.Equal(t, 7, stats.LongestStreak)
}

func TestAdvanceStreak_ConsecutiveDayExtends(t *testing.T) {
	now := time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC)
	stats := UserStats{UserID: "alice", CurrentStreak: 4, LongestStreak: 4, LastStudyDate: "2024-03-10"}

	stats = stats.AdvanceStreak(StudySession{StartedAt: now}, now)

	assert.Equal(t, 5, stats.CurrentStreak)
	assert.Equal(t, 5, stats.LongestStreak)
	assert.Equal(t, "2024-03-11", stats.LastStudyDate)
}

func TestAdvanceStreak_GapResets(t *testing.T) {
	now := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	stats := UserStats{UserID: "alice", CurrentStreak: 9, LongestStreak: 9, LastStudyDate: "2024-03-10"}

	stats = stats.AdvanceStreak(StudySession{StartedAt: now}, now)

	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 9, stats.LongestStreak, "longest streak survives a reset")
	assert.Equal(t, "2024-03-15", stats.LastStudyDate)
}

func TestAdvanceStreak_UsesUTCDay(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("EST", -5*3600)
	now := time.Date(2024, 3, 10, 23, 30, 0, 0, loc)
	stats := UserStats{UserID: "alice", CurrentStreak: 1, LongestStreak: 1, LastStudyDate: "2024-03-10"}

	stats = stats.AdvanceStreak(StudySession{StartedAt: now}, now)

	assert.Equal(t, "2024-03-11", stats.LastStudyDate)
	assert.Equal(t, 2, stats.CurrentStreak)
}
