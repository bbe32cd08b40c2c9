package models

import "time"

// StudySession tracks one study-mode run. EndedAt is nil while the session is
// ongoing; a user has at most one ongoing session at a time.
type StudySession struct {
	ID             int64      `json:"id"`
	UserID         string     `json:"user_id"`
	DeckID         int64      `json:"deck_id"`
	StartedAt      time.Time  `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	CardsStudied   int        `json:"cards_studied"`
	CorrectCount   int        `json:"correct_count"`
	IncorrectCount int        `json:"incorrect_count"`
}

// Duration returns the session length, zero while still open.
func (s StudySession) Duration() time.Duration {
	if s.EndedAt == nil {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}
