package models

import (
	"time"

	"github.com/mkotas/flashdeck/internal/srs"
)

// CardProgress is the per-(user, card) scheduling record. It is created
// lazily on first grading, mutated only through the scheduler, and deleted
// only by the card's cascade.
type CardProgress struct {
	ID             int64      `json:"id"`
	UserID         string     `json:"user_id"`
	CardID         int64      `json:"card_id"`
	DeckID         int64      `json:"deck_id"` // denormalized from the card for due-queue scoping
	Status         srs.Status `json:"status"`
	EaseFactor     float64    `json:"ease_factor"`
	Interval       int        `json:"interval"`
	Repetitions    int        `json:"repetitions"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// State extracts the scheduler's view of this record.
func (p CardProgress) State() srs.State {
	return srs.State{
		Status:      p.Status,
		EaseFactor:  p.EaseFactor,
		Interval:    p.Interval,
		Repetitions: p.Repetitions,
	}
}

// DueCard pairs a due progress record with its card for the study queue.
type DueCard struct {
	Card     Card         `json:"card"`
	Progress CardProgress `json:"progress"`
}
