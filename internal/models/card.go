package models

import "time"

type Card struct {
	ID            int64     `json:"id"`
	DeckID        int64     `json:"deck_id"`
	FrontText     string    `json:"front_text,omitempty"`
	FrontImageURL string    `json:"front_image_url,omitempty"`
	BackText      string    `json:"back_text,omitempty"`
	BackImageURL  string    `json:"back_image_url,omitempty"`
	Position      int       `json:"position"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CardUpdate carries the patchable card content fields; nil means "leave
// unchanged". Position is never patched directly, only via reorder.
type CardUpdate struct {
	FrontText     *string
	FrontImageURL *string
	BackText      *string
	BackImageURL  *string
}
