package models

import "time"

type Deck struct {
	ID           int64      `json:"id"`
	UserID       string     `json:"user_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	IsPublic     bool       `json:"is_public"`
	FolderID     *int64     `json:"folder_id,omitempty"`
	ForkedFromID *int64     `json:"forked_from_id,omitempty"`
	CardCount    int        `json:"card_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// DeckFilter narrows deck listings.
type DeckFilter struct {
	UserID   string
	FolderID *int64
	Public   *bool
	Limit    int
	Offset   int
}

// DeckUpdate carries the patchable deck fields; nil means "leave unchanged".
type DeckUpdate struct {
	Name        *string
	Description *string
	IsPublic    *bool
	FolderID    *int64
}

type Folder struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
