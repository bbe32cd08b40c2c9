package repository

import "errors"

// Sentinel errors surfaced by repository implementations for conditions the
// service layer translates into the API error taxonomy.
var (
	// ErrCardSetMismatch is returned by Reorder when the supplied ids are
	// not exactly the deck's current card set (missing, extra or duplicate).
	ErrCardSetMismatch = errors.New("reorder ids do not match deck card set")

	// ErrSessionClosed is returned when recording an answer against a
	// session that has already ended.
	ErrSessionClosed = errors.New("study session already ended")
)
