package repository

import (
	"context"
	"time"

	"github.com/mkotas/flashdeck/internal/models"
	"github.com/mkotas/flashdeck/internal/srs"
)

// Get methods return (nil, nil) when the row does not exist; callers decide
// whether absence is an error.

// DeckRepository handles deck data access. Insert, Delete and Fork keep the
// denormalized card count and the cascade invariants inside one transaction.
type DeckRepository interface {
	Get(ctx context.Context, id int64) (*models.Deck, error)
	List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error)
	Insert(ctx context.Context, deck models.Deck) (int64, error)
	Update(ctx context.Context, id int64, upd models.DeckUpdate) error
	// Delete removes the deck, its cards, their progress rows and its tag
	// links as a single transaction.
	Delete(ctx context.Context, id int64) error
	// Fork copies the source deck's cards into a new private deck owned by
	// userID, positions renumbered 0..N-1.
	Fork(ctx context.Context, src models.Deck, userID string) (int64, error)
}

// CardRepository handles card data access. Mutations maintain position
// density rules and the owning deck's card count transactionally.
type CardRepository interface {
	Get(ctx context.Context, id int64) (*models.Card, error)
	ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error)
	// Insert appends the card at position max+1 and increments the deck's
	// card count.
	Insert(ctx context.Context, card models.Card) (int64, error)
	// InsertBatch appends cards in order at the tail of the deck.
	InsertBatch(ctx context.Context, deckID int64, cards []models.Card) ([]int64, error)
	Update(ctx context.Context, id int64, upd models.CardUpdate) error
	// Delete removes the card (progress rows cascade) and decrements the
	// deck's card count. Remaining positions keep their gaps.
	Delete(ctx context.Context, id int64) error
	// Reorder assigns position = index for the given ids, which must be
	// exactly the deck's current card set.
	Reorder(ctx context.Context, deckID int64, cardIDs []int64) error
}

// ProgressRepository manages per-(user, card) scheduling records.
type ProgressRepository interface {
	Get(ctx context.Context, userID string, cardID int64) (*models.CardProgress, error)
	// GetOrCreate returns the existing record or creates a fresh one
	// (status=new, ease 2.5, due now). Safe under concurrent first-creation;
	// at most one record ever exists per (user, card).
	GetOrCreate(ctx context.Context, userID string, cardID int64, now time.Time) (models.CardProgress, error)
	// RecordGrade loads (or lazily creates) the record, runs the scheduler
	// and persists the result, all in one transaction. Returns sql.ErrNoRows
	// when the underlying card does not exist.
	RecordGrade(ctx context.Context, userID string, cardID int64, grade srs.Grade, now time.Time) (models.CardProgress, error)
	// DueQueue returns cards with next_review_at <= now, earliest first,
	// ties broken by card creation order, optionally scoped to one deck.
	DueQueue(ctx context.Context, userID string, deckID *int64, now time.Time, limit int) ([]models.DueCard, error)
}

// SessionRepository handles study sessions and the user stats they roll into.
type SessionRepository interface {
	Get(ctx context.Context, id int64) (*models.StudySession, error)
	// Start opens a session, first closing any dangling open session for the
	// user within the same transaction.
	Start(ctx context.Context, userID string, deckID int64, now time.Time) (models.StudySession, error)
	RecordAnswer(ctx context.Context, sessionID int64, correct bool) error
	// End closes the session and folds it into user_stats in one
	// transaction. The second return is false when the session was already
	// closed (no-op).
	End(ctx context.Context, sessionID int64, now time.Time) (models.StudySession, bool, error)
	// CloseStale ends every session open longer than idleFor, applying the
	// same stats update as an explicit close. Swept sessions are stamped as
	// ended at started_at + idleFor. Returns the number closed.
	CloseStale(ctx context.Context, idleFor time.Duration, now time.Time) (int, error)
}

// StatsRepository reads the per-user aggregates.
type StatsRepository interface {
	// Get returns zero-valued stats when the user has never studied.
	Get(ctx context.Context, userID string) (models.UserStats, error)
}

// TagRepository handles tags and deck-tag links.
type TagRepository interface {
	Get(ctx context.Context, id int64) (*models.Tag, error)
	List(ctx context.Context, userID string) ([]models.Tag, error)
	ListByDeck(ctx context.Context, deckID int64) ([]models.Tag, error)
	Insert(ctx context.Context, tag models.Tag) (int64, error)
	Attach(ctx context.Context, deckID, tagID int64) error
	Detach(ctx context.Context, deckID, tagID int64) error
}

// FolderRepository handles deck folders.
type FolderRepository interface {
	Get(ctx context.Context, id int64) (*models.Folder, error)
	List(ctx context.Context, userID string) ([]models.Folder, error)
	Insert(ctx context.Context, folder models.Folder) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// UsageRepository maintains the per-user AI usage ledger.
type UsageRepository interface {
	Get(ctx context.Context, userID string) (*models.AiUsage, error)
	IncrementMessages(ctx context.Context, userID string, imageCount int, now time.Time) error
	IncrementToolCalls(ctx context.Context, userID string, count int, now time.Time) error
}
