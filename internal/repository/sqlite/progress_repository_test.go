package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mkotas/flashdeck/internal/db"
	"github.com/mkotas/flashdeck/internal/models"
	"github.com/mkotas/flashdeck/internal/repository"
	"github.com/mkotas/flashdeck/internal/repository/sqlite"
	"github.com/mkotas/flashdeck/internal/srs"
	"github.com/mkotas/flashdeck/internal/testutil"
)

type ProgressRepositorySuite struct {
	suite.Suite
	db       *db.DB
	decks    repository.DeckRepository
	cards    repository.CardRepository
	progress repository.ProgressRepository
}

func (s *ProgressRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.decks = sqlite.NewDeckRepository(s.db.DB)
	s.cards = sqlite.NewCardRepository(s.db.DB)
	s.progress = sqlite.NewProgressRepository(s.db.DB)
}

func (s *ProgressRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProgressRepositorySuite) setupDeckWithCards(n int) (int64, []int64) {
	ctx := context.Background()
	now := time.Now().UTC()
	deckID, err := s.decks.Insert(ctx, models.Deck{
		UserID: "alice", Name: "Deck", CreatedAt: now, UpdatedAt: now,
	})
	s.Require().NoError(err)

	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		id, err := s.cards.Insert(ctx, models.Card{DeckID: deckID, FrontText: "q"})
		s.Require().NoError(err)
		ids = append(ids, id)
	}
	return deckID, ids
}

func (s *ProgressRepositorySuite) TestGetOrCreateDefaults() {
	ctx := context.Background()
	deckID, cardIDs := s.setupDeckWithCards(1)
	now := time.Now().UTC().Truncate(time.Second)

	p, err := s.progress.GetOrCreate(ctx, "alice", cardIDs[0], now)
	s.Require().NoError(err)
	s.Equal("alice", p.UserID)
	s.Equal(cardIDs[0], p.CardID)
	s.Equal(deckID, p.DeckID)
	s.Equal(srs.StatusNew, p.Status)
	s.InDelta(2.5, p.EaseFactor, 0.0001)
	s.Equal(0, p.Interval)
	s.Equal(0, p.Repetitions)
	s.WithinDuration(now, p.NextReviewAt, time.Second)
	s.Nil(p.LastReviewedAt)
}

func (s *ProgressRepositorySuite) TestGetOrCreateIdempotent() {
	ctx := context.Background()
	_, cardIDs := s.setupDeckWithCards(1)
	now := time.Now().UTC()

	first, err := s.progress.GetOrCreate(ctx, "alice", cardIDs[0], now)
	s.Require().NoError(err)
	second, err := s.progress.GetOrCreate(ctx, "alice", cardIDs[0], now.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	var n int
	s.Require().NoError(s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM card_progress WHERE user_id = 'alice' AND card_id = ?`, cardIDs[0]).Scan(&n))
	s.Equal(1, n)
}

func (s *ProgressRepositorySuite) TestGetOrCreateMissingCard() {
	_, err := s.progress.GetOrCreate(context.Background(), "alice", 9999, time.Now().UTC())
	s.Require().ErrorIs(err, sql.ErrNoRows)
}

func (s *ProgressRepositorySuite) TestRecordGradeCreatesLazily() {
	ctx := context.Background()
	_, cardIDs := s.setupDeckWithCards(1)
	now := time.Now().UTC().Truncate(time.Second)

	p, err := s.progress.RecordGrade(ctx, "alice", cardIDs[0], srs.Good, now)
	s.Require().NoError(err)
	s.Equal(srs.StatusReview, p.Status)
	s.Equal(1, p.Interval)
	s.Equal(1, p.Repetitions)
	s.Require().NotNil(p.LastReviewedAt)
	s.WithinDuration(now, *p.LastReviewedAt, time.Second)
}

func (s *ProgressRepositorySuite) TestRecordGradeLadder() {
	ctx := context.Background()
	_, cardIDs := s.setupDeckWithCards(1)
	now := time.Now().UTC().Truncate(time.Second)

	p, err := s.progress.RecordGrade(ctx, "alice", cardIDs[0], srs.Good, now)
	s.Require().NoError(err)
	s.Equal(1, p.Interval)

	now = p.NextReviewAt
	p, err = s.progress.RecordGrade(ctx, "alice", cardIDs[0], srs.Good, now)
	s.Require().NoError(err)
	s.Equal(6, p.Interval)

	now = p.NextReviewAt
	p, err = s.progress.RecordGrade(ctx, "alice", cardIDs[0], srs.Good, now)
	s.Require().NoError(err)
	s.Equal(15, p.Interval)
	s.WithinDuration(now.Add(15*24*time.Hour), p.NextReviewAt, time.Second)
}

func (s *ProgressRepositorySuite) TestRecordGradeAgain() {
	ctx := context.Background()
	_, cardIDs := s.setupDeckWithCards(1)
	now := time.Now().UTC().Truncate(time.Second)

	_, err := s.progress.RecordGrade(ctx, "alice", cardIDs[0], srs.Good, now)
	s.Require().NoError(err)

	p, err := s.progress.RecordGrade(ctx, "alice", cardIDs[0], srs.Again, now)
	s.Require().NoError(err)
	s.Equal(srs.StatusRelearning, p.Status)
	s.Equal(0, p.Interval)
	s.Equal(0, p.Repetitions)
	s.InDelta(2.3, p.EaseFactor, 0.0001)
	s.WithinDuration(now.Add(10*time.Minute), p.NextReviewAt, time.Second)
}

func (s *ProgressRepositorySuite) TestRecordGradeMissingCard() {
	_, err := s.progress.RecordGrade(context.Background(), "alice", 9999, srs.Good, time.Now().UTC())
	s.Require().ErrorIs(err, sql.ErrNoRows)
}

func (s *ProgressRepositorySuite) TestDueQueueOrderingAndScope() {
	ctx := context.Background()
	deckA, cardsA := s.setupDeckWithCards(2)
	now := time.Now().UTC().Truncate(time.Second)

	deckB, err := s.decks.Insert(ctx, models.Deck{
		UserID: "alice", Name: "Other", CreatedAt: now, UpdatedAt: now,
	})
	s.Require().NoError(err)
	cardB, err := s.cards.Insert(ctx, models.Card{DeckID: deckB, FrontText: "b"})
	s.Require().NoError(err)

	// Stagger due times: cardB earliest, then cardsA in creation order.
	_, err = s.progress.GetOrCreate(ctx, "alice", cardB, now.Add(-2*time.Hour))
	s.Require().NoError(err)
	_, err = s.progress.GetOrCreate(ctx, "alice", cardsA[0], now.Add(-time.Hour))
	s.Require().NoError(err)
	_, err = s.progress.GetOrCreate(ctx, "alice", cardsA[1], now.Add(-time.Hour))
	s.Require().NoError(err)

	due, err := s.progress.DueQueue(ctx, "alice", nil, now, 0)
	s.Require().NoError(err)
	s.Require().Len(due, 3)
	s.Equal(cardB, due[0].Card.ID)
	s.Equal(cardsA[0], due[1].Card.ID)
	s.Equal(cardsA[1], due[2].Card.ID)

	due, err = s.progress.DueQueue(ctx, "alice", &deckA, now, 0)
	s.Require().NoError(err)
	s.Require().Len(due, 2)
	s.Equal(cardsA[0], due[0].Card.ID)

	due, err = s.progress.DueQueue(ctx, "alice", nil, now, 1)
	s.Require().NoError(err)
	s.Len(due, 1)
}

func (s *ProgressRepositorySuite) TestDueQueueExcludesFuture() {
	ctx := context.Background()
	_, cardIDs := s.setupDeckWithCards(1)
	now := time.Now().UTC().Truncate(time.Second)

	// A good review pushes the card a day out; it should drop off the queue.
	_, err := s.progress.RecordGrade(ctx, "alice", cardIDs[0], srs.Good, now)
	s.Require().NoError(err)

	due, err := s.progress.DueQueue(ctx, "alice", nil, now, 0)
	s.Require().NoError(err)
	s.Empty(due)

	due, err = s.progress.DueQueue(ctx, "alice", nil, now.Add(25*time.Hour), 0)
	s.Require().NoError(err)
	s.Len(due, 1)
}

func (s *ProgressRepositorySuite) TestDueQueueScopedToUser() {
	ctx := context.Background()
	_, cardIDs := s.setupDeckWithCards(1)
	now := time.Now().UTC()

	_, err := s.progress.GetOrCreate(ctx, "alice", cardIDs[0], now)
	s.Require().NoError(err)

	due, err := s.progress.DueQueue(ctx, "bob", nil, now, 0)
	s.Require().NoError(err)
	s.Empty(due)
}

func TestProgressRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProgressRepositorySuite))
}
