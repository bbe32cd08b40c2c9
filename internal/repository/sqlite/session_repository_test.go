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
	"github.com/mkotas/flashdeck/internal/testutil"
)

type SessionRepositorySuite struct {
	suite.Suite
	db       *db.DB
	decks    repository.DeckRepository
	sessions repository.SessionRepository
	stats    repository.StatsRepository
}

func (s *SessionRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.decks = sqlite.NewDeckRepository(s.db.DB)
	s.sessions = sqlite.NewSessionRepository(s.db.DB)
	s.stats = sqlite.NewStatsRepository(s.db.DB)
}

func (s *SessionRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SessionRepositorySuite) newDeck() int64 {
	now := time.Now().UTC()
	id, err := s.decks.Insert(context.Background(), models.Deck{
		UserID: "alice", Name: "Deck", CreatedAt: now, UpdatedAt: now,
	})
	s.Require().NoError(err)
	return id
}

func (s *SessionRepositorySuite) TestStartAndEndFoldsStats() {
	ctx := context.Background()
	deckID := s.newDeck()
	start := time.Now().UTC().Truncate(time.Second)

	session, err := s.sessions.Start(ctx, "alice", deckID, start)
	s.Require().NoError(err)
	s.NotZero(session.ID)

	s.Require().NoError(s.sessions.RecordAnswer(ctx, session.ID, true))
	s.Require().NoError(s.sessions.RecordAnswer(ctx, session.ID, true))
	s.Require().NoError(s.sessions.RecordAnswer(ctx, session.ID, false))

	end := start.Add(5 * time.Minute)
	ended, closed, err := s.sessions.End(ctx, session.ID, end)
	s.Require().NoError(err)
	s.True(closed)
	s.Equal(3, ended.CardsStudied)
	s.Equal(2, ended.CorrectCount)
	s.Equal(1, ended.IncorrectCount)
	s.Require().NotNil(ended.EndedAt)

	stats, err := s.stats.Get(ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, stats.CurrentStreak)
	s.Equal(1, stats.LongestStreak)
	s.Equal(end.Format(models.DateLayout), stats.LastStudyDate)
	s.Equal(3, stats.TotalCardsStudied)
	s.Equal(300, stats.TotalTimeSpent)
}

func (s *SessionRepositorySuite) TestEndIdempotent() {
	ctx := context.Background()
	deckID := s.newDeck()
	now := time.Now().UTC().Truncate(time.Second)

	session, err := s.sessions.Start(ctx, "alice", deckID, now)
	s.Require().NoError(err)
	s.Require().NoError(s.sessions.RecordAnswer(ctx, session.ID, true))

	_, closed, err := s.sessions.End(ctx, session.ID, now.Add(time.Minute))
	s.Require().NoError(err)
	s.True(closed)

	// Second end is a no-op and must not double-count stats.
	_, closed, err = s.sessions.End(ctx, session.ID, now.Add(2*time.Minute))
	s.Require().NoError(err)
	s.False(closed)

	stats, err := s.stats.Get(ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, stats.TotalCardsStudied)
	s.Equal(60, stats.TotalTimeSpent)
}

func (s *SessionRepositorySuite) TestEndMissing() {
	_, _, err := s.sessions.End(context.Background(), 9999, time.Now().UTC())
	s.Require().ErrorIs(err, sql.ErrNoRows)
}

func (s *SessionRepositorySuite) TestRecordAnswerOnClosedSession() {
	ctx := context.Background()
	deckID := s.newDeck()
	now := time.Now().UTC()

	session, err := s.sessions.Start(ctx, "alice", deckID, now)
	s.Require().NoError(err)
	_, _, err = s.sessions.End(ctx, session.ID, now)
	s.Require().NoError(err)

	err = s.sessions.RecordAnswer(ctx, session.ID, true)
	s.Require().ErrorIs(err, repository.ErrSessionClosed)
}

func (s *SessionRepositorySuite) TestStartClosesDanglingSession() {
	ctx := context.Background()
	deckID := s.newDeck()
	start := time.Now().UTC().Truncate(time.Second)

	first, err := s.sessions.Start(ctx, "alice", deckID, start)
	s.Require().NoError(err)
	s.Require().NoError(s.sessions.RecordAnswer(ctx, first.ID, true))

	second, err := s.sessions.Start(ctx, "alice", deckID, start.Add(time.Hour))
	s.Require().NoError(err)
	s.NotEqual(first.ID, second.ID)

	// The dangling session was closed and folded into stats.
	closed, err := s.sessions.Get(ctx, first.ID)
	s.Require().NoError(err)
	s.Require().NotNil(closed.EndedAt)

	stats, err := s.stats.Get(ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, stats.TotalCardsStudied)
	s.Equal(3600, stats.TotalTimeSpent)
}

func (s *SessionRepositorySuite) TestSameDayStreakIdempotent() {
	ctx := context.Background()
	deckID := s.newDeck()
	now := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < 3; i++ {
		session, err := s.sessions.Start(ctx, "alice", deckID, now)
		s.Require().NoError(err)
		s.Require().NoError(s.sessions.RecordAnswer(ctx, session.ID, true))
		_, _, err = s.sessions.End(ctx, session.ID, now.Add(time.Minute))
		s.Require().NoError(err)
	}

	stats, err := s.stats.Get(ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, stats.CurrentStreak)
	s.Equal(1, stats.LongestStreak)
	s.Equal(3, stats.TotalCardsStudied)
}

func (s *SessionRepositorySuite) TestCloseStale() {
	ctx := context.Background()
	deckID := s.newDeck()
	now := time.Now().UTC().Truncate(time.Second)

	stale, err := s.sessions.Start(ctx, "alice", deckID, now.Add(-2*time.Hour))
	s.Require().NoError(err)
	s.Require().NoError(s.sessions.RecordAnswer(ctx, stale.ID, true))
	fresh, err := s.sessions.Start(ctx, "bob", deckID, now.Add(-time.Minute))
	s.Require().NoError(err)

	n, err := s.sessions.CloseStale(ctx, 30*time.Minute, now)
	s.Require().NoError(err)
	s.Equal(1, n)

	// The session ends at the idle cutoff, not at sweep time, so only the
	// idle window counts toward total time.
	got, err := s.sessions.Get(ctx, stale.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.EndedAt)
	s.WithinDuration(stale.StartedAt.Add(30*time.Minute), *got.EndedAt, time.Second)

	stats, err := s.stats.Get(ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1800, stats.TotalTimeSpent)
	s.Equal(1, stats.TotalCardsStudied)

	got, err = s.sessions.Get(ctx, fresh.ID)
	s.Require().NoError(err)
	s.Nil(got.EndedAt)

	// Sweeping again finds nothing.
	n, err = s.sessions.CloseStale(ctx, 30*time.Minute, now)
	s.Require().NoError(err)
	s.Equal(0, n)
}

func (s *SessionRepositorySuite) TestStatsGetZeroWhenAbsent() {
	stats, err := s.stats.Get(context.Background(), "nobody")
	s.Require().NoError(err)
	s.Equal("nobody", stats.UserID)
	s.Equal(0, stats.CurrentStreak)
	s.Equal(0, stats.TotalCardsStudied)
}

func TestSessionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SessionRepositorySuite))
}
