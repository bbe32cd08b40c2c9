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

type DeckRepositorySuite struct {
	suite.Suite
	db       *db.DB
	decks    repository.DeckRepository
	cards    repository.CardRepository
	progress repository.ProgressRepository
}

func (s *DeckRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.decks = sqlite.NewDeckRepository(s.db.DB)
	s.cards = sqlite.NewCardRepository(s.db.DB)
	s.progress = sqlite.NewProgressRepository(s.db.DB)
}

func (s *DeckRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *DeckRepositorySuite) newDeck(userID, name string) int64 {
	now := time.Now().UTC()
	id, err := s.decks.Insert(context.Background(), models.Deck{
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	s.Require().NoError(err)
	return id
}

func (s *DeckRepositorySuite) newCard(deckID int64, front string) int64 {
	id, err := s.cards.Insert(context.Background(), models.Card{
		DeckID:    deckID,
		FrontText: front,
		BackText:  front + " back",
	})
	s.Require().NoError(err)
	return id
}

func (s *DeckRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	id := s.newDeck("alice", "Spanish Vocab")

	deck, err := s.decks.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(deck)
	s.Equal("alice", deck.UserID)
	s.Equal("Spanish Vocab", deck.Name)
	s.Equal(0, deck.CardCount)
	s.False(deck.IsPublic)
}

func (s *DeckRepositorySuite) TestGetMissing() {
	deck, err := s.decks.Get(context.Background(), 9999)
	s.Require().NoError(err)
	s.Nil(deck)
}

func (s *DeckRepositorySuite) TestListFilters() {
	ctx := context.Background()
	s.newDeck("alice", "A1")
	s.newDeck("alice", "A2")
	bobID := s.newDeck("bob", "B1")

	public := true
	err := s.decks.Update(ctx, bobID, models.DeckUpdate{IsPublic: &public})
	s.Require().NoError(err)

	decks, err := s.decks.List(ctx, models.DeckFilter{UserID: "alice"})
	s.Require().NoError(err)
	s.Len(decks, 2)

	decks, err = s.decks.List(ctx, models.DeckFilter{Public: &public})
	s.Require().NoError(err)
	s.Require().Len(decks, 1)
	s.Equal(bobID, decks[0].ID)
}

func (s *DeckRepositorySuite) TestUpdatePartial() {
	ctx := context.Background()
	id := s.newDeck("alice", "Before")

	name := "After"
	err := s.decks.Update(ctx, id, models.DeckUpdate{Name: &name})
	s.Require().NoError(err)

	deck, err := s.decks.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal("After", deck.Name)
	s.Equal("", deck.Description)
	s.False(deck.IsPublic)
}

func (s *DeckRepositorySuite) TestDeleteCascades() {
	ctx := context.Background()
	id := s.newDeck("alice", "Doomed")
	cardID := s.newCard(id, "q1")
	s.newCard(id, "q2")

	_, err := s.progress.GetOrCreate(ctx, "alice", cardID, time.Now().UTC())
	s.Require().NoError(err)

	_, err = s.db.ExecContext(ctx, `INSERT INTO tags (user_id, name) VALUES ('alice', 'verbs')`)
	s.Require().NoError(err)
	_, err = s.db.ExecContext(ctx, `INSERT INTO deck_tags (deck_id, tag_id) VALUES (?, 1)`, id)
	s.Require().NoError(err)

	s.Require().NoError(s.decks.Delete(ctx, id))

	deck, err := s.decks.Get(ctx, id)
	s.Require().NoError(err)
	s.Nil(deck)

	var n int
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE deck_id = ?`, id).Scan(&n))
	s.Equal(0, n)
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM card_progress WHERE deck_id = ?`, id).Scan(&n))
	s.Equal(0, n)
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deck_tags WHERE deck_id = ?`, id).Scan(&n))
	s.Equal(0, n)
}

func (s *DeckRepositorySuite) TestDeleteMissing() {
	err := s.decks.Delete(context.Background(), 9999)
	s.Require().ErrorIs(err, sql.ErrNoRows)
}

func (s *DeckRepositorySuite) TestFork() {
	ctx := context.Background()
	srcID := s.newDeck("alice", "Shared")
	s.newCard(srcID, "q1")
	midID := s.newCard(srcID, "q2")
	s.newCard(srcID, "q3")

	// Leave a position gap in the source; the fork renumbers densely.
	s.Require().NoError(s.cards.Delete(ctx, midID))

	src, err := s.decks.Get(ctx, srcID)
	s.Require().NoError(err)

	newID, err := s.decks.Fork(ctx, *src, "bob")
	s.Require().NoError(err)

	fork, err := s.decks.Get(ctx, newID)
	s.Require().NoError(err)
	s.Equal("bob", fork.UserID)
	s.Equal("Shared", fork.Name)
	s.False(fork.IsPublic)
	s.Require().NotNil(fork.ForkedFromID)
	s.Equal(srcID, *fork.ForkedFromID)
	s.Equal(2, fork.CardCount)

	cards, err := s.cards.ListByDeck(ctx, newID)
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	s.Equal("q1", cards[0].FrontText)
	s.Equal(0, cards[0].Position)
	s.Equal("q3", cards[1].FrontText)
	s.Equal(1, cards[1].Position)
}

func TestDeckRepositorySuite(t *testing.T) {
	suite.Run(t, new(DeckRepositorySuite))
}
