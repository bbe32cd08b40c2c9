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

type CardRepositorySuite struct {
	suite.Suite
	db       *db.DB
	decks    repository.DeckRepository
	cards    repository.CardRepository
	progress repository.ProgressRepository
}

func (s *CardRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.decks = sqlite.NewDeckRepository(s.db.DB)
	s.cards = sqlite.NewCardRepository(s.db.DB)
	s.progress = sqlite.NewProgressRepository(s.db.DB)
}

func (s *CardRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *CardRepositorySuite) newDeck() int64 {
	now := time.Now().UTC()
	id, err := s.decks.Insert(context.Background(), models.Deck{
		UserID:    "alice",
		Name:      "Deck",
		CreatedAt: now,
		UpdatedAt: now,
	})
	s.Require().NoError(err)
	return id
}

func (s *CardRepositorySuite) newCard(deckID int64, front string) int64 {
	id, err := s.cards.Insert(context.Background(), models.Card{
		DeckID:    deckID,
		FrontText: front,
	})
	s.Require().NoError(err)
	return id
}

func (s *CardRepositorySuite) cardCount(deckID int64) int {
	deck, err := s.decks.Get(context.Background(), deckID)
	s.Require().NoError(err)
	s.Require().NotNil(deck)
	return deck.CardCount
}

func (s *CardRepositorySuite) TestInsertAppendsPositions() {
	ctx := context.Background()
	deckID := s.newDeck()

	s.newCard(deckID, "a")
	s.newCard(deckID, "b")
	s.newCard(deckID, "c")

	cards, err := s.cards.ListByDeck(ctx, deckID)
	s.Require().NoError(err)
	s.Require().Len(cards, 3)
	for i, c := range cards {
		s.Equal(i, c.Position)
	}
	s.Equal(3, s.cardCount(deckID))
}

func (s *CardRepositorySuite) TestInsertIntoMissingDeck() {
	_, err := s.cards.Insert(context.Background(), models.Card{DeckID: 9999, FrontText: "x"})
	s.Require().ErrorIs(err, sql.ErrNoRows)
}

func (s *CardRepositorySuite) TestInsertBatchIntoMissingDeck() {
	_, err := s.cards.InsertBatch(context.Background(), 9999, []models.Card{{FrontText: "x"}})
	s.Require().ErrorIs(err, sql.ErrNoRows)
}

func (s *CardRepositorySuite) TestInsertBatchAppendsAtTail() {
	ctx := context.Background()
	deckID := s.newDeck()
	s.newCard(deckID, "a")

	ids, err := s.cards.InsertBatch(ctx, deckID, []models.Card{
		{FrontText: "b"},
		{FrontText: "c"},
	})
	s.Require().NoError(err)
	s.Require().Len(ids, 2)

	cards, err := s.cards.ListByDeck(ctx, deckID)
	s.Require().NoError(err)
	s.Require().Len(cards, 3)
	s.Equal("b", cards[1].FrontText)
	s.Equal(1, cards[1].Position)
	s.Equal("c", cards[2].FrontText)
	s.Equal(2, cards[2].Position)
	s.Equal(3, s.cardCount(deckID))
}

func (s *CardRepositorySuite) TestUpdatePartial() {
	ctx := context.Background()
	deckID := s.newDeck()
	id := s.newCard(deckID, "front")

	back := "answer"
	err := s.cards.Update(ctx, id, models.CardUpdate{BackText: &back})
	s.Require().NoError(err)

	card, err := s.cards.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal("front", card.FrontText)
	s.Equal("answer", card.BackText)
	s.Equal(0, card.Position)
}

func (s *CardRepositorySuite) TestDeleteKeepsGaps() {
	ctx := context.Background()
	deckID := s.newDeck()
	s.newCard(deckID, "a")
	midID := s.newCard(deckID, "b")
	s.newCard(deckID, "c")

	_, err := s.progress.GetOrCreate(ctx, "alice", midID, time.Now().UTC())
	s.Require().NoError(err)

	s.Require().NoError(s.cards.Delete(ctx, midID))

	cards, err := s.cards.ListByDeck(ctx, deckID)
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	s.Equal(0, cards[0].Position)
	s.Equal(2, cards[1].Position)
	s.Equal(2, s.cardCount(deckID))

	p, err := s.progress.Get(ctx, "alice", midID)
	s.Require().NoError(err)
	s.Nil(p)
}

func (s *CardRepositorySuite) TestDeleteMissing() {
	err := s.cards.Delete(context.Background(), 9999)
	s.Require().ErrorIs(err, sql.ErrNoRows)
}

func (s *CardRepositorySuite) TestReorder() {
	ctx := context.Background()
	deckID := s.newDeck()
	a := s.newCard(deckID, "a")
	b := s.newCard(deckID, "b")
	c := s.newCard(deckID, "c")

	s.Require().NoError(s.cards.Reorder(ctx, deckID, []int64{c, a, b}))

	cards, err := s.cards.ListByDeck(ctx, deckID)
	s.Require().NoError(err)
	s.Require().Len(cards, 3)
	s.Equal("c", cards[0].FrontText)
	s.Equal("a", cards[1].FrontText)
	s.Equal("b", cards[2].FrontText)
	for i, card := range cards {
		s.Equal(i, card.Position)
	}
}

func (s *CardRepositorySuite) TestReorderClosesGaps() {
	ctx := context.Background()
	deckID := s.newDeck()
	a := s.newCard(deckID, "a")
	mid := s.newCard(deckID, "b")
	c := s.newCard(deckID, "c")
	s.Require().NoError(s.cards.Delete(ctx, mid))

	s.Require().NoError(s.cards.Reorder(ctx, deckID, []int64{c, a}))

	cards, err := s.cards.ListByDeck(ctx, deckID)
	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	s.Equal(0, cards[0].Position)
	s.Equal(1, cards[1].Position)
}

func (s *CardRepositorySuite) TestReorderRejectsWrongSet() {
	ctx := context.Background()
	deckID := s.newDeck()
	a := s.newCard(deckID, "a")
	b := s.newCard(deckID, "b")

	err := s.cards.Reorder(ctx, deckID, []int64{a})
	s.Require().ErrorIs(err, repository.ErrCardSetMismatch)

	err = s.cards.Reorder(ctx, deckID, []int64{a, b, 9999})
	s.Require().ErrorIs(err, repository.ErrCardSetMismatch)

	err = s.cards.Reorder(ctx, deckID, []int64{a, a})
	s.Require().ErrorIs(err, repository.ErrCardSetMismatch)

	// Failed reorders leave positions untouched.
	cards, err := s.cards.ListByDeck(ctx, deckID)
	s.Require().NoError(err)
	s.Equal(0, cards[0].Position)
	s.Equal(1, cards[1].Position)
}

func TestCardRepositorySuite(t *testing.T) {
	suite.Run(t, new(CardRepositorySuite))
}
