package worker

import (
	"context"

	"github.com/mkotas/flashdeck/internal/logger"
	"github.com/mkotas/flashdeck/internal/models"
	"github.com/mkotas/flashdeck/internal/repository"
)

// ImportCardsJob appends a parsed batch of cards to a deck. Parsing and
// validation happen before submission; the job only performs the insert so a
// malformed upload never occupies a worker.
type ImportCardsJob struct {
	Cards  repository.CardRepository
	DeckID int64
	Rows   []models.Card
}

func (j *ImportCardsJob) Name() string {
	return "import_cards"
}

func (j *ImportCardsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("importing %d cards into deck %d", len(j.Rows), j.DeckID)

	ids, err := j.Cards.InsertBatch(ctx, j.DeckID, j.Rows)
	if err != nil {
		return err
	}
	log.Info("imported %d cards into deck %d", len(ids), j.DeckID)
	return nil
}
