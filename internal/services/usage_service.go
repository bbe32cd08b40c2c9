package services

import (
	"context"
	"time"

	"github.com/mkotas/flashdeck/internal/errors"
	"github.com/mkotas/flashdeck/internal/models"
	"github.com/mkotas/flashdeck/internal/repository"
)

// UsageService maintains the per-user AI usage ledger. Only the counters live
// here; the assistant itself is an external collaborator.
type UsageService interface {
	GetUsage(ctx context.Context, userID string) (*models.AiUsage, error)
	RecordMessage(ctx context.Context, userID string, imageCount int) error
	RecordToolCalls(ctx context.Context, userID string, count int) error
}

type usageService struct {
	usage repository.UsageRepository
}

// NewUsageService creates a new UsageService
func NewUsageService(usage repository.UsageRepository) UsageService {
	return &usageService{usage: usage}
}

func (s *usageService) GetUsage(ctx context.Context, userID string) (*models.AiUsage, error) {
	u, err := s.usage.Get(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if u == nil {
		// Never used: zero counters, not an error.
		return &models.AiUsage{UserID: userID}, nil
	}
	return u, nil
}

func (s *usageService) RecordMessage(ctx context.Context, userID string, imageCount int) error {
	if imageCount < 0 {
		return errors.NewInvalidArgumentError("image_count", "must not be negative")
	}
	if err := s.usage.IncrementMessages(ctx, userID, imageCount, time.Now().UTC()); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *usageService) RecordToolCalls(ctx context.Context, userID string, count int) error {
	if count <= 0 {
		return errors.NewInvalidArgumentError("count", "must be positive")
	}
	if err := s.usage.IncrementToolCalls(ctx, userID, count, time.Now().UTC()); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}
