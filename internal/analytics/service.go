package analytics

import (
	"context"

	"github.com/opacedigital/ai-core/internal/store"
	"github.com/opacedigital/ai-core/internal/store/model"
)

const (
	defaultDays  = 7
	defaultLimit = 50
	maxLimit     = 1000
)

// Service reads the usage tallies written by the Ingestor.
type Service interface {
	Totals(ctx context.Context, filter model.UsageFilter) ([]model.UsageTotal, error)
	UsageOverview(ctx context.Context, days int) ([]model.DailyStats, error)
	Recent(ctx context.Context, limit int) ([]model.UsageEvent, error)
}

type service struct {
	repo store.Repository
}

func NewService(repo store.Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) Totals(ctx context.Context, filter model.UsageFilter) ([]model.UsageTotal, error) {
	return s.repo.Usage().Totals(ctx, filter)
}

func (s *service) UsageOverview(ctx context.Context, days int) ([]model.DailyStats, error) {
	if days <= 0 {
		days = defaultDays
	}
	return s.repo.Usage().Daily(ctx, days)
}

func (s *service) Recent(ctx context.Context, limit int) ([]model.UsageEvent, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return s.repo.Usage().Recent(ctx, limit)
}
