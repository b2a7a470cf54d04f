package store

import (
	"context"

	"github.com/opacedigital/ai-core/internal/store/model"
)

// Repository is the main contract for the data layer.
type Repository interface {
	Usage() UsageRepository

	// transaction support
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	Close() error
}

type UsageRepository interface {
	// Record stores one usage event.
	Record(ctx context.Context, event *model.UsageEvent) error
	// Totals aggregates events by provider, model and use case.
	Totals(ctx context.Context, filter model.UsageFilter) ([]model.UsageTotal, error)
	// Daily returns aggregated stats grouped by day.
	Daily(ctx context.Context, days int) ([]model.DailyStats, error)
	// Recent returns the last N events, newest first.
	Recent(ctx context.Context, limit int) ([]model.UsageEvent, error)
}
