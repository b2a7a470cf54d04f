package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opacedigital/ai-core/internal/store"
	"github.com/opacedigital/ai-core/internal/store/model"
)

func newRepo(t *testing.T) store.Repository {
	t.Helper()
	repo, err := NewSQLiteStorage(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func event(provider, modelID, useCase string, tokens int, at time.Time) *model.UsageEvent {
	return &model.UsageEvent{
		Kind:             model.KindChat,
		Provider:         provider,
		Model:            modelID,
		UseCase:          useCase,
		PromptTokens:     tokens / 2,
		CompletionTokens: tokens - tokens/2,
		TotalTokens:      tokens,
		LatencyMs:        100,
		CreatedAt:        at,
	}
}

func TestRecordAssignsIdentity(t *testing.T) {
	repo := newRepo(t)
	e := &model.UsageEvent{Kind: model.KindImage, Provider: "openai", Model: "dall-e-3", Images: 1}

	require.NoError(t, repo.Usage().Record(context.Background(), e))
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())

	recent, err := repo.Usage().Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, e.ID, recent[0].ID)
	assert.Equal(t, 1, recent[0].Images)
}

func TestTotals(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Usage().Record(ctx, event("openai", "gpt-5", "summary", 10, now)))
	require.NoError(t, repo.Usage().Record(ctx, event("openai", "gpt-5", "summary", 20, now)))
	require.NoError(t, repo.Usage().Record(ctx, event("anthropic", "claude-sonnet-4-5", "chat", 7, now)))
	require.NoError(t, repo.Usage().Record(ctx, event("openai", "gpt-5", "summary", 99, now.Add(-48*time.Hour))))

	t.Run("all", func(t *testing.T) {
		totals, err := repo.Usage().Totals(ctx, model.UsageFilter{})
		require.NoError(t, err)
		require.Len(t, totals, 2)
		assert.Equal(t, "openai", totals[0].Provider)
		assert.Equal(t, 3, totals[0].Requests)
		assert.Equal(t, 129, totals[0].TotalTokens)
		assert.Equal(t, 100.0, totals[0].AverageLatency)
	})

	t.Run("since", func(t *testing.T) {
		totals, err := repo.Usage().Totals(ctx, model.UsageFilter{Since: now.Add(-time.Hour)})
		require.NoError(t, err)
		require.Len(t, totals, 2)
		assert.Equal(t, 2, totals[0].Requests)
		assert.Equal(t, 30, totals[0].TotalTokens)
	})

	t.Run("provider and use case", func(t *testing.T) {
		totals, err := repo.Usage().Totals(ctx, model.UsageFilter{Provider: "anthropic", UseCase: "chat"})
		require.NoError(t, err)
		require.Len(t, totals, 1)
		assert.Equal(t, "claude-sonnet-4-5", totals[0].Model)
		assert.Equal(t, 3, totals[0].PromptTokens)
		assert.Equal(t, 4, totals[0].CompletionTokens)
	})

	t.Run("no rows", func(t *testing.T) {
		totals, err := repo.Usage().Totals(ctx, model.UsageFilter{Provider: "grok"})
		require.NoError(t, err)
		assert.Empty(t, totals)
	})
}

func TestDaily(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Usage().Record(ctx, event("openai", "gpt-5", "", 10, now)))
	require.NoError(t, repo.Usage().Record(ctx, event("openai", "gpt-5", "", 10, now.Add(-30*24*time.Hour))))

	stats, err := repo.Usage().Daily(ctx, 7)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, now.UTC().Format("2006-01-02"), stats[0].Date)
	assert.Equal(t, 1, stats[0].TotalRequests)
}

func TestWithTxRollsBack(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.WithTx(ctx, func(tx store.Repository) error {
		require.NoError(t, tx.Usage().Record(ctx, event("openai", "gpt-5", "", 1, time.Now())))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	recent, err := repo.Usage().Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestRecentOrder(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	now := time.Now()

	older := event("openai", "gpt-4o", "", 1, now.Add(-time.Minute))
	newer := event("openai", "gpt-5", "", 1, now)
	require.NoError(t, repo.Usage().Record(ctx, older))
	require.NoError(t, repo.Usage().Record(ctx, newer))

	recent, err := repo.Usage().Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "gpt-5", recent[0].Model)
}
