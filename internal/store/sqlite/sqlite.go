package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opacedigital/ai-core/internal/store"
	"github.com/opacedigital/ai-core/internal/store/model"
)

// DB defines the interface for database operations (satisfied by *sqlx.DB and *sqlx.Tx)
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository
type SqliteRepository struct {
	db       *sqlx.DB // Required for starting new transactions
	executor DB       // Used for actual queries (can be *sqlx.DB or *sqlx.Tx)
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{
		db:       db,
		executor: db,
	}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	txRepo := &SqliteRepository{
		db:       r.db,
		executor: tx,
	}

	if err := fn(txRepo); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *SqliteRepository) Usage() store.UsageRepository {
	return &usageRepo{db: r.executor}
}

type usageRepo struct {
	db DB
}

func (r *usageRepo) Record(ctx context.Context, event *model.UsageEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	// stored in UTC so text comparisons on created_at stay ordered
	event.CreatedAt = event.CreatedAt.UTC()

	query := `
	INSERT INTO usage_events (
		id, kind, provider, model, use_case, finish_reason,
		prompt_tokens, completion_tokens, total_tokens, images,
		latency_ms, created_at
	) VALUES (
		:id, :kind, :provider, :model, :use_case, :finish_reason,
		:prompt_tokens, :completion_tokens, :total_tokens, :images,
		:latency_ms, :created_at
	)`
	_, err := r.db.NamedExecContext(ctx, query, event)
	return err
}

func (r *usageRepo) Totals(ctx context.Context, filter model.UsageFilter) ([]model.UsageTotal, error) {
	var (
		where []string
		args  []interface{}
	)
	if !filter.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, filter.Since.UTC())
	}
	if filter.Provider != "" {
		where = append(where, "provider = ?")
		args = append(args, filter.Provider)
	}
	if filter.UseCase != "" {
		where = append(where, "use_case = ?")
		args = append(args, filter.UseCase)
	}

	query := `
		SELECT
			provider,
			model,
			use_case,
			COUNT(*) as requests,
			SUM(prompt_tokens) as prompt_tokens,
			SUM(completion_tokens) as completion_tokens,
			SUM(total_tokens) as total_tokens,
			SUM(images) as images,
			AVG(latency_ms) as avg_latency
		FROM usage_events`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += `
		GROUP BY provider, model, use_case
		ORDER BY requests DESC, provider, model, use_case`

	totals := []model.UsageTotal{}
	err := r.db.SelectContext(ctx, &totals, query, args...)
	return totals, err
}

func (r *usageRepo) Daily(ctx context.Context, days int) ([]model.DailyStats, error) {
	stats := []model.DailyStats{}
	query := `
		SELECT
			DATE(created_at) as date,
			COUNT(*) as total_requests,
			SUM(total_tokens) as total_tokens,
			AVG(latency_ms) as avg_latency
		FROM usage_events
		WHERE created_at >= ?
		GROUP BY date
		ORDER BY date DESC
	`
	since := time.Now().UTC().AddDate(0, 0, -days)
	err := r.db.SelectContext(ctx, &stats, query, since)
	return stats, err
}

func (r *usageRepo) Recent(ctx context.Context, limit int) ([]model.UsageEvent, error) {
	events := []model.UsageEvent{}
	query := `SELECT * FROM usage_events ORDER BY created_at DESC LIMIT ?`
	err := r.db.SelectContext(ctx, &events, query, limit)
	return events, err
}
