package analytics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/opacedigital/ai-core/internal/store"
	"github.com/opacedigital/ai-core/internal/store/model"
)

const (
	defaultBufferSize = 10000
	defaultBatchSize  = 50
	defaultFlushTime  = 5 * time.Second
)

// Ingestor handles the asynchronous persistence of usage events.
type Ingestor interface {
	Record(event *model.UsageEvent)
	Start(ctx context.Context)
	Stop()
}

type Option func(*ingestor)

func WithBatchSize(n int) Option {
	return func(i *ingestor) { i.batchSize = n }
}

func WithFlushInterval(d time.Duration) Option {
	return func(i *ingestor) { i.flushTime = d }
}

func WithBufferSize(n int) Option {
	return func(i *ingestor) { i.events = make(chan *model.UsageEvent, n) }
}

type ingestor struct {
	logger    *zap.Logger
	repo      store.Repository
	events    chan *model.UsageEvent
	batchSize int
	flushTime time.Duration

	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
}

func NewIngestor(logger *zap.Logger, repo store.Repository, opts ...Option) Ingestor {
	i := &ingestor{
		logger:    logger,
		repo:      repo,
		events:    make(chan *model.UsageEvent, defaultBufferSize),
		batchSize: defaultBatchSize,
		flushTime: defaultFlushTime,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Record enqueues an event without blocking. Events are dropped when the
// buffer is full or the ingestor has stopped.
func (i *ingestor) Record(event *model.UsageEvent) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.stopped {
		return
	}

	select {
	case i.events <- event:
	default:
		i.logger.Warn("Usage buffer full, dropping event",
			zap.String("provider", event.Provider),
			zap.String("model", event.Model),
		)
	}
}

func (i *ingestor) Start(ctx context.Context) {
	go i.worker(ctx)
}

// Stop closes the queue and waits for the final flush.
func (i *ingestor) Stop() {
	i.mu.Lock()
	if i.stopped {
		i.mu.Unlock()
		return
	}
	i.stopped = true
	close(i.events)
	i.mu.Unlock()

	<-i.done
}

func (i *ingestor) worker(ctx context.Context) {
	defer close(i.done)

	batch := make([]*model.UsageEvent, 0, i.batchSize)
	ticker := time.NewTicker(i.flushTime)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		err := i.repo.WithTx(context.Background(), func(tx store.Repository) error {
			for _, e := range batch {
				if err := tx.Usage().Record(context.Background(), e); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			i.logger.Error("Failed to persist usage batch", zap.Int("events", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case e, ok := <-i.events:
			if !ok {
				flush()
				return
			}
			batch = append(batch, e)
			if len(batch) >= i.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			// drain what is already queued
			for {
				select {
				case e, ok := <-i.events:
					if !ok {
						flush()
						return
					}
					batch = append(batch, e)
				default:
					flush()
					return
				}
			}
		}
	}
}
