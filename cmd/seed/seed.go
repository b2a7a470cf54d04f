package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/opacedigital/ai-core/internal/store"
	"github.com/opacedigital/ai-core/internal/store/model"
	"github.com/opacedigital/ai-core/internal/store/sqlite"
)

var sample = []struct {
	provider, model string
	kind            string
}{
	{"openai", "gpt-4o", model.KindChat},
	{"openai", "gpt-image-1", model.KindImage},
	{"anthropic", "claude-sonnet-4-5", model.KindChat},
	{"gemini", "gemini-2.5-flash", model.KindChat},
	{"gemini", "imagen-4.0-generate-001", model.KindImage},
	{"grok", "grok-4", model.KindChat},
}

var useCases = []string{"summaries", "support", "marketing"}

func main() {
	dsn := flag.String("dsn", "file:usage.db?_journal_mode=WAL&_busy_timeout=5000", "SQLite DSN")
	days := flag.Int("days", 14, "Days of history to generate")
	perDay := flag.Int("per-day", 40, "Events per day")
	flag.Parse()

	repo, err := sqlite.NewSQLiteStorage(*dsn, zap.NewNop())
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	now := time.Now().UTC()
	total := 0

	for d := 0; d < *days; d++ {
		day := now.AddDate(0, 0, -d)

		err := repo.WithTx(context.Background(), func(tx store.Repository) error {
			for i := 0; i < *perDay; i++ {
				if err := tx.Usage().Record(context.Background(), event(day)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Fatalf("seeding %s: %v", day.Format(time.DateOnly), err)
		}
		total += *perDay
	}

	fmt.Printf("\nSuccessfully seeded %d usage events over %d days.\n", total, *days)
	fmt.Println("Try: curl localhost:8080/v1/usage/daily?days=14")
}

func event(day time.Time) *model.UsageEvent {
	s := sample[rand.Intn(len(sample))]
	e := &model.UsageEvent{
		Kind:      s.kind,
		Provider:  s.provider,
		Model:     s.model,
		UseCase:   useCases[rand.Intn(len(useCases))],
		LatencyMs: int64(200 + rand.Intn(4000)),
		CreatedAt: day.Add(-time.Duration(rand.Intn(86400)) * time.Second),
	}

	if s.kind == model.KindImage {
		e.Images = 1 + rand.Intn(4)
		return e
	}

	e.FinishReason = "stop"
	e.PromptTokens = 50 + rand.Intn(2000)
	e.CompletionTokens = 20 + rand.Intn(800)
	e.TotalTokens = e.PromptTokens + e.CompletionTokens
	return e
}
