package gateway

import (
	"time"

	"github.com/opacedigital/ai-core/internal/store/model"
	"github.com/opacedigital/ai-core/pkg/api"
)

// UsageRecorder receives one event per successful call. Implementations must
// not block.
type UsageRecorder interface {
	Record(event *model.UsageEvent)
}

type nopRecorder struct{}

func (nopRecorder) Record(*model.UsageEvent) {}

func chatEvent(useCase string, res *api.NormalizedResult, latency time.Duration) *model.UsageEvent {
	return &model.UsageEvent{
		Kind:             model.KindChat,
		Provider:         string(res.Provider),
		Model:            res.Model,
		UseCase:          useCase,
		FinishReason:     string(res.FinishReason),
		PromptTokens:     res.Usage.PromptTokens,
		CompletionTokens: res.Usage.CompletionTokens,
		TotalTokens:      res.Usage.TotalTokens,
		LatencyMs:        latency.Milliseconds(),
		CreatedAt:        time.Now(),
	}
}

func imageEvent(useCase string, res *api.ImageResult, latency time.Duration) *model.UsageEvent {
	return &model.UsageEvent{
		Kind:      model.KindImage,
		Provider:  string(res.Provider),
		Model:     res.Model,
		UseCase:   useCase,
		Images:    len(res.Data),
		LatencyMs: latency.Milliseconds(),
		CreatedAt: time.Now(),
	}
}
