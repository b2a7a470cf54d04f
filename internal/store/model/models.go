package model

import "time"

// Kind values for UsageEvent.
const (
	KindChat  = "chat"
	KindImage = "image"
)

// UsageEvent is one successful gateway call.
type UsageEvent struct {
	ID               string    `db:"id" json:"id"`
	Kind             string    `db:"kind" json:"kind"`
	Provider         string    `db:"provider" json:"provider"`
	Model            string    `db:"model" json:"model"`
	UseCase          string    `db:"use_case" json:"use_case,omitempty"`
	FinishReason     string    `db:"finish_reason" json:"finish_reason,omitempty"`
	PromptTokens     int       `db:"prompt_tokens" json:"prompt_tokens"`
	CompletionTokens int       `db:"completion_tokens" json:"completion_tokens"`
	TotalTokens      int       `db:"total_tokens" json:"total_tokens"`
	Images           int       `db:"images" json:"images"`
	LatencyMs        int64     `db:"latency_ms" json:"latency_ms"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// UsageFilter narrows an aggregation. Zero values match everything.
type UsageFilter struct {
	Since    time.Time
	Provider string
	UseCase  string
}

// UsageTotal aggregates events by provider, model and use case.
type UsageTotal struct {
	Provider         string  `db:"provider" json:"provider"`
	Model            string  `db:"model" json:"model"`
	UseCase          string  `db:"use_case" json:"use_case"`
	Requests         int     `db:"requests" json:"requests"`
	PromptTokens     int     `db:"prompt_tokens" json:"prompt_tokens"`
	CompletionTokens int     `db:"completion_tokens" json:"completion_tokens"`
	TotalTokens      int     `db:"total_tokens" json:"total_tokens"`
	Images           int     `db:"images" json:"images"`
	AverageLatency   float64 `db:"avg_latency" json:"avg_latency_ms"`
}

// DailyStats represents aggregated usage data for a specific day.
type DailyStats struct {
	Date           string  `db:"date" json:"date"`
	TotalRequests  int     `db:"total_requests" json:"total_requests"`
	TotalTokens    int     `db:"total_tokens" json:"total_tokens"`
	AverageLatency float64 `db:"avg_latency" json:"avg_latency"`
}
