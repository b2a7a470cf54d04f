// Package anthropic adapts the Anthropic Messages API.
package anthropic

import (
	"context"
	"net/url"
	"strings"

	"github.com/opacedigital/ai-core/internal/llm"
	"github.com/opacedigital/ai-core/internal/payload"
	"github.com/opacedigital/ai-core/pkg/api"
)

const (
	DefaultBaseURL = "https://api.anthropic.com/v1"
	DefaultVersion = "2023-06-01"

	// MaxTokensFloor is sent when the schema did not populate max_tokens,
	// which the Messages API requires.
	MaxTokensFloor = 4096

	minKeyLength = 20
)

type Adapter struct {
	llm.Base
}

func New(cfg llm.Config) *Adapter {
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	return &Adapter{Base: llm.NewBase(api.Anthropic, minKeyLength, cfg.WithDefaults(DefaultBaseURL))}
}

func (a *Adapter) url(path string) string {
	return strings.TrimRight(a.BaseURL, "/") + path
}

func (a *Adapter) headers() map[string]string {
	return map[string]string{
		"x-api-key":         a.APIKey,
		"anthropic-version": a.Version,
	}
}

func (a *Adapter) SendRequest(ctx context.Context, messages []api.Message, opts api.GenerationOptions) (*api.NormalizedResult, error) {
	if err := a.RequireConfigured(); err != nil {
		return nil, err
	}

	model, err := a.ResolveModel(opts.Model, llm.ChatCategories...)
	if err != nil {
		return nil, err
	}

	params, err := a.Params(model, opts)
	if err != nil {
		return nil, err
	}

	maxTokens := MaxTokensFloor
	if m, ok := a.Registry.ModelConfig(model); ok && m.MaxTokens > 0 && m.MaxTokens < maxTokens {
		maxTokens = m.MaxTokens
	}

	return a.Complete(ctx, model, a.url("/messages"), Payload(model, messages, params, opts, maxTokens), a.headers())
}

// Payload builds a Messages API body. The first system message moves to the
// top-level system field; max_tokens falls back to floor.
func Payload(model string, messages []api.Message, params payload.Tree, opts api.GenerationOptions, floor int) payload.Tree {
	body := params
	if body == nil {
		body = payload.Tree{}
	}

	system, turns := llm.SystemPrompt(messages)
	if system != "" {
		body["system"] = system
	}

	body["model"] = model
	body["messages"] = convertMessages(turns)
	body["stream"] = false
	body.SetDefault("max_tokens", floor)
	if len(opts.Stop) > 0 {
		body["stop_sequences"] = opts.Stop
	}
	return body
}

func convertMessages(messages []api.Message) []map[string]any {
	out := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		role := api.User
		if m.Role == api.Assistant || m.Role == api.ModelAssistant {
			role = api.Assistant
		}

		if len(m.Content.Parts) == 0 {
			out = append(out, map[string]any{"role": role, "content": m.Content.Text})
			continue
		}

		blocks := make([]map[string]any, 0, len(m.Content.Parts))
		for _, p := range m.Content.Parts {
			switch p.Type {
			case api.PartText:
				blocks = append(blocks, map[string]any{"type": "text", "text": p.Text})
			case api.PartImageURL:
				if block, ok := imageBlock(p.ImageURL); ok {
					blocks = append(blocks, block)
				}
			}
		}
		out = append(out, map[string]any{"role": role, "content": blocks})
	}
	return out
}

func imageBlock(img *api.ImageURL) (map[string]any, bool) {
	if img == nil || img.URL == "" {
		return nil, false
	}
	if mime, data, ok := llm.ParseDataURI(img.URL); ok {
		return map[string]any{
			"type": "image",
			"source": map[string]any{
				"type":       "base64",
				"media_type": mime,
				"data":       data,
			},
		}, true
	}
	return map[string]any{
		"type":   "image",
		"source": map[string]any{"type": "url", "url": img.URL},
	}, true
}

func (a *Adapter) AvailableModels(ctx context.Context) []string {
	return a.MergeModels(ctx, func(ctx context.Context) ([]string, error) {
		return a.ListDataIDs(ctx, a.url("/models"), url.Values{"limit": {"1000"}}, a.headers())
	})
}

func (a *Adapter) ValidateAPIKey(ctx context.Context) api.Validation {
	return a.Validate(ctx, a.SendRequest)
}
