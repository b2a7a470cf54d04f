// Package xai adapts Grok, which speaks the OpenAI Chat Completions and
// Images wire format.
package xai

import (
	"context"
	"strings"

	"github.com/opacedigital/ai-core/internal/llm"
	"github.com/opacedigital/ai-core/internal/llm/openai"
	"github.com/opacedigital/ai-core/pkg/api"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.x.ai/v1"

	minKeyLength = 20
)

type Adapter struct {
	llm.Base
}

func New(cfg llm.Config) *Adapter {
	return &Adapter{Base: llm.NewBase(api.Grok, minKeyLength, cfg.WithDefaults(DefaultBaseURL))}
}

func (a *Adapter) url(path string) string {
	return strings.TrimRight(a.BaseURL, "/") + path
}

func (a *Adapter) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + a.APIKey}
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

	body := openai.ChatPayload(model, messages, params, opts)
	return a.Complete(ctx, model, a.url("/chat/completions"), body, a.headers())
}

// GenerateImage calls /images/generations. xAI ignores size and quality, so
// only model, prompt, n and response_format are sent.
func (a *Adapter) GenerateImage(ctx context.Context, prompt string, opts api.ImageOptions) (*api.ImageResult, error) {
	if err := a.RequireConfigured(); err != nil {
		return nil, err
	}

	model, err := a.ResolveModel(opts.Model, api.CategoryImage)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"model":           model,
		"prompt":          prompt,
		"n":               llm.ImageCount(opts.Count),
		"response_format": "b64_json",
	}

	a.Logger.Debug("sending image request", zap.String("model", model))

	raw, err := a.HTTP.Post(ctx, a.url("/images/generations"), body, a.headers())
	if err != nil {
		return nil, a.Wrap(err)
	}

	res, err := openai.ImageResponse(api.Grok, model, raw)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (a *Adapter) AvailableModels(ctx context.Context) []string {
	return a.MergeModels(ctx, func(ctx context.Context) ([]string, error) {
		return a.ListDataIDs(ctx, a.url("/models"), nil, a.headers())
	})
}

func (a *Adapter) ValidateAPIKey(ctx context.Context) api.Validation {
	return a.Validate(ctx, a.SendRequest)
}
