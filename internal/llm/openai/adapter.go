// Package openai adapts the OpenAI Chat Completions, Responses and Images APIs.
package openai

import (
	"context"
	"strings"

	"github.com/opacedigital/ai-core/internal/llm"
	"github.com/opacedigital/ai-core/internal/payload"
	"github.com/opacedigital/ai-core/pkg/api"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"

	// sk- keys are far longer; this only rejects obvious junk.
	minKeyLength = 20
)

type Adapter struct {
	llm.Base
}

func New(cfg llm.Config) *Adapter {
	return &Adapter{Base: llm.NewBase(api.OpenAI, minKeyLength, cfg.WithDefaults(DefaultBaseURL))}
}

func (a *Adapter) url(path string) string {
	return strings.TrimRight(a.BaseURL, "/") + path
}

func (a *Adapter) headers() map[string]string {
	headers := map[string]string{
		"Authorization": "Bearer " + a.APIKey,
	}
	if a.Organization != "" {
		headers["OpenAI-Organization"] = a.Organization
	}
	return headers
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

	if a.Registry.Endpoint(model) == api.EndpointResponses {
		body := ResponsesPayload(model, messages, params)
		return a.Complete(ctx, model, a.url("/responses"), body, a.headers())
	}

	body := ChatPayload(model, messages, params, opts)
	return a.Complete(ctx, model, a.url("/chat/completions"), body, a.headers())
}

// ChatPayload builds a Chat Completions body on top of the mapped params.
// xAI reuses it unchanged.
func ChatPayload(model string, messages []api.Message, params payload.Tree, opts api.GenerationOptions) payload.Tree {
	body := params
	if body == nil {
		body = payload.Tree{}
	}
	body["model"] = model
	body["messages"] = messages
	body["stream"] = false
	if len(opts.Stop) > 0 {
		body["stop"] = opts.Stop
	}
	return body
}

// ResponsesPayload builds a Responses API body. The endpoint has no stop
// field, so stop sequences are not forwarded.
func ResponsesPayload(model string, messages []api.Message, params payload.Tree) payload.Tree {
	body := params
	if body == nil {
		body = payload.Tree{}
	}
	body["model"] = model
	body["input"] = responsesInput(messages)
	body["stream"] = false
	body.SetDefault("text.format", map[string]any{"type": "text"})
	return body
}

func responsesInput(messages []api.Message) []map[string]any {
	input := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		partType := "input_text"
		if role == api.Assistant {
			partType = "output_text"
		}

		var content []map[string]any
		if len(m.Content.Parts) == 0 {
			content = append(content, map[string]any{"type": partType, "text": m.Content.Text})
		}
		for _, p := range m.Content.Parts {
			switch {
			case p.Type == api.PartText:
				content = append(content, map[string]any{"type": partType, "text": p.Text})
			case p.Type == api.PartImageURL && p.ImageURL != nil && role != api.Assistant:
				content = append(content, map[string]any{"type": "input_image", "image_url": p.ImageURL.URL})
			}
		}

		input = append(input, map[string]any{"role": role, "content": content})
	}
	return input
}

func (a *Adapter) AvailableModels(ctx context.Context) []string {
	return a.MergeModels(ctx, a.listModels)
}

func (a *Adapter) listModels(ctx context.Context) ([]string, error) {
	return a.ListDataIDs(ctx, a.url("/models"), nil, a.headers())
}

func (a *Adapter) ValidateAPIKey(ctx context.Context) api.Validation {
	return a.Validate(ctx, a.SendRequest)
}
