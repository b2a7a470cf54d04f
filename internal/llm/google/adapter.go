// Package google adapts the Gemini generateContent API and Imagen predict API.
package google

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/opacedigital/ai-core/internal/llm"
	"github.com/opacedigital/ai-core/internal/payload"
	"github.com/opacedigital/ai-core/pkg/api"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// AIza keys are 39 characters.
	minKeyLength = 30
)

type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type FileData struct {
	MimeType string `json:"mimeType,omitempty"`
	FileURI  string `json:"fileUri"`
}

type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
	FileData   *FileData   `json:"fileData,omitempty"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Adapter struct {
	llm.Base
}

func New(cfg llm.Config) *Adapter {
	return &Adapter{Base: llm.NewBase(api.Gemini, minKeyLength, cfg.WithDefaults(DefaultBaseURL))}
}

func (a *Adapter) url(model, method string) string {
	return fmt.Sprintf("%s/models/%s:%s", strings.TrimRight(a.BaseURL, "/"), model, method)
}

func (a *Adapter) headers() map[string]string {
	return map[string]string{"x-goog-api-key": a.APIKey}
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

	return a.Complete(ctx, model, a.url(model, "generateContent"), Payload(messages, params, opts), a.headers())
}

// Payload builds a generateContent body. Schema keys already sit under
// generationConfig; the first system message becomes systemInstruction.
func Payload(messages []api.Message, params payload.Tree, opts api.GenerationOptions) payload.Tree {
	body := params
	if body == nil {
		body = payload.Tree{}
	}

	system, turns := llm.SystemPrompt(messages)
	if system != "" {
		body["systemInstruction"] = Content{Parts: []Part{{Text: system}}}
	}
	body["contents"] = Shape(turns)
	if len(opts.Stop) > 0 {
		body.Set("generationConfig.stopSequences", opts.Stop)
	}
	return body
}

// Shape converts messages to Gemini contents. Gemini calls the assistant
// role "model".
func Shape(messages []api.Message) []Content {
	contents := make([]Content, 0, len(messages))
	for _, m := range messages {
		role := string(api.User)
		if m.Role == api.Assistant || m.Role == api.ModelAssistant {
			role = string(api.ModelAssistant)
		}

		c := Content{Role: role}
		if len(m.Content.Parts) == 0 {
			c.Parts = []Part{{Text: m.Content.Text}}
		}
		for _, p := range m.Content.Parts {
			switch p.Type {
			case api.PartText:
				c.Parts = append(c.Parts, Part{Text: p.Text})
			case api.PartImageURL:
				if p.ImageURL == nil || p.ImageURL.URL == "" {
					continue
				}
				if mime, data, ok := llm.ParseDataURI(p.ImageURL.URL); ok {
					c.Parts = append(c.Parts, Part{InlineData: &InlineData{MimeType: mime, Data: data}})
				} else {
					c.Parts = append(c.Parts, Part{FileData: &FileData{FileURI: p.ImageURL.URL}})
				}
			}
		}
		contents = append(contents, c)
	}
	return contents
}

// servable are the generation methods a listed model must offer.
var servable = []string{"generateContent", "predict"}

func (a *Adapter) AvailableModels(ctx context.Context) []string {
	return a.MergeModels(ctx, a.listModels)
}

func (a *Adapter) listModels(ctx context.Context) ([]string, error) {
	raw, err := a.HTTP.Get(ctx, strings.TrimRight(a.BaseURL, "/")+"/models", url.Values{"pageSize": {"1000"}}, a.headers())
	if err != nil {
		return nil, a.Wrap(err)
	}

	models, _ := raw["models"].([]any)
	ids := make([]string, 0, len(models))
	for _, item := range models {
		entry, _ := item.(map[string]any)
		name, _ := entry["name"].(string)
		if name == "" {
			continue
		}
		methods, _ := entry["supportedGenerationMethods"].([]any)
		if slices.ContainsFunc(methods, func(m any) bool {
			s, _ := m.(string)
			return slices.Contains(servable, s)
		}) {
			ids = append(ids, name)
		}
	}
	return ids, nil
}

func (a *Adapter) ValidateAPIKey(ctx context.Context) api.Validation {
	return a.Validate(ctx, a.SendRequest)
}
