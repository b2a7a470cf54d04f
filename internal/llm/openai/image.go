package openai

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/opacedigital/ai-core/internal/llm"
	"github.com/opacedigital/ai-core/internal/payload"
	"github.com/opacedigital/ai-core/pkg/api"
	"go.uber.org/zap"
)

// sizes maps aspect ratios onto the sizes each model family accepts.
var sizes = map[string]map[string]string{
	"dall-e-3": {
		"1:1": "1024x1024", "16:9": "1792x1024", "4:3": "1792x1024", "3:2": "1792x1024",
		"9:16": "1024x1792", "3:4": "1024x1792", "2:3": "1024x1792",
	},
	"gpt-image": {
		"1:1": "1024x1024", "16:9": "1536x1024", "4:3": "1536x1024", "3:2": "1536x1024",
		"9:16": "1024x1536", "3:4": "1024x1536", "2:3": "1024x1536",
	},
	"dall-e-2": {"1:1": "1024x1024"},
}

func family(model string) string {
	switch {
	case strings.HasPrefix(model, "gpt-image"):
		return "gpt-image"
	case strings.HasPrefix(model, "dall-e-2"):
		return "dall-e-2"
	default:
		return "dall-e-3"
	}
}

// Size returns the size parameter for model and aspect ratio, defaulting to
// a square image.
func Size(model, aspect string) string {
	if s, ok := sizes[family(model)][aspect]; ok {
		return s
	}
	return "1024x1024"
}

// gpt-image models speak a different quality vocabulary than dall-e-3.
var gptImageQuality = map[string]string{"standard": "auto", "hd": "high"}

func (a *Adapter) GenerateImage(ctx context.Context, prompt string, opts api.ImageOptions) (*api.ImageResult, error) {
	if err := a.RequireConfigured(); err != nil {
		return nil, err
	}

	model, err := a.ResolveModel(opts.Model, api.CategoryImage)
	if err != nil {
		return nil, err
	}

	body, err := ImagePayload(model, prompt, opts, a.Registry.ParameterSchema(model))
	if err != nil {
		return nil, err
	}

	a.Logger.Debug("sending image request", zap.String("model", model), zap.Any("size", body["size"]))

	raw, err := a.HTTP.Post(ctx, a.url("/images/generations"), body, a.headers())
	if err != nil {
		return nil, a.Wrap(err)
	}
	return ImageResponse(api.OpenAI, model, raw)
}

// ImagePayload builds an /images/generations body for model. The schema's
// quality and style entries are mapped through payload.Build for the
// families that accept them.
func ImagePayload(model, prompt string, opts api.ImageOptions, schema map[string]api.ParameterSpec) (payload.Tree, error) {
	quality := opts.Quality
	if spec, ok := schema["quality"]; ok && quality != "" && len(spec.Options) > 0 && !slices.Contains(spec.Options, quality) {
		return nil, &api.InvalidParameterError{
			Name:  "quality",
			Value: quality,
			Err:   fmt.Errorf("must be one of [%s]", strings.Join(spec.Options, ", ")),
		}
	}

	n := llm.ImageCount(opts.Count)
	fam := family(model)

	mapped := map[string]api.ParameterSpec{}
	switch fam {
	case "dall-e-3":
		n = 1
		for _, key := range []string{"quality", "style"} {
			if spec, ok := schema[key]; ok {
				mapped[key] = spec
			}
		}
	case "gpt-image":
		// No schema default: the dall-e vocabulary does not apply.
		if spec, ok := schema["quality"]; ok {
			spec.Default = nil
			mapped["quality"] = spec
		}
		if q, ok := gptImageQuality[quality]; ok {
			quality = q
		}
	}

	body, err := payload.Build(mapped, map[string]any{"quality": quality})
	if err != nil {
		return nil, err
	}

	body["model"] = model
	body["prompt"] = prompt
	body["n"] = n
	body["size"] = Size(model, opts.AspectRatio)
	if fam != "gpt-image" {
		body["response_format"] = "b64_json"
	}
	return body, nil
}

// ImageResponse decodes data[] entries carrying url or b64_json.
func ImageResponse(provider api.ProviderName, model string, raw map[string]any) (*api.ImageResult, error) {
	entries, _ := raw["data"].([]any)
	data := make([]api.ImageData, 0, len(entries))
	for _, item := range entries {
		entry, _ := item.(map[string]any)
		revised, _ := entry["revised_prompt"].(string)
		if b64, _ := entry["b64_json"].(string); b64 != "" {
			data = append(data, api.ImageData{URL: llm.DataURI("image/png", b64), RevisedPrompt: revised})
			continue
		}
		if url, _ := entry["url"].(string); url != "" {
			data = append(data, api.ImageData{URL: url, RevisedPrompt: revised})
		}
	}

	created, _ := raw["created"].(float64)
	return llm.ImageResult(provider, model, int64(created), data)
}
