package google

import (
	"context"
	"strings"

	"github.com/opacedigital/ai-core/internal/llm"
	"github.com/opacedigital/ai-core/internal/payload"
	"github.com/opacedigital/ai-core/pkg/api"
	"go.uber.org/zap"
)

const defaultAspectRatio = "1:1"

func isImagen(model string) bool {
	return strings.HasPrefix(model, "imagen")
}

// GenerateImage calls Imagen models through :predict and Gemini image models
// through :generateContent with an IMAGE response modality.
func (a *Adapter) GenerateImage(ctx context.Context, prompt string, opts api.ImageOptions) (*api.ImageResult, error) {
	if err := a.RequireConfigured(); err != nil {
		return nil, err
	}

	model, err := a.ResolveModel(opts.Model, api.CategoryImage)
	if err != nil {
		return nil, err
	}

	method, body := "generateContent", GeminiImagePayload(prompt, opts)
	if isImagen(model) {
		method = "predict"
		body, err = ImagenPayload(prompt, opts, a.Registry.ParameterSchema(model))
		if err != nil {
			return nil, err
		}
	}

	a.Logger.Debug("sending image request", zap.String("model", model), zap.String("method", method))

	raw, err := a.HTTP.Post(ctx, a.url(model, method), body, a.headers())
	if err != nil {
		return nil, a.Wrap(err)
	}

	if isImagen(model) {
		return llm.ImageResult(api.Gemini, model, 0, predictions(raw))
	}
	return llm.ImageResult(api.Gemini, model, 0, inlineImages(raw))
}

// ImagenPayload builds a :predict body.
func ImagenPayload(prompt string, opts api.ImageOptions, schema map[string]api.ParameterSpec) (payload.Tree, error) {
	values := map[string]any{}
	if opts.PersonGeneration != "" {
		values["person_generation"] = opts.PersonGeneration
	}
	body, err := payload.Build(schema, values)
	if err != nil {
		return nil, err
	}

	aspect := opts.AspectRatio
	if aspect == "" {
		aspect = defaultAspectRatio
	}

	body["instances"] = []map[string]any{{"prompt": prompt}}
	body.Set("parameters.sampleCount", llm.ImageCount(opts.Count))
	body.Set("parameters.aspectRatio", aspect)
	if opts.PersonGeneration != "" {
		body.Set("parameters.personGeneration", opts.PersonGeneration)
	}
	if opts.SafetyFilterLevel != "" {
		body.Set("parameters.safetySetting", opts.SafetyFilterLevel)
	}
	return body, nil
}

// GeminiImagePayload builds a generateContent body asking for image output.
func GeminiImagePayload(prompt string, opts api.ImageOptions) payload.Tree {
	body := payload.Tree{
		"contents": []Content{{Role: string(api.User), Parts: []Part{{Text: prompt}}}},
	}
	body.Set("generationConfig.responseModalities", []string{"TEXT", "IMAGE"})
	if opts.AspectRatio != "" {
		body.Set("generationConfig.imageConfig.aspectRatio", opts.AspectRatio)
	}
	return body
}

func predictions(raw map[string]any) []api.ImageData {
	list, _ := raw["predictions"].([]any)
	data := make([]api.ImageData, 0, len(list))
	for _, item := range list {
		entry, _ := item.(map[string]any)
		b64, _ := entry["bytesBase64Encoded"].(string)
		if b64 == "" {
			continue
		}
		mime, _ := entry["mimeType"].(string)
		data = append(data, api.ImageData{URL: llm.DataURI(mime, b64)})
	}
	return data
}

func inlineImages(raw map[string]any) []api.ImageData {
	var data []api.ImageData
	candidates, _ := raw["candidates"].([]any)
	for _, c := range candidates {
		candidate, _ := c.(map[string]any)
		content, _ := candidate["content"].(map[string]any)
		parts, _ := content["parts"].([]any)
		for _, p := range parts {
			part, _ := p.(map[string]any)
			inline, ok := part["inlineData"].(map[string]any)
			if !ok {
				inline, _ = part["inline_data"].(map[string]any)
			}
			b64, _ := inline["data"].(string)
			if b64 == "" {
				continue
			}
			mime, _ := inline["mimeType"].(string)
			data = append(data, api.ImageData{URL: llm.DataURI(mime, b64)})
		}
	}
	return data
}
