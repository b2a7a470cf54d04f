package gateway

import (
	"errors"
	"fmt"

	"github.com/opacedigital/ai-core/internal/llm"
	"github.com/opacedigital/ai-core/internal/llm/anthropic"
	"github.com/opacedigital/ai-core/internal/llm/google"
	"github.com/opacedigital/ai-core/internal/llm/openai"
	"github.com/opacedigital/ai-core/internal/llm/xai"
	"github.com/opacedigital/ai-core/pkg/api"
)

// ErrImagesUnsupported is returned when image generation is requested from a
// provider that has no image adapter.
var ErrImagesUnsupported = errors.New("provider does not support image generation")

// NewProvider builds the chat adapter for name.
func NewProvider(name api.ProviderName, cfg llm.Config) (llm.Provider, error) {
	switch name {
	case api.OpenAI:
		return openai.New(cfg), nil
	case api.Anthropic:
		return anthropic.New(cfg), nil
	case api.Gemini:
		return google.New(cfg), nil
	case api.Grok:
		return xai.New(cfg), nil
	default:
		return nil, &api.UnsupportedProviderError{Provider: string(name)}
	}
}

// ImageProvider returns the image side of p.
func ImageProvider(p llm.Provider) (llm.ImageProvider, error) {
	if img, ok := p.(llm.ImageProvider); ok {
		return img, nil
	}
	return nil, fmt.Errorf("%s: %w", p.Name(), ErrImagesUnsupported)
}
