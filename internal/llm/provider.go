// Package llm holds the adapter contracts and the plumbing every vendor
// adapter shares.
package llm

import (
	"context"

	"github.com/opacedigital/ai-core/internal/httpclient"
	"github.com/opacedigital/ai-core/internal/normalize"
	"github.com/opacedigital/ai-core/internal/registry"
	"github.com/opacedigital/ai-core/pkg/api"
	"go.uber.org/zap"
)

type Provider interface {
	Name() api.ProviderName
	IsConfigured() bool
	SendRequest(ctx context.Context, messages []api.Message, opts api.GenerationOptions) (*api.NormalizedResult, error)
	// AvailableModels never fails; it falls back to the registry.
	AvailableModels(ctx context.Context) []string
	ValidateAPIKey(ctx context.Context) api.Validation
}

type ImageProvider interface {
	Name() api.ProviderName
	IsConfigured() bool
	GenerateImage(ctx context.Context, prompt string, opts api.ImageOptions) (*api.ImageResult, error)
}

// Config is what every adapter is constructed from. Collaborators left nil
// are filled by WithDefaults.
type Config struct {
	APIKey       string
	BaseURL      string
	Organization string
	Version      string

	HTTP       httpclient.Client
	Registry   *registry.Registry
	Normalizer *normalize.Normalizer
	Logger     *zap.Logger
}

// WithDefaults fills the optional collaborators.
func (c Config) WithDefaults(baseURL string) Config {
	if c.BaseURL == "" {
		c.BaseURL = baseURL
	}
	if c.HTTP == nil {
		c.HTTP = httpclient.New(nil)
	}
	if c.Registry == nil {
		c.Registry = registry.NewDefault()
	}
	if c.Normalizer == nil {
		c.Normalizer = normalize.New()
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
