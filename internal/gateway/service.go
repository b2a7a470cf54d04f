package gateway

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/opacedigital/ai-core/internal/llm"
	"github.com/opacedigital/ai-core/internal/normalize"
	"github.com/opacedigital/ai-core/internal/registry"
	"github.com/opacedigital/ai-core/internal/store/cache"
	"github.com/opacedigital/ai-core/pkg/api"
)

const (
	tracerName       = "github.com/opacedigital/ai-core/internal/gateway"
	defaultModelsTTL = 10 * time.Minute
)

// ChatRequest is one chat call. Provider accepts the canonical names and
// their aliases.
type ChatRequest struct {
	Provider string
	Messages []api.Message
	Options  api.GenerationOptions
	UseCase  string
}

type ImageRequest struct {
	Provider string
	Prompt   string
	Options  api.ImageOptions
	UseCase  string
}

// ProviderStatus describes one adapter for health and discovery endpoints.
type ProviderStatus struct {
	Name            api.ProviderName `json:"name"`
	Configured      bool             `json:"configured"`
	ImageGeneration bool             `json:"image_generation"`
}

// Service is the caller contract over the provider adapters.
type Service interface {
	Provider(name string) (llm.Provider, error)
	Providers() []ProviderStatus
	Chat(ctx context.Context, req *ChatRequest) (*api.NormalizedResult, error)
	GenerateImage(ctx context.Context, req *ImageRequest) (*api.ImageResult, error)
	AvailableModels(ctx context.Context, provider string) ([]string, error)
	ValidateAPIKey(ctx context.Context, provider string) (api.Validation, error)
	Registry() *registry.Registry
}

type Option func(*service)

// WithUsageRecorder sets the hook invoked after each successful call.
func WithUsageRecorder(r UsageRecorder) Option {
	return func(s *service) {
		if r != nil {
			s.usage = r
		}
	}
}

// WithCache caches model listings for ttl.
func WithCache(c cache.CacheService, ttl time.Duration) Option {
	return func(s *service) {
		s.cache = c
		if ttl > 0 {
			s.modelsTTL = ttl
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *service) { s.tracer = t }
}

type service struct {
	logger    *zap.Logger
	registry  *registry.Registry
	providers map[api.ProviderName]llm.Provider
	usage     UsageRecorder
	cache     cache.CacheService
	modelsTTL time.Duration
	tracer    trace.Tracer
}

func NewService(logger *zap.Logger, reg *registry.Registry, providers map[api.ProviderName]llm.Provider, opts ...Option) Service {
	s := &service{
		logger:    logger,
		registry:  reg,
		providers: providers,
		usage:     nopRecorder{},
		modelsTTL: defaultModelsTTL,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Registry() *registry.Registry {
	return s.registry
}

func (s *service) Provider(name string) (llm.Provider, error) {
	id, err := api.ParseProvider(name)
	if err != nil {
		return nil, err
	}
	p, ok := s.providers[id]
	if !ok {
		return nil, &api.ConfigurationError{Provider: id, Reason: "no adapter registered"}
	}
	return p, nil
}

func (s *service) Providers() []ProviderStatus {
	statuses := make([]ProviderStatus, 0, len(s.providers))
	for _, name := range api.Providers() {
		p, ok := s.providers[name]
		if !ok {
			continue
		}
		_, images := p.(llm.ImageProvider)
		statuses = append(statuses, ProviderStatus{
			Name:            name,
			Configured:      p.IsConfigured(),
			ImageGeneration: images,
		})
	}
	return statuses
}

func (s *service) Chat(ctx context.Context, req *ChatRequest) (*api.NormalizedResult, error) {
	ctx, span := s.tracer.Start(ctx, "gateway.Chat", trace.WithAttributes(
		attribute.String("llm.provider", req.Provider),
		attribute.String("llm.model.requested", req.Options.Model),
		attribute.String("llm.use_case", req.UseCase),
	))
	defer span.End()

	p, err := s.Provider(req.Provider)
	if err != nil {
		return nil, fail(span, err)
	}

	start := time.Now()
	res, err := p.SendRequest(ctx, req.Messages, req.Options)
	latency := time.Since(start)
	if err != nil {
		s.logger.Warn("Chat request failed",
			zap.String("provider", string(p.Name())),
			zap.String("model", req.Options.Model),
			zap.Duration("latency", latency),
			zap.Error(err),
		)
		return nil, fail(span, err)
	}

	span.SetAttributes(
		attribute.String("llm.model", res.Model),
		attribute.Int("llm.usage.total_tokens", res.Usage.TotalTokens),
		attribute.String("llm.finish_reason", string(res.FinishReason)),
	)

	if normalize.HasError(res) {
		detail := ""
		if res.Error != nil {
			detail = res.Error.Message
		}
		return nil, fail(span, &api.EmptyContentError{Provider: p.Name(), Model: res.Model, Detail: detail})
	}

	s.logger.Debug("Chat request completed",
		zap.String("provider", string(p.Name())),
		zap.String("model", res.Model),
		zap.Int("total_tokens", res.Usage.TotalTokens),
		zap.Duration("latency", latency),
	)
	s.usage.Record(chatEvent(req.UseCase, res, latency))

	return res, nil
}

func (s *service) GenerateImage(ctx context.Context, req *ImageRequest) (*api.ImageResult, error) {
	ctx, span := s.tracer.Start(ctx, "gateway.GenerateImage", trace.WithAttributes(
		attribute.String("llm.provider", req.Provider),
		attribute.String("llm.model.requested", req.Options.Model),
		attribute.String("llm.use_case", req.UseCase),
	))
	defer span.End()

	p, err := s.Provider(req.Provider)
	if err != nil {
		return nil, fail(span, err)
	}

	img, err := ImageProvider(p)
	if err != nil {
		return nil, fail(span, err)
	}

	start := time.Now()
	res, err := img.GenerateImage(ctx, req.Prompt, req.Options)
	latency := time.Since(start)
	if err != nil {
		s.logger.Warn("Image request failed",
			zap.String("provider", string(p.Name())),
			zap.String("model", req.Options.Model),
			zap.Error(err),
		)
		return nil, fail(span, err)
	}

	span.SetAttributes(
		attribute.String("llm.model", res.Model),
		attribute.Int("llm.images", len(res.Data)),
	)
	s.usage.Record(imageEvent(req.UseCase, res, latency))

	return res, nil
}

// AvailableModels lists models through the adapter, caching the result of
// configured providers.
func (s *service) AvailableModels(ctx context.Context, provider string) ([]string, error) {
	p, err := s.Provider(provider)
	if err != nil {
		return nil, err
	}

	key := modelsKey(p.Name())
	if s.cache != nil {
		var cached []string
		if err := s.cache.Get(ctx, key, &cached); err == nil && len(cached) > 0 {
			s.ensureRegistered(p.Name(), cached)
			return cached, nil
		}
	}

	models := p.AvailableModels(ctx)

	if s.cache != nil && p.IsConfigured() && len(models) > 0 {
		if err := s.cache.Set(ctx, key, models, s.modelsTTL); err != nil {
			s.logger.Warn("Failed to cache model listing", zap.String("provider", string(p.Name())), zap.Error(err))
		}
	}
	return models, nil
}

// ensureRegistered re-infers ids that came from a cache populated by another
// process.
func (s *service) ensureRegistered(provider api.ProviderName, ids []string) {
	for _, id := range ids {
		if !s.registry.ModelExists(id) {
			s.registry.RegisterModel(id, api.PatchFrom(registry.Infer(provider, id)))
		}
	}
}

func (s *service) ValidateAPIKey(ctx context.Context, provider string) (api.Validation, error) {
	p, err := s.Provider(provider)
	if err != nil {
		return api.Validation{}, err
	}

	v := p.ValidateAPIKey(ctx)
	if v.Valid && s.cache != nil {
		_ = s.cache.Delete(ctx, modelsKey(p.Name()))
	}
	return v, nil
}

func modelsKey(p api.ProviderName) string {
	return "models:" + string(p)
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
