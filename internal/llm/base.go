package llm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/opacedigital/ai-core/internal/httpclient"
	"github.com/opacedigital/ai-core/internal/normalize"
	"github.com/opacedigital/ai-core/internal/payload"
	"github.com/opacedigital/ai-core/internal/registry"
	"github.com/opacedigital/ai-core/pkg/api"
	"go.uber.org/zap"
)

// PingPrompt is sent by ValidateAPIKey.
const PingPrompt = "Hello"

// ChatCategories are the categories a chat request may default to.
var ChatCategories = []api.Category{api.CategoryText, api.CategoryReasoning}

// Base carries the state and behaviour shared by every adapter. Vendor
// adapters embed it.
type Base struct {
	Config
	provider  api.ProviderName
	minKeyLen int
}

func NewBase(provider api.ProviderName, minKeyLen int, cfg Config) Base {
	return Base{
		Config:    cfg,
		provider:  provider,
		minKeyLen: minKeyLen,
	}
}

func (b *Base) Name() api.ProviderName { return b.provider }

// IsConfigured is a local plausibility check on the key; it never calls out.
func (b *Base) IsConfigured() bool {
	key := strings.TrimSpace(b.APIKey)
	return key != "" && len(key) >= b.minKeyLen
}

// RequireConfigured returns a ConfigurationError when IsConfigured is false.
func (b *Base) RequireConfigured() error {
	if b.IsConfigured() {
		return nil
	}
	reason := "api key is missing"
	if strings.TrimSpace(b.APIKey) != "" {
		reason = fmt.Sprintf("api key is shorter than %d characters", b.minKeyLen)
	}
	return &api.ConfigurationError{Provider: b.provider, Reason: reason}
}

// ResolveModel picks the caller's model, canonicalised, or the best registry
// model of the given categories.
func (b *Base) ResolveModel(requested string, categories ...api.Category) (string, error) {
	if id := b.Registry.ResolveModelID(requested); id != "" {
		return id, nil
	}
	if len(categories) > 0 {
		if ids := b.Registry.ModelsByCategory(b.provider, categories...); len(ids) > 0 {
			return ids[0], nil
		}
	}
	if id, ok := b.Registry.PreferredModel(b.provider); ok {
		return id, nil
	}
	return "", &api.ModelUnavailableError{Provider: b.provider, Model: requested}
}

// Params maps the caller's logical parameters through the model's schema.
func (b *Base) Params(model string, opts api.GenerationOptions) (payload.Tree, error) {
	return payload.Build(b.Registry.ParameterSchema(model), opts.Params)
}

// Wrap converts transport failures into ProviderRequestError. Errors that are
// already typed pass through.
func (b *Base) Wrap(err error) error {
	if err == nil {
		return nil
	}

	var (
		reqErr     *api.ProviderRequestError
		payloadErr *api.UnrecognizedPayloadError
	)
	if errors.As(err, &reqErr) || errors.As(err, &payloadErr) {
		return err
	}

	var upstream *httpclient.UpstreamError
	if errors.As(err, &upstream) {
		return &api.ProviderRequestError{
			Provider:   b.provider,
			StatusCode: upstream.StatusCode,
			Message:    upstream.Message(),
			Err:        err,
		}
	}
	return &api.ProviderRequestError{Provider: b.provider, Message: err.Error(), Err: err}
}

// Complete posts a chat body and normalizes the reply.
func (b *Base) Complete(ctx context.Context, model, endpoint string, body any, headers map[string]string) (*api.NormalizedResult, error) {
	b.Logger.Debug("sending chat request",
		zap.String("provider", string(b.provider)),
		zap.String("model", model),
		zap.String("url", endpoint),
	)

	raw, err := b.HTTP.Post(ctx, endpoint, body, headers)
	if err != nil {
		return nil, b.Wrap(err)
	}

	dialect, err := normalize.DialectFor(b.provider, model)
	if err != nil {
		return nil, err
	}
	return b.Normalizer.Normalize(dialect, model, raw)
}

// MergeModels runs a live listing and merges it with the registry. Ids the
// registry has never seen are registered via registry.Infer. The result is
// the registry-known ids the vendor reported, in registry order, followed by
// the remaining reported ids in vendor order. Any failure, or an empty
// result, falls back to the registry's own list.
func (b *Base) MergeModels(ctx context.Context, list func(context.Context) ([]string, error)) []string {
	known := b.Registry.ModelsByProvider(b.provider)
	if !b.IsConfigured() {
		return known
	}

	reported, err := list(ctx)
	if err != nil || len(reported) == 0 {
		b.Logger.Warn("model listing failed, using registry",
			zap.String("provider", string(b.provider)),
			zap.Error(err),
		)
		return known
	}

	live := make(map[string]bool, len(reported))
	var ordered []string
	for _, raw := range reported {
		id := b.Registry.ResolveModelID(raw)
		if id == "" || live[id] {
			continue
		}
		live[id] = true
		ordered = append(ordered, id)
		if !b.Registry.ModelExists(id) {
			b.Registry.RegisterModel(id, api.PatchFrom(registry.Infer(b.provider, id)))
		}
	}

	// Anything reported but absent from the snapshot goes to the tail, whether
	// this call or a parallel one registered it.
	seen := make(map[string]bool, len(known))
	out := make([]string, 0, len(ordered))
	for _, id := range known {
		seen[id] = true
		if live[id] {
			out = append(out, id)
		}
	}
	for _, id := range ordered {
		if !seen[id] {
			out = append(out, id)
		}
	}

	if len(out) == 0 {
		return known
	}
	return out
}

// ListDataIDs reads a data[].id model listing, the shape OpenAI, xAI and
// Anthropic share.
func (b *Base) ListDataIDs(ctx context.Context, endpoint string, query url.Values, headers map[string]string) ([]string, error) {
	raw, err := b.HTTP.Get(ctx, endpoint, query, headers)
	if err != nil {
		return nil, b.Wrap(err)
	}
	data, _ := raw["data"].([]any)
	ids := make([]string, 0, len(data))
	for _, item := range data {
		entry, _ := item.(map[string]any)
		if id, _ := entry["id"].(string); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Validate sends one PingPrompt through send. It never returns an error;
// failures are reported in the Validation.
func (b *Base) Validate(ctx context.Context, send func(context.Context, []api.Message, api.GenerationOptions) (*api.NormalizedResult, error)) api.Validation {
	v := api.Validation{Provider: b.provider}

	if err := b.RequireConfigured(); err != nil {
		v.Error = err.Error()
		return v
	}

	model, err := b.ResolveModel("", ChatCategories...)
	if err != nil {
		v.Error = err.Error()
		return v
	}
	v.Model = model

	res, err := send(ctx, []api.Message{api.Text(api.User, PingPrompt)}, api.GenerationOptions{Model: model})
	if err != nil {
		v.Error = err.Error()
		return v
	}

	v.Valid = true
	if res.Model != "" {
		v.Model = res.Model
	}
	return v
}

// SystemPrompt returns the first system message's text and the remaining
// messages. Later system messages are dropped.
func SystemPrompt(messages []api.Message) (string, []api.Message) {
	var (
		system string
		found  bool
		rest   = make([]api.Message, 0, len(messages))
	)
	for _, m := range messages {
		if m.Role == api.System {
			if !found {
				system = m.Content.String()
				found = true
			}
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}
