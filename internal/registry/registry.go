// Package registry is the process-wide catalog of models: identity
// resolution, parameter schemas and endpoint routing per model.
package registry

import (
	"maps"
	"strings"
	"sync"

	"github.com/opacedigital/ai-core/internal/modelsort"
	"github.com/opacedigital/ai-core/pkg/api"
)

const modelsPrefix = "models/"

// Registry is safe for concurrent use. Reads dominate; writes happen when a
// provider lists a model for the first time.
type Registry struct {
	mu      sync.RWMutex
	models  map[string]api.ModelDescriptor
	aliases map[string]string
	sorter  *modelsort.Sorter
}

// New builds a registry seeded with the given models and aliases.
func New(seed []api.ModelDescriptor, aliases map[string]string) *Registry {
	r := &Registry{
		models:  make(map[string]api.ModelDescriptor, len(seed)),
		aliases: make(map[string]string, len(aliases)),
		sorter:  modelsort.Default(),
	}
	for _, m := range seed {
		r.RegisterModel(m.ID, api.PatchFrom(m))
	}
	for alias, target := range aliases {
		r.AddAlias(alias, target)
	}
	return r
}

// NewDefault builds a registry from the static catalog.
func NewDefault() *Registry {
	return New(SeedCatalog(), SeedAliases())
}

// strip removes vendor prefixes: any number of leading "models/" segments
// and one leading "<provider>/" segment.
func strip(raw string) string {
	id := strings.TrimSpace(raw)
	for {
		before := id
		id = strings.TrimSpace(strings.TrimPrefix(id, modelsPrefix))
		if head, rest, ok := strings.Cut(id, "/"); ok {
			if _, err := api.ParseProvider(head); err == nil {
				id = strings.TrimSpace(rest)
			}
		}
		if id == before {
			return id
		}
	}
}

// resolveLocked follows aliases to a fixed point. AddAlias guarantees the
// alias graph is acyclic, so this terminates.
func (r *Registry) resolveLocked(raw string) string {
	id := strip(raw)
	for {
		target, ok := r.aliases[id]
		if !ok {
			return id
		}
		id = target
	}
}

// ResolveModelID returns the canonical id for a raw identifier. Resolving an
// already canonical id returns it unchanged.
func (r *Registry) ResolveModelID(raw string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveLocked(raw)
}

// AddAlias maps alias onto target. Aliases that would create a cycle are
// ignored and reported as false.
func (r *Registry) AddAlias(alias, target string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	alias = strip(alias)
	resolved := r.resolveLocked(target)
	if alias == "" || resolved == "" || resolved == alias {
		return false
	}
	r.aliases[alias] = resolved
	return true
}

func (r *Registry) ModelExists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.models[r.resolveLocked(id)]
	return ok
}

// RegisterModel inserts or merges metadata for id. Fields absent from the
// patch keep their current values; parameter and extra maps merge per key.
func (r *Registry) RegisterModel(id string, patch api.ModelPatch) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id = r.resolveLocked(id)
	if id == "" {
		return
	}

	m, ok := r.models[id]
	if !ok {
		m = api.ModelDescriptor{ID: id, Endpoint: api.EndpointChat}
	}

	if patch.Name != "" {
		m.Name = patch.Name
	}
	if patch.Provider != "" {
		m.Provider = patch.Provider
	}
	if patch.Category != "" {
		m.Category = patch.Category
	}
	if patch.Endpoint != "" {
		m.Endpoint = patch.Endpoint
	}
	if patch.MaxTokens > 0 {
		m.MaxTokens = patch.MaxTokens
	}
	if patch.SupportsImages != nil {
		m.SupportsImages = *patch.SupportsImages
	}
	if patch.SupportsFunctions != nil {
		m.SupportsFunctions = *patch.SupportsFunctions
	}
	if len(patch.Parameters) > 0 {
		params := maps.Clone(m.Parameters)
		if params == nil {
			params = make(map[string]api.ParameterSpec, len(patch.Parameters))
		}
		maps.Copy(params, patch.Parameters)
		m.Parameters = params
	}
	if len(patch.Extra) > 0 {
		extra := maps.Clone(m.Extra)
		if extra == nil {
			extra = make(map[string]any, len(patch.Extra))
		}
		maps.Copy(extra, patch.Extra)
		m.Extra = extra
	}

	r.models[id] = m
}

// ModelConfig returns a copy of the descriptor for id.
func (r *Registry) ModelConfig(id string) (api.ModelDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[r.resolveLocked(id)]
	if !ok {
		return api.ModelDescriptor{}, false
	}
	return clone(m), true
}

// ParameterSchema returns the model's parameter schema, or an empty map for
// unknown models so adapters can fall back to the base payload.
func (r *Registry) ParameterSchema(id string) map[string]api.ParameterSpec {
	m, ok := r.ModelConfig(id)
	if !ok || m.Parameters == nil {
		return map[string]api.ParameterSpec{}
	}
	return m.Parameters
}

// Endpoint returns the routing hint for id, defaulting to chat.
func (r *Registry) Endpoint(id string) api.Endpoint {
	m, ok := r.ModelConfig(id)
	if !ok || m.Endpoint == "" {
		return api.EndpointChat
	}
	return m.Endpoint
}

// ModelsByProvider returns the provider's ids, best first.
func (r *Registry) ModelsByProvider(provider api.ProviderName) []string {
	return r.ModelsByCategory(provider)
}

// ModelsByCategory returns the provider's ids restricted to the given
// categories (all categories when none are given), best first.
func (r *Registry) ModelsByCategory(provider api.ProviderName, categories ...api.Category) []string {
	r.mu.RLock()
	ids := make([]string, 0)
	for id, m := range r.models {
		if m.Provider != provider {
			continue
		}
		if len(categories) > 0 && !containsCategory(categories, m.Category) {
			continue
		}
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	return r.sorter.Sort(ids)
}

// PreferredModel returns the first model of ModelsByProvider.
func (r *Registry) PreferredModel(provider api.ProviderName) (string, bool) {
	ids := r.ModelsByProvider(provider)
	if len(ids) == 0 {
		return "", false
	}
	return ids[0], true
}

// ExportProviderMetadata dumps the catalog of every provider for UIs.
func (r *Registry) ExportProviderMetadata() map[api.ProviderName]api.ProviderMetadata {
	out := make(map[api.ProviderName]api.ProviderMetadata, len(api.Providers()))
	for _, p := range api.Providers() {
		ids := r.ModelsByProvider(p)
		meta := api.ProviderMetadata{Provider: p, Models: make([]api.ModelDescriptor, 0, len(ids))}
		if len(ids) > 0 {
			meta.Preferred = ids[0]
		}
		for _, id := range ids {
			if m, ok := r.ModelConfig(id); ok {
				meta.Models = append(meta.Models, m)
			}
		}
		out[p] = meta
	}
	return out
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

func containsCategory(list []api.Category, c api.Category) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}

func clone(m api.ModelDescriptor) api.ModelDescriptor {
	m.Parameters = maps.Clone(m.Parameters)
	m.Extra = maps.Clone(m.Extra)
	return m
}
