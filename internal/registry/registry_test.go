package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/opacedigital/ai-core/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModelID(t *testing.T) {
	r := NewDefault()

	tests := []struct {
		raw  string
		want string
	}{
		{"gpt-4o", "gpt-4o"},
		{"  gpt-4o  ", "gpt-4o"},
		{"models/gemini-2.5-pro", "gemini-2.5-pro"},
		{"models/models/gemini-2.5-pro", "gemini-2.5-pro"},
		{"openai/gpt-4o", "gpt-4o"},
		{"google/models/gemini-2.5-flash", "gemini-2.5-flash"},
		{"claude-3-5-sonnet-latest", "claude-3-5-sonnet-20241022"},
		{"anthropic/claude-3-5-sonnet-latest", "claude-3-5-sonnet-20241022"},
		{"gpt-4o-latest", "chatgpt-4o-latest"},
		{"brand-new-model", "brand-new-model"},
		{"vendor/brand-new-model", "vendor/brand-new-model"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := r.ResolveModelID(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, r.ResolveModelID(got), "resolution must be idempotent")
		})
	}
}

func TestResolveModelID_WhitespaceAfterPrefix(t *testing.T) {
	r := NewDefault()

	tests := []struct {
		raw  string
		want string
	}{
		{"models/ gpt-4o", "gpt-4o"},
		{"openai/ gpt-4o", "gpt-4o"},
		{"google/models/ gemini-2.5-pro", "gemini-2.5-pro"},
		{"models/\tclaude-opus-4-1", "claude-opus-4-1-20250805"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := r.ResolveModelID(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, r.ResolveModelID(got))
			assert.True(t, r.ModelExists(tt.raw))
		})
	}
}

func TestAddAlias_RejectsCycles(t *testing.T) {
	r := New(nil, nil)

	assert.True(t, r.AddAlias("a", "b"))
	assert.True(t, r.AddAlias("b", "c"))
	assert.False(t, r.AddAlias("c", "a"))
	assert.False(t, r.AddAlias("self", "self"))

	assert.Equal(t, "c", r.ResolveModelID("a"))
	assert.Equal(t, "c", r.ResolveModelID("c"))
}

func TestRegisterModel_MergesNonDestructively(t *testing.T) {
	r := New(nil, nil)

	r.RegisterModel("x", api.ModelPatch{Provider: api.OpenAI})
	r.RegisterModel("x", api.ModelPatch{Category: api.CategoryText})

	m, ok := r.ModelConfig("x")
	require.True(t, ok)
	assert.Equal(t, api.OpenAI, m.Provider)
	assert.Equal(t, api.CategoryText, m.Category)
	assert.Equal(t, api.EndpointChat, m.Endpoint)
}

func TestRegisterModel_MergesParametersAndExtra(t *testing.T) {
	r := New(nil, nil)
	yes := true

	r.RegisterModel("x", api.ModelPatch{
		Parameters: map[string]api.ParameterSpec{"temperature": {Type: api.ParamNumber, RequestKey: "temperature"}},
		Extra:      map[string]any{"source": "seed"},
	})
	r.RegisterModel("x", api.ModelPatch{
		Parameters:     map[string]api.ParameterSpec{"max_tokens": {Type: api.ParamNumber, RequestKey: "max_tokens"}},
		Extra:          map[string]any{"owner": "lab"},
		SupportsImages: &yes,
	})

	m, ok := r.ModelConfig("x")
	require.True(t, ok)
	assert.Len(t, m.Parameters, 2)
	assert.Equal(t, "seed", m.Extra["source"])
	assert.Equal(t, "lab", m.Extra["owner"])
	assert.True(t, m.SupportsImages)
}

func TestModelConfig_ReturnsCopy(t *testing.T) {
	r := NewDefault()

	m, ok := r.ModelConfig("gpt-4o")
	require.True(t, ok)
	delete(m.Parameters, "temperature")

	assert.Contains(t, r.ParameterSchema("gpt-4o"), "temperature")
}

func TestUnknownModelDefaults(t *testing.T) {
	r := NewDefault()

	assert.False(t, r.ModelExists("nope"))
	assert.Empty(t, r.ParameterSchema("nope"))
	assert.NotNil(t, r.ParameterSchema("nope"))
	assert.Equal(t, api.EndpointChat, r.Endpoint("nope"))
}

func TestEndpointRouting(t *testing.T) {
	r := NewDefault()

	assert.Equal(t, api.EndpointResponses, r.Endpoint("gpt-5"))
	assert.Equal(t, api.EndpointResponses, r.Endpoint("o3-mini"))
	assert.Equal(t, api.EndpointChat, r.Endpoint("gpt-4o"))
	assert.Equal(t, api.EndpointImage, r.Endpoint("dall-e-3"))
	assert.Equal(t, "reasoning.effort", r.ParameterSchema("gpt-5")["reasoning_effort"].RequestKey)
}

func TestPreferredModel(t *testing.T) {
	r := NewDefault()

	tests := []struct {
		provider api.ProviderName
		want     string
	}{
		{api.OpenAI, "gpt-5"},
		{api.Anthropic, "claude-opus-4-1-20250805"},
		{api.Gemini, "gemini-2.5-pro"},
		{api.Grok, "grok-4"},
	}
	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			got, ok := r.PreferredModel(tt.provider)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	empty := New(nil, nil)
	_, ok := empty.PreferredModel(api.OpenAI)
	assert.False(t, ok)
}

func TestModelsByCategory(t *testing.T) {
	r := NewDefault()

	images := r.ModelsByCategory(api.Gemini, api.CategoryImage)
	require.NotEmpty(t, images)
	assert.Equal(t, "imagen-4.0-generate-001", images[0])
	for _, id := range images {
		m, _ := r.ModelConfig(id)
		assert.Equal(t, api.CategoryImage, m.Category)
	}
}

func TestExportProviderMetadata(t *testing.T) {
	r := NewDefault()
	meta := r.ExportProviderMetadata()

	assert.Len(t, meta, 4)
	assert.Equal(t, "gpt-5", meta[api.OpenAI].Preferred)
	assert.Equal(t, len(r.ModelsByProvider(api.Grok)), len(meta[api.Grok].Models))
}

func TestInfer(t *testing.T) {
	tests := []struct {
		provider api.ProviderName
		id       string
		category api.Category
		endpoint api.Endpoint
	}{
		{api.OpenAI, "gpt-5.1-codex", api.CategoryReasoning, api.EndpointResponses},
		{api.OpenAI, "o5-preview", api.CategoryReasoning, api.EndpointResponses},
		{api.OpenAI, "gpt-4o-2024-11-20", api.CategoryText, api.EndpointChat},
		{api.OpenAI, "text-embedding-3-large", api.CategoryEmbedding, api.EndpointEmbeddings},
		{api.OpenAI, "gpt-image-2", api.CategoryImage, api.EndpointImage},
		{api.Gemini, "imagen-5.0-generate", api.CategoryImage, api.EndpointImage},
		{api.Grok, "grok-4-mini-fast", api.CategoryReasoning, api.EndpointChat},
		{api.Anthropic, "claude-5-thinking", api.CategoryReasoning, api.EndpointChat},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			m := Infer(tt.provider, tt.id)
			assert.Equal(t, tt.provider, m.Provider)
			assert.Equal(t, tt.category, m.Category)
			assert.Equal(t, tt.endpoint, m.Endpoint)
			assert.NotNil(t, m.Parameters)
		})
	}
}

func TestRegisterModel_ConcurrentWriters(t *testing.T) {
	r := NewDefault()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("discovered-%d", i%10)
			r.RegisterModel(id, api.PatchFrom(Infer(api.OpenAI, id)))
			_ = r.ModelsByProvider(api.OpenAI)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		assert.True(t, r.ModelExists(fmt.Sprintf("discovered-%d", i)))
	}
}
