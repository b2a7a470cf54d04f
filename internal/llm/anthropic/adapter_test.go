package anthropic_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opacedigital/ai-core/internal/llm"
	"github.com/opacedigital/ai-core/internal/llm/anthropic"
	"github.com/opacedigital/ai-core/internal/registry"
	"github.com/opacedigital/ai-core/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "sk-ant-api03-0123456789"

func newAdapter(t *testing.T, handler http.HandlerFunc) (*anthropic.Adapter, *registry.Registry) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	reg := registry.NewDefault()
	return anthropic.New(llm.Config{APIKey: testKey, BaseURL: server.URL, Registry: reg}), reg
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestAnthropicChat(t *testing.T) {
	adapter, _ := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, testKey, r.Header.Get("x-api-key"))
		assert.Equal(t, anthropic.DefaultVersion, r.Header.Get("anthropic-version"))

		body := readBody(t, r)
		assert.Equal(t, "claude-3-5-sonnet-20241022", body["model"])
		assert.Equal(t, "You are terse.", body["system"])
		assert.Equal(t, float64(1024), body["max_tokens"])
		assert.Equal(t, []any{"###"}, body["stop_sequences"])
		assert.Equal(t, false, body["stream"])
		assert.NotContains(t, body, "top_k")

		messages := body["messages"].([]any)
		require.Len(t, messages, 2)
		assert.Equal(t, "user", messages[0].(map[string]any)["role"])
		assert.Equal(t, "assistant", messages[1].(map[string]any)["role"])

		_, _ = w.Write([]byte(`{
			"id":"msg_01","type":"message","role":"assistant","model":"claude-3-5-sonnet-20241022",
			"content":[{"type":"text","text":"Sure."}],
			"stop_reason":"max_tokens","usage":{"input_tokens":12,"output_tokens":3}
		}`))
	})

	res, err := adapter.SendRequest(context.Background(), []api.Message{
		api.Text(api.System, "You are terse."),
		api.Text(api.User, "Hi"),
		api.Text(api.Assistant, "Hello"),
		api.Text(api.System, "ignored"),
	}, api.GenerationOptions{
		Model:  "claude-3-5-sonnet-latest",
		Params: map[string]any{"max_tokens": 1024},
		Stop:   []string{"###"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Sure.", res.Content)
	assert.Equal(t, "msg_01", res.ID)
	assert.Equal(t, api.FinishLength, res.FinishReason)
	assert.Equal(t, 15, res.Usage.TotalTokens)
}

func TestAnthropicMaxTokensFloor(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  float64
	}{
		{"unknown model gets floor", "claude-next-preview", anthropic.MaxTokensFloor},
		{"seeded model uses schema default", "claude-3-haiku-20240307", 4096},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, _ := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.want, readBody(t, r)["max_tokens"])
				_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"ok"}],"stop_reason":"end_turn"}`))
			})
			_, err := adapter.SendRequest(context.Background(), []api.Message{api.Text(api.User, "x")}, api.GenerationOptions{Model: tt.model})
			require.NoError(t, err)
		})
	}
}

func TestAnthropicFloorCappedByModel(t *testing.T) {
	adapter, reg := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, float64(2048), readBody(t, r)["max_tokens"])
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"ok"}]}`))
	})
	reg.RegisterModel("claude-tiny", api.ModelPatch{Provider: api.Anthropic, MaxTokens: 2048})

	_, err := adapter.SendRequest(context.Background(), []api.Message{api.Text(api.User, "x")}, api.GenerationOptions{Model: "claude-tiny"})
	require.NoError(t, err)
}

func TestAnthropicImageBlocks(t *testing.T) {
	adapter, _ := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		messages := readBody(t, r)["messages"].([]any)
		blocks := messages[0].(map[string]any)["content"].([]any)
		require.Len(t, blocks, 3)

		assert.Equal(t, map[string]any{"type": "text", "text": "describe"}, blocks[0])
		assert.Equal(t, map[string]any{
			"type":   "image",
			"source": map[string]any{"type": "base64", "media_type": "image/jpeg", "data": "AAAA"},
		}, blocks[1])
		assert.Equal(t, map[string]any{
			"type":   "image",
			"source": map[string]any{"type": "url", "url": "https://example.com/cat.png"},
		}, blocks[2])

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"a cat"}]}`))
	})

	_, err := adapter.SendRequest(context.Background(), []api.Message{{
		Role: api.User,
		Content: api.Content{Parts: []api.ContentPart{
			{Type: api.PartText, Text: "describe"},
			{Type: api.PartImageURL, ImageURL: &api.ImageURL{URL: "data:image/jpeg;base64,AAAA"}},
			{Type: api.PartImageURL, ImageURL: &api.ImageURL{URL: "https://example.com/cat.png"}},
		}},
	}}, api.GenerationOptions{Model: "claude-sonnet-4-20250514"})
	require.NoError(t, err)
}

func TestAnthropicUpstreamError(t *testing.T) {
	adapter, _ := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	})

	v := adapter.ValidateAPIKey(context.Background())
	assert.False(t, v.Valid)
	assert.Contains(t, v.Error, "invalid x-api-key")

	_, err := adapter.SendRequest(context.Background(), []api.Message{api.Text(api.User, "x")}, api.GenerationOptions{})
	var reqErr *api.ProviderRequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusUnauthorized, reqErr.StatusCode)
}

func TestAnthropicAvailableModels(t *testing.T) {
	adapter, _ := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "1000", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"data":[{"id":"claude-3-haiku-20240307","type":"model"},{"id":"claude-opus-4-1-20250805","type":"model"}]}`))
	})

	assert.Equal(t, []string{"claude-opus-4-1-20250805", "claude-3-haiku-20240307"}, adapter.AvailableModels(context.Background()))
}

func TestAnthropicNotConfigured(t *testing.T) {
	adapter := anthropic.New(llm.Config{})
	assert.False(t, adapter.IsConfigured())
	assert.NotEmpty(t, adapter.AvailableModels(context.Background()))

	_, err := adapter.SendRequest(context.Background(), nil, api.GenerationOptions{})
	var cfgErr *api.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}
