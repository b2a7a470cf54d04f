package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opacedigital/ai-core/internal/analytics"
	"github.com/opacedigital/ai-core/internal/gateway"
	"github.com/opacedigital/ai-core/internal/llm"
	"github.com/opacedigital/ai-core/internal/llm/openai"
	"github.com/opacedigital/ai-core/internal/registry"
	"github.com/opacedigital/ai-core/internal/store/cache"
	"github.com/opacedigital/ai-core/internal/store/sqlite"
	"github.com/opacedigital/ai-core/pkg/api"
)

// fakeOpenAI answers the two endpoints the gateway needs for gpt-4o.
func fakeOpenAI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"gpt-4o"},{"id":"gpt-4o-2099-01-01"}]}`))
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id":"chatcmpl-e2e","object":"chat.completion","created":1720000000,"model":"gpt-4o",
			"choices":[{"index":0,"message":{"role":"assistant","content":"hi"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":3,"completion_tokens":1,"total_tokens":4}
		}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newEndToEnd(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	upstream := fakeOpenAI(t)
	reg := registry.NewDefault()

	repo, err := sqlite.NewSQLiteStorage(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	ingestor := analytics.NewIngestor(zap.NewNop(), repo, analytics.WithBatchSize(1))
	ingestor.Start(context.Background())
	t.Cleanup(ingestor.Stop)

	providers := map[api.ProviderName]llm.Provider{
		api.OpenAI: openai.New(llm.Config{
			APIKey:   "sk-e2e-0123456789abcdefghij",
			BaseURL:  upstream.URL + "/v1",
			Registry: reg,
		}),
	}

	svc := gateway.NewService(zap.NewNop(), reg, providers,
		gateway.WithUsageRecorder(ingestor),
		gateway.WithCache(cache.NewMemoryCache(), time.Minute),
	)

	return New(testConfig(), zap.NewNop(), svc, WithAnalytics(analytics.NewService(repo)))
}

func TestEndToEndChatIsRecorded(t *testing.T) {
	s := newEndToEnd(t)

	w := do(s, http.MethodPost, "/v1/chat",
		`{"provider":"openai","model":"openai/gpt-4o","messages":[{"role":"user","content":"Say hi"}],"use_case":"smoke"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res api.NormalizedResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "hi", res.Content)
	assert.Equal(t, 4, res.Usage.TotalTokens)

	assert.Eventually(t, func() bool {
		w := do(s, http.MethodGet, "/v1/usage?use_case=smoke", "", nil)
		var body struct {
			Data []struct {
				Requests int `json:"requests"`
			} `json:"data"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		return len(body.Data) == 1 && body.Data[0].Requests == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestEndToEndListModels(t *testing.T) {
	s := newEndToEnd(t)

	w := do(s, http.MethodGet, "/v1/providers/openai/models", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Object string   `json:"object"`
		Data   []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "list", body.Object)
	assert.Contains(t, body.Data, "gpt-4o")
	assert.Contains(t, body.Data, "gpt-4o-2099-01-01")

	// discovered ids become resolvable
	w = do(s, http.MethodGet, "/v1/registry/models/gpt-4o-2099-01-01", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEndToEndUnconfiguredProvider(t *testing.T) {
	s := newEndToEnd(t)

	w := do(s, http.MethodPost, "/v1/chat", `{"provider":"anthropic","messages":[{"role":"user","content":"x"}]}`, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}
