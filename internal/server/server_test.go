package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opacedigital/ai-core/internal/config"
	"github.com/opacedigital/ai-core/internal/gateway"
	"github.com/opacedigital/ai-core/internal/llm"
	"github.com/opacedigital/ai-core/internal/registry"
	"github.com/opacedigital/ai-core/internal/store/model"
	"github.com/opacedigital/ai-core/pkg/api"
)

type mockGateway struct {
	mock.Mock
	registry *registry.Registry
}

func (m *mockGateway) Provider(name string) (llm.Provider, error) {
	args := m.Called(name)
	p, _ := args.Get(0).(llm.Provider)
	return p, args.Error(1)
}

func (m *mockGateway) Providers() []gateway.ProviderStatus {
	return []gateway.ProviderStatus{{Name: api.OpenAI, Configured: true, ImageGeneration: true}}
}

func (m *mockGateway) Chat(ctx context.Context, req *gateway.ChatRequest) (*api.NormalizedResult, error) {
	args := m.Called(req)
	res, _ := args.Get(0).(*api.NormalizedResult)
	return res, args.Error(1)
}

func (m *mockGateway) GenerateImage(ctx context.Context, req *gateway.ImageRequest) (*api.ImageResult, error) {
	args := m.Called(req)
	res, _ := args.Get(0).(*api.ImageResult)
	return res, args.Error(1)
}

func (m *mockGateway) AvailableModels(ctx context.Context, provider string) ([]string, error) {
	args := m.Called(provider)
	models, _ := args.Get(0).([]string)
	return models, args.Error(1)
}

func (m *mockGateway) ValidateAPIKey(ctx context.Context, provider string) (api.Validation, error) {
	args := m.Called(provider)
	return args.Get(0).(api.Validation), args.Error(1)
}

func (m *mockGateway) Registry() *registry.Registry { return m.registry }

type mockAnalytics struct {
	mock.Mock
}

func (m *mockAnalytics) Totals(ctx context.Context, f model.UsageFilter) ([]model.UsageTotal, error) {
	args := m.Called(f)
	return args.Get(0).([]model.UsageTotal), args.Error(1)
}

func (m *mockAnalytics) UsageOverview(ctx context.Context, days int) ([]model.DailyStats, error) {
	args := m.Called(days)
	return args.Get(0).([]model.DailyStats), args.Error(1)
}

func (m *mockAnalytics) Recent(ctx context.Context, limit int) ([]model.UsageEvent, error) {
	args := m.Called(limit)
	return args.Get(0).([]model.UsageEvent), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Env: "test"},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, opts ...Option) (*Server, *mockGateway) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gw := &mockGateway{registry: registry.NewDefault()}
	return New(cfg, zap.NewNop(), gw, opts...), gw
}

func do(s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestChat(t *testing.T) {
	s, gw := newTestServer(t, testConfig())

	gw.On("Chat", mock.MatchedBy(func(r *gateway.ChatRequest) bool {
		return r.Provider == "openai" && r.Options.Model == "gpt-4o" && r.UseCase == "support" &&
			len(r.Messages) == 1 && r.Messages[0].Content.Text == "Hello" &&
			r.Options.Params["temperature"] == 0.2
	})).Return(&api.NormalizedResult{ID: "chatcmpl-1", Model: "gpt-4o", Content: "Hi", FinishReason: api.FinishStop}, nil)

	w := do(s, http.MethodPost, "/v1/chat",
		`{"provider":"openai","model":"gpt-4o","messages":[{"role":"user","content":"Hello"}],"params":{"temperature":0.2}}`,
		map[string]string{"X-Use-Case": "support"})

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Hi", body["content"])
	assert.Equal(t, "stop", body["finish_reason"])
	gw.AssertExpectations(t)
}

func TestChatValidation(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	w := do(s, http.MethodPost, "/v1/chat", `{"provider":"openai","messages":[{"role":"robot","content":"x"}]}`, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	body := decode(t, w)
	assert.Equal(t, "Validation Error", body["title"])
	errs := body["errors"].(map[string]any)
	assert.Equal(t, "must be one of [user, assistant, system]", errs["messages[0].role"])
}

func TestChatRejectsNonTextContent(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	for _, content := range []string{`42`, `{}`, `true`} {
		w := do(s, http.MethodPost, "/v1/chat", `{"provider":"openai","messages":[{"role":"user","content":`+content+`}]}`, nil)

		require.Equal(t, http.StatusBadRequest, w.Code, content)
		errs := decode(t, w)["errors"].(map[string]any)
		assert.Contains(t, errs, "body", content)
	}
}

func TestChatMissingMessages(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	w := do(s, http.MethodPost, "/v1/chat", `{"provider":"openai"}`, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode(t, w)["errors"].(map[string]any)
	assert.Contains(t, errs, "messages")
}

func TestDomainErrorsBecomeProblems(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not configured", &api.ConfigurationError{Provider: api.Anthropic}, http.StatusServiceUnavailable, "configuration_error"},
		{"model unavailable", &api.ModelUnavailableError{Provider: api.Grok}, http.StatusUnprocessableEntity, "model_unavailable"},
		{"unsupported", &api.UnsupportedProviderError{Provider: "mistral"}, http.StatusBadRequest, "unsupported_provider"},
		{"invalid parameter", &api.InvalidParameterError{Name: "max_tokens", Value: "lots"}, http.StatusBadRequest, "invalid_parameter"},
		{"upstream", &api.ProviderRequestError{Provider: api.OpenAI, StatusCode: 429, Message: "slow down"}, http.StatusBadGateway, "provider_request_failed"},
		{"unrecognized", &api.UnrecognizedPayloadError{Dialect: "anthropic", TopLevelKeys: []string{"foo"}}, http.StatusBadGateway, "unrecognized_payload"},
		{"empty", &api.EmptyContentError{Provider: api.Gemini, Model: "gemini-2.5-pro"}, http.StatusBadGateway, "empty_content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, gw := newTestServer(t, testConfig())
			gw.On("Chat", mock.Anything).Return(nil, tt.err)

			w := do(s, http.MethodPost, "/v1/chat", `{"provider":"openai","messages":[{"role":"user","content":"x"}]}`, nil)

			require.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.code, body["code"])
			assert.Equal(t, float64(tt.status), body["status"])
			assert.Equal(t, tt.err.Error(), body["detail"])
		})
	}
}

func TestUpstreamStatusExtension(t *testing.T) {
	s, gw := newTestServer(t, testConfig())
	gw.On("Chat", mock.Anything).Return(nil, &api.ProviderRequestError{Provider: api.OpenAI, StatusCode: 401, Message: "bad key"})

	w := do(s, http.MethodPost, "/v1/chat", `{"provider":"openai","messages":[{"role":"user","content":"x"}]}`, nil)

	body := decode(t, w)
	assert.Equal(t, float64(401), body["upstream_status"])
	assert.Equal(t, "openai", body["provider"])
}

func TestImages(t *testing.T) {
	s, gw := newTestServer(t, testConfig())

	gw.On("GenerateImage", mock.MatchedBy(func(r *gateway.ImageRequest) bool {
		return r.Provider == "gemini" && r.Prompt == "a boat" && r.Options.Count == 2 && r.Options.AspectRatio == "16:9"
	})).Return(&api.ImageResult{Model: "imagen-4.0-generate-001", Data: []api.ImageData{{URL: "data:image/png;base64,AAA="}}}, nil)

	w := do(s, http.MethodPost, "/v1/images", `{"provider":"gemini","prompt":"a boat","count":2,"aspect_ratio":"16:9"}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)
}

func TestImagesUnsupported(t *testing.T) {
	s, gw := newTestServer(t, testConfig())
	gw.On("GenerateImage", mock.Anything).Return(nil, gateway.ErrImagesUnsupported)

	w := do(s, http.MethodPost, "/v1/images", `{"provider":"anthropic","prompt":"a boat"}`, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "images_unsupported", decode(t, w)["code"])
}

func TestImagesRejectsUnknownAspect(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	w := do(s, http.MethodPost, "/v1/images", `{"provider":"openai","prompt":"a boat","aspect_ratio":"5:1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProviderModelsAndValidate(t *testing.T) {
	s, gw := newTestServer(t, testConfig())
	gw.On("AvailableModels", "grok").Return([]string{"grok-4", "grok-3"}, nil)
	gw.On("ValidateAPIKey", "grok").Return(api.Validation{Valid: false, Provider: api.Grok, Model: "grok-4", Error: "bad key"}, nil)

	w := do(s, http.MethodGet, "/v1/providers/grok/models", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "list", body["object"])
	assert.Equal(t, []any{"grok-4", "grok-3"}, body["data"])

	w = do(s, http.MethodPost, "/v1/providers/grok/validate", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["valid"])
}

func TestRegistryEndpoints(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	w := do(s, http.MethodGet, "/v1/registry", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w), "openai")

	w = do(s, http.MethodGet, "/v1/registry/models/openai/gpt-4o", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gpt-4o", decode(t, w)["id"])

	w = do(s, http.MethodGet, "/v1/registry/models/not-a-model", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuth(t *testing.T) {
	cfg := testConfig()
	cfg.Server.APIKeys = []string{"secret"}
	s, gw := newTestServer(t, cfg)
	gw.On("AvailableModels", "openai").Return([]string{"gpt-5"}, nil)

	assert.Equal(t, http.StatusUnauthorized, do(s, http.MethodGet, "/v1/providers/openai/models", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(s, http.MethodGet, "/v1/providers/openai/models", "", map[string]string{"Authorization": "Bearer wrong"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(s, http.MethodGet, "/v1/providers/openai/models", "", map[string]string{"Authorization": "secret"}).Code)
	assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/v1/providers/openai/models", "", map[string]string{"Authorization": "Bearer secret"}).Code)
	assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/v1/providers/openai/models", "", map[string]string{"X-API-Key": "secret"}).Code)

	// health stays public
	assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/health", "", nil).Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}
	s, _ := newTestServer(t, cfg)

	assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/v1/providers", "", nil).Code)

	w := do(s, http.MethodGet, "/v1/providers", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), WithVersion("v1.2.3"))

	w := do(s, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "v1.2.3", body["version"])
	assert.Len(t, body["providers"], 1)
}

func TestConfigRedactsKeys(t *testing.T) {
	cfg := testConfig()
	cfg.Providers = []config.ProviderConfig{{Name: "openai", APIKey: "sk-very-secret", Enabled: true}}
	s, _ := newTestServer(t, cfg)

	w := do(s, http.MethodGet, "/v1/config", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "sk-very-secret")
	assert.Contains(t, w.Body.String(), `"has_key":true`)
}

func TestUsageEndpoints(t *testing.T) {
	usage := &mockAnalytics{}
	s, _ := newTestServer(t, testConfig(), WithAnalytics(usage))

	usage.On("Totals", mock.MatchedBy(func(f model.UsageFilter) bool {
		return f.Provider == "openai" && !f.Since.IsZero()
	})).Return([]model.UsageTotal{{Provider: "openai", Model: "gpt-5", Requests: 4}}, nil)
	usage.On("UsageOverview", 3).Return([]model.DailyStats{}, nil)
	usage.On("Recent", 10).Return([]model.UsageEvent{}, nil)

	w := do(s, http.MethodGet, "/v1/usage?provider=openai&since=24h", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].([]any)
	assert.Equal(t, float64(4), data[0].(map[string]any)["requests"])

	assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/v1/usage/daily?days=3", "", nil).Code)
	assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/v1/usage/recent?limit=10", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(s, http.MethodGet, "/v1/usage?since=yesterday", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(s, http.MethodGet, "/v1/usage/daily?days=x", "", nil).Code)

	usage.AssertExpectations(t)
}

func TestUsageRoutesAbsentWithoutAnalytics(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	assert.Equal(t, http.StatusNotFound, do(s, http.MethodGet, "/v1/usage", "", nil).Code)
}
