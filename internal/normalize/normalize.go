// Package normalize converts vendor response bodies into api.NormalizedResult.
package normalize

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opacedigital/ai-core/pkg/api"
)

const (
	idPrefix     = "chatcmpl-"
	objectChat   = "chat.completion"
	errorMessage = "message"
)

// Normalizer is stateless apart from its clock and id source.
type Normalizer struct {
	now   func() time.Time
	newID func() string
}

type Option func(*Normalizer)

// WithClock fixes the timestamp used when a vendor omits one.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

// WithIDs replaces the id generator used when a vendor omits an id.
func WithIDs(newID func() string) Option {
	return func(n *Normalizer) { n.newID = newID }
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		now:   time.Now,
		newID: func() string { return idPrefix + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts body, a decoded response in dialect d, into the canonical
// result. model is the id that was requested; the vendor's own model field
// wins when present.
func (n *Normalizer) Normalize(d Dialect, model string, body map[string]any) (*api.NormalizedResult, error) {
	if err := vendorError(d, body); err != nil {
		return nil, err
	}

	var (
		res *api.NormalizedResult
		err error
	)
	switch d {
	case OpenAI:
		res, err = openAI(body)
	case OpenAIReasoning:
		res, err = openAIReasoning(body)
	case Anthropic:
		res, err = anthropic(body)
	case Gemini:
		res, err = gemini(body)
	case Grok:
		res, err = chatCompletion(string(Grok), body)
	default:
		return nil, &api.UnsupportedProviderError{Provider: string(d)}
	}
	if err != nil {
		return nil, err
	}

	n.finish(res, d, model, body)
	return res, nil
}

func (n *Normalizer) finish(res *api.NormalizedResult, d Dialect, model string, body map[string]any) {
	res.Provider = d.Provider()
	res.Object = objectChat

	if res.ID == "" {
		res.ID = str(body["id"])
	}
	if res.ID == "" {
		res.ID = n.newID()
	}
	if res.Created == 0 {
		res.Created = int64(integer(body["created"]))
	}
	if res.Created == 0 {
		res.Created = int64(integer(body["created_at"]))
	}
	if res.Created == 0 {
		res.Created = n.now().Unix()
	}
	if res.Model == "" {
		res.Model = str(body["model"])
	}
	if res.Model == "" {
		res.Model = model
	}
	if res.FinishReason == "" {
		res.FinishReason = api.FinishStop
	}
	if res.Usage.TotalTokens == 0 {
		res.Usage.TotalTokens = res.Usage.PromptTokens + res.Usage.CompletionTokens
	}
}

// vendorError reports a top-level error envelope delivered with a 2xx status.
func vendorError(d Dialect, body map[string]any) error {
	raw, ok := body["error"]
	if !ok || raw == nil {
		return nil
	}

	msg := ""
	switch e := raw.(type) {
	case map[string]any:
		msg = str(e[errorMessage])
		if msg == "" {
			msg = str(e["type"])
		}
	case string:
		msg = e
	}
	if msg == "" {
		return nil
	}
	return &api.ProviderRequestError{
		Provider:   d.Provider(),
		StatusCode: integer(object(raw)["code"]),
		Message:    msg,
	}
}

// HasError reports whether a result should be treated as a failure: an
// explicit error, or content that is blank after trimming.
func HasError(res *api.NormalizedResult) bool {
	if res == nil || res.Error != nil {
		return true
	}
	return strings.TrimSpace(res.Content) == ""
}
