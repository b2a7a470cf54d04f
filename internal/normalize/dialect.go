package normalize

import (
	"regexp"

	"github.com/opacedigital/ai-core/pkg/api"
)

// Dialect tags a response shape. It is a closed set; Normalize switches over
// it exhaustively.
type Dialect string

const (
	OpenAI          Dialect = "openai"
	OpenAIReasoning Dialect = "openai-o3"
	Anthropic       Dialect = "anthropic"
	Gemini          Dialect = "gemini"
	Grok            Dialect = "grok"
)

var oSeries = regexp.MustCompile(`^o\d`)

// DialectFor picks the dialect a provider answers in for a given model.
func DialectFor(provider api.ProviderName, model string) (Dialect, error) {
	switch provider {
	case api.OpenAI:
		if oSeries.MatchString(model) {
			return OpenAIReasoning, nil
		}
		return OpenAI, nil
	case api.Anthropic:
		return Anthropic, nil
	case api.Gemini:
		return Gemini, nil
	case api.Grok:
		return Grok, nil
	default:
		return "", &api.UnsupportedProviderError{Provider: string(provider)}
	}
}

// Provider returns the vendor that speaks d.
func (d Dialect) Provider() api.ProviderName {
	switch d {
	case OpenAI, OpenAIReasoning:
		return api.OpenAI
	case Anthropic:
		return api.Anthropic
	case Gemini:
		return api.Gemini
	case Grok:
		return api.Grok
	default:
		return api.ProviderName(d)
	}
}
