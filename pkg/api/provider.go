package api

import "strings"

// ProviderName identifies an upstream vendor. The set is closed.
type ProviderName string

const (
	OpenAI    ProviderName = "openai"
	Anthropic ProviderName = "anthropic"
	Gemini    ProviderName = "gemini"
	Grok      ProviderName = "grok"
)

// Providers returns every supported provider in a stable order.
func Providers() []ProviderName {
	return []ProviderName{OpenAI, Anthropic, Gemini, Grok}
}

// ParseProvider maps a user supplied name onto the closed provider set.
// "google" and "xai" are accepted as vendor aliases.
func ParseProvider(name string) (ProviderName, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai":
		return OpenAI, nil
	case "anthropic", "claude":
		return Anthropic, nil
	case "gemini", "google":
		return Gemini, nil
	case "grok", "xai":
		return Grok, nil
	default:
		return "", &UnsupportedProviderError{Provider: name}
	}
}

// Valid reports whether p is one of the supported providers.
func (p ProviderName) Valid() bool {
	switch p {
	case OpenAI, Anthropic, Gemini, Grok:
		return true
	}
	return false
}

func (p ProviderName) String() string { return string(p) }
