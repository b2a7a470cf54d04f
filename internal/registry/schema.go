package registry

import "github.com/opacedigital/ai-core/pkg/api"

func ptr(f float64) *float64 { return &f }

func number(requestKey string, def any, step, min, max float64) api.ParameterSpec {
	return api.ParameterSpec{
		Type:       api.ParamNumber,
		Default:    def,
		Step:       ptr(step),
		Min:        ptr(min),
		Max:        ptr(max),
		RequestKey: requestKey,
	}
}

func choice(requestKey string, def string, options ...string) api.ParameterSpec {
	return api.ParameterSpec{
		Type:       api.ParamSelect,
		Default:    def,
		Options:    options,
		RequestKey: requestKey,
	}
}

// chatSchema is the OpenAI-compatible Chat Completions parameter set.
func chatSchema(maxTokens int) map[string]api.ParameterSpec {
	return map[string]api.ParameterSpec{
		"temperature":       number("temperature", 0.7, 0.1, 0, 2),
		"max_tokens":        number("max_tokens", maxTokens, 1, 1, float64(maxTokens)),
		"top_p":             number("top_p", 1.0, 0.05, 0, 1),
		"frequency_penalty": number("frequency_penalty", 0.0, 0.1, -2, 2),
		"presence_penalty":  number("presence_penalty", 0.0, 0.1, -2, 2),
	}
}

// responsesSchema is the parameter set of reasoning models on the Responses API.
func responsesSchema(maxTokens int, verbosity bool) map[string]api.ParameterSpec {
	s := map[string]api.ParameterSpec{
		"max_tokens":       number("max_output_tokens", maxTokens, 1, 1, float64(maxTokens)),
		"reasoning_effort": choice("reasoning.effort", "medium", "low", "medium", "high"),
	}
	if verbosity {
		s["reasoning_effort"] = choice("reasoning.effort", "medium", "minimal", "low", "medium", "high")
		s["verbosity"] = choice("text.verbosity", "medium", "low", "medium", "high")
	}
	return s
}

// reasoningChatSchema is for o-series models reached through Chat Completions.
func reasoningChatSchema(maxTokens int) map[string]api.ParameterSpec {
	return map[string]api.ParameterSpec{
		"max_tokens":       number("max_completion_tokens", maxTokens, 1, 1, float64(maxTokens)),
		"reasoning_effort": choice("reasoning_effort", "medium", "low", "medium", "high"),
	}
}

func anthropicSchema(maxTokens int) map[string]api.ParameterSpec {
	return map[string]api.ParameterSpec{
		"temperature": number("temperature", 0.7, 0.1, 0, 1),
		"max_tokens":  number("max_tokens", maxTokens, 1, 1, float64(maxTokens)),
		"top_p":       number("top_p", nil, 0.05, 0, 1),
		"top_k":       number("top_k", nil, 1, 0, 500),
	}
}

func geminiSchema(maxTokens int) map[string]api.ParameterSpec {
	return map[string]api.ParameterSpec{
		"temperature": number("generationConfig.temperature", 0.7, 0.1, 0, 2),
		"max_tokens":  number("generationConfig.maxOutputTokens", maxTokens, 1, 1, float64(maxTokens)),
		"top_p":       number("generationConfig.topP", 0.95, 0.05, 0, 1),
		"top_k":       number("generationConfig.topK", nil, 1, 1, 100),
	}
}

func geminiThinkingSchema(maxTokens int) map[string]api.ParameterSpec {
	s := geminiSchema(maxTokens)
	s["thinking_budget"] = number("generationConfig.thinkingConfig.thinkingBudget", nil, 1, -1, 32768)
	return s
}

func grokSchema(maxTokens int, reasoning bool) map[string]api.ParameterSpec {
	s := chatSchema(maxTokens)
	if reasoning {
		delete(s, "frequency_penalty")
		delete(s, "presence_penalty")
		s["reasoning_effort"] = choice("reasoning_effort", "low", "low", "high")
	}
	return s
}

func imageSchema(provider api.ProviderName) map[string]api.ParameterSpec {
	switch provider {
	case api.OpenAI:
		return map[string]api.ParameterSpec{
			"quality": choice("quality", "standard", "standard", "hd", "low", "medium", "high", "auto"),
			"style":   choice("style", "vivid", "vivid", "natural"),
		}
	case api.Gemini:
		return map[string]api.ParameterSpec{
			"person_generation": choice("parameters.personGeneration", "allow_adult", "dont_allow", "allow_adult", "allow_all"),
		}
	default:
		return map[string]api.ParameterSpec{}
	}
}

// defaultSchema picks the parameter set for a model discovered at runtime.
func defaultSchema(provider api.ProviderName, category api.Category, endpoint api.Endpoint) map[string]api.ParameterSpec {
	if category == api.CategoryImage {
		return imageSchema(provider)
	}
	if category == api.CategoryEmbedding || category == api.CategoryAudio {
		return map[string]api.ParameterSpec{}
	}

	switch provider {
	case api.OpenAI:
		if endpoint == api.EndpointResponses {
			return responsesSchema(32768, false)
		}
		return chatSchema(4096)
	case api.Anthropic:
		return anthropicSchema(8192)
	case api.Gemini:
		return geminiSchema(8192)
	case api.Grok:
		return grokSchema(8192, category == api.CategoryReasoning)
	default:
		return map[string]api.ParameterSpec{}
	}
}
