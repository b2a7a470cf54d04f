package registry

import "github.com/opacedigital/ai-core/pkg/api"

// SeedCatalog returns the models known at build time. Adapters extend the
// registry at runtime when a vendor lists an id that is not here.
func SeedCatalog() []api.ModelDescriptor {
	var models []api.ModelDescriptor
	models = append(models, openAICatalog()...)
	models = append(models, anthropicCatalog()...)
	models = append(models, geminiCatalog()...)
	models = append(models, grokCatalog()...)
	return models
}

// SeedAliases maps shorthand and dated names onto canonical ids.
func SeedAliases() map[string]string {
	return map[string]string{
		"gpt-4o-latest":            "chatgpt-4o-latest",
		"claude-3-5-sonnet-latest": "claude-3-5-sonnet-20241022",
		"claude-3-5-haiku-latest":  "claude-3-5-haiku-20241022",
		"claude-3-7-sonnet-latest": "claude-3-7-sonnet-20250219",
		"claude-sonnet-4-0":        "claude-sonnet-4-20250514",
		"claude-opus-4-0":          "claude-opus-4-20250514",
		"claude-opus-4-1":          "claude-opus-4-1-20250805",
		"gemini-pro-latest":        "gemini-2.5-pro",
		"gemini-flash-latest":      "gemini-2.5-flash",
		"grok-latest":              "grok-4",
		"grok-4-latest":            "grok-4",
		"grok-3-latest":            "grok-3",
		"dalle-3":                  "dall-e-3",
	}
}

func text(provider api.ProviderName, id, name string, maxTokens int, images bool, schema map[string]api.ParameterSpec) api.ModelDescriptor {
	return api.ModelDescriptor{
		ID:                id,
		Name:              name,
		Provider:          provider,
		Category:          api.CategoryText,
		Endpoint:          api.EndpointChat,
		Parameters:        schema,
		MaxTokens:         maxTokens,
		SupportsImages:    images,
		SupportsFunctions: true,
	}
}

func reasoning(provider api.ProviderName, id, name string, endpoint api.Endpoint, maxTokens int, schema map[string]api.ParameterSpec) api.ModelDescriptor {
	return api.ModelDescriptor{
		ID:                id,
		Name:              name,
		Provider:          provider,
		Category:          api.CategoryReasoning,
		Endpoint:          endpoint,
		Parameters:        schema,
		MaxTokens:         maxTokens,
		SupportsImages:    true,
		SupportsFunctions: true,
	}
}

func image(provider api.ProviderName, id, name string) api.ModelDescriptor {
	return api.ModelDescriptor{
		ID:         id,
		Name:       name,
		Provider:   provider,
		Category:   api.CategoryImage,
		Endpoint:   api.EndpointImage,
		Parameters: imageSchema(provider),
	}
}

func openAICatalog() []api.ModelDescriptor {
	p := api.OpenAI
	return []api.ModelDescriptor{
		reasoning(p, "gpt-5", "GPT-5", api.EndpointResponses, 128000, responsesSchema(128000, true)),
		reasoning(p, "gpt-5-mini", "GPT-5 mini", api.EndpointResponses, 128000, responsesSchema(128000, true)),
		reasoning(p, "gpt-5-nano", "GPT-5 nano", api.EndpointResponses, 128000, responsesSchema(128000, true)),
		reasoning(p, "o3", "o3", api.EndpointResponses, 100000, responsesSchema(100000, false)),
		reasoning(p, "o3-mini", "o3-mini", api.EndpointResponses, 100000, responsesSchema(100000, false)),
		reasoning(p, "o4-mini", "o4-mini", api.EndpointResponses, 100000, responsesSchema(100000, false)),
		reasoning(p, "o1", "o1", api.EndpointChat, 100000, reasoningChatSchema(100000)),
		text(p, "gpt-4.1", "GPT-4.1", 32768, true, chatSchema(32768)),
		text(p, "gpt-4.1-mini", "GPT-4.1 mini", 32768, true, chatSchema(32768)),
		text(p, "gpt-4.1-nano", "GPT-4.1 nano", 32768, true, chatSchema(32768)),
		text(p, "gpt-4o", "GPT-4o", 16384, true, chatSchema(16384)),
		text(p, "gpt-4o-mini", "GPT-4o mini", 16384, true, chatSchema(16384)),
		text(p, "chatgpt-4o-latest", "ChatGPT-4o", 16384, true, chatSchema(16384)),
		text(p, "gpt-4-turbo", "GPT-4 Turbo", 4096, true, chatSchema(4096)),
		text(p, "gpt-3.5-turbo", "GPT-3.5 Turbo", 4096, false, chatSchema(4096)),
		image(p, "gpt-image-1", "GPT Image 1"),
		image(p, "dall-e-3", "DALL·E 3"),
		image(p, "dall-e-2", "DALL·E 2"),
		{
			ID:         "text-embedding-3-small",
			Name:       "Text Embedding 3 Small",
			Provider:   p,
			Category:   api.CategoryEmbedding,
			Endpoint:   api.EndpointEmbeddings,
			Parameters: map[string]api.ParameterSpec{},
		},
		{
			ID:         "whisper-1",
			Name:       "Whisper",
			Provider:   p,
			Category:   api.CategoryAudio,
			Endpoint:   api.EndpointChat,
			Parameters: map[string]api.ParameterSpec{},
		},
	}
}

func anthropicCatalog() []api.ModelDescriptor {
	p := api.Anthropic
	return []api.ModelDescriptor{
		text(p, "claude-opus-4-1-20250805", "Claude Opus 4.1", 32000, true, anthropicSchema(32000)),
		text(p, "claude-opus-4-20250514", "Claude Opus 4", 32000, true, anthropicSchema(32000)),
		text(p, "claude-sonnet-4-5-20250929", "Claude Sonnet 4.5", 64000, true, anthropicSchema(64000)),
		text(p, "claude-sonnet-4-20250514", "Claude Sonnet 4", 64000, true, anthropicSchema(64000)),
		text(p, "claude-3-7-sonnet-20250219", "Claude Sonnet 3.7", 64000, true, anthropicSchema(64000)),
		text(p, "claude-3-5-sonnet-20241022", "Claude Sonnet 3.5", 8192, true, anthropicSchema(8192)),
		text(p, "claude-3-5-haiku-20241022", "Claude Haiku 3.5", 8192, true, anthropicSchema(8192)),
		text(p, "claude-3-opus-20240229", "Claude Opus 3", 4096, true, anthropicSchema(4096)),
		text(p, "claude-3-haiku-20240307", "Claude Haiku 3", 4096, true, anthropicSchema(4096)),
	}
}

func geminiCatalog() []api.ModelDescriptor {
	p := api.Gemini
	return []api.ModelDescriptor{
		text(p, "gemini-2.5-pro", "Gemini 2.5 Pro", 65536, true, geminiThinkingSchema(65536)),
		text(p, "gemini-2.5-flash", "Gemini 2.5 Flash", 65536, true, geminiThinkingSchema(65536)),
		text(p, "gemini-2.5-flash-lite", "Gemini 2.5 Flash-Lite", 65536, true, geminiThinkingSchema(65536)),
		text(p, "gemini-2.0-flash", "Gemini 2.0 Flash", 8192, true, geminiSchema(8192)),
		text(p, "gemini-2.0-flash-lite", "Gemini 2.0 Flash-Lite", 8192, true, geminiSchema(8192)),
		text(p, "gemini-1.5-pro", "Gemini 1.5 Pro", 8192, true, geminiSchema(8192)),
		text(p, "gemini-1.5-flash", "Gemini 1.5 Flash", 8192, true, geminiSchema(8192)),
		image(p, "imagen-4.0-generate-001", "Imagen 4"),
		image(p, "imagen-3.0-generate-002", "Imagen 3"),
		image(p, "gemini-2.5-flash-image", "Gemini 2.5 Flash Image"),
	}
}

func grokCatalog() []api.ModelDescriptor {
	p := api.Grok
	return []api.ModelDescriptor{
		text(p, "grok-4", "Grok 4", 32768, true, grokSchema(32768, false)),
		text(p, "grok-3", "Grok 3", 16384, false, grokSchema(16384, false)),
		reasoning(p, "grok-3-mini", "Grok 3 Mini", api.EndpointChat, 16384, grokSchema(16384, true)),
		text(p, "grok-2-vision-1212", "Grok 2 Vision", 8192, true, grokSchema(8192, false)),
		image(p, "grok-2-image-1212", "Grok 2 Image"),
	}
}
