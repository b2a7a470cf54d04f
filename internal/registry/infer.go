package registry

import (
	"regexp"

	"github.com/opacedigital/ai-core/pkg/api"
)

type familyRule struct {
	pattern  *regexp.Regexp
	category api.Category
	endpoint api.Endpoint
}

// families classify ids discovered at runtime. First match wins.
var families = []familyRule{
	{regexp.MustCompile(`(dall-e|gpt-image|imagen|-image)`), api.CategoryImage, api.EndpointImage},
	{regexp.MustCompile(`embed`), api.CategoryEmbedding, api.EndpointEmbeddings},
	{regexp.MustCompile(`^(whisper|tts|gpt-4o-.*(audio|transcribe|tts))`), api.CategoryAudio, api.EndpointChat},
	{regexp.MustCompile(`^(o[1-9]|gpt-5)`), api.CategoryReasoning, api.EndpointResponses},
	{regexp.MustCompile(`^grok-.*mini`), api.CategoryReasoning, api.EndpointChat},
	{regexp.MustCompile(`(thinking|reason)`), api.CategoryReasoning, api.EndpointChat},
}

// Infer builds a descriptor for an id the static catalog does not know.
func Infer(provider api.ProviderName, id string) api.ModelDescriptor {
	category, endpoint := api.CategoryText, api.EndpointChat
	for _, f := range families {
		if f.pattern.MatchString(id) {
			category, endpoint = f.category, f.endpoint
			break
		}
	}

	// Only OpenAI serves the Responses API.
	if endpoint == api.EndpointResponses && provider != api.OpenAI {
		endpoint = api.EndpointChat
	}

	return api.ModelDescriptor{
		ID:                id,
		Provider:          provider,
		Category:          category,
		Endpoint:          endpoint,
		Parameters:        defaultSchema(provider, category, endpoint),
		SupportsFunctions: category == api.CategoryText || category == api.CategoryReasoning,
		Extra:             map[string]any{"source": "discovered"},
	}
}
