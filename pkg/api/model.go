package api

// Category is the capability class of a model.
type Category string

const (
	CategoryText      Category = "text"
	CategoryReasoning Category = "reasoning"
	CategoryImage     Category = "image"
	CategoryEmbedding Category = "embedding"
	CategoryAudio     Category = "audio"
)

// Endpoint is the wire protocol an adapter must use for a model.
type Endpoint string

const (
	EndpointChat       Endpoint = "chat"
	EndpointResponses  Endpoint = "responses"
	EndpointEmbeddings Endpoint = "embeddings"
	EndpointImage      Endpoint = "image"
)

// ParamType declares how a parameter value is coerced before it is sent.
type ParamType string

const (
	ParamNumber ParamType = "number"
	ParamSelect ParamType = "select"
	ParamString ParamType = "string"
)

// ParameterSpec describes one logical option a caller may set for a model.
type ParameterSpec struct {
	Type    ParamType `json:"type" mapstructure:"type"`
	Default any       `json:"default,omitempty" mapstructure:"default"`
	Step    *float64  `json:"step,omitempty" mapstructure:"step"`
	Min     *float64  `json:"min,omitempty" mapstructure:"min"`
	Max     *float64  `json:"max,omitempty" mapstructure:"max"`
	Options []string  `json:"options,omitempty" mapstructure:"options"`

	// RequestKey is where the value lands in the outgoing payload. Dots
	// express nesting, e.g. "text.format".
	RequestKey string `json:"request_key" mapstructure:"request_key"`
}

// ModelDescriptor identifies one addressable model and its capabilities.
type ModelDescriptor struct {
	ID                string                   `json:"id"`
	Name              string                   `json:"name,omitempty"`
	Provider          ProviderName             `json:"provider"`
	Category          Category                 `json:"category"`
	Endpoint          Endpoint                 `json:"endpoint"`
	Parameters        map[string]ParameterSpec `json:"parameters,omitempty"`
	MaxTokens         int                      `json:"max_tokens,omitempty"`
	SupportsImages    bool                     `json:"supports_images"`
	SupportsFunctions bool                     `json:"supports_functions"`

	// Extra keeps metadata the registry does not understand yet.
	Extra map[string]any `json:"extra,omitempty"`
}

// ModelPatch is partial metadata for Registry.RegisterModel. Zero values
// mean "not supplied" and leave the existing field untouched.
type ModelPatch struct {
	Name              string
	Provider          ProviderName
	Category          Category
	Endpoint          Endpoint
	Parameters        map[string]ParameterSpec
	MaxTokens         int
	SupportsImages    *bool
	SupportsFunctions *bool
	Extra             map[string]any
}

// PatchFrom converts a full descriptor into a patch that replaces every
// populated field.
func PatchFrom(d ModelDescriptor) ModelPatch {
	images, functions := d.SupportsImages, d.SupportsFunctions
	return ModelPatch{
		Name:              d.Name,
		Provider:          d.Provider,
		Category:          d.Category,
		Endpoint:          d.Endpoint,
		Parameters:        d.Parameters,
		MaxTokens:         d.MaxTokens,
		SupportsImages:    &images,
		SupportsFunctions: &functions,
		Extra:             d.Extra,
	}
}

// ProviderMetadata is the introspection dump of one provider's catalog.
type ProviderMetadata struct {
	Provider  ProviderName      `json:"provider"`
	Preferred string            `json:"preferred,omitempty"`
	Models    []ModelDescriptor `json:"models"`
}
