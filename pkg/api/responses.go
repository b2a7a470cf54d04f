package api

type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishContentFilter FinishReason = "content_filter"
	FinishFunctionCall  FinishReason = "function_call"
)

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NormalizedResult is the canonical output of every chat dialect.
type NormalizedResult struct {
	ID           string       `json:"id"`
	Object       string       `json:"object"`
	Created      int64        `json:"created"`
	Model        string       `json:"model"`
	Provider     ProviderName `json:"provider,omitempty"`
	Content      string       `json:"content"`
	FinishReason FinishReason `json:"finish_reason"`
	Usage        Usage        `json:"usage"`

	// Annotations carries debug notes about blocks excluded from Content,
	// such as reasoning or thinking output.
	Annotations []string `json:"annotations,omitempty"`

	Error *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type ImageData struct {
	URL           string `json:"url"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// ImageResult holds generated images. URL is a remote URL or a data URI.
type ImageResult struct {
	Created  int64        `json:"created"`
	Model    string       `json:"model,omitempty"`
	Provider ProviderName `json:"provider,omitempty"`
	Data     []ImageData  `json:"data"`
}

// Validation is the outcome of a connection test.
type Validation struct {
	Valid    bool         `json:"valid"`
	Provider ProviderName `json:"provider,omitempty"`
	Model    string       `json:"model,omitempty"`
	Error    string       `json:"error,omitempty"`
}
