package api

// ChatCompletionRequest is the body of POST /v1/chat.
type ChatCompletionRequest struct {
	Provider string         `json:"provider" binding:"required"`
	Model    string         `json:"model,omitempty"`
	Messages []Message      `json:"messages" binding:"required,min=1,dive"`
	Params   map[string]any `json:"params,omitempty"`
	Stop     []string       `json:"stop,omitempty" binding:"omitempty,max=16"`
	UseCase  string         `json:"use_case,omitempty" binding:"omitempty,max=128"`
}

// Options converts the request into adapter options.
func (r ChatCompletionRequest) Options() GenerationOptions {
	return GenerationOptions{
		Model:  r.Model,
		Params: r.Params,
		Stop:   r.Stop,
	}
}

// ImageGenerationRequest is the body of POST /v1/images.
type ImageGenerationRequest struct {
	Provider          string `json:"provider" binding:"required"`
	Prompt            string `json:"prompt" binding:"required"`
	Model             string `json:"model,omitempty"`
	Count             int    `json:"count,omitempty" binding:"omitempty,min=1,max=10"`
	AspectRatio       string `json:"aspect_ratio,omitempty" binding:"omitempty,oneof=1:1 16:9 9:16 4:3 3:4 3:2 2:3"`
	PersonGeneration  string `json:"person_generation,omitempty"`
	SafetyFilterLevel string `json:"safety_filter_level,omitempty"`
	Quality           string `json:"quality,omitempty"`
	UseCase           string `json:"use_case,omitempty" binding:"omitempty,max=128"`
}

func (r ImageGenerationRequest) Options() ImageOptions {
	return ImageOptions{
		Model:             r.Model,
		Count:             r.Count,
		AspectRatio:       r.AspectRatio,
		PersonGeneration:  r.PersonGeneration,
		SafetyFilterLevel: r.SafetyFilterLevel,
		Quality:           r.Quality,
	}
}

// ListResponse wraps collections returned by the HTTP API.
type ListResponse[T any] struct {
	Object string `json:"object"`
	Data   []T    `json:"data"`
}

func List[T any](data []T) ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return ListResponse[T]{Object: "list", Data: data}
}
