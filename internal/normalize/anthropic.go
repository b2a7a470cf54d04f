package normalize

import (
	"strings"

	"github.com/opacedigital/ai-core/pkg/api"
)

var anthropicStops = map[string]api.FinishReason{
	"end_turn":      api.FinishStop,
	"stop_sequence": api.FinishStop,
	"pause_turn":    api.FinishStop,
	"max_tokens":    api.FinishLength,
	"tool_use":      api.FinishFunctionCall,
	"refusal":       api.FinishContentFilter,
}

func anthropic(body map[string]any) (*api.NormalizedResult, error) {
	blocks, ok := body["content"].([]any)
	if !ok {
		return nil, unrecognized(string(Anthropic), body, nil)
	}

	res := &api.NormalizedResult{
		ID:    str(body["id"]),
		Model: str(body["model"]),
	}

	var b strings.Builder
	for _, raw := range blocks {
		block := object(raw)
		switch str(block["type"]) {
		case "text":
			b.WriteString(str(block["text"]))
		case "thinking":
			res.Annotations = append(res.Annotations, "thinking: "+str(block["thinking"]))
		case "redacted_thinking":
			res.Annotations = append(res.Annotations, "redacted_thinking")
		case "tool_use":
			res.Annotations = append(res.Annotations, "tool_use: "+str(block["name"]))
		default:
			res.Annotations = append(res.Annotations, str(block["type"]))
		}
	}
	res.Content = b.String()

	if reason, ok := anthropicStops[str(body["stop_reason"])]; ok {
		res.FinishReason = reason
	} else {
		res.FinishReason = api.FinishStop
	}

	usage := object(body["usage"])
	res.Usage = api.Usage{
		PromptTokens:     integer(usage["input_tokens"]),
		CompletionTokens: integer(usage["output_tokens"]),
	}
	return res, nil
}
