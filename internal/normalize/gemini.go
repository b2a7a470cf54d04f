package normalize

import (
	"strings"

	"github.com/opacedigital/ai-core/pkg/api"
)

// GeminiFinishReason maps candidates[].finishReason; anything unlisted is stop.
func GeminiFinishReason(reason string) api.FinishReason {
	switch reason {
	case "MAX_TOKENS":
		return api.FinishLength
	case "SAFETY", "RECITATION":
		return api.FinishContentFilter
	default:
		return api.FinishStop
	}
}

func gemini(body map[string]any) (*api.NormalizedResult, error) {
	candidates, hasCandidates := body["candidates"].([]any)
	usage := object(body["usageMetadata"])

	res := &api.NormalizedResult{
		ID:    str(body["responseId"]),
		Model: str(body["modelVersion"]),
		Usage: api.Usage{
			PromptTokens:     integer(usage["promptTokenCount"]),
			CompletionTokens: integer(usage["candidatesTokenCount"]),
			TotalTokens:      integer(usage["totalTokenCount"]),
		},
	}

	if len(candidates) == 0 {
		if reason := str(object(body["promptFeedback"])["blockReason"]); reason != "" {
			res.FinishReason = api.FinishContentFilter
			res.Error = &api.ErrorDetail{Code: reason, Message: "prompt blocked: " + reason}
			return res, nil
		}
		if !hasCandidates {
			return nil, unrecognized(string(Gemini), body, nil)
		}
	}

	var b strings.Builder
	for _, raw := range candidates {
		for _, p := range array(object(object(raw)["content"])["parts"]) {
			part := object(p)
			if thought, _ := part["thought"].(bool); thought {
				res.Annotations = append(res.Annotations, "thought: "+str(part["text"]))
				continue
			}
			b.WriteString(str(part["text"]))
		}
	}
	res.Content = b.String()
	res.FinishReason = GeminiFinishReason(str(firstObject(candidates)["finishReason"]))
	return res, nil
}
