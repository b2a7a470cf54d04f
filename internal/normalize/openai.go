package normalize

import (
	"strings"

	"github.com/opacedigital/ai-core/pkg/api"
)

// openAI sniffs the body: Responses API bodies carry output or output_text
// (possibly under a response or data wrapper), Chat Completions bodies carry
// choices.
func openAI(body map[string]any) (*api.NormalizedResult, error) {
	if container := responsesContainer(body); container != nil {
		return responses(string(OpenAI), body, container)
	}
	if _, ok := body["choices"]; ok {
		return chatCompletion(string(OpenAI), body)
	}
	return nil, unrecognized(string(OpenAI), body, nil)
}

// openAIReasoning reads o-series output, falling back to the Chat Completions
// shape when the primary path yields nothing.
func openAIReasoning(body map[string]any) (*api.NormalizedResult, error) {
	if container := responsesContainer(body); container != nil {
		res, err := responses(string(OpenAIReasoning), body, container)
		if err == nil {
			return res, nil
		}
		if _, ok := body["choices"]; !ok {
			return nil, err
		}
	}
	if _, ok := body["choices"]; ok {
		return chatCompletion(string(OpenAIReasoning), body)
	}
	return nil, unrecognized(string(OpenAIReasoning), body, nil)
}

func responsesContainer(body map[string]any) map[string]any {
	if _, ok := body["output_text"]; ok {
		return body
	}
	if _, ok := body["output"]; ok {
		return body
	}
	for _, wrapper := range []string{"response", "data"} {
		inner := object(body[wrapper])
		if _, ok := inner["output"]; ok {
			return inner
		}
	}
	return nil
}

func responses(dialect string, body, container map[string]any) (*api.NormalizedResult, error) {
	res := &api.NormalizedResult{
		ID:    str(container["id"]),
		Model: str(container["model"]),
	}
	if created := integer(container["created_at"]); created > 0 {
		res.Created = int64(created)
	}

	output := array(container["output"])
	if text := str(body["output_text"]); strings.TrimSpace(text) != "" {
		res.Content = text
	} else if text := str(container["output_text"]); strings.TrimSpace(text) != "" {
		res.Content = text
	} else {
		var fragments []string
		for _, raw := range output {
			item := object(raw)
			switch str(item["type"]) {
			case "reasoning":
				res.Annotations = append(res.Annotations, reasoningNote(item))
				continue
			case "function_call":
				res.FinishReason = api.FinishFunctionCall
				res.Annotations = append(res.Annotations, "function_call: "+str(item["name"]))
				continue
			}
			fragments = append(fragments, itemText(item)...)
		}
		if len(fragments) == 0 {
			return nil, unrecognized(dialect, body, firstObject(output))
		}
		res.Content = strings.Join(fragments, "")
	}

	usage := object(container["usage"])
	res.Usage = api.Usage{
		PromptTokens:     integer(usage["input_tokens"]),
		CompletionTokens: integer(usage["output_tokens"]),
		TotalTokens:      integer(usage["total_tokens"]),
	}

	if str(container["status"]) == "incomplete" {
		switch str(object(container["incomplete_details"])["reason"]) {
		case "max_output_tokens":
			res.FinishReason = api.FinishLength
		case "content_filter":
			res.FinishReason = api.FinishContentFilter
		}
	}
	return res, nil
}

// itemText collects the text of one output item: a direct text field, a
// direct output_text field, or text nested in its content parts.
func itemText(item map[string]any) []string {
	var out []string
	if t := str(item["text"]); t != "" {
		out = append(out, t)
	}
	if t := str(item["output_text"]); t != "" {
		out = append(out, t)
	}
	for _, raw := range array(item["content"]) {
		part := object(raw)
		if t := str(part["text"]); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func reasoningNote(item map[string]any) string {
	var parts []string
	for _, raw := range array(item["summary"]) {
		if t := str(object(raw)["text"]); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "reasoning"
	}
	return "reasoning: " + strings.Join(parts, " ")
}

func chatCompletion(dialect string, body map[string]any) (*api.NormalizedResult, error) {
	choices := array(body["choices"])
	first := firstObject(choices)
	if first == nil {
		return nil, unrecognized(dialect, body, nil)
	}
	message := object(first["message"])
	content, ok := message["content"]
	if !ok {
		return nil, unrecognized(dialect, body, first)
	}

	res := &api.NormalizedResult{
		ID:           str(body["id"]),
		Model:        str(body["model"]),
		FinishReason: chatFinish(str(first["finish_reason"])),
	}

	// grok and other compatible servers return reasoning beside the content
	// or inline as <think> blocks
	if r := str(message["reasoning_content"]); r != "" {
		res.Annotations = append(res.Annotations, "reasoning: "+r)
	}
	text, thinking := splitThinking(messageText(content))
	res.Content = text
	if thinking != "" {
		res.Annotations = append(res.Annotations, "thinking: "+thinking)
	}

	if refusal := str(message["refusal"]); refusal != "" {
		res.Annotations = append(res.Annotations, "refusal: "+refusal)
	}

	usage := object(body["usage"])
	res.Usage = api.Usage{
		PromptTokens:     integer(usage["prompt_tokens"]),
		CompletionTokens: integer(usage["completion_tokens"]),
		TotalTokens:      integer(usage["total_tokens"]),
	}
	return res, nil
}

// messageText accepts string content or a list of text parts.
func messageText(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case []any:
		var b strings.Builder
		for _, raw := range c {
			b.WriteString(str(object(raw)["text"]))
		}
		return b.String()
	default:
		return ""
	}
}

func chatFinish(reason string) api.FinishReason {
	switch reason {
	case "length":
		return api.FinishLength
	case "content_filter":
		return api.FinishContentFilter
	case "function_call", "tool_calls":
		return api.FinishFunctionCall
	default:
		return api.FinishStop
	}
}

func unrecognized(dialect string, body, block map[string]any) error {
	return &api.UnrecognizedPayloadError{
		Dialect:        dialect,
		TopLevelKeys:   keys(body),
		FirstBlockKeys: keys(block),
	}
}
