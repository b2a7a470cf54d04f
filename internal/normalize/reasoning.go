package normalize

import "strings"

const (
	thinkStart = "<think>"
	thinkEnd   = "</think>"
)

// splitThinking separates inline <think>...</think> blocks from the visible
// text. An unclosed block runs to the end of the input.
func splitThinking(text string) (content, reasoning string) {
	if !strings.Contains(text, thinkStart) {
		return text, ""
	}

	var contentBuilder, reasoningBuilder strings.Builder
	cursor := 0

	for cursor < len(text) {
		startIdx := strings.Index(text[cursor:], thinkStart)
		if startIdx == -1 {
			contentBuilder.WriteString(text[cursor:])
			break
		}

		realStart := cursor + startIdx
		contentBuilder.WriteString(text[cursor:realStart])
		cursor = realStart + len(thinkStart)

		endIdx := strings.Index(text[cursor:], thinkEnd)
		if endIdx == -1 {
			reasoningBuilder.WriteString(text[cursor:])
			break
		}

		realEnd := cursor + endIdx
		reasoningBuilder.WriteString(text[cursor:realEnd])
		cursor = realEnd + len(thinkEnd)
	}

	return contentBuilder.String(), reasoningBuilder.String()
}
