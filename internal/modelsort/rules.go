package modelsort

import "regexp"

const (
	// DefaultPriority keeps unknown but plausible ids in the middle of the list.
	DefaultPriority = 50
	// DeprecatedPriority is forced on ids matching a deprecated pattern.
	DeprecatedPriority = 10
)

// Rule maps a model id pattern onto a priority. Higher is newer or more capable.
type Rule struct {
	Pattern  *regexp.Regexp
	Priority int
}

func rule(pattern string, priority int) Rule {
	return Rule{Pattern: regexp.MustCompile(pattern), Priority: priority}
}

// Order matters inside each table: the first matching rule wins, so more
// specific families come before their prefixes (gpt-4o before gpt-4).

var OpenAIRules = []Rule{
	rule(`^gpt-5(\.\d+)?-pro`, 102),
	rule(`^gpt-5(\.\d+)?(-|$)`, 100),
	rule(`^o4`, 96),
	rule(`^o3-pro`, 94),
	rule(`^o3`, 93),
	rule(`^gpt-4\.1`, 90),
	rule(`^chatgpt-4o`, 86),
	rule(`^gpt-4o`, 85),
	rule(`^o1`, 80),
	rule(`^gpt-4-turbo`, 70),
	rule(`^gpt-4`, 60),
	rule(`^gpt-image`, 45),
	rule(`^dall-e-3`, 42),
	rule(`^dall-e`, 40),
	rule(`^gpt-3\.5`, 30),
	rule(`^(text-embedding|whisper|tts)`, 20),
}

var AnthropicRules = []Rule{
	rule(`^claude-opus-4`, 100),
	rule(`^claude-sonnet-4`, 98),
	rule(`^claude-haiku-4`, 95),
	rule(`^claude-3-7-sonnet`, 90),
	rule(`^claude-3-5-sonnet`, 85),
	rule(`^claude-3-5-haiku`, 80),
	rule(`^claude-3-opus`, 75),
	rule(`^claude-3-sonnet`, 65),
	rule(`^claude-3-haiku`, 60),
}

var GeminiRules = []Rule{
	rule(`^gemini-3`, 100),
	rule(`^gemini-2\.5-pro`, 95),
	rule(`^gemini-2\.5-flash-lite`, 88),
	rule(`^gemini-2\.5-flash-image`, 68),
	rule(`^gemini-2\.5-flash`, 90),
	rule(`^gemini-2\.0-flash-lite`, 78),
	rule(`^gemini-2\.0`, 80),
	rule(`^imagen-4`, 70),
	rule(`^imagen-3`, 65),
	rule(`^gemini-1\.5-pro`, 60),
	rule(`^gemini-1\.5-flash`, 55),
	rule(`^(text-embedding|gemini-embedding|embedding)`, 20),
}

var GrokRules = []Rule{
	rule(`^grok-4`, 100),
	rule(`^grok-3-mini`, 85),
	rule(`^grok-3`, 90),
	rule(`^grok-2-vision`, 72),
	rule(`^grok-2-image`, 60),
	rule(`^grok-2`, 70),
}

// DeprecatedRules lists retired families. Their priority is ignored; any match
// sinks the id to DeprecatedPriority.
var DeprecatedRules = []*regexp.Regexp{
	regexp.MustCompile(`-(0301|0314|0613)$`),
	regexp.MustCompile(`^(text-davinci|davinci|babbage|curie|ada)`),
	regexp.MustCompile(`^gpt-3\.5-turbo-instruct`),
	regexp.MustCompile(`^claude-(2|instant)`),
	regexp.MustCompile(`^gemini-(1\.0|pro)(-|$)`),
	regexp.MustCompile(`^grok-beta`),
}

// AllRules concatenates the vendor tables. Vendor families never overlap, so a
// single table serves mixed lists.
func AllRules() []Rule {
	all := make([]Rule, 0, len(OpenAIRules)+len(AnthropicRules)+len(GeminiRules)+len(GrokRules))
	all = append(all, OpenAIRules...)
	all = append(all, AnthropicRules...)
	all = append(all, GeminiRules...)
	all = append(all, GrokRules...)
	return all
}
