package conversation

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Some models leak chain-of-thought into their output despite prompt
// instructions. These patterns remove tagged reasoning blocks and their
// content before the text is shown to a user or parsed as JSON.
var reasoningBlockPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<redacted_reasoning[^>]*>.*?</redacted_reasoning[^>]*>`),
	regexp.MustCompile(`(?is)<redacted[^>]*>.*?</redacted[^>]*>`),
	regexp.MustCompile(`(?is)<think[^>]*>.*?</think[^>]*>`),
	regexp.MustCompile(`(?is)<thinking[^>]*>.*?</thinking[^>]*>`),
	regexp.MustCompile(`(?is)<reasoning[^>]*>.*?</reasoning[^>]*>`),
	regexp.MustCompile(`(?is)<parse[^>]*>.*?</parse[^>]*>`),
	regexp.MustCompile(`(?is)<observation[^>]*>.*?</observation[^>]*>`),
	regexp.MustCompile(`(?is)<thought[^>]*>.*?</thought[^>]*>`),
	regexp.MustCompile(`(?is)\[think[^\]]*\].*?\[/think[^\]]*\]`),
	regexp.MustCompile(`(?is)\[thinking[^\]]*\].*?\[/thinking[^\]]*\]`),
	regexp.MustCompile(`(?is)\[reasoning[^\]]*\].*?\[/reasoning[^\]]*\]`),
	regexp.MustCompile(`(?is)\[redacted[^\]]*\].*?\[/redacted[^\]]*\]`),
}

var (
	anyTagRe     = regexp.MustCompile(`<[^>]*>`)
	anyBracketRe = regexp.MustCompile(`\[[^\]]*\]`)
	fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	simpleJSONRe = regexp.MustCompile(`(?s)\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)
)

// thinkingIndicators mark lines of leaked reasoning. A line containing
// one of these is dropped unless it begins a JSON object.
var thinkingIndicators = []string{
	"okay, let's see", "okay let's see", "let me think", "i need to",
	"looking at", "first,", "check the", "the user sent", "the message is",
}

// responseNoiseMarkers are additional leak indicators for user-facing
// responses, where self-referential process narration is never wanted.
var responseNoiseMarkers = []string{
	"thinking:", "reasoning:", "parsing:", "observe:",
	"thought:", "action:", "let me think",
	"make sure to", "keep the tone", "check if the response",
	"within the character limit", "let me put it all together",
	"avoid using long sentences", "invite them to ask",
}

// StripNoise removes leaked reasoning from a user-facing model response:
// tagged blocks, stray markup, and whole lines of process narration.
func StripNoise(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	cleaned := text
	for _, re := range reasoningBlockPatterns {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	cleaned = anyTagRe.ReplaceAllString(cleaned, "")
	cleaned = anyBracketRe.ReplaceAllString(cleaned, "")

	var kept []string
	for _, line := range strings.Split(cleaned, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		if containsAny(lower, responseNoiseMarkers) || containsAny(lower, thinkingIndicators) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// CleanForJSON removes reasoning tags and thinking lines ahead of JSON
// extraction. Lines that open a JSON object are always kept.
func CleanForJSON(text string) string {
	if text == "" {
		return text
	}

	cleaned := text
	for _, re := range reasoningBlockPatterns {
		cleaned = re.ReplaceAllString(cleaned, "")
	}

	var kept []string
	for _, line := range strings.Split(cleaned, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		if containsAny(lower, thinkingIndicators) && !strings.HasPrefix(trimmed, "{") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// ExtractJSON pulls the first JSON object out of model output, which may
// wrap it in prose, code fences, or partial markup. Returns false when no
// parseable object is found.
func ExtractJSON(text string) (map[string]any, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	if m := tryUnmarshal(text); m != nil {
		return m, true
	}

	if match := fencedJSONRe.FindStringSubmatch(text); match != nil {
		if m := tryUnmarshal(match[1]); m != nil {
			return m, true
		}
	}

	// Scan for the first balanced-brace object.
	depth := 0
	start := -1
	for i, ch := range text {
		switch ch {
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start != -1 {
					if m := tryUnmarshal(text[start : i+1]); m != nil {
						return m, true
					}
					start = -1
				}
			}
		}
	}

	if match := simpleJSONRe.FindString(text); match != "" {
		if m := tryUnmarshal(match); m != nil {
			return m, true
		}
	}

	// Last resort: reassemble the lines between the first '{' and the
	// matching close.
	var jsonLines []string
	inJSON := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "{") || inJSON {
			inJSON = true
			jsonLines = append(jsonLines, line)
			if strings.HasSuffix(trimmed, "}") && strings.Count(trimmed, "{") <= strings.Count(trimmed, "}") {
				break
			}
		}
	}
	if len(jsonLines) > 0 {
		if m := tryUnmarshal(strings.Join(jsonLines, "\n")); m != nil {
			return m, true
		}
	}

	return nil, false
}

func tryUnmarshal(s string) map[string]any {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
