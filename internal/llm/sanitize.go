package llm

import "strings"

// StripCodeFence removes a markdown code fence around a JSON payload.
// Models sometimes wrap structured output in ```json ... ``` despite
// being asked not to.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 && !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") {
		// Drop the language tag line ("json").
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ensureFields fills in any expected keys the model omitted, so the
// result has the same denominator as a pattern extraction.
func ensureFields(data map[string]any, fields []string) map[string]any {
	for _, f := range fields {
		if _, ok := data[f]; !ok {
			data[f] = nil
		}
	}
	return data
}
