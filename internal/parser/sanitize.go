package parser

import (
	"regexp"
	"strings"
)

// jsonObjectPattern matches the first brace-delimited span, newlines included.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// CleanJSONResponse strips markdown code fences from an AI reply and, if the
// remainder still does not look like a JSON object, extracts the first
// brace-delimited span.
func CleanJSONResponse(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		start := idx + len("```json")
		end := strings.LastIndex(text, "```")
		if end > start {
			text = text[start:end]
		}
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		start := idx + len("```")
		end := strings.LastIndex(text, "```")
		if end > start {
			text = text[start:end]
		}
	}

	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "{") {
		if match := jsonObjectPattern.FindString(text); match != "" {
			text = match
		}
	}

	return text
}
