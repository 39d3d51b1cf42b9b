package llm

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// ParseJSONResponse parses a JSON object from an LLM reply, handling markdown
// code blocks and surrounding prose.
func ParseJSONResponse(text string) map[string]any {
	raw := ExtractJSON(text)
	if raw == "" {
		return nil
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		log.Printf("Failed to parse LLM response as JSON: %v", err)
		return nil
	}

	return result
}

// DecodeJSON extracts the JSON payload of an LLM reply into v.
func DecodeJSON(text string, v any) error {
	raw := ExtractJSON(text)
	if raw == "" {
		return fmt.Errorf("no JSON found in response")
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decoding LLM JSON: %w", err)
	}
	return nil
}

// ExtractJSON returns the JSON portion of an LLM reply: the body of a code
// fence if present, otherwise the span from the first '{' or '[' to the
// matching last '}' or ']'. Returns "" when nothing looks like JSON.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	// Strip markdown code fences
	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		endIdx := len(lines) - 1
		for i := len(lines) - 1; i > 0; i-- {
			if strings.TrimSpace(lines[i]) == "```" {
				endIdx = i
				break
			}
		}
		if endIdx < 1 {
			return ""
		}
		text = strings.TrimSpace(strings.Join(lines[1:endIdx], "\n"))
	}

	if json.Valid([]byte(text)) {
		return text
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}
	closer := "}"
	if text[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(text, closer)
	if end <= start {
		return ""
	}
	return text[start : end+1]
}
