// Package insight holds the LLM-backed research helpers: keyword ideas,
// search needs analysis and difficulty scoring. Every helper degrades to a
// deterministic or simulated answer when no provider is available.
package insight

import (
	"encoding/json"
	"strings"
)

const defaultMaxTokens = 1024

// defaultIntent is used when no search intent is known.
const defaultIntent = "情報収集"

func maxTokensOr(n int) int {
	if n <= 0 {
		return defaultMaxTokens
	}
	return n
}

func getString(m map[string]any, key, fallback string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return fallback
}

func getInt(m map[string]any, key string, fallback int) int {
	if v, ok := m[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return int(i)
			}
		}
	}
	return fallback
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
