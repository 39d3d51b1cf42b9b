package suggest

import (
	"math"
	"math/rand/v2"
	"strings"
)

// Rand is the random source used for simulated search volumes.
type Rand interface {
	IntN(n int) int
}

// globalRand uses the concurrency-safe top-level generator.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Suggestion is a keyword with a simulated monthly search volume.
type Suggestion struct {
	Keyword      string `json:"keyword"`
	SearchVolume int    `json:"searchVolume"`
}

// EstimateVolume simulates a monthly search volume. There is no volume data
// source; the figure only shrinks with the number of words so longer phrases
// rank lower.
func EstimateVolume(keyword string, rng Rand) int {
	words := len(strings.Fields(keyword))
	if words == 0 {
		words = 1
	}
	base := rng.IntN(10000) + 1000
	return int(math.Floor(float64(base) * math.Pow(0.7, float64(words))))
}

// estimateLongTailVolume simulates volumes for multi-hop long-tail suggestions,
// which sit well below head terms.
func estimateLongTailVolume(keyword string, rng Rand) int {
	words := len(strings.Fields(keyword))
	base := rng.IntN(500) + 10
	multiplier := math.Max(0.05, 1-float64(words)*0.2)
	return int(math.Floor(float64(base) * multiplier))
}

// WithVolumes attaches simulated volumes to plain suggestions.
func WithVolumes(keywords []string, rng Rand) []Suggestion {
	out := make([]Suggestion, len(keywords))
	for i, kw := range keywords {
		out[i] = Suggestion{Keyword: kw, SearchVolume: EstimateVolume(kw, rng)}
	}
	return out
}

// AverageVolume returns the rounded mean volume, 0 for no suggestions.
func AverageVolume(suggestions []Suggestion) int {
	if len(suggestions) == 0 {
		return 0
	}
	total := 0
	for _, s := range suggestions {
		total += s.SearchVolume
	}
	return int(math.Round(float64(total) / float64(len(suggestions))))
}

// DefaultRand returns the process-wide random source, safe for concurrent use.
func DefaultRand() Rand {
	return globalRand{}
}
