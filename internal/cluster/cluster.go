// Package cluster groups keywords by lexical overlap using average-linkage
// agglomerative clustering and names each group by its common words.
package cluster

import (
	"errors"
	"fmt"
)

// DefaultThreshold is the minimum average similarity for two groups to merge.
const DefaultThreshold = 0.5

// ErrTooManyKeywords is returned by Grouper when the input exceeds its cap.
var ErrTooManyKeywords = errors.New("too many keywords")

// Group is a labelled set of keywords in their original input order.
type Group struct {
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
}

// GroupKeywords partitions keywords into labelled groups. Every input keyword,
// duplicates included, appears in exactly one group.
func GroupKeywords(keywords []string, threshold float64) []Group {
	clusters, _ := Agglomerate(NewMatrix(keywords), threshold)

	groups := make([]Group, len(clusters))
	for gi, members := range clusters {
		kws := make([]string, len(members))
		for i, idx := range members {
			kws[i] = keywords[idx]
		}
		groups[gi] = Group{
			Label:    Label(kws, gi+1),
			Keywords: kws,
		}
	}
	return groups
}

// Grouper applies a threshold and an input cap around GroupKeywords.
// The clustering cost grows cubically with input size, so callers serving
// requests should set MaxKeywords.
type Grouper struct {
	Threshold   float64
	MaxKeywords int // 0 disables the cap
}

// NewGrouper creates a Grouper. A threshold of 0 merges everything into one
// group; maxKeywords <= 0 disables the cap.
func NewGrouper(threshold float64, maxKeywords int) *Grouper {
	return &Grouper{Threshold: threshold, MaxKeywords: maxKeywords}
}

// ValidThreshold reports whether t lies within [0, 1]. NaN is rejected.
func ValidThreshold(t float64) bool {
	return t >= 0 && t <= 1
}

// Group clusters keywords, refusing inputs above MaxKeywords.
func (g *Grouper) Group(keywords []string) ([]Group, error) {
	if g.MaxKeywords > 0 && len(keywords) > g.MaxKeywords {
		return nil, fmt.Errorf("%w: %d exceeds limit of %d", ErrTooManyKeywords, len(keywords), g.MaxKeywords)
	}
	return GroupKeywords(keywords, g.Threshold), nil
}
