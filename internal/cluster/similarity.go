package cluster

import (
	"strings"

	"golang.org/x/text/cases"
)

// tokenize case-folds a keyword and splits it on runs of whitespace.
func tokenize(keyword string) []string {
	return strings.Fields(cases.Fold().String(keyword))
}

// Similarity returns the Jaccard-style overlap of two keywords' tokens in [0, 1].
//
// Identical keywords score exactly 1. Two keywords without any tokens score 0.
// The operands are ordered by their folded form before counting, so the score
// does not depend on argument order even when a keyword repeats a token.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	return similarityOf(tokenize(a), tokenize(b))
}

func similarityOf(wordsA, wordsB []string) float64 {
	if strings.Join(wordsB, " ") < strings.Join(wordsA, " ") {
		wordsA, wordsB = wordsB, wordsA
	}

	inB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		inB[w] = struct{}{}
	}

	common := 0
	for _, w := range wordsA {
		if _, ok := inB[w]; ok {
			common++
		}
	}

	denom := len(wordsA) + len(wordsB) - common
	if denom <= 0 {
		return 0
	}

	s := float64(common) / float64(denom)
	if s > 1 {
		s = 1
	}
	return s
}

// Matrix holds pairwise keyword similarities in condensed upper-triangle form.
type Matrix struct {
	n    int
	data []float64
}

// NewMatrix computes the similarity of every keyword pair.
func NewMatrix(keywords []string) *Matrix {
	n := len(keywords)
	tokens := make([][]string, n)
	for i, k := range keywords {
		tokens[i] = tokenize(k)
	}

	m := &Matrix{n: n}
	if n < 2 {
		return m
	}
	m.data = make([]float64, n*(n-1)/2)

	idx := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if keywords[i] == keywords[j] {
				m.data[idx] = 1
			} else {
				m.data[idx] = similarityOf(tokens[i], tokens[j])
			}
			idx++
		}
	}
	return m
}

// Len returns the number of keywords the matrix was built from.
func (m *Matrix) Len() int {
	return m.n
}

// At returns the similarity of keywords i and j. The diagonal is 1.
func (m *Matrix) At(i, j int) float64 {
	if i == j {
		return 1
	}
	return m.data[condensedIndex(m.n, i, j)]
}

// condensedIndex returns the index in the condensed array for pair (i, j).
func condensedIndex(n, i, j int) int {
	if i > j {
		i, j = j, i
	}
	return n*i - i*(i+1)/2 + j - i - 1
}
