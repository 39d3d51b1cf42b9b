package cluster

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	minLabelWordLen = 3
	maxLabelWords   = 3
)

// Label names a cluster after its most frequent significant words: up to three
// tokens of at least three characters, most frequent first, ties broken by
// first appearance. A cluster with no significant word is labelled
// "Group {position}" where position is its 1-based place in the output.
func Label(keywords []string, position int) string {
	counts := make(map[string]int)
	var order []string

	for _, k := range keywords {
		for _, word := range tokenize(k) {
			if utf8.RuneCountInString(word) < minLabelWordLen {
				continue
			}
			if _, seen := counts[word]; !seen {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	var top []string
	for len(top) < maxLabelWords {
		maxCount := 0
		maxWord := ""
		for _, word := range order {
			if c := counts[word]; c > maxCount {
				maxCount = c
				maxWord = word
			}
		}
		if maxWord == "" {
			break
		}
		top = append(top, maxWord)
		delete(counts, maxWord)
	}

	if len(top) > 0 {
		return strings.Join(top, " ")
	}
	return fmt.Sprintf("Group %d", position)
}
