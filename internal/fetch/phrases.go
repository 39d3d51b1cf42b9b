package fetch

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minPhraseCount is how often a phrase must recur to count as a candidate.
const minPhraseCount = 2

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "your": true, "with": true, "this": true,
	"that": true, "from": true, "have": true, "has": true, "was": true,
	"were": true, "will": true, "can": true, "all": true, "any": true,
	"our": true, "out": true, "its": true, "into": true, "more": true,
	"about": true, "than": true, "then": true, "them": true, "they": true,
	"their": true, "there": true, "what": true, "when": true, "which": true,
	"who": true, "how": true, "why": true, "also": true, "just": true,
	"been": true, "being": true, "here": true, "some": true, "such": true,
}

// Phrase is a recurring multi-word phrase and its frequency.
type Phrase struct {
	Text  string `json:"phrase"`
	Count int    `json:"count"`
}

func significant(word string) bool {
	return utf8.RuneCountInString(word) >= 3 && !stopWords[word]
}

// splitRuns breaks text into runs of words, cutting at punctuation so phrases
// never straddle a sentence or list boundary.
func splitRuns(text string) [][]string {
	var runs [][]string
	var run []string
	var word strings.Builder

	flushWord := func() {
		if word.Len() > 0 {
			run = append(run, strings.ToLower(word.String()))
			word.Reset()
		}
	}
	flushRun := func() {
		flushWord()
		if len(run) > 0 {
			runs = append(runs, run)
			run = nil
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '\'':
			word.WriteRune(r)
		case unicode.IsSpace(r):
			flushWord()
		default:
			flushRun()
		}
	}
	flushRun()
	return runs
}

// CandidatePhrases returns up to limit 2-3 word phrases made only of
// significant words that occur at least twice, most frequent first and ties
// in order of first appearance.
func CandidatePhrases(text string, limit int) []Phrase {
	counts := make(map[string]int)
	var order []string

	for _, run := range splitRuns(text) {
		for n := 2; n <= 3; n++ {
			for i := 0; i+n <= len(run); i++ {
				words := run[i : i+n]
				ok := true
				for _, w := range words {
					if !significant(w) {
						ok = false
						break
					}
				}
				if !ok {
					continue
				}
				phrase := strings.Join(words, " ")
				if counts[phrase] == 0 {
					order = append(order, phrase)
				}
				counts[phrase]++
			}
		}
	}

	var phrases []Phrase
	for _, p := range order {
		if counts[p] >= minPhraseCount {
			phrases = append(phrases, Phrase{Text: p, Count: counts[p]})
		}
	}
	sort.SliceStable(phrases, func(i, j int) bool {
		return phrases[i].Count > phrases[j].Count
	})

	if limit > 0 && len(phrases) > limit {
		phrases = phrases[:limit]
	}
	return phrases
}

// Keywords returns just the phrase texts.
func Keywords(phrases []Phrase) []string {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		out[i] = p.Text
	}
	return out
}
