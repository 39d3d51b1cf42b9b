package suggest

import "strings"

const maxLongTail = 15

// longTailPhrases are appended to the seed keyword to pad the long-tail list.
var longTailPhrases = []string{"方法", "やり方", "とは", "違い", "比較", "おすすめ", "使い方", "意味"}

// LongTail derives long-tail keywords from a seed and its suggestions:
// suggestions of three or more words (at 80% volume), then seed + common
// modifier phrases until the list holds 15 entries.
func LongTail(base string, suggestions []Suggestion, rng Rand) []Suggestion {
	var out []Suggestion

	for _, s := range suggestions {
		if len(strings.Fields(s.Keyword)) >= 3 && s.Keyword != base {
			out = append(out, Suggestion{
				Keyword:      s.Keyword,
				SearchVolume: int(float64(s.SearchVolume) * 0.8),
			})
		}
	}

	for _, phrase := range longTailPhrases {
		if len(out) >= maxLongTail {
			break
		}
		kw := base + " " + phrase
		out = append(out, Suggestion{Keyword: kw, SearchVolume: EstimateVolume(kw, rng)})
	}

	return out
}
