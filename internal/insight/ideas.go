package insight

import (
	"context"
	"fmt"
	"log"

	"github.com/TobiSchelling/KeywordScout/internal/llm"
	"github.com/TobiSchelling/KeywordScout/internal/suggest"
)

const maxIdeas = 10

const ideasPrompt = `あなたはSEOとキーワードリサーチの専門家です。以下のキーワードに関連する高需要の検索キーワード候補を生成してください:

キーワード: "%s"

以下の条件を満たす検索キーワードを10個生成してください:
1. 実際のユーザーが検索する可能性が高く、検索ボリュームが見込めるキーワード
2. 様々な検索意図（調査型、購入型、問題解決型など）をカバーする
3. 競合性と実用性のバランスが取れている
4. 自然な日本語で、実際の検索クエリとして使われそうなフレーズ

各キーワードには、概算の月間検索ボリュームと検索意図も付けてください。

出力は以下のJSON形式で返してください:
[
  {"keyword": "キーワード1", "searchVolume": 1200, "searchIntent": "調査"}
]

JSONのみを返してください。`

// mockIdeaSuffixes build the fallback ideas when no provider answers.
var mockIdeaSuffixes = []string{
	"おすすめ", "比較", "メリット", "活用法", "ランキング",
	"初心者向け", "プロ向け", "最新情報", "選び方", "トレンド",
}

// Idea is an LLM-proposed keyword.
type Idea struct {
	Keyword      string `json:"keyword"`
	SearchVolume int    `json:"searchVolume"`
	SearchIntent string `json:"searchIntent"`
}

// IdeasResult is the reply for one seed keyword.
type IdeasResult struct {
	Keyword     string `json:"keyword"`
	Suggestions []Idea `json:"suggestions"`
	Mock        bool   `json:"isMock,omitempty"`
}

// Suggester proposes related keywords with an LLM.
type Suggester struct {
	provider  llm.Provider
	maxTokens int
	rng       suggest.Rand
}

// NewSuggester creates a keyword idea generator. provider may be nil.
func NewSuggester(provider llm.Provider, maxTokens int) *Suggester {
	return &Suggester{
		provider:  provider,
		maxTokens: maxTokensOr(maxTokens),
		rng:       suggest.DefaultRand(),
	}
}

// Suggest returns up to ten keyword ideas for keyword.
func (s *Suggester) Suggest(ctx context.Context, keyword string) *IdeasResult {
	if s.provider == nil || !s.provider.IsConfigured() {
		return s.mock(keyword)
	}

	text, err := s.provider.Generate(ctx, fmt.Sprintf(ideasPrompt, keyword), s.maxTokens)
	if err != nil {
		log.Printf("Warning: AI suggestions for %q failed: %v", keyword, err)
		return s.mock(keyword)
	}

	var raw []map[string]any
	if err := llm.DecodeJSON(text, &raw); err != nil {
		log.Printf("Warning: could not parse AI suggestions for %q: %v", keyword, err)
		return s.mock(keyword)
	}

	ideas := make([]Idea, 0, maxIdeas)
	for _, item := range raw {
		if len(ideas) >= maxIdeas {
			break
		}
		kw := getString(item, "keyword", "")
		if kw == "" {
			continue
		}
		volume := getInt(item, "searchVolume", 0)
		if volume <= 0 {
			volume = suggest.EstimateVolume(kw, s.rng)
		}
		ideas = append(ideas, Idea{
			Keyword:      kw,
			SearchVolume: volume,
			SearchIntent: getString(item, "searchIntent", defaultIntent),
		})
	}
	if len(ideas) == 0 {
		return s.mock(keyword)
	}

	return &IdeasResult{Keyword: keyword, Suggestions: ideas}
}

func (s *Suggester) mock(keyword string) *IdeasResult {
	ideas := make([]Idea, len(mockIdeaSuffixes))
	for i, suffix := range mockIdeaSuffixes {
		ideas[i] = Idea{
			Keyword:      keyword + " " + suffix,
			SearchVolume: s.rng.IntN(5000) + 500,
			SearchIntent: defaultIntent,
		}
	}
	return &IdeasResult{Keyword: keyword, Suggestions: ideas, Mock: true}
}
