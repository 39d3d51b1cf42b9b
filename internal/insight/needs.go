package insight

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/TobiSchelling/KeywordScout/internal/llm"
)

const needsPrompt = `以下のキーワードについて、SEO視点から潜在ニーズと顕在ニーズを分析してください:

キーワード: "%s"

以下の形式で回答してください:
- 顕在ニーズ: [明示的に表現されている検索意図]
- 潜在ニーズ: [検索の背景にある可能性が高い隠れたニーズや悩み]
- ターゲットユーザー: [このキーワードを検索しそうなユーザー像]
- コンテンツ提案: [このキーワードに効果的に対応するコンテンツの種類]

簡潔に、箇条書きで各項目100文字以内で回答してください。`

// NeedsResult is a markdown needs analysis for one keyword.
type NeedsResult struct {
	Keyword  string `json:"keyword"`
	Analysis string `json:"analysis"`
	Mock     bool   `json:"isMock,omitempty"`
}

// NeedsAnalyzer describes the explicit and latent needs behind a search.
type NeedsAnalyzer struct {
	provider  llm.Provider
	maxTokens int
}

// NewNeedsAnalyzer creates a needs analyzer. provider may be nil.
func NewNeedsAnalyzer(provider llm.Provider, maxTokens int) *NeedsAnalyzer {
	return &NeedsAnalyzer{provider: provider, maxTokens: maxTokensOr(maxTokens)}
}

// Analyze returns the needs analysis for keyword as markdown.
func (n *NeedsAnalyzer) Analyze(ctx context.Context, keyword string) *NeedsResult {
	if n.provider == nil || !n.provider.IsConfigured() {
		return mockNeeds(keyword)
	}

	text, err := n.provider.Generate(ctx, fmt.Sprintf(needsPrompt, keyword), n.maxTokens)
	if err != nil {
		log.Printf("Warning: needs analysis for %q failed: %v", keyword, err)
		return mockNeeds(keyword)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return mockNeeds(keyword)
	}
	return &NeedsResult{Keyword: keyword, Analysis: text}
}

func mockNeeds(keyword string) *NeedsResult {
	analysis := fmt.Sprintf(`- 顕在ニーズ: "%[1]s"に関する情報や解決策の探索
- 潜在ニーズ: 時間や手間の節約、専門知識へのアクセス、自信を持って決断するための情報収集
- ターゲットユーザー: %[1]sについて知識を深めたい初心者から中級者、具体的な問題解決を求めるユーザー
- コンテンツ提案: ハウツーガイド、チュートリアル、事例紹介、比較記事、FAQ、基本概念の解説`, keyword)
	return &NeedsResult{Keyword: keyword, Analysis: analysis, Mock: true}
}
