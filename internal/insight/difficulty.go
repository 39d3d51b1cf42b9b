package insight

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/TobiSchelling/KeywordScout/internal/cluster"
	"github.com/TobiSchelling/KeywordScout/internal/llm"
	"github.com/TobiSchelling/KeywordScout/internal/suggest"
)

const difficultyPrompt = `あなたはSEOとキーワード分析の専門家です。以下のキーワードの競争度を1-100の数値で評価してください。

メインキーワード: "%s"
キーワード一覧:
%s

考慮する要素:
- 語句の長さと具体性（長いほど低スコア）
- 検索意図の明確さ（明確なほど低スコア）
- 潜在的な商業価値（高いほど高スコア）
- ブランド名を含むかどうか（含む場合は通常高スコア）

出力は以下のJSON形式で返してください:
{
  "difficultyScoredKeywords": [
    {"keyword": "キーワード1", "difficultyScore": 75, "reason": "スコアの簡潔な根拠"}
  ]
}

JSONのみを返してください。`

// KeywordDifficulty is the estimated ranking difficulty of one keyword.
type KeywordDifficulty struct {
	Keyword string `json:"keyword"`
	Score   int    `json:"difficultyScore"`
	Reason  string `json:"reason"`
}

// Cluster is a keyword group with its dominant search intent.
type Cluster struct {
	Name         string   `json:"name"`
	SearchIntent string   `json:"searchIntent"`
	Keywords     []string `json:"keywords"`
}

// DifficultyReport scores a main keyword and its related keywords.
type DifficultyReport struct {
	MainKeyword string              `json:"mainKeyword"`
	Keywords    []KeywordDifficulty `json:"difficultyScoredKeywords"`
	Clusters    []Cluster           `json:"clusters"`
	Timestamp   time.Time           `json:"timestamp"`
	Mock        bool                `json:"isMock,omitempty"`
}

// DifficultyScorer rates keyword difficulty with an LLM and groups the
// keywords with the similarity clusterer.
type DifficultyScorer struct {
	provider  llm.Provider
	maxTokens int
	grouper   *cluster.Grouper
	rng       suggest.Rand
	now       func() time.Time
}

// NewDifficultyScorer creates a scorer. provider may be nil.
func NewDifficultyScorer(provider llm.Provider, maxTokens int, grouper *cluster.Grouper) *DifficultyScorer {
	if grouper == nil {
		grouper = cluster.NewGrouper(cluster.DefaultThreshold, 0)
	}
	return &DifficultyScorer{
		provider:  provider,
		maxTokens: maxTokensOr(maxTokens),
		grouper:   grouper,
		rng:       suggest.DefaultRand(),
		now:       time.Now,
	}
}

// Score rates main and related. Blank keywords are ignored. Keywords the LLM
// leaves out get a heuristic score.
func (d *DifficultyScorer) Score(ctx context.Context, main string, related []string) (*DifficultyReport, error) {
	all := make([]string, 0, len(related)+1)
	for _, kw := range append([]string{main}, related...) {
		if kw = strings.TrimSpace(kw); kw != "" {
			all = append(all, kw)
		}
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no keywords to score")
	}

	groups, err := d.grouper.Group(all)
	if err != nil {
		return nil, fmt.Errorf("grouping keywords: %w", err)
	}

	report := &DifficultyReport{
		MainKeyword: strings.TrimSpace(main),
		Clusters:    make([]Cluster, len(groups)),
		Timestamp:   d.now().UTC(),
	}
	for i, g := range groups {
		report.Clusters[i] = Cluster{Name: g.Label, SearchIntent: intentOf(g.Keywords), Keywords: g.Keywords}
	}

	scored := d.scoreWithLLM(ctx, report.MainKeyword, all)

	// The report counts as mock unless at least one keyword got an LLM score.
	matched := 0
	report.Keywords = make([]KeywordDifficulty, len(all))
	for i, kw := range all {
		if kd, ok := scored[kw]; ok {
			report.Keywords[i] = kd
			matched++
			continue
		}
		report.Keywords[i] = d.heuristic(kw)
	}
	report.Mock = matched == 0

	return report, nil
}

// scoreWithLLM returns scores keyed by keyword, or nil when no usable reply
// was obtained.
func (d *DifficultyScorer) scoreWithLLM(ctx context.Context, main string, keywords []string) map[string]KeywordDifficulty {
	if d.provider == nil || !d.provider.IsConfigured() {
		return nil
	}

	prompt := fmt.Sprintf(difficultyPrompt, main, "- "+strings.Join(keywords, "\n- "))
	text, err := d.provider.Generate(ctx, prompt, d.maxTokens)
	if err != nil {
		log.Printf("Warning: difficulty scoring failed: %v", err)
		return nil
	}

	parsed := llm.ParseJSONResponse(text)
	if parsed == nil {
		return nil
	}
	items, ok := parsed["difficultyScoredKeywords"].([]any)
	if !ok {
		log.Println("Warning: difficulty reply has no difficultyScoredKeywords array")
		return nil
	}

	scored := make(map[string]KeywordDifficulty, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		kw := getString(m, "keyword", "")
		if kw == "" {
			continue
		}
		score := clamp(getInt(m, "difficultyScore", 50), 0, 100)
		scored[kw] = KeywordDifficulty{
			Keyword: kw,
			Score:   score,
			Reason:  getString(m, "reason", reasonFor(score)),
		}
	}
	return scored
}

// heuristic favours long, specific phrases: a random base in [20,80) plus
// two points per rune below fifteen.
func (d *DifficultyScorer) heuristic(keyword string) KeywordDifficulty {
	base := d.rng.IntN(60) + 20
	lengthFactor := max(0, 15-utf8.RuneCountInString(keyword)) * 2
	score := clamp(base+lengthFactor, 1, 100)
	return KeywordDifficulty{Keyword: keyword, Score: score, Reason: reasonFor(score)}
}

func reasonFor(score int) string {
	switch {
	case score > 80:
		return "高い商業的価値と短いキーワード長"
	case score > 60:
		return "中程度の競争と明確な検索意図"
	case score > 40:
		return "長めのキーワードとニッチな領域"
	default:
		return "非常に具体的で競争が少ない長いフレーズ"
	}
}

// intentMarkers map query modifiers to the intent they signal, checked in order.
var intentMarkers = []struct {
	marker string
	intent string
}{
	{"比較", "比較検討"},
	{"違い", "比較検討"},
	{"おすすめ", "購入前調査"},
	{"ランキング", "購入前調査"},
	{"使い方", "使い方確認"},
	{"方法", "問題解決"},
	{"やり方", "ハウツー検索"},
	{"とは", "定義検索"},
	{"意味", "定義検索"},
}

// intentOf picks the intent whose marker appears in the most keywords.
func intentOf(keywords []string) string {
	best, bestCount := defaultIntent, 0
	for _, im := range intentMarkers {
		count := 0
		for _, kw := range keywords {
			if strings.Contains(kw, im.marker) {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = im.intent, count
		}
	}
	return best
}
