// Package suggest looks up keyword suggestions from search engine
// autocomplete endpoints and derives long-tail variants from them.
package suggest

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/TobiSchelling/KeywordScout/internal/config"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// maxSeedWords is the longest seed that still gets a second suggestion hop.
	maxSeedWords = 2
	// maxHopSeeds caps how many suggestions are re-queried per seed.
	maxHopSeeds = 3
	// maxHopResults caps how many results are kept per re-queried suggestion.
	maxHopResults = 5
)

// Result holds a full suggestion lookup for one keyword.
type Result struct {
	Keyword               string       `json:"keyword"`
	Region                string       `json:"region"`
	Suggestions           []Suggestion `json:"suggestions"`
	AverageVolume         int          `json:"averageSearchVolume"`
	LongTail              []Suggestion `json:"longTailKeywords"`
	LongTailAverageVolume int          `json:"longTailAverageSearchVolume"`
}

// Service combines the suggestion sources behind a short-lived cache.
type Service struct {
	Google        *GoogleClient
	Yahoo         *YahooClient
	DefaultRegion string
	YahooEnabled  bool
	rng           Rand
	cache         *expirable.LRU[string, []string]
}

// NewService builds a Service from the suggest configuration.
func NewService(cfg *config.Config) *Service {
	timeout := cfg.SuggestTimeout()
	s := &Service{
		Google:        NewGoogleClient(timeout),
		Yahoo:         NewYahooClient(timeout),
		DefaultRegion: cfg.Suggest.Region,
		YahooEnabled:  cfg.Suggest.YahooEnabled,
		rng:           DefaultRand(),
	}
	if cfg.Suggest.CacheSize > 0 {
		s.cache = expirable.NewLRU[string, []string](cfg.Suggest.CacheSize, nil, cfg.CacheTTL())
	}
	return s
}

// SetRand replaces the random source used for simulated volumes.
func (s *Service) SetRand(rng Rand) {
	s.rng = rng
}

func (s *Service) region(region string) string {
	region = strings.ToLower(strings.TrimSpace(region))
	if region == "" {
		region = s.DefaultRegion
	}
	if region == "" {
		region = "jp"
	}
	return region
}

func (s *Service) cached(key string, fetch func() ([]string, error)) ([]string, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v, nil
		}
	}
	v, err := fetch()
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Add(key, v)
	}
	return v, nil
}

// GoogleSuggest returns raw Google suggestions for keyword.
func (s *Service) GoogleSuggest(ctx context.Context, keyword, region string) ([]string, error) {
	region = s.region(region)
	return s.cached("google:"+region+":"+keyword, func() ([]string, error) {
		return s.Google.Suggest(ctx, keyword, region)
	})
}

// YahooSuggest returns raw Yahoo! suggestions for keyword.
func (s *Service) YahooSuggest(ctx context.Context, keyword string) ([]string, error) {
	if !s.YahooEnabled {
		return []string{}, nil
	}
	return s.cached("yahoo:"+keyword, func() ([]string, error) {
		return s.Yahoo.Suggest(ctx, keyword)
	})
}

// Lookup fetches suggestions with simulated volumes plus long-tail variants.
// A failing upstream degrades to an empty suggestion list.
func (s *Service) Lookup(ctx context.Context, keyword, region string) *Result {
	region = s.region(region)
	raw, err := s.GoogleSuggest(ctx, keyword, region)
	if err != nil {
		log.Printf("Warning: suggestions for %q failed: %v", keyword, err)
		raw = []string{}
	}

	suggestions := WithVolumes(raw, s.rng)
	longTail := LongTail(keyword, suggestions, s.rng)
	return &Result{
		Keyword:               keyword,
		Region:                region,
		Suggestions:           suggestions,
		AverageVolume:         AverageVolume(suggestions),
		LongTail:              longTail,
		LongTailAverageVolume: AverageVolume(longTail),
	}
}

// LongTailFromSuggest queries suggestions of suggestions for short seeds.
// Seeds with more than two words are already long-tail and return nothing.
func (s *Service) LongTailFromSuggest(ctx context.Context, keyword, region string) ([]Suggestion, error) {
	if len(strings.Fields(keyword)) > maxSeedWords {
		return []Suggestion{}, nil
	}

	first, err := s.GoogleSuggest(ctx, keyword, region)
	if err != nil {
		return nil, err
	}

	var hops []string
	for _, sugg := range first {
		if len(hops) >= maxHopSeeds {
			break
		}
		if len(strings.Fields(sugg)) >= 2 {
			hops = append(hops, sugg)
		}
	}

	results := make([][]string, len(hops))
	var wg sync.WaitGroup
	for i, hop := range hops {
		wg.Add(1)
		go func(i int, hop string) {
			defer wg.Done()
			next, err := s.GoogleSuggest(ctx, hop, region)
			if err != nil {
				log.Printf("Warning: long-tail lookup for %q failed: %v", hop, err)
				return
			}
			var kept []string
			for _, n := range next {
				if len(kept) >= maxHopResults {
					break
				}
				if len(strings.Fields(n)) >= 3 {
					kept = append(kept, n)
				}
			}
			results[i] = kept
		}(i, hop)
	}
	wg.Wait()

	seen := make(map[string]bool)
	out := []Suggestion{}
	for _, batch := range results {
		for _, kw := range batch {
			if seen[kw] {
				continue
			}
			seen[kw] = true
			out = append(out, Suggestion{Keyword: kw, SearchVolume: estimateLongTailVolume(kw, s.rng)})
		}
	}
	return out, nil
}
