package suggest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const trendsFeedURL = "https://trends.google.com/trending/rss"

// maxTrends caps how many trending searches are returned.
const maxTrends = 20

// Trend is a currently trending search term.
type Trend struct {
	Keyword       string `json:"keyword"`
	Traffic       string `json:"traffic,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
}

// TrendsClient reads the Google Trends daily RSS feed.
type TrendsClient struct {
	BaseURL string
	timeout time.Duration
	parser  *gofeed.Parser
}

// NewTrendsClient creates a Google Trends feed client.
func NewTrendsClient(timeout time.Duration) *TrendsClient {
	return &TrendsClient{
		BaseURL: trendsFeedURL,
		timeout: timeout,
		parser:  gofeed.NewParser(),
	}
}

// Trending returns today's trending searches for a country code such as "JP".
func (t *TrendsClient) Trending(ctx context.Context, geo string) ([]Trend, error) {
	geo = strings.ToUpper(strings.TrimSpace(geo))
	if !regionPattern.MatchString(strings.ToLower(geo)) {
		return nil, fmt.Errorf("invalid geo %q", geo)
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	feed, err := t.parser.ParseURLWithContext(t.BaseURL+"?"+url.Values{"geo": {geo}}.Encode(), ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing trends feed: %w", err)
	}

	var trends []Trend
	for _, item := range feed.Items {
		if len(trends) >= maxTrends {
			break
		}
		if trend := parseTrend(item); trend != nil {
			trends = append(trends, *trend)
		}
	}
	return trends, nil
}

func parseTrend(item *gofeed.Item) *Trend {
	keyword := strings.TrimSpace(item.Title)
	if keyword == "" {
		return nil
	}

	trend := &Trend{Keyword: keyword}
	if item.PublishedParsed != nil {
		trend.PublishedDate = item.PublishedParsed.Format("2006-01-02")
	}
	if ht, ok := item.Extensions["ht"]; ok {
		if traffic := ht["approx_traffic"]; len(traffic) > 0 {
			trend.Traffic = strings.TrimSpace(traffic[0].Value)
		}
	}
	return trend
}
