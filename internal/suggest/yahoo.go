package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const yahooSuggestURL = "https://search.yahoo.co.jp/ajax/search_sg"

// YahooClient queries the Yahoo! JAPAN suggestion endpoint.
type YahooClient struct {
	BaseURL string
	client  *http.Client
}

// NewYahooClient creates a Yahoo! suggestion client.
func NewYahooClient(timeout time.Duration) *YahooClient {
	return &YahooClient{
		BaseURL: yahooSuggestURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Suggest returns Yahoo! suggestions for keyword.
func (y *YahooClient) Suggest(ctx context.Context, keyword string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", y.BaseURL+"?p="+url.QueryEscape(keyword), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo suggest error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo suggest returned %d", resp.StatusCode)
	}

	var result struct {
		Result []struct {
			Suggest string `json:"Suggest"`
		} `json:"Result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding yahoo suggestions: %w", err)
	}

	suggestions := make([]string, 0, len(result.Result))
	for _, r := range result.Result {
		if r.Suggest != "" {
			suggestions = append(suggestions, r.Suggest)
		}
	}
	return suggestions, nil
}
