package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

var regionPattern = regexp.MustCompile(`^[a-z]{2}$`)

// GoogleClient queries the Google autocomplete endpoint.
type GoogleClient struct {
	// BaseURL overrides the region-derived endpoint when set.
	BaseURL string
	client  *http.Client
}

// NewGoogleClient creates a Google autocomplete client.
func NewGoogleClient(timeout time.Duration) *GoogleClient {
	return &GoogleClient{client: &http.Client{Timeout: timeout}}
}

// endpoint returns the autocomplete URL and interface language for a region.
func (g *GoogleClient) endpoint(region string) (string, string) {
	hl := "ja"
	base := "https://www.google.co." + region + "/complete/search"
	if region == "us" {
		hl = "en"
		base = "https://www.google.com/complete/search"
	}
	if g.BaseURL != "" {
		base = g.BaseURL
	}
	return base, hl
}

// Suggest returns autocomplete suggestions for keyword in region.
// The endpoint answers [query, [suggestion, ...], ...]; anything else yields no suggestions.
func (g *GoogleClient) Suggest(ctx context.Context, keyword, region string) ([]string, error) {
	if !regionPattern.MatchString(region) {
		return nil, fmt.Errorf("invalid region %q", region)
	}

	base, hl := g.endpoint(region)
	params := url.Values{
		"q":      {keyword},
		"client": {"firefox"},
		"hl":     {hl},
	}

	req, err := http.NewRequestWithContext(ctx, "GET", base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google suggest error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google suggest returned %d", resp.StatusCode)
	}

	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding google suggestions: %w", err)
	}
	if len(payload) < 2 {
		return []string{}, nil
	}

	var suggestions []string
	if err := json.Unmarshal(payload[1], &suggestions); err != nil {
		return []string{}, nil
	}
	return suggestions, nil
}
