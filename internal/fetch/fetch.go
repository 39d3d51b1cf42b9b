// Package fetch extracts readable text from web pages and mines it for
// candidate keyword phrases.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// maxPageBytes bounds how much of a page body is read.
const maxPageBytes = 5 << 20

// Page is the readable content of a fetched page.
type Page struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// PageExtractor fetches pages via HTTP + readability extraction.
type PageExtractor struct {
	client *http.Client
}

// NewPageExtractor creates a new page extractor.
func NewPageExtractor(timeout time.Duration) *PageExtractor {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &PageExtractor{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// Extract downloads pageURL and returns its main text.
func (f *PageExtractor) Extract(ctx context.Context, pageURL string) (*Page, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid page URL %q", pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "KeywordScout/1.0 (keyword research)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &httpError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", pageURL, err)
	}

	article, err := readability.FromReader(strings.NewReader(string(body)), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", pageURL, err)
	}

	page := &Page{
		URL:   pageURL,
		Title: strings.TrimSpace(article.Title),
		Text:  strings.TrimSpace(article.TextContent),
	}
	log.Printf("Extracted %d characters from %s", len(page.Text), pageURL)
	return page, nil
}

type httpError struct {
	code int
}

func (e *httpError) Error() string {
	return fmt.Sprintf("page returned %d %s", e.code, http.StatusText(e.code))
}
