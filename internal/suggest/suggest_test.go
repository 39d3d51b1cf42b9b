package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/TobiSchelling/KeywordScout/internal/config"
)

// fixedRand always draws the same value, clamped to the range.
type fixedRand int

func (f fixedRand) IntN(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

func googleStub(t *testing.T, answers map[string][]string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		if r.URL.Query().Get("client") != "firefox" {
			t.Errorf("client = %q, want firefox", r.URL.Query().Get("client"))
		}
		q := r.URL.Query().Get("q")
		suggestions, ok := answers[q]
		if !ok {
			suggestions = []string{}
		}
		json.NewEncoder(w).Encode([]any{q, suggestions})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestService(t *testing.T, googleURL string) *Service {
	t.Helper()
	s := NewService(config.Default())
	s.Google.BaseURL = googleURL
	s.SetRand(fixedRand(0))
	return s
}

func TestGoogleSuggest(t *testing.T) {
	srv := googleStub(t, map[string][]string{"seo": {"seo tools", "seo とは"}}, nil)
	g := NewGoogleClient(0)
	g.BaseURL = srv.URL

	got, err := g.Suggest(context.Background(), "seo", "jp")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 2 || got[0] != "seo tools" {
		t.Errorf("got %v", got)
	}
}

func TestGoogleSuggestRejectsBadRegion(t *testing.T) {
	g := NewGoogleClient(0)
	for _, region := range []string{"", "j", "evil.example/x", "JPN"} {
		if _, err := g.Suggest(context.Background(), "seo", region); err == nil {
			t.Errorf("region %q: expected error", region)
		}
	}
}

func TestGoogleEndpoint(t *testing.T) {
	g := NewGoogleClient(0)

	base, hl := g.endpoint("us")
	if base != "https://www.google.com/complete/search" || hl != "en" {
		t.Errorf("us: got %s %s", base, hl)
	}
	base, hl = g.endpoint("jp")
	if base != "https://www.google.co.jp/complete/search" || hl != "ja" {
		t.Errorf("jp: got %s %s", base, hl)
	}
}

func TestGoogleSuggestMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["seo"]`))
	}))
	defer srv.Close()

	g := NewGoogleClient(0)
	g.BaseURL = srv.URL
	got, err := g.Suggest(context.Background(), "seo", "jp")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no suggestions, got %v", got)
	}
}

func TestYahooSuggest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("p") != "旅行" {
			t.Errorf("p = %q", r.URL.Query().Get("p"))
		}
		w.Write([]byte(`{"Result":[{"Suggest":"旅行 安い"},{"Suggest":""},{"Suggest":"旅行 国内"}]}`))
	}))
	defer srv.Close()

	y := NewYahooClient(0)
	y.BaseURL = srv.URL
	got, err := y.Suggest(context.Background(), "旅行")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 2 || got[1] != "旅行 国内" {
		t.Errorf("got %v", got)
	}
}

func TestYahooSuggestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	y := NewYahooClient(0)
	y.BaseURL = srv.URL
	if _, err := y.Suggest(context.Background(), "x"); err == nil {
		t.Fatal("expected error for 502")
	}
}

func TestLookup(t *testing.T) {
	srv := googleStub(t, map[string][]string{
		"seo": {"seo tools", "seo tools free download"},
	}, nil)
	s := newTestService(t, srv.URL)

	r := s.Lookup(context.Background(), "seo", "")
	if r.Region != "jp" {
		t.Errorf("region = %q, want jp", r.Region)
	}
	if len(r.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(r.Suggestions))
	}
	if r.AverageVolume <= 0 {
		t.Errorf("average volume = %d", r.AverageVolume)
	}
	if r.Suggestions[0].SearchVolume <= r.Suggestions[1].SearchVolume {
		t.Errorf("longer phrase should estimate lower: %v", r.Suggestions)
	}
	// One three-word suggestion plus the eight modifier phrases.
	if len(r.LongTail) != 9 {
		t.Errorf("long tail = %d entries, want 9", len(r.LongTail))
	}
	if r.LongTail[0].Keyword != "seo tools free download" {
		t.Errorf("long tail[0] = %q", r.LongTail[0].Keyword)
	}
}

func TestLookupDegradesOnUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	s := newTestService(t, srv.URL)

	r := s.Lookup(context.Background(), "seo", "jp")
	if len(r.Suggestions) != 0 || r.AverageVolume != 0 {
		t.Errorf("expected empty result, got %+v", r)
	}
	if len(r.LongTail) != len(longTailPhrases) {
		t.Errorf("long tail = %d entries, want %d", len(r.LongTail), len(longTailPhrases))
	}
}

func TestSuggestionsAreCached(t *testing.T) {
	var hits int32
	srv := googleStub(t, map[string][]string{"seo": {"seo tools"}}, &hits)
	s := newTestService(t, srv.URL)

	for i := 0; i < 3; i++ {
		if _, err := s.GoogleSuggest(context.Background(), "seo", "jp"); err != nil {
			t.Fatalf("GoogleSuggest: %v", err)
		}
	}
	if hits != 1 {
		t.Errorf("upstream hits = %d, want 1", hits)
	}

	if _, err := s.GoogleSuggest(context.Background(), "seo", "us"); err != nil {
		t.Fatalf("GoogleSuggest: %v", err)
	}
	if hits != 2 {
		t.Errorf("different region should miss the cache, hits = %d", hits)
	}
}

func TestYahooDisabled(t *testing.T) {
	s := newTestService(t, "http://127.0.0.1:0")
	s.YahooEnabled = false
	got, err := s.YahooSuggest(context.Background(), "x")
	if err != nil || len(got) != 0 {
		t.Errorf("got %v, %v", got, err)
	}
}

func TestLongTailFromSuggest(t *testing.T) {
	srv := googleStub(t, map[string][]string{
		"seo":       {"seo", "seo tools", "seo audit", "seo tips", "seo guide"},
		"seo tools": {"seo tools free online", "seo tools", "seo tools for beginners"},
		"seo audit": {"seo audit checklist pdf", "seo tools free online"},
		"seo tips":  {"seo tips 2024 guide"},
		"seo guide": {"seo guide never queried"},
	}, nil)
	s := newTestService(t, srv.URL)

	got, err := s.LongTailFromSuggest(context.Background(), "seo", "jp")
	if err != nil {
		t.Fatalf("LongTailFromSuggest: %v", err)
	}

	want := []string{
		"seo tools free online",
		"seo tools for beginners",
		"seo audit checklist pdf",
		"seo tips 2024 guide",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i].Keyword != w {
			t.Errorf("[%d] = %q, want %q", i, got[i].Keyword, w)
		}
		if got[i].SearchVolume < 0 {
			t.Errorf("[%d] negative volume", i)
		}
	}
}

func TestLongTailFromSuggestSkipsLongSeeds(t *testing.T) {
	var hits int32
	srv := googleStub(t, nil, &hits)
	s := newTestService(t, srv.URL)

	got, err := s.LongTailFromSuggest(context.Background(), "seo tools free", "jp")
	if err != nil {
		t.Fatalf("LongTailFromSuggest: %v", err)
	}
	if len(got) != 0 || hits != 0 {
		t.Errorf("expected no lookups, got %v with %d hits", got, hits)
	}
}
