package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/TobiSchelling/KeywordScout/internal/cluster"
	"github.com/TobiSchelling/KeywordScout/internal/fetch"
)

// maxPagePhrases caps the candidate phrases taken from a page.
const maxPagePhrases = 40

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseKeywordList validates a JSON keyword list: it must be a non-empty
// array of non-blank strings.
func parseKeywordList(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.New("keywords is required")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.New("keywords must be an array of strings")
	}
	if len(items) == 0 {
		return nil, errors.New("keywords must not be empty")
	}

	keywords := make([]string, len(items))
	for i, item := range items {
		if err := json.Unmarshal(item, &keywords[i]); err != nil {
			return nil, fmt.Errorf("keywords[%d] is not a string", i)
		}
		if strings.TrimSpace(keywords[i]) == "" {
			return nil, fmt.Errorf("keywords[%d] is blank", i)
		}
	}
	return keywords, nil
}

func (s *Server) handleGroupKeywords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Keywords  json.RawMessage `json:"keywords"`
		Threshold *float64        `json:"threshold"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	keywords, err := parseKeywordList(body.Keywords)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	grouper := s.grouper
	if body.Threshold != nil {
		if !cluster.ValidThreshold(*body.Threshold) {
			writeError(w, http.StatusBadRequest, "threshold must be within [0, 1]")
			return
		}
		grouper = &cluster.Grouper{Threshold: *body.Threshold, MaxKeywords: s.grouper.MaxKeywords}
	}

	groups, err := grouper.Group(keywords)
	if errors.Is(err, cluster.ErrTooManyKeywords) {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		writeError(w, http.StatusBadRequest, "keyword is required")
		return
	}

	result := s.suggest.Lookup(r.Context(), keyword, r.URL.Query().Get("region"))
	s.record(keyword, result.Region, "google", len(result.Suggestions))
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLongTail(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		writeError(w, http.StatusBadRequest, "keyword is required")
		return
	}

	suggestions, err := s.suggest.LongTailFromSuggest(r.Context(), keyword, r.URL.Query().Get("region"))
	if err != nil {
		log.Printf("Error fetching long-tail suggestions: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch long-tail suggestions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (s *Server) handleYahoo(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		writeError(w, http.StatusBadRequest, "keyword is required")
		return
	}

	suggestions, err := s.suggest.YahooSuggest(r.Context(), keyword)
	if err != nil {
		log.Printf("Error fetching Yahoo! suggestions: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch Yahoo! suggestions")
		return
	}
	s.record(keyword, "jp", "yahoo", len(suggestions))
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (s *Server) llmContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.cfg.LLMTimeout())
}

func (s *Server) handleAISuggestions(w http.ResponseWriter, r *http.Request) {
	var keyword string
	switch r.Method {
	case http.MethodGet:
		keyword = r.URL.Query().Get("keyword")
	case http.MethodPost:
		var body struct {
			Keyword string `json:"keyword"`
		}
		if err := decodeBody(w, r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		keyword = body.Keyword
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		writeError(w, http.StatusBadRequest, "keyword is required")
		return
	}

	ctx, cancel := s.llmContext(r)
	defer cancel()
	writeJSON(w, http.StatusOK, s.ideas.Suggest(ctx, keyword))
}

func (s *Server) handleAnalyzeNeeds(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Keyword string `json:"keyword"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	keyword := strings.TrimSpace(body.Keyword)
	if keyword == "" {
		writeError(w, http.StatusBadRequest, "keyword is required")
		return
	}

	ctx, cancel := s.llmContext(r)
	defer cancel()
	writeJSON(w, http.StatusOK, s.needs.Analyze(ctx, keyword))
}

func (s *Server) handleKeywordAnalysis(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MainKeyword     string          `json:"mainKeyword"`
		RelatedKeywords json.RawMessage `json:"relatedKeywords"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(body.MainKeyword) == "" {
		writeError(w, http.StatusBadRequest, "mainKeyword is required")
		return
	}
	var related []string
	if err := json.Unmarshal(body.RelatedKeywords, &related); err != nil {
		writeError(w, http.StatusBadRequest, "relatedKeywords must be an array of strings")
		return
	}

	ctx, cancel := s.llmContext(r)
	defer cancel()
	report, err := s.difficulty.Score(ctx, body.MainKeyword, related)
	if errors.Is(err, cluster.ErrTooManyKeywords) {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	geo := r.URL.Query().Get("geo")
	if geo == "" {
		geo = s.cfg.Suggest.TrendsGeo
	}

	trends, err := s.trends.Trending(r.Context(), geo)
	if err != nil {
		log.Printf("Error fetching trends: %v", err)
		writeError(w, http.StatusBadGateway, "failed to fetch trends")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"geo": strings.ToUpper(geo), "trends": trends})
}

func (s *Server) handlePageKeywords(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(body.URL) == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	page, err := s.pages.Extract(r.Context(), strings.TrimSpace(body.URL))
	if err != nil {
		log.Printf("Error extracting page: %v", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	phrases := fetch.CandidatePhrases(page.Text, maxPagePhrases)
	groups := []cluster.Group{}
	if len(phrases) > 0 {
		groups, err = s.grouper.Group(fetch.Keywords(phrases))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if phrases == nil {
		phrases = []fetch.Phrase{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"url":     page.URL,
		"title":   page.Title,
		"phrases": phrases,
		"groups":  groups,
	})
}
