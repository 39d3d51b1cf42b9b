// Package server serves the keyword research JSON API and a small HTML UI.
package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/TobiSchelling/KeywordScout/internal/cluster"
	"github.com/TobiSchelling/KeywordScout/internal/config"
	"github.com/TobiSchelling/KeywordScout/internal/database"
	"github.com/TobiSchelling/KeywordScout/internal/fetch"
	"github.com/TobiSchelling/KeywordScout/internal/insight"
	"github.com/TobiSchelling/KeywordScout/internal/llm"
	"github.com/TobiSchelling/KeywordScout/internal/suggest"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New()

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Server is the HTTP server for keyword research.
type Server struct {
	cfg        *config.Config
	db         *database.DB
	grouper    *cluster.Grouper
	suggest    *suggest.Service
	trends     *suggest.TrendsClient
	pages      *fetch.PageExtractor
	ideas      *insight.Suggester
	needs      *insight.NeedsAnalyzer
	difficulty *insight.DifficultyScorer
	templates  map[string]*template.Template
	mux        *http.ServeMux
}

// New creates a new Server. provider may be nil, in which case the AI
// endpoints answer with their fallback results.
func New(cfg *config.Config, db *database.DB, provider llm.Provider) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"join": strings.Join,
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the clone.
	// This gives each page its own {{define "content"}} and {{define "title"}}.
	pageNames := []string{"index.html", "projects.html", "needs.html"}
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		templates[name] = clone
	}

	grouper := cluster.NewGrouper(cfg.Grouping.Threshold, cfg.Grouping.MaxKeywords)
	s := &Server{
		cfg:        cfg,
		db:         db,
		grouper:    grouper,
		suggest:    suggest.NewService(cfg),
		trends:     suggest.NewTrendsClient(cfg.SuggestTimeout()),
		pages:      fetch.NewPageExtractor(0),
		ideas:      insight.NewSuggester(provider, cfg.LLM.MaxTokens),
		needs:      insight.NewNeedsAnalyzer(provider, cfg.LLM.MaxTokens),
		difficulty: insight.NewDifficultyScorer(provider, cfg.LLM.MaxTokens, grouper),
		templates:  templates,
		mux:        http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Pages
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("GET /projects", s.handleProjectsPage)
	s.mux.HandleFunc("POST /projects/add", s.handleAddProjectForm)
	s.mux.HandleFunc("POST /projects/{id}/delete", s.handleDeleteProjectForm)
	s.mux.HandleFunc("GET /needs", s.handleNeedsPage)

	// API
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("/api/group-keywords", s.handleGroupKeywords)
	s.mux.HandleFunc("GET /api/suggestions", s.handleSuggestions)
	s.mux.HandleFunc("GET /api/longtail-suggestions", s.handleLongTail)
	s.mux.HandleFunc("GET /api/yahoo-suggestions", s.handleYahoo)
	s.mux.HandleFunc("/api/ai-suggestions", s.handleAISuggestions)
	s.mux.HandleFunc("POST /api/analyze-needs", s.handleAnalyzeNeeds)
	s.mux.HandleFunc("POST /api/keyword-analysis", s.handleKeywordAnalysis)
	s.mux.HandleFunc("GET /api/trends", s.handleTrends)
	s.mux.HandleFunc("POST /api/page-keywords", s.handlePageKeywords)

	s.mux.HandleFunc("GET /api/projects", s.handleListProjects)
	s.mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	s.mux.HandleFunc("GET /api/projects/{id}", s.handleGetProject)
	s.mux.HandleFunc("PATCH /api/projects/{id}", s.handleRenameProject)
	s.mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)
	s.mux.HandleFunc("POST /api/projects/{id}/keywords", s.handleAddProjectKeywords)
	s.mux.HandleFunc("DELETE /api/projects/{id}/keywords", s.handleRemoveProjectKeyword)
	s.mux.HandleFunc("GET /api/history", s.handleListHistory)
	s.mux.HandleFunc("DELETE /api/history", s.handleClearHistory)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.templates[name]
	if !ok {
		log.Printf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody reads a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// record adds a lookup to the search history when a database is attached.
func (s *Server) record(keyword, region, source string, count int) {
	if s.db == nil {
		return
	}
	if _, err := s.db.InsertHistory(keyword, region, source, count); err != nil {
		log.Printf("Warning: recording history for %q: %v", keyword, err)
	}
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// Serve starts the HTTP server on the configured port.
func Serve(cfg *config.Config, db *database.DB, provider llm.Provider) error {
	srv, err := New(cfg, db, provider)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
