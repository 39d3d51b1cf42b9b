package server

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/TobiSchelling/KeywordScout/internal/cluster"
	"github.com/TobiSchelling/KeywordScout/internal/database"
	"github.com/TobiSchelling/KeywordScout/internal/suggest"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	region := r.URL.Query().Get("region")
	data := map[string]any{
		"Keyword": keyword,
		"Region":  region,
	}

	if keyword != "" {
		result := s.suggest.Lookup(r.Context(), keyword, region)
		s.record(keyword, result.Region, "google", len(result.Suggestions))
		data["Result"] = result
		data["Region"] = result.Region
		data["Groups"] = s.groupSuggestions(keyword, result.Suggestions)
	}

	if s.db != nil {
		history, _ := s.db.GetRecentHistory(20)
		data["History"] = history
	}

	s.render(w, "index.html", data)
}

// groupSuggestions clusters the seed and its suggestions for display.
func (s *Server) groupSuggestions(keyword string, suggestions []suggest.Suggestion) []cluster.Group {
	keywords := []string{keyword}
	for _, sg := range suggestions {
		keywords = append(keywords, sg.Keyword)
	}
	groups, err := s.grouper.Group(keywords)
	if err != nil {
		log.Printf("Warning: grouping suggestions: %v", err)
		return nil
	}
	return groups
}

func (s *Server) handleProjectsPage(w http.ResponseWriter, r *http.Request) {
	var projects []database.Project
	if s.db != nil {
		projects, _ = s.db.GetAllProjects()
	}
	s.render(w, "projects.html", map[string]any{
		"Projects": projects,
	})
}

func (s *Server) handleAddProjectForm(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	description := strings.TrimSpace(r.FormValue("description"))
	keywords := strings.Split(r.FormValue("keywords"), "\n")

	if s.db != nil && name != "" {
		id, err := s.db.InsertProject(name, description)
		if err != nil {
			log.Printf("Error creating project %q: %v", name, err)
		} else {
			s.db.AddProjectKeywords(id, keywords)
		}
	}

	http.Redirect(w, r, "/projects", http.StatusFound)
}

func (s *Server) handleDeleteProjectForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err == nil && s.db != nil {
		s.db.DeleteProject(id)
	}
	http.Redirect(w, r, "/projects", http.StatusFound)
}

func (s *Server) handleNeedsPage(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	data := map[string]any{"Keyword": keyword}

	if keyword != "" {
		ctx, cancel := s.llmContext(r)
		defer cancel()
		data["Needs"] = s.needs.Analyze(ctx, keyword)
	}

	s.render(w, "needs.html", data)
}
