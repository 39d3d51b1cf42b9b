package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/TobiSchelling/KeywordScout/internal/database"
)

// requireDB answers 503 when the server runs without a database.
func (s *Server) requireDB(w http.ResponseWriter) bool {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "no database configured")
		return false
	}
	return true
}

// projectFromPath loads the project named by the {id} path segment, writing
// the error response itself when it cannot.
func (s *Server) projectFromPath(w http.ResponseWriter, r *http.Request) *database.Project {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return nil
	}
	project, err := s.db.GetProject(id)
	if err != nil {
		log.Printf("Error loading project %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load project")
		return nil
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "project not found")
		return nil
	}
	return project
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}
	projects, err := s.db.GetAllProjects()
	if err != nil {
		log.Printf("Error listing projects: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	if projects == nil {
		projects = []database.Project{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}
	var body struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Keywords    []string `json:"keywords"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := s.db.InsertProject(body.Name, strings.TrimSpace(body.Description))
	if errors.Is(err, database.ErrProjectExists) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		log.Printf("Error creating project: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create project")
		return
	}
	if len(body.Keywords) > 0 {
		if _, err := s.db.AddProjectKeywords(id, body.Keywords); err != nil {
			log.Printf("Error adding keywords to project %d: %v", id, err)
		}
	}

	project, err := s.db.GetProject(id)
	if err != nil || project == nil {
		writeError(w, http.StatusInternalServerError, "failed to load project")
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}
	if project := s.projectFromPath(w, r); project != nil {
		writeJSON(w, http.StatusOK, project)
	}
}

func (s *Server) handleRenameProject(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}
	project := s.projectFromPath(w, r)
	if project == nil {
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	err := s.db.RenameProject(project.ID, body.Name)
	if errors.Is(err, database.ErrProjectExists) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to rename project")
		return
	}
	project.Name = strings.TrimSpace(body.Name)
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}
	project := s.projectFromPath(w, r)
	if project == nil {
		return
	}
	if err := s.db.DeleteProject(project.ID); err != nil {
		log.Printf("Error deleting project %d: %v", project.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddProjectKeywords(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}
	project := s.projectFromPath(w, r)
	if project == nil {
		return
	}
	var body struct {
		Keywords json.RawMessage `json:"keywords"`
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

	added, err := s.db.AddProjectKeywords(project.ID, keywords)
	if err != nil {
		log.Printf("Error adding keywords to project %d: %v", project.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to add keywords")
		return
	}
	kws, err := s.db.GetProjectKeywords(project.ID)
	if err != nil {
		log.Printf("Error loading keywords for project %d: %v", project.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to load keywords")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"added": added, "keywords": kws})
}

func (s *Server) handleRemoveProjectKeyword(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}
	project := s.projectFromPath(w, r)
	if project == nil {
		return
	}
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		writeError(w, http.StatusBadRequest, "keyword is required")
		return
	}
	if err := s.db.RemoveProjectKeyword(project.ID, keyword); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to remove keyword")
		return
	}
	kws, err := s.db.GetProjectKeywords(project.ID)
	if err != nil {
		log.Printf("Error loading keywords for project %d: %v", project.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to load keywords")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"keywords": kws})
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.db.GetRecentHistory(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if entries == nil {
		entries = []database.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": entries})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}
	if err := s.db.ClearHistory(); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
