package database

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertProject(t *testing.T) {
	db := openTestDB(t)
	id, err := db.InsertProject("Blog SEO", "keywords for the company blog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero project ID")
	}

	p, err := db.GetProject(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil || p.Name != "Blog SEO" {
		t.Fatalf("expected project 'Blog SEO', got %+v", p)
	}
	if p.Description == nil || *p.Description != "keywords for the company blog" {
		t.Errorf("unexpected description %v", p.Description)
	}
	if len(p.Keywords) != 0 {
		t.Errorf("expected no keywords, got %v", p.Keywords)
	}
}

func TestInsertDuplicateProject(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.InsertProject("Shop", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := db.InsertProject("Shop", "")
	if !errors.Is(err, ErrProjectExists) {
		t.Errorf("expected ErrProjectExists, got %v", err)
	}
}

func TestInsertProjectRequiresName(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.InsertProject("   ", ""); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestGetMissingProject(t *testing.T) {
	db := openTestDB(t)
	p, err := db.GetProject(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil, got %+v", p)
	}
}

func TestProjectKeywords(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.InsertProject("Travel", "")

	added, err := db.AddProjectKeywords(id, []string{"cheap flights", "hotel deals", "cheap flights", " ", "tokyo hotels"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added != 3 {
		t.Errorf("expected 3 added, got %d", added)
	}

	added, _ = db.AddProjectKeywords(id, []string{"hotel deals"})
	if added != 0 {
		t.Errorf("expected duplicate to be skipped, got %d added", added)
	}

	kws, _ := db.GetProjectKeywords(id)
	want := []string{"cheap flights", "hotel deals", "tokyo hotels"}
	if !reflect.DeepEqual(kws, want) {
		t.Errorf("expected %v, got %v", want, kws)
	}

	if err := db.RemoveProjectKeyword(id, "hotel deals"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kws, _ = db.GetProjectKeywords(id)
	if !reflect.DeepEqual(kws, []string{"cheap flights", "tokyo hotels"}) {
		t.Errorf("unexpected keywords after removal: %v", kws)
	}
}

func TestGetAllProjects(t *testing.T) {
	db := openTestDB(t)
	a, _ := db.InsertProject("A", "")
	db.InsertProject("B", "")
	db.AddProjectKeywords(a, []string{"alpha"})

	projects, err := db.GetAllProjects()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	// newest first
	if projects[0].Name != "B" {
		t.Errorf("expected B first, got %s", projects[0].Name)
	}
	if !reflect.DeepEqual(projects[1].Keywords, []string{"alpha"}) {
		t.Errorf("expected keywords on A, got %v", projects[1].Keywords)
	}
}

func TestRenameProject(t *testing.T) {
	db := openTestDB(t)
	a, _ := db.InsertProject("A", "")
	db.InsertProject("B", "")

	if err := db.RenameProject(a, "Renamed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := db.GetProject(a)
	if p.Name != "Renamed" {
		t.Errorf("expected 'Renamed', got %q", p.Name)
	}

	if err := db.RenameProject(a, "B"); !errors.Is(err, ErrProjectExists) {
		t.Errorf("expected ErrProjectExists on rename clash, got %v", err)
	}
}

func TestDeleteProject(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.InsertProject("Gone", "")
	db.AddProjectKeywords(id, []string{"x", "y"})

	if err := db.DeleteProject(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := db.GetProject(id)
	if p != nil {
		t.Error("expected project to be deleted")
	}
	kws, _ := db.GetProjectKeywords(id)
	if len(kws) != 0 {
		t.Errorf("expected keywords to be deleted, got %v", kws)
	}
}

func TestHistory(t *testing.T) {
	db := openTestDB(t)
	db.InsertHistory("seo", "jp", "google", 10)
	db.InsertHistory("seo tools", "us", "yahoo", 4)
	db.InsertHistory("seo", "jp", "google", 9)

	entries, err := db.GetRecentHistory(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ResultCount != 9 || entries[1].Keyword != "seo tools" {
		t.Errorf("expected newest first, got %+v", entries)
	}

	if err := db.ClearHistory(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries, _ = db.GetRecentHistory(10)
	if len(entries) != 0 {
		t.Errorf("expected empty history, got %d", len(entries))
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.InsertProject("P", "")
	db.AddProjectKeywords(id, []string{"a", "b"})
	db.InsertHistory("seo", "jp", "google", 1)
	db.InsertHistory("seo", "jp", "google", 1)
	db.InsertHistory("sem", "jp", "google", 1)

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Projects != 1 || stats.TrackedKeywords != 2 || stats.HistoryEntries != 3 || stats.DistinctSearches != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
}
