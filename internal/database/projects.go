package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrProjectExists is returned when a project name is already taken.
var ErrProjectExists = errors.New("project already exists")

// InsertProject creates a new project.
func (db *DB) InsertProject(name, description string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("project name is required")
	}

	var desc *string
	if description != "" {
		desc = &description
	}

	result, err := db.conn.Exec(
		`INSERT OR IGNORE INTO projects (name, description) VALUES (?, ?)`,
		name, desc,
	)
	if err != nil {
		return 0, err
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return 0, fmt.Errorf("%w: %s", ErrProjectExists, name)
	}
	return result.LastInsertId()
}

// GetAllProjects returns all projects with their keywords, newest first.
func (db *DB) GetAllProjects() ([]Project, error) {
	rows, err := db.conn.Query(
		`SELECT id, name, description, created_at, updated_at FROM projects ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range projects {
		kws, err := db.GetProjectKeywords(projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].Keywords = kws
	}
	return projects, nil
}

// GetProject returns a single project by ID, or nil if it does not exist.
func (db *DB) GetProject(projectID int64) (*Project, error) {
	row := db.conn.QueryRow(
		"SELECT id, name, description, created_at, updated_at FROM projects WHERE id = ?",
		projectID,
	)
	var p Project
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	kws, err := db.GetProjectKeywords(p.ID)
	if err != nil {
		return nil, err
	}
	p.Keywords = kws
	return &p, nil
}

// RenameProject changes a project's name.
func (db *DB) RenameProject(projectID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("project name is required")
	}
	_, err := db.conn.Exec(
		`UPDATE projects SET name = ?, updated_at = datetime('now') WHERE id = ?`,
		name, projectID,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE") {
		return fmt.Errorf("%w: %s", ErrProjectExists, name)
	}
	return err
}

// DeleteProject removes a project and its keywords.
func (db *DB) DeleteProject(projectID int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM project_keywords WHERE project_id = ?", projectID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM projects WHERE id = ?", projectID); err != nil {
		return err
	}
	return tx.Commit()
}

// AddProjectKeywords adds keywords to a project, skipping ones already tracked.
// Returns the number of keywords actually added.
func (db *DB) AddProjectKeywords(projectID int64, keywords []string) (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	added := 0
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		result, err := tx.Exec(
			`INSERT OR IGNORE INTO project_keywords (project_id, keyword) VALUES (?, ?)`,
			projectID, kw,
		)
		if err != nil {
			return 0, fmt.Errorf("adding keyword %q: %w", kw, err)
		}
		n, _ := result.RowsAffected()
		added += int(n)
	}

	if added > 0 {
		if _, err := tx.Exec(`UPDATE projects SET updated_at = datetime('now') WHERE id = ?`, projectID); err != nil {
			return 0, err
		}
	}
	return added, tx.Commit()
}

// RemoveProjectKeyword removes a keyword from a project.
func (db *DB) RemoveProjectKeyword(projectID int64, keyword string) error {
	_, err := db.conn.Exec(
		`DELETE FROM project_keywords WHERE project_id = ? AND keyword = ?`,
		projectID, keyword,
	)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(`UPDATE projects SET updated_at = datetime('now') WHERE id = ?`, projectID)
	return err
}

// GetProjectKeywords returns a project's keywords in the order they were added.
func (db *DB) GetProjectKeywords(projectID int64) ([]string, error) {
	rows, err := db.conn.Query(
		`SELECT keyword FROM project_keywords WHERE project_id = ? ORDER BY rowid`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keywords := []string{}
	for rows.Next() {
		var kw string
		if err := rows.Scan(&kw); err != nil {
			return nil, err
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}
