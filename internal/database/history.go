package database

// InsertHistory records a keyword lookup.
func (db *DB) InsertHistory(keyword, region, source string, resultCount int) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO search_history (keyword, region, source, result_count) VALUES (?, ?, ?, ?)`,
		keyword, region, source, resultCount,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetRecentHistory returns the most recent lookups, newest first.
func (db *DB) GetRecentHistory(limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(
		`SELECT id, keyword, region, source, result_count, searched_at
		FROM search_history ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.Keyword, &e.Region, &e.Source, &e.ResultCount, &e.SearchedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ClearHistory deletes all recorded lookups.
func (db *DB) ClearHistory() error {
	_, err := db.conn.Exec("DELETE FROM search_history")
	return err
}

// GetStats returns aggregate database statistics.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM projects", &s.Projects},
		{"SELECT COUNT(*) FROM project_keywords", &s.TrackedKeywords},
		{"SELECT COUNT(*) FROM search_history", &s.HistoryEntries},
		{"SELECT COUNT(DISTINCT keyword) FROM search_history", &s.DistinctSearches},
	}

	for _, q := range queries {
		if err := db.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	return s, nil
}
