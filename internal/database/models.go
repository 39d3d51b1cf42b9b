package database

// Project is a named collection of tracked keywords.
type Project struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Keywords    []string `json:"keywords"`
	CreatedAt   *string  `json:"created_at,omitempty"`
	UpdatedAt   *string  `json:"updated_at,omitempty"`
}

// HistoryEntry records a single keyword lookup.
type HistoryEntry struct {
	ID          int64   `json:"id"`
	Keyword     string  `json:"keyword"`
	Region      string  `json:"region"`
	Source      string  `json:"source"`
	ResultCount int     `json:"result_count"`
	SearchedAt  *string `json:"searched_at,omitempty"`
}

// Stats contains aggregate database statistics.
type Stats struct {
	Projects         int
	TrackedKeywords  int
	HistoryEntries   int
	DistinctSearches int
}
