// Package pipeline runs a full keyword research pass for one seed keyword.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/TobiSchelling/KeywordScout/internal/cluster"
	"github.com/TobiSchelling/KeywordScout/internal/config"
	"github.com/TobiSchelling/KeywordScout/internal/database"
	"github.com/TobiSchelling/KeywordScout/internal/suggest"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full research run.
type Result struct {
	Keyword  string
	Region   string
	Keywords []string
	Groups   []cluster.Group
	Steps    []StepResult
}

// Pipeline orchestrates the research steps: suggest, long-tail, group, record.
type Pipeline struct {
	cfg     *config.Config
	db      *database.DB
	service *suggest.Service
	grouper *cluster.Grouper
}

// New creates a new pipeline. db may be nil, in which case nothing is recorded.
func New(cfg *config.Config, db *database.DB, service *suggest.Service) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		db:      db,
		service: service,
		grouper: cluster.NewGrouper(cfg.Grouping.Threshold, cfg.Grouping.MaxKeywords),
	}
}

// Research runs every step for keyword. When projectID is positive the
// collected keywords are also saved to that project.
func (p *Pipeline) Research(ctx context.Context, keyword, region string, projectID int64) *Result {
	keyword = strings.TrimSpace(keyword)
	if region == "" {
		region = p.cfg.Suggest.Region
	}
	r := &Result{Keyword: keyword, Region: region}

	// Step 1: Suggest
	suggestions, step := p.runSuggest(ctx, keyword, region)
	r.Steps = append(r.Steps, step)
	if step.Err != nil {
		return r
	}

	// Step 2: Long-tail
	longTail, step := p.runLongTail(ctx, keyword, region)
	r.Steps = append(r.Steps, step)

	r.Keywords = dedupe(append(append([]string{keyword}, suggestions...), longTail...))

	// Step 3: Group
	groups, step := p.runGroup(r.Keywords)
	r.Steps = append(r.Steps, step)
	r.Groups = groups

	// Step 4: Record
	r.Steps = append(r.Steps, p.runRecord(keyword, region, len(suggestions)))

	// Step 5: Save
	if projectID > 0 {
		r.Steps = append(r.Steps, p.runSave(projectID, r.Keywords))
	}

	return r
}

func (p *Pipeline) runSuggest(ctx context.Context, keyword, region string) ([]string, StepResult) {
	log.Printf("Fetching suggestions for %q (%s)...", keyword, region)
	suggestions, err := p.service.GoogleSuggest(ctx, keyword, region)
	if err != nil {
		return nil, StepResult{Name: "Suggest", Err: err}
	}

	if yahoo, err := p.service.YahooSuggest(ctx, keyword); err != nil {
		log.Printf("Warning: Yahoo suggestions unavailable: %v", err)
	} else {
		suggestions = append(suggestions, yahoo...)
	}

	return suggestions, StepResult{
		Name:    "Suggest",
		Summary: fmt.Sprintf("%d suggestions", len(suggestions)),
	}
}

func (p *Pipeline) runLongTail(ctx context.Context, keyword, region string) ([]string, StepResult) {
	longTail, err := p.service.LongTailFromSuggest(ctx, keyword, region)
	if err != nil {
		return nil, StepResult{Name: "Long-tail", Err: err}
	}

	keywords := make([]string, len(longTail))
	for i, s := range longTail {
		keywords[i] = s.Keyword
	}
	return keywords, StepResult{
		Name:    "Long-tail",
		Summary: fmt.Sprintf("%d long-tail keywords", len(keywords)),
	}
}

func (p *Pipeline) runGroup(keywords []string) ([]cluster.Group, StepResult) {
	groups, err := p.grouper.Group(keywords)
	if err != nil {
		return nil, StepResult{Name: "Group", Err: err}
	}
	return groups, StepResult{
		Name:    "Group",
		Summary: fmt.Sprintf("%d keywords in %d groups", len(keywords), len(groups)),
	}
}

func (p *Pipeline) runRecord(keyword, region string, count int) StepResult {
	if p.db == nil {
		return StepResult{Name: "Record", Summary: "No database, history not recorded"}
	}
	if _, err := p.db.InsertHistory(keyword, region, "research", count); err != nil {
		return StepResult{Name: "Record", Err: err}
	}
	return StepResult{Name: "Record", Summary: "Search recorded in history"}
}

func (p *Pipeline) runSave(projectID int64, keywords []string) StepResult {
	if p.db == nil {
		return StepResult{Name: "Save", Err: fmt.Errorf("no database to save project %d", projectID)}
	}
	project, err := p.db.GetProject(projectID)
	if err != nil {
		return StepResult{Name: "Save", Err: err}
	}
	if project == nil {
		return StepResult{Name: "Save", Err: fmt.Errorf("project %d not found", projectID)}
	}
	added, err := p.db.AddProjectKeywords(projectID, keywords)
	if err != nil {
		return StepResult{Name: "Save", Err: err}
	}
	return StepResult{
		Name:    "Save",
		Summary: fmt.Sprintf("%d new keywords added to %s", added, project.Name),
	}
}

// DryRun shows what would be done without executing.
func (p *Pipeline) DryRun(keyword, region string) *Result {
	if region == "" {
		region = p.cfg.Suggest.Region
	}
	r := &Result{Keyword: keyword, Region: region}

	sources := "Google"
	if p.cfg.Suggest.YahooEnabled {
		sources += " + Yahoo!"
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Suggest",
		Summary: fmt.Sprintf("[dry-run] Would query %s suggestions for %q in %s", sources, keyword, region),
	})

	longTail := "[dry-run] Would expand up to 3 suggestions into long-tail keywords"
	if len(strings.Fields(keyword)) > 2 {
		longTail = "[dry-run] Seed is already long-tail, nothing to expand"
	}
	r.Steps = append(r.Steps, StepResult{Name: "Long-tail", Summary: longTail})

	r.Steps = append(r.Steps, StepResult{
		Name:    "Group",
		Summary: fmt.Sprintf("[dry-run] Would group at threshold %.2f (max %d keywords)", p.grouper.Threshold, p.grouper.MaxKeywords),
	})

	record := "[dry-run] No database, history would not be recorded"
	if p.db != nil {
		if stats, err := p.db.GetStats(); err == nil {
			record = fmt.Sprintf("[dry-run] Would add to %d history entries", stats.HistoryEntries)
		}
	}
	r.Steps = append(r.Steps, StepResult{Name: "Record", Summary: record})

	return r
}

// dedupe drops blank and repeated keywords, keeping first occurrences.
func dedupe(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}
