package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/TobiSchelling/KeywordScout/internal/database"
	"github.com/spf13/cobra"
)

// --- projects command ---

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage keyword projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		projects, err := db.GetAllProjects()
		if err != nil {
			return err
		}

		if len(projects) == 0 {
			fmt.Println("No projects yet. Create one with: kwscout projects add")
			return nil
		}

		fmt.Println("Projects:")
		fmt.Println()
		for _, p := range projects {
			fmt.Printf("  [%d] %s (%d keywords)\n", p.ID, p.Name, len(p.Keywords))
			if p.Description != nil && *p.Description != "" {
				desc := *p.Description
				if len([]rune(desc)) > 60 {
					desc = string([]rune(desc)[:60]) + "..."
				}
				fmt.Printf("        %s\n", desc)
			}
		}
		return nil
	},
}

var projectsAddCmd = &cobra.Command{
	Use:   "add [name] [description]",
	Short: "Create a project",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		description := ""
		if len(args) > 1 {
			description = args[1]
		}

		id, err := db.InsertProject(args[0], description)
		if errors.Is(err, database.ErrProjectExists) {
			return fmt.Errorf("a project named %q already exists", args[0])
		}
		if err != nil {
			return err
		}
		fmt.Printf("Added project [%d]: %s\n", id, args[0])
		return nil
	},
}

// loadProject parses a project ID argument and loads the project.
func loadProject(db *database.DB, arg string) (*database.Project, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid project ID: %s", arg)
	}
	project, err := db.GetProject(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project %d not found", id)
	}
	return project, nil
}

var projectsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a project and its keywords",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		project, err := loadProject(db, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("[%d] %s\n", project.ID, project.Name)
		if project.Description != nil {
			fmt.Printf("%s\n", *project.Description)
		}
		fmt.Println()
		if len(project.Keywords) == 0 {
			fmt.Println("No keywords tracked.")
			return nil
		}
		for _, kw := range project.Keywords {
			fmt.Printf("  - %s\n", kw)
		}
		return nil
	},
}

var projectsRenameCmd = &cobra.Command{
	Use:   "rename [id] [name]",
	Short: "Rename a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		project, err := loadProject(db, args[0])
		if err != nil {
			return err
		}
		if err := db.RenameProject(project.ID, args[1]); err != nil {
			return err
		}
		fmt.Printf("Renamed project [%d]: %s -> %s\n", project.ID, project.Name, strings.TrimSpace(args[1]))
		return nil
	},
}

var projectsRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a project and its keywords",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		project, err := loadProject(db, args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteProject(project.ID); err != nil {
			return err
		}
		fmt.Printf("Removed project [%d]: %s\n", project.ID, project.Name)
		return nil
	},
}

var projectsAddKeywordCmd = &cobra.Command{
	Use:   "add-keyword [id] [keyword...]",
	Short: "Track keywords in a project",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		project, err := loadProject(db, args[0])
		if err != nil {
			return err
		}
		added, err := db.AddProjectKeywords(project.ID, args[1:])
		if err != nil {
			return err
		}
		fmt.Printf("Added %d keyword(s) to %s\n", added, project.Name)
		return nil
	},
}

var projectsRemoveKeywordCmd = &cobra.Command{
	Use:   "remove-keyword [id] [keyword]",
	Short: "Stop tracking a keyword",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		project, err := loadProject(db, args[0])
		if err != nil {
			return err
		}
		if err := db.RemoveProjectKeyword(project.ID, args[1]); err != nil {
			return err
		}
		fmt.Printf("Removed %q from %s\n", args[1], project.Name)
		return nil
	},
}

func init() {
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsAddCmd)
	projectsCmd.AddCommand(projectsShowCmd)
	projectsCmd.AddCommand(projectsRenameCmd)
	projectsCmd.AddCommand(projectsRemoveCmd)
	projectsCmd.AddCommand(projectsAddKeywordCmd)
	projectsCmd.AddCommand(projectsRemoveKeywordCmd)
}

// --- history command ---

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the search history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent lookups",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.GetRecentHistory(historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No searches recorded.")
			return nil
		}
		for _, e := range entries {
			when := ""
			if e.SearchedAt != nil {
				when = *e.SearchedAt
			}
			fmt.Printf("  %s  %-30s %-6s %-8s %d\n", when, e.Keyword, e.Region, e.Source, e.ResultCount)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded lookups",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.ClearHistory(); err != nil {
			return err
		}
		fmt.Println("Search history cleared.")
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
}
