package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TobiSchelling/KeywordScout/internal/cluster"
	"github.com/TobiSchelling/KeywordScout/internal/config"
	"github.com/TobiSchelling/KeywordScout/internal/database"
	"github.com/TobiSchelling/KeywordScout/internal/fetch"
	"github.com/TobiSchelling/KeywordScout/internal/insight"
	"github.com/TobiSchelling/KeywordScout/internal/llm"
	"github.com/TobiSchelling/KeywordScout/internal/pipeline"
	"github.com/TobiSchelling/KeywordScout/internal/server"
	"github.com/TobiSchelling/KeywordScout/internal/suggest"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "kwscout",
	Short:   "Keyword research from search suggestions",
	Long:    "KeywordScout collects search suggestions, expands them into long-tail keywords and groups them into topics.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			setLogFlags(verbose)
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		switch {
		case err == nil:
			cfg, err = config.Load(path)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
		case configPath == "":
			cfg = config.Default()
		default:
			return err
		}

		setLogFlags(verbose || strings.EqualFold(cfg.Logging.Level, "DEBUG"))
		return nil
	},
}

func setLogFlags(debug bool) {
	if debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(researchCmd)
	rootCmd.AddCommand(pageCmd)
	rootCmd.AddCommand(ideasCmd)
	rootCmd.AddCommand(needsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(historyCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("kwscout", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/kwscout/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to set the suggestion region, grouping threshold and LLM provider.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and configuration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Database: %s\n\n", db.Path())
		fmt.Println("Projects:")
		fmt.Printf("  Total: %d\n", stats.Projects)
		fmt.Printf("  Tracked keywords: %d\n", stats.TrackedKeywords)
		fmt.Println("\nSearch history:")
		fmt.Printf("  Lookups: %d\n", stats.HistoryEntries)
		fmt.Printf("  Distinct keywords: %d\n", stats.DistinctSearches)
		fmt.Println("\nSettings:")
		fmt.Printf("  Region: %s\n", cfg.Suggest.Region)
		fmt.Printf("  Grouping threshold: %.2f (max %d keywords)\n", cfg.Grouping.Threshold, cfg.Grouping.MaxKeywords)
		fmt.Printf("  LLM provider: %s\n", cfg.LLM.Provider)
		return nil
	},
}

// --- group command ---

var (
	groupFile      string
	groupThreshold float64
	jsonOutput     bool
)

var groupCmd = &cobra.Command{
	Use:   "group [keyword...]",
	Short: "Group keywords by shared words",
	Long: "Group keywords given as arguments, one per line in --file, or one per line on stdin.\n" +
		"Keywords that share enough words end up in the same group.",
	RunE: func(cmd *cobra.Command, args []string) error {
		keywords, err := readKeywords(args, groupFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if len(keywords) == 0 {
			return errors.New("no keywords given")
		}

		threshold := cfg.Grouping.Threshold
		if cmd.Flags().Changed("threshold") {
			if !cluster.ValidThreshold(groupThreshold) {
				return fmt.Errorf("threshold must be within [0, 1], got %v", groupThreshold)
			}
			threshold = groupThreshold
		}

		grouper := &cluster.Grouper{Threshold: threshold, MaxKeywords: cfg.Grouping.MaxKeywords}
		groups, err := grouper.Group(keywords)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(map[string]any{"groups": groups})
		}
		printGroups(groups)
		return nil
	},
}

func init() {
	groupCmd.Flags().StringVarP(&groupFile, "file", "f", "", "Read keywords from a file, one per line")
	groupCmd.Flags().Float64VarP(&groupThreshold, "threshold", "t", cluster.DefaultThreshold, "Minimum similarity for merging groups")
	groupCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON output")
}

// readKeywords takes keywords from args, else a file, else stdin. Blank lines
// are skipped.
func readKeywords(args []string, file string, stdin io.Reader) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	r := stdin
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("opening keyword file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var keywords []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			keywords = append(keywords, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading keywords: %w", err)
	}
	return keywords, nil
}

func printGroups(groups []cluster.Group) {
	for i, g := range groups {
		fmt.Printf("%d. %s (%d)\n", i+1, g.Label, len(g.Keywords))
		for _, kw := range g.Keywords {
			fmt.Printf("   - %s\n", kw)
		}
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// --- suggest command ---

var (
	region    string
	withYahoo bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [keyword]",
	Short: "Show search suggestions with estimated volumes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := suggest.NewService(cfg)
		ctx := context.Background()
		keyword := strings.TrimSpace(args[0])

		result := svc.Lookup(ctx, keyword, region)
		var yahoo []string
		if withYahoo {
			var err error
			if yahoo, err = svc.YahooSuggest(ctx, keyword); err != nil {
				log.Printf("Warning: Yahoo suggestions unavailable: %v", err)
			}
		}
		recordHistory(keyword, result.Region, "google", len(result.Suggestions))

		if jsonOutput {
			return printJSON(map[string]any{"result": result, "yahoo": yahoo})
		}

		fmt.Printf("Suggestions for %q (%s), average volume %d:\n", keyword, result.Region, result.AverageVolume)
		for _, s := range result.Suggestions {
			fmt.Printf("  %-40s %6d\n", s.Keyword, s.SearchVolume)
		}
		fmt.Printf("\nLong-tail keywords, average volume %d:\n", result.LongTailAverageVolume)
		for _, s := range result.LongTail {
			fmt.Printf("  %-40s %6d\n", s.Keyword, s.SearchVolume)
		}
		if len(yahoo) > 0 {
			fmt.Println("\nYahoo! suggestions:")
			for _, s := range yahoo {
				fmt.Printf("  %s\n", s)
			}
		}
		return nil
	},
}

func init() {
	suggestCmd.Flags().StringVarP(&region, "region", "r", "", "Suggestion region (jp, us, ...)")
	suggestCmd.Flags().BoolVar(&withYahoo, "yahoo", false, "Also query Yahoo! suggestions")
	suggestCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON output")
}

// recordHistory stores a lookup; failures only warn.
func recordHistory(keyword, region, source string, count int) {
	db, err := openDB()
	if err != nil {
		log.Printf("Warning: history not recorded: %v", err)
		return
	}
	defer db.Close()
	if _, err := db.InsertHistory(keyword, region, source, count); err != nil {
		log.Printf("Warning: history not recorded: %v", err)
	}
}

// --- trends command ---

var trendsGeo string

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show today's trending searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		geo := trendsGeo
		if geo == "" {
			geo = cfg.Suggest.TrendsGeo
		}

		trends, err := suggest.NewTrendsClient(cfg.SuggestTimeout()).Trending(context.Background(), geo)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(trends)
		}

		fmt.Printf("Trending searches (%s):\n", strings.ToUpper(geo))
		for i, t := range trends {
			line := fmt.Sprintf("  %2d. %s", i+1, t.Keyword)
			if t.Traffic != "" {
				line += " (" + t.Traffic + ")"
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	trendsCmd.Flags().StringVarP(&trendsGeo, "geo", "g", "", "Country code, e.g. JP or US")
	trendsCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON output")
}

// --- research command ---

var (
	dryRun    bool
	projectID int64
)

var researchCmd = &cobra.Command{
	Use:   "research [keyword]",
	Short: "Run the full research pass: suggest -> long-tail -> group -> record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		pipe := pipeline.New(cfg, db, suggest.NewService(cfg))

		var result *pipeline.Result
		if dryRun {
			result = pipe.DryRun(args[0], region)
		} else {
			result = pipe.Research(context.Background(), args[0], region, projectID)
		}

		for i, step := range result.Steps {
			fmt.Printf("\nStep %d/%d: %s\n", i+1, len(result.Steps), step.Name)
			if step.Err != nil {
				fmt.Printf("  Error: %v\n", step.Err)
			} else {
				fmt.Printf("  %s\n", step.Summary)
			}
		}

		if len(result.Groups) > 0 {
			fmt.Println()
			printGroups(result.Groups)
		}
		return nil
	},
}

func init() {
	researchCmd.Flags().StringVarP(&region, "region", "r", "", "Suggestion region (jp, us, ...)")
	researchCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without executing")
	researchCmd.Flags().Int64Var(&projectID, "project", 0, "Save the collected keywords to this project")
}

// --- page command ---

var pageCmd = &cobra.Command{
	Use:   "page [url]",
	Short: "Extract candidate keywords from a web page and group them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := fetch.NewPageExtractor(0).Extract(context.Background(), args[0])
		if err != nil {
			return err
		}

		phrases := fetch.CandidatePhrases(page.Text, 40)
		if len(phrases) == 0 {
			fmt.Println("No recurring phrases found.")
			return nil
		}

		grouper := cluster.NewGrouper(cfg.Grouping.Threshold, cfg.Grouping.MaxKeywords)
		groups, err := grouper.Group(fetch.Keywords(phrases))
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(map[string]any{"title": page.Title, "phrases": phrases, "groups": groups})
		}
		fmt.Printf("%s\n\n", page.Title)
		printGroups(groups)
		return nil
	},
}

func init() {
	pageCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON output")
}

// --- ideas and needs commands ---

func llmContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cfg.LLMTimeout())
}

var ideasCmd = &cobra.Command{
	Use:   "ideas [keyword]",
	Short: "Ask the LLM for related keyword ideas",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := llmContext()
		defer cancel()

		provider := llm.CreateProvider(ctx, cfg.LLM)
		result := insight.NewSuggester(provider, cfg.LLM.MaxTokens).Suggest(ctx, args[0])

		if result.Mock {
			fmt.Println("(no LLM provider answered; showing generic ideas)")
		}
		for _, idea := range result.Suggestions {
			fmt.Printf("  %-40s %6d  %s\n", idea.Keyword, idea.SearchVolume, idea.SearchIntent)
		}
		return nil
	},
}

var needsCmd = &cobra.Command{
	Use:   "needs [keyword]",
	Short: "Analyze the search needs behind a keyword",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := llmContext()
		defer cancel()

		provider := llm.CreateProvider(ctx, cfg.LLM)
		result := insight.NewNeedsAnalyzer(provider, cfg.LLM.MaxTokens).Analyze(ctx, args[0])
		fmt.Println(result.Analysis)
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		provider := llm.CreateProvider(ctx, cfg.LLM)
		cancel()

		fmt.Printf("Starting server at http://localhost:%d\n", cfg.Server.Port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(cfg, db, provider)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to run server on")
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "kwscout.db")
	return database.Open(dbPath)
}
