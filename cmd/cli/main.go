package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/viral-studio/internal/agent/ingest"
	"github.com/viral-studio/internal/ai"
	"github.com/viral-studio/internal/analyzer"
	"github.com/viral-studio/internal/casestore"
	"github.com/viral-studio/internal/casestore/jsonfile"
	"github.com/viral-studio/internal/casestore/sqlite"
	"github.com/viral-studio/internal/config"
	"github.com/viral-studio/internal/draft"
	"github.com/viral-studio/internal/models"
	"github.com/viral-studio/internal/radar"
	"github.com/viral-studio/internal/session"
	"github.com/viral-studio/internal/source"
	"github.com/viral-studio/internal/source/rss"
	"github.com/viral-studio/internal/tracker"
	"github.com/viral-studio/pkg/logger"
	"github.com/viral-studio/pkg/ratelimit"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
	repo    casestore.Repository
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "viral-studio",
		Short: "Viral content study workbench powered by AI",
		Long: `A workbench for content creators: collect viral cases, break down
why they worked with a three-stage AI scoring pipeline, and recycle the
insight into new drafts.`,
		PersistentPreRunE: initializeApp,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(casesCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(draftCmd())
	rootCmd.AddCommand(trackerCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initializeApp(cmd *cobra.Command, args []string) error {
	var err error

	// Load config
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log = logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	// Initialize the case store
	switch cfg.Storage.Driver {
	case "sqlite":
		log.Info().Msg("Using SQLite case store")
		repo, err = sqlite.New(cfg.Storage.DSN)
	default:
		log.Info().Msg("Using JSON file case store")
		repo, err = jsonfile.New(cfg.Storage.Path, log)
	}
	if err != nil {
		return fmt.Errorf("failed to open case store: %w", err)
	}

	return nil
}

// ============ CASES COMMANDS ============

func casesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cases",
		Short: "Browse and manage the case repository",
	}

	cmd.AddCommand(casesListCmd())
	cmd.AddCommand(casesAddCmd())
	cmd.AddCommand(casesImportCmd())
	return cmd
}

func parseSortKey(name string) (casestore.SortKey, error) {
	switch name {
	case "", "none":
		return casestore.SortNone, nil
	case "impact":
		return casestore.SortImpactDesc, nil
	case "publish":
		return casestore.SortPublishDesc, nil
	case "added":
		return casestore.SortAddedDesc, nil
	}
	return casestore.SortNone, fmt.Errorf("unknown sort key %q (use none, impact, publish or added)", name)
}

func parsePlatforms(names []string) ([]models.Platform, error) {
	platforms := make([]models.Platform, 0, len(names))
	for _, name := range names {
		p := models.Platform(strings.ToLower(name))
		if !p.IsValid() {
			return nil, fmt.Errorf("unknown platform %q (use wechat, bilibili or weibo)", name)
		}
		platforms = append(platforms, p)
	}
	return platforms, nil
}

func casesListCmd() *cobra.Command {
	var platformNames []string
	var keyword string
	var sortName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cases with filtering and sorting",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			query := casestore.DefaultQuery()
			if cmd.Flags().Changed("platform") {
				platforms, err := parsePlatforms(platformNames)
				if err != nil {
					return err
				}
				query.Platforms = platforms
			}
			query.Keyword = keyword

			sortKey, err := parseSortKey(sortName)
			if err != nil {
				return err
			}
			query.SortKey = sortKey

			cases, err := repo.Query(ctx, query)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Cases (%d) ===\n\n", len(cases))
			for _, c := range cases {
				fmt.Printf("[%s] %s\n", c.ID, c.Title)
				fmt.Printf("    Author: %s | Platform: %s | Impact: %d\n", c.Author, c.Platform, c.DisplayScore())
				if t := c.CanonicalPublishTime(); t != "" {
					fmt.Printf("    Published: %s\n", t)
				}
				fmt.Printf("    Added: %s\n", c.AddedTime)
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&platformNames, "platform", nil, "Platforms to include (repeatable; default all)")
	cmd.Flags().StringVar(&keyword, "keyword", "", "Keyword matched against title, content or author")
	cmd.Flags().StringVar(&sortName, "sort", "none", "Sort key: none, impact, publish or added")

	return cmd
}

func casesAddCmd() *cobra.Command {
	var title, platformName, content, link, author string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a case to the repository manually",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			platform := models.Platform(strings.ToLower(platformName))
			if !platform.IsValid() {
				return fmt.Errorf("unknown platform %q (use wechat, bilibili or weibo)", platformName)
			}

			now := time.Now()
			newCase := &models.Case{
				Title:       title,
				Author:      author,
				Content:     content,
				Link:        link,
				Platform:    platform,
				PublishTime: models.StringSlice{now.Format(models.TimeLayout)},
				AddedTime:   now.Format(models.TimeLayout),
			}

			id, err := repo.Append(ctx, newCase)
			if err != nil {
				return err
			}

			fmt.Printf("Case added with id %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Case title (required)")
	cmd.Flags().StringVar(&platformName, "platform", "", "Platform: wechat, bilibili or weibo (required)")
	cmd.Flags().StringVar(&content, "content", "", "Case content (required)")
	cmd.Flags().StringVar(&link, "link", "", "Link to the original post")
	cmd.Flags().StringVar(&author, "author", "", "Original author")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("platform")
	cmd.MarkFlagRequired("content")

	return cmd
}

func casesImportCmd() *cobra.Command {
	var sourceName string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk import candidate cases from configured sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sourceManager := source.NewManager()
			if cfg.Sources.RSS.Enabled {
				for _, src := range rss.NewMultiple(cfg.Sources.RSS, log) {
					sourceManager.Register(src)
				}
			}

			if sourceName != "" {
				src := sourceManager.GetSourceByName(sourceName)
				if src == nil {
					return fmt.Errorf("unknown source %q", sourceName)
				}
				sourceManager = source.NewManager()
				sourceManager.Register(src)
			}

			agent := ingest.NewAgent(sourceManager, repo, log)
			result, err := agent.Run(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Import Results ===\n")
			fmt.Printf("Cases Found:   %d\n", result.CasesFound)
			fmt.Printf("Cases Saved:   %d\n", result.CasesSaved)
			fmt.Printf("Cases Skipped: %d\n", result.CasesSkipped)
			fmt.Printf("Duration:      %s\n", result.Duration)

			if len(result.Errors) > 0 {
				fmt.Printf("\nErrors:\n")
				for _, e := range result.Errors {
					fmt.Printf("  - %s\n", e)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&sourceName, "source", "", "Import from a specific source only")
	return cmd
}

// ============ ANALYZE COMMAND ============

func analyzeCmd() *cobra.Command {
	var track bool

	cmd := &cobra.Command{
		Use:   "analyze [case-id]",
		Short: "Run the three-stage scoring pipeline on a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			selected, err := repo.FindByID(ctx, args[0])
			if err != nil {
				return err
			}

			sess := session.New()
			sess.Select(selected)

			limiter := ratelimit.NewDefaultLimiter()
			aiClient := ai.NewClient(cfg.Anthropic, limiter, log)
			pipeline := analyzer.NewPipeline(aiClient, cfg.Analysis.StageTimeout, log)

			fmt.Printf("Analyzing [%s] %s ...\n", selected.ID, selected.Title)

			result, err := pipeline.Analyze(ctx, sess)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			printAnalysis(selected, result)

			if track && cfg.Tracker.Enabled {
				t, err := tracker.NewSheetsTracker(tracker.Config{
					Enabled:            cfg.Tracker.Enabled,
					SpreadsheetID:      cfg.Tracker.SpreadsheetID,
					SheetName:          cfg.Tracker.SheetName,
					CredentialsFile:    cfg.Tracker.CredentialsFile,
					ServiceAccountJSON: cfg.Tracker.ServiceAccountJSON,
				}, log)
				if err != nil {
					log.Warn().Err(err).Msg("Failed to create tracker")
				} else if t != nil {
					if err := t.TrackAnalysis(ctx, selected, result); err != nil {
						log.Warn().Err(err).Msg("Failed to track analysis")
					} else {
						fmt.Println("Analysis exported to tracking sheet.")
					}
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&track, "track", false, "Export the result to the Google Sheets tracker")
	return cmd
}

func printAnalysis(c *models.Case, result *models.AnalysisResult) {
	fmt.Printf("\n=== Attribution Report: %s ===\n", c.Title)
	fmt.Printf("Author: %s | Platform: %s | Impact: %d | Published: %s\n",
		c.Author, c.Platform, c.DisplayScore(), c.CanonicalPublishTime())

	panels, err := radar.Project(result.RadarScores, radar.DefaultGroups)
	if err != nil {
		// Scores straight out of a validated pipeline always project
		fmt.Printf("\n(score projection failed: %v)\n", err)
	} else {
		fmt.Printf("\n--- Dimension Scores ---\n")
		for _, panel := range panels {
			fmt.Printf("%s:\n", panel.Label)
			for _, d := range models.Dimensions {
				if score, ok := panel.Scores[d]; ok {
					fmt.Printf("  %-20s %3d\n", d, score)
				}
			}
		}
	}

	fmt.Printf("\n--- Top Dimension Breakdown ---\n%s\n", result.DetailedAnalysis)
	fmt.Printf("\n--- Reusable Highlights ---\n%s\n", result.Highlights)
}

// ============ DRAFT COMMAND ============

func draftCmd() *cobra.Command {
	var theme, background string
	var caseIDs []string
	var analyze bool

	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Generate a draft skeleton from reference cases",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			references := make([]*models.Case, 0, len(caseIDs))
			for _, id := range caseIDs {
				c, err := repo.FindByID(ctx, id)
				if err != nil {
					return err
				}
				references = append(references, c)
			}

			highlights := ""
			if analyze && len(references) > 0 {
				sess := session.New()
				sess.Select(references[0])

				limiter := ratelimit.NewDefaultLimiter()
				aiClient := ai.NewClient(cfg.Anthropic, limiter, log)
				pipeline := analyzer.NewPipeline(aiClient, cfg.Analysis.StageTimeout, log)

				result, err := pipeline.Analyze(ctx, sess)
				if err != nil {
					return fmt.Errorf("analysis failed: %w", err)
				}
				highlights = result.Highlights
			}

			text, err := draft.Generate(draft.Input{
				Theme:      theme,
				Background: background,
				References: references,
				Highlights: highlights,
			})
			if err != nil {
				return err
			}

			fmt.Println(text)
			return nil
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "Draft theme (required)")
	cmd.Flags().StringVar(&background, "background", "", "Background information")
	cmd.Flags().StringSliceVar(&caseIDs, "case", nil, "Reference case ids (repeatable)")
	cmd.Flags().BoolVar(&analyze, "analyze", false, "Run the scoring pipeline on the first reference for strategy highlights")
	cmd.MarkFlagRequired("theme")

	return cmd
}

// ============ TRACKER COMMANDS ============

func trackerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracker",
		Short: "Google Sheets tracker management",
	}

	cmd.AddCommand(trackerInitCmd())
	return cmd
}

func trackerInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the Google Sheet with headers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if !cfg.Tracker.Enabled {
				return fmt.Errorf("tracker is not enabled in config - set tracker.enabled=true and tracker.spreadsheet_id")
			}

			t, err := tracker.NewSheetsTracker(tracker.Config{
				Enabled:            cfg.Tracker.Enabled,
				SpreadsheetID:      cfg.Tracker.SpreadsheetID,
				SheetName:          cfg.Tracker.SheetName,
				CredentialsFile:    cfg.Tracker.CredentialsFile,
				ServiceAccountJSON: cfg.Tracker.ServiceAccountJSON,
			}, log)
			if err != nil {
				return fmt.Errorf("failed to create tracker: %w", err)
			}

			if err := t.InitializeSheet(ctx); err != nil {
				return fmt.Errorf("failed to initialize sheet: %w", err)
			}

			fmt.Println("Google Sheet initialized successfully!")
			fmt.Printf("Spreadsheet ID: %s\n", cfg.Tracker.SpreadsheetID)
			fmt.Printf("Sheet Name: %s\n", cfg.Tracker.SheetName)
			fmt.Println("\nColumns created:")
			for i, col := range tracker.SheetColumns {
				fmt.Printf("  %d. %s\n", i+1, col)
			}

			return nil
		},
	}
}
