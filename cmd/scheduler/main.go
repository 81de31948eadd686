package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/viral-studio/internal/agent/ingest"
	"github.com/viral-studio/internal/casestore"
	"github.com/viral-studio/internal/casestore/jsonfile"
	"github.com/viral-studio/internal/casestore/sqlite"
	"github.com/viral-studio/internal/config"
	"github.com/viral-studio/internal/source"
	"github.com/viral-studio/internal/source/rss"
	"github.com/viral-studio/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
	repo    casestore.Repository
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "viral-scheduler",
		Short: "Background case ingest scheduler",
		Long: `Runs scheduled case acquisition from configured sources.
This daemon should be run as a service to keep the case repository fresh.`,
		RunE: runScheduler,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScheduler(cmd *cobra.Command, args []string) error {
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

	log.Info().Msg("Starting viral-studio scheduler")

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
	defer repo.Close()

	// Start health check server
	go startHealthServer()

	// Initialize source manager
	sourceManager := source.NewManager()
	if cfg.Sources.RSS.Enabled {
		for _, src := range rss.NewMultiple(cfg.Sources.RSS, log) {
			sourceManager.Register(src)
		}
	}

	if len(sourceManager.GetSources()) == 0 {
		log.Warn().Msg("No acquisition sources enabled; scheduler has nothing to do")
	}

	agent := ingest.NewAgent(sourceManager, repo, log)

	// Schedule ingest runs
	c := cron.New()
	_, err = c.AddFunc(cfg.Scheduler.IngestCron, func() {
		ctx := context.Background()
		result, err := agent.Run(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Scheduled ingest failed")
			return
		}
		log.Info().
			Int("cases_found", result.CasesFound).
			Int("cases_saved", result.CasesSaved).
			Msg("Scheduled ingest finished")
	})
	if err != nil {
		return fmt.Errorf("invalid ingest cron %q: %w", cfg.Scheduler.IngestCron, err)
	}

	c.Start()
	log.Info().Str("cron", cfg.Scheduler.IngestCron).Msg("Ingest schedule registered")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	log.Info().Str("signal", sig.String()).Msg("Shutting down")
	ctx := c.Stop()
	<-ctx.Done()

	return nil
}

// startHealthServer exposes a liveness endpoint for container platforms
func startHealthServer() {
	port := cfg.Scheduler.HealthPort
	if envPort := os.Getenv("PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	log.Info().Str("addr", addr).Msg("Health server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Health server stopped")
	}
}
