// Package main provides the logofetch CLI.
// Uses Cobra for command parsing — Cobra is the standard Go CLI framework
// (used by kubectl, docker, hugo, and many others).
//
// Run with: go run ./cmd/logofetch fetch "Apple" "Microsoft"
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/votewallet/logofetch/internal/config"
	"github.com/votewallet/logofetch/internal/service"
	"github.com/votewallet/logofetch/internal/storage"
	"github.com/votewallet/logofetch/internal/wiki"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "logofetch",
		Short: "Fetch company logos from Wikipedia into per-company folders",
	}

	root.AddCommand(fetchCmd())
	return root
}

func fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [company...]",
		Short: "Download original PNG/SVG logos for the given companies",
		Long: `Resolves each company name to a Wikipedia article, scans the
article's embedded media for logo-like filenames, gates survivors by format
and resolution against Wikimedia Commons metadata, and stores the accepted
files verbatim as logo_<n>.png or logo_<n>.svg under one folder per company.`,
		Example: `  logofetch fetch "Apple" "Microsoft" "Google"
  logofetch fetch "Coca-Cola"`,
		// RunE returns an error (vs Run which doesn't). Cobra prints the error automatically.
		RunE: func(cmd *cobra.Command, args []string) error {
			// Zero companies is not an error: print usage and do nothing —
			// no network calls, no files.
			if len(args) == 0 {
				return cmd.Help()
			}
			return runFetch(args)
		},
	}
}

// newLogger builds a development-mode logger (human-readable console output
// suits a CLI) at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level %q: %w", level, err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zcfg.Build()
}

func runFetch(companies []string) error {
	configPath := os.Getenv("LOGOFETCH_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	fs, err := storage.NewFileSystem(cfg.Storage.LogoDir)
	if err != nil {
		return fmt.Errorf("creating filesystem: %w", err)
	}
	logger.Info("logos will be saved", zap.String("dir", fs.BaseDir()))

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.CatalogPath), 0755); err != nil {
		return fmt.Errorf("creating catalog directory: %w", err)
	}
	db, err := storage.NewDatabase(cfg.Storage.CatalogPath)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer db.Close()

	client := wiki.NewClient(wiki.Options{
		APIURL:          cfg.Wikipedia.APIURL,
		CommonsURL:      cfg.Wikipedia.CommonsURL,
		UserAgent:       cfg.Wikipedia.UserAgent,
		ImageLimit:      cfg.Wikipedia.ImageLimit,
		QueryTimeout:    cfg.Wikipedia.QueryTimeout,
		DownloadTimeout: cfg.Wikipedia.DownloadTimeout,
		MaxQPS:          cfg.Wikipedia.MaxQPS,
	}, logger)

	pipeline := service.NewPipeline(client, cfg.Filter.MinSVGWidth, logger)
	fetcher := service.NewFetcher(
		pipeline,
		client,
		fs,
		storage.NewCatalog(db),
		cfg.Pace.DownloadDelay,
		cfg.Pace.CompanyDelay,
		logger,
	)

	// Set up context with cancellation (Ctrl+C to stop the run gracefully)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("cancelling run...")
		cancel()
	}()

	stats, runErr := fetcher.Run(ctx, companies)

	logger.Info("run complete",
		zap.Int("companies_processed", stats.CompaniesProcessed),
		zap.Int("candidates_found", stats.CandidatesFound),
		zap.Int("downloaded", stats.Downloaded),
		zap.Float64("success_rate_pct", stats.SuccessRate()),
		zap.String("output_dir", fs.BaseDir()),
	)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("fetch run: %w", runErr)
	}
	return nil
}
