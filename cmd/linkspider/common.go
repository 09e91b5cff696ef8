package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/linkspider/internal/config"
	"github.com/nao1215/linkspider/internal/crawler"
	"github.com/nao1215/linkspider/internal/fetcher"
	"github.com/nao1215/linkspider/internal/frontier"
	"github.com/nao1215/linkspider/internal/frontier/memory"
	"github.com/nao1215/linkspider/internal/frontier/postgres"
	"github.com/nao1215/linkspider/internal/frontier/sqlite"
	linklog "github.com/nao1215/linkspider/internal/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// buildConfig creates a Config from defaults, the config file and the
// flags the user set explicitly, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	path, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = path

	// An explicit path that does not exist is an error; a missing default
	// file is not.
	if found := config.FindConfigFile(path); found != "" {
		file, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		file.Apply(cfg)
	} else if path != "" {
		return nil, fmt.Errorf("configuration file not found: %s", path)
	}

	if err := applyFlags(flags, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// applyFlags copies changed flags onto cfg. Flags a command does not
// define are skipped.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	stringFlags := map[string]*string{
		"store":        &cfg.StoreDriver,
		"db-dir":       &cfg.DBDir,
		"postgres-dsn": &cfg.PostgresDSN,
		"log-format":   &cfg.LogFormat,
		"proxy":        &cfg.ProxyAddress,
		"pick-mode":    &cfg.PickMode,
		"cron":         &cfg.Schedule,
		"format":       &cfg.ReportFormat,
		"output":       &cfg.ReportFile,
	}
	for name, dst := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	intFlags := map[string]*int{
		"batch":       &cfg.BulkBatchSize,
		"link-limit":  &cfg.StepLinkLimit,
		"concurrency": &cfg.Concurrency,
	}
	for name, dst := range intFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetInt(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if flags.Changed("timeout") {
		v, err := flags.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = v
	}
	if flags.Changed("max-body-size") {
		v, err := flags.GetInt64("max-body-size")
		if err != nil {
			return err
		}
		cfg.MaxBodySize = v
	}
	if flags.Changed("verbose") {
		v, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = v
	}
	return nil
}

// addFetchFlags registers the flags shared by commands that fetch pages.
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each page request")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize, "Maximum response body size in bytes")
	cmd.Flags().String("proxy", "", "SOCKS5 proxy address (host:port) for page requests")
}

// setupLogger creates the sanitizing logger selected by cfg.
func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if cfg.LogFormat == "json" {
		return linklog.NewJSONLogger(w, cfg.Verbose)
	}
	return linklog.NewLogger(w, cfg.Verbose)
}

// openStore opens the frontier store selected by cfg.StoreDriver.
func openStore(ctx context.Context, cfg *config.Config) (frontier.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.DBDir, sqlite.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return s, nil
	case config.DriverPostgres:
		s, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return s, nil
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", frontier.ErrUnknownDriver, cfg.StoreDriver)
	}
}

// newEngine wires the fetcher, indexer and engine for store.
func newEngine(cfg *config.Config, store frontier.Store, logger *slog.Logger) (*crawler.Engine, error) {
	opts := []fetcher.Option{
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithLogger(logger),
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, fetcher.WithProxy(cfg.ProxyAddress))
	}
	f, err := fetcher.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}

	mode, err := crawler.ParsePickMode(cfg.PickMode)
	if err != nil {
		return nil, err
	}

	ix := crawler.NewIndexer(store, f, crawler.WithIndexerLogger(logger))
	return crawler.NewEngine(store, ix,
		crawler.WithBulkBatchSize(cfg.BulkBatchSize),
		crawler.WithStepLinkLimit(cfg.StepLinkLimit),
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithPickMode(mode),
		crawler.WithLogger(logger),
	), nil
}

// session bundles what every frontier command needs.
type session struct {
	cfg    *config.Config
	store  frontier.Store
	logger *slog.Logger
}

// withSession builds the config, logger and store for cmd and runs fn.
// The store is closed afterwards and SIGINT/SIGTERM cancel ctx.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	logger.Debug("store opened", "driver", cfg.StoreDriver)
	return fn(ctx, &session{cfg: cfg, store: store, logger: logger})
}

// createOutput opens path for writing with owner-only permissions,
// creating parent directories. An empty path returns stdout.
func createOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
