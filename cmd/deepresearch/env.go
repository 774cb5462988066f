package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/deepresearch/internal/app"
	"github.com/nao1215/deepresearch/internal/config"
	"github.com/nao1215/deepresearch/internal/crawler"
	"github.com/nao1215/deepresearch/internal/database"
	"github.com/nao1215/deepresearch/internal/history"
	"github.com/nao1215/deepresearch/internal/intel"
	"github.com/nao1215/deepresearch/internal/license"
	drlog "github.com/nao1215/deepresearch/internal/log"
	"github.com/nao1215/deepresearch/internal/model"
	"github.com/nao1215/deepresearch/internal/photo"
	"github.com/nao1215/deepresearch/internal/pipeline"
	"github.com/spf13/cobra"
)

// environment is everything a command needs to act on the local session.
type environment struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *database.Store
	ctrl   *app.Controller
	state  app.State
}

// Close releases the database.
func (e *environment) Close() error {
	return e.store.Close()
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	if flag := cmd.Flags().Lookup("verbose"); flag != nil {
		return flag.Value.String() == "true"
	}
	if flag := cmd.Root().PersistentFlags().Lookup("verbose"); flag != nil {
		return flag.Value.String() == "true"
	}
	return false
}

// lookupString returns the value of a flag that may be inherited from the
// root command. Undefined flags read as empty.
func lookupString(cmd *cobra.Command, name string) string {
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Value.String()
	}
	if flag := cmd.Root().PersistentFlags().Lookup(name); flag != nil {
		return flag.Value.String()
	}
	return ""
}

// loadConfig builds the configuration from defaults, the configuration file
// and the global flags. A missing file is only an error when --config names it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := lookupString(cmd, "config")
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if dir := lookupString(cmd, "db-dir"); dir != "" {
		cfg.DBDir = dir
	}
	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

// newLogger creates the secret-redacting logger used by every command.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return drlog.NewSecureLogger(w, cfg.Verbose)
}

// newEnvironment opens the store, loads the history and bootstraps a
// controller for the given address-bar path.
func newEnvironment(ctx context.Context, cfg *config.Config, logger *slog.Logger, path string) (*environment, error) {
	store, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("database opened", "path", store.Path())

	ctrl, err := newController(ctx, cfg, logger, store)
	if err != nil {
		_ = store.Close() //nolint:errcheck // Best effort cleanup
		return nil, err
	}

	state, err := ctrl.Bootstrap(ctx, path)
	if err != nil {
		_ = store.Close() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	return &environment{
		cfg:    cfg,
		logger: logger,
		store:  store,
		ctrl:   ctrl,
		state:  state,
	}, nil
}

// newController wires the engine, license authority, history and enrichment
// pipeline selected by cfg.
func newController(ctx context.Context, cfg *config.Config, logger *slog.Logger, store *database.Store) (*app.Controller, error) {
	hist, err := history.Load(ctx, store,
		history.WithArchiver(store),
		history.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	checker, err := license.NewChecker(license.Settings{
		Provider:       cfg.LicenseProvider,
		AllowDevPrefix: cfg.AllowDevPrefix,
		Delay:          cfg.LicenseDelay,
		Endpoint:       cfg.LicenseEndpoint,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create license checker: %w", err)
	}

	engine, err := newEngine(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	auditor := photo.NewAuditor(
		photo.WithMaxBytes(int(cfg.MaxPhotoBytes)),
		photo.WithRejectGPS(cfg.RejectGPS),
		photo.WithLogger(logger),
	)

	return app.NewController(engine, checker, store, hist,
		app.WithEnrichment(newEnrichment(cfg, engine, logger)),
		app.WithAuditor(auditor),
		app.WithLogger(logger),
		app.WithBatchSize(cfg.BatchSize),
	), nil
}

// newEngine creates the Gemini client. Without an API key the returned
// engine refuses every request, so commands that never call the model
// still work offline.
func newEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (app.Engine, error) {
	if cfg.APIKey == "" {
		return offlineEngine{}, nil
	}

	opts := []intel.Option{
		intel.WithModels(cfg.ScanModel, cfg.NewsModel, cfg.RebuttalModel),
		intel.WithTimeout(cfg.RequestTimeout),
		intel.WithLogger(logger),
	}
	if cfg.GeminiBaseURL != "" {
		opts = append(opts, intel.WithBaseURL(cfg.GeminiBaseURL))
	}

	client, err := intel.New(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create intelligence engine: %w", err)
	}
	return client, nil
}

// newEnrichment builds the pipeline run after every successful scan.
func newEnrichment(cfg *config.Config, engine app.Engine, logger *slog.Logger) *pipeline.Pipeline {
	p := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)

	if cfg.WithNews {
		p.AddStep(pipeline.NewNewsStep(engine))
	}
	if cfg.WithRebuttals {
		p.AddStep(pipeline.NewRebuttalStep(engine))
	}
	if cfg.ResolveSources {
		p.AddStep(pipeline.NewResolveSourcesStep(crawler.NewResolver(&http.Client{Timeout: cfg.SourceTimeout},
			crawler.WithUserAgent(cfg.UserAgent),
			crawler.WithTimeout(cfg.SourceTimeout),
			crawler.WithMaxBodySize(cfg.MaxBodySize),
			crawler.WithConcurrency(cfg.SourceConcurrency),
			crawler.WithLogger(logger),
		)))
	}
	return p
}

// offlineEngine stands in for the Gemini client when no API key is configured.
type offlineEngine struct{}

func (offlineEngine) DeepScan(context.Context, model.Target) (*model.ResearchResult, error) {
	return nil, config.ErrNoAPIKey
}

func (offlineEngine) LiveNews(context.Context, string) (*model.NewsReport, error) {
	return nil, config.ErrNoAPIKey
}

func (offlineEngine) TacticalRebuttals(context.Context, model.Target) (*model.RebuttalReport, error) {
	return nil, config.ErrNoAPIKey
}

// requireAPIKey fails before any model request when no API key is configured.
func requireAPIKey(cfg *config.Config) error {
	if cfg.APIKey == "" {
		return config.ErrNoAPIKey
	}
	return nil
}

// requireMember fails with a hint when the session has no active license.
func requireMember(state app.State) error {
	if !state.Subscribed() {
		return fmt.Errorf("%w (run 'deepresearch redeem <key>' or 'deepresearch upgrade')", app.ErrNotSubscribed)
	}
	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
