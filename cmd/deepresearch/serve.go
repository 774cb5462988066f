package main

import (
	"fmt"

	"github.com/nao1215/deepresearch/internal/config"
	drlog "github.com/nao1215/deepresearch/internal/log"
	"github.com/nao1215/deepresearch/internal/model"
	"github.com/nao1215/deepresearch/internal/web"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the DeepResearch dashboard",
		Long: `Serve starts the web dashboard: the landing page, the scan dashboard, the
roadmap and the about page, plus the JSON API they use. The dashboard shares
the license key, history and founder photo with the CLI.

The server listens on 127.0.0.1 by default and stops on SIGINT or SIGTERM.

Examples:
  deepresearch serve
  deepresearch serve --addr 0.0.0.0:8080 --log-json`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultServerAddr, "Listen address")
	cmd.Flags().Bool("log-json", false, "Write logs as JSON")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		if cfg.ServerAddr, err = cmd.Flags().GetString("addr"); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg)
	if logJSON {
		logger = drlog.NewSecureJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	}
	if cfg.APIKey == "" {
		logger.Warn("no Gemini API key configured, scans will fail")
	}

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	env, err := newEnvironment(ctx, cfg, logger, model.ViewLanding.Path())
	if err != nil {
		return err
	}
	defer env.Close()

	srv := web.NewHTTPServer(web.ServerConfig{
		Addr:    cfg.ServerAddr,
		Timeout: cfg.ServerTimeout,
	}, env.ctrl, logger, web.WithMaxUpload(cfg.MaxPhotoBytes))

	fmt.Fprintf(cmd.OutOrStdout(), "DeepResearch dashboard: http://%s\n", cfg.ServerAddr)
	return web.NewApp(ctx, srv, getVersion(), logger).Run()
}
