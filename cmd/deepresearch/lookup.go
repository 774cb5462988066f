package main

import (
	"fmt"

	"github.com/nao1215/deepresearch/internal/config"
	"github.com/nao1215/deepresearch/internal/model"
	"github.com/spf13/cobra"
)

// NewNewsCmd creates the news command.
func NewNewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news [competitor-url]",
		Short: "Show recent news about a competitor",
		Long: `News searches the web for the competitor's latest announcements, funding
rounds, launches and leadership changes. The lookup does not change the scan
history.

Examples:
  deepresearch news https://rival.io
  deepresearch news https://rival.io --markdown`,
		Args: cobra.ExactArgs(1),
		RunE: runNewsCmd,
	}
	addReportFlags(cmd, false)
	return cmd
}

// runNewsCmd executes the news command.
func runNewsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadLookupConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	env, err := newEnvironment(ctx, cfg, logger, model.ViewDashboard.Path())
	if err != nil {
		return err
	}
	defer env.Close()

	if err := requireMember(env.state); err != nil {
		return err
	}

	news, err := env.ctrl.FetchNews(ctx, args[0])
	if err != nil {
		return err
	}

	_, err = newReportWriter(cmd.OutOrStdout(), cfg).WriteNews(news)
	return err
}

// NewRebuttalsCmd creates the rebuttals command.
func NewRebuttalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuttals [competitor-url]",
		Short: "Generate objection handlers against a competitor",
		Long: `Rebuttals generates the claims a competitor's sales team makes and a
counter for each, framed from your own company's point of view. The lookup
does not change the scan history.

Examples:
  deepresearch rebuttals https://rival.io --home https://mine.com
  deepresearch rebuttals https://rival.io -H https://mine.com -i Fintech --json`,
		Args: cobra.ExactArgs(1),
		RunE: runRebuttalsCmd,
	}
	cmd.Flags().StringP("home", "H", "",
		"Your own company's URL (home turf)")
	cmd.Flags().StringP("industry", "i", "",
		"Industry the rebuttals are framed in (default: "+model.DefaultIndustry+")")
	addReportFlags(cmd, false)
	return cmd
}

// runRebuttalsCmd executes the rebuttals command.
func runRebuttalsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadLookupConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("home") {
		if cfg.HomeURL, err = cmd.Flags().GetString("home"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("industry") {
		if cfg.Industry, err = cmd.Flags().GetString("industry"); err != nil {
			return err
		}
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	env, err := newEnvironment(ctx, cfg, logger, model.ViewDashboard.Path())
	if err != nil {
		return err
	}
	defer env.Close()

	if err := requireMember(env.state); err != nil {
		return err
	}

	rebuttals, err := env.ctrl.FetchRebuttals(ctx, model.NewTarget(args[0], cfg.HomeURL, cfg.Industry))
	if err != nil {
		return err
	}

	_, err = newReportWriter(cmd.OutOrStdout(), cfg).WriteRebuttals(rebuttals)
	return err
}

// loadLookupConfig loads the configuration of a command that calls the model
// outside of a scan.
func loadLookupConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := readReportFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if err := requireAPIKey(cfg); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}
