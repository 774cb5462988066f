package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/deepresearch/internal/config"
	"github.com/nao1215/deepresearch/internal/database"
	"github.com/nao1215/deepresearch/internal/model"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command and its subcommands.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent scans",
		Long: `History lists the ten most recent scans, newest first. Re-scanning a
competitor replaces its entry. Every scan is also kept in a local archive,
which 'history archive' lists.

Examples:
  # List recent scans
  deepresearch history

  # Show a stored battlecard by id or competitor URL
  deepresearch history show https://rival.io

  # List every archived scan of a competitor
  deepresearch history archive https://rival.io`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}
	addReportFlags(cmd, false)

	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryArchiveCmd())
	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadReportConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	env, err := newEnvironment(cmd.Context(), cfg, logger, model.ViewDashboard.Path())
	if err != nil {
		return err
	}
	defer env.Close()

	_, err = newReportWriter(cmd.OutOrStdout(), cfg).WriteHistory(env.ctrl.History())
	return err
}

func newHistoryShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id|competitor-url]",
		Short: "Show a battlecard from the history",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShowCmd,
	}
	addReportFlags(cmd, true)
	return cmd
}

// runHistoryShowCmd executes the history show command.
func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadReportConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	env, err := newEnvironment(cmd.Context(), cfg, logger, model.ViewDashboard.Path())
	if err != nil {
		return err
	}
	defer env.Close()

	result, err := env.ctrl.Lookup(args[0])
	if err != nil {
		return fmt.Errorf("%w: %s (use 'deepresearch history' to see stored scans)", err, args[0])
	}

	writer, closeReport, err := openReport(cmd.OutOrStdout(), cfg)
	if err != nil {
		return err
	}
	defer closeReport() //nolint:errcheck // Report file is flushed on each write

	_, err = writer.WriteResult(result)
	return err
}

func newHistoryArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive [competitor-url]",
		Short: "List archived scans",
		Long: `Archive lists every scan ever recorded, including the ones that dropped out
of the ten-entry history. With a competitor URL only that competitor's scans
are listed; use their ids with 'deepresearch compare --previous'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryArchiveCmd,
	}
}

// runHistoryArchiveCmd executes the history archive command.
func runHistoryArchiveCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		return listArchivedTargets(cmd.Context(), cmd.OutOrStdout(), store)
	}
	return listArchiveEntries(cmd.Context(), cmd.OutOrStdout(), store, args[0])
}

// listArchivedTargets prints every competitor with at least one archived scan.
func listArchivedTargets(ctx context.Context, w io.Writer, store *database.Store) error {
	targets, err := store.ArchivedTargets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list archive: %w", err)
	}

	if len(targets) == 0 {
		fmt.Fprintln(w, "No archived scans found.")
		fmt.Fprintln(w, "\nUse 'deepresearch scan <url>' to scan a competitor.")
		return nil
	}

	fmt.Fprintf(w, "Archived competitors (%d):\n\n", len(targets))
	for _, target := range targets {
		fmt.Fprintf(w, "  • %s\n", target)
	}
	fmt.Fprintln(w, "\nUse 'deepresearch history archive <url>' to see the scans of a competitor.")
	return nil
}

// listArchiveEntries prints the archived scans of one competitor.
func listArchiveEntries(ctx context.Context, w io.Writer, store *database.Store, targetURL string) error {
	entries, err := store.ArchiveEntries(ctx, targetURL)
	if err != nil {
		return fmt.Errorf("failed to list archive: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintf(w, "No archived scans found for %s\n", targetURL)
		return nil
	}

	fmt.Fprintf(w, "Archived scans of %s (%d):\n\n", targetURL, len(entries))
	fmt.Fprintf(w, "  %-36s  %-20s  %s\n", "ID", "Scanned", "Company")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 72))
	for _, e := range entries {
		fmt.Fprintf(w, "  %-36s  %-20s  %s\n",
			e.ID,
			e.ScannedAt.Format("2006-01-02 15:04:05"),
			orUnknown(e.CompanyName),
		)
	}
	if len(entries) > 1 {
		fmt.Fprintf(w, "\nUse 'deepresearch compare --previous %s' to compare the latest two scans.\n", targetURL)
	}
	return nil
}

// loadReportConfig loads the configuration of a command that only reads
// local data.
func loadReportConfig(cmd *cobra.Command) (*config.Config, error) {
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
	return cfg, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "(unknown)"
	}
	return s
}
