package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nao1215/deepresearch/internal/app"
	"github.com/nao1215/deepresearch/internal/database"
	"github.com/nao1215/deepresearch/internal/model"
	"github.com/nao1215/deepresearch/internal/report"
	"github.com/spf13/cobra"
)

// errNoPreviousScan is returned by compare --previous when a competitor was scanned only once.
var errNoPreviousScan = errors.New("no previous scan in the archive")

// NewCompareCmd creates the compare command.
// This command compares two stored battlecards side by side.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [left] [right]",
		Short: "Compare two stored battlecards",
		Long: `Compare shows the differences between two stored battlecards:
- Strengths and weaknesses only one side has
- Key features only one side offers
- Pricing models

Each side is a history id, an archive id or a competitor URL from the history.
With --previous, a competitor's latest scan is compared with the scan before
it, so you can see how their positioning changed.

Examples:
  # Compare two competitors
  deepresearch compare https://rival.io https://other.io

  # See what changed since the last scan of a competitor
  deepresearch compare --previous https://rival.io

  # Output the comparison in Markdown
  deepresearch compare https://rival.io https://other.io --markdown`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("previous", "p", false,
		"Compare the competitor's latest scan with its previous archived scan")
	addReportFlags(cmd, true)

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	previous, err := cmd.Flags().GetBool("previous")
	if err != nil {
		return err
	}
	if previous && len(args) != 1 {
		return errors.New("--previous takes exactly one competitor")
	}
	if !previous && len(args) != 2 {
		return errors.New("two battlecards are required (or use --previous with one competitor)")
	}

	cfg, err := loadReportConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	ctx := cmd.Context()
	env, err := newEnvironment(ctx, cfg, logger, model.ViewDashboard.Path())
	if err != nil {
		return err
	}
	defer env.Close()

	right, err := resolveResult(ctx, env, args[len(args)-1])
	if err != nil {
		return err
	}

	var left *model.ResearchResult
	if previous {
		left, err = previousResult(ctx, env.store, right)
	} else {
		left, err = resolveResult(ctx, env, args[0])
	}
	if err != nil {
		return err
	}

	writer, closeReport, err := openReport(cmd.OutOrStdout(), cfg)
	if err != nil {
		return err
	}
	defer closeReport() //nolint:errcheck // Report file is flushed on each write

	_, err = writer.WriteComparison(report.Compare(left, right))
	return err
}

// resolveResult finds a battlecard by history id, competitor URL or archive id.
func resolveResult(ctx context.Context, env *environment, ref string) (*model.ResearchResult, error) {
	result, err := env.ctrl.Lookup(ref)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, app.ErrNotFound) {
		return nil, err
	}

	result, err = env.store.ArchivedResult(ctx, ref)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("%w: %s", app.ErrNotFound, ref)
	}
	return result, nil
}

// previousResult returns the newest archived scan of current's competitor
// other than current itself.
func previousResult(ctx context.Context, store *database.Store, current *model.ResearchResult) (*model.ResearchResult, error) {
	entries, err := store.ArchiveEntries(ctx, current.TargetURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}

	for _, e := range entries {
		if e.ID == current.ID || e.ScannedAt.After(current.CreatedAt()) {
			continue
		}
		result, err := store.ArchivedResult(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", errNoPreviousScan, current.TargetURL)
}
