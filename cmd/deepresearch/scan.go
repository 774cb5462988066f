package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/nao1215/deepresearch/internal/app"
	"github.com/nao1215/deepresearch/internal/config"
	"github.com/nao1215/deepresearch/internal/model"
	"github.com/nao1215/deepresearch/internal/pipeline"
	"github.com/nao1215/deepresearch/internal/report"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [competitor-url...]",
		Short: "Build a sales battlecard for a competitor",
		Long: `Scan researches a competitor's website with live web search and produces a
battlecard: overview, strengths, weaknesses, key features, pricing model and a
kill script with objection handlers. The result is added to the local history,
which keeps the ten most recent scans.

Scans require an active license and a Gemini API key.

Examples:
  # Scan a single competitor
  deepresearch scan https://rival.io --home https://mine.com

  # Frame the scan for an industry and attach live news and rebuttals
  deepresearch scan https://rival.io -H https://mine.com -i Fintech --news --rebuttals

  # Scan every URL listed in a file, two at a time
  deepresearch scan --list competitors.txt -H https://mine.com --batch 2

  # Write a Markdown battlecard to a file
  deepresearch scan https://rival.io -H https://mine.com -m -o rival.md`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	cmd.Flags().StringP("home", "H", "",
		"Your own company's URL (home turf)")
	cmd.Flags().StringP("industry", "i", "",
		"Industry the scan is framed in (default: "+model.DefaultIndustry+")")

	// Enrichment flags
	cmd.Flags().Bool("news", false, "Attach recent news about the competitor")
	cmd.Flags().Bool("rebuttals", false, "Attach tactical rebuttals against the competitor")
	cmd.Flags().Bool("resolve-sources", false,
		"Follow grounding links and fill in missing source titles")

	// Batch scanning flags
	cmd.Flags().StringP("list", "l", "",
		"File with one competitor URL per line")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent scans")

	addReportFlags(cmd, true)

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildScanConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.ValidateScan(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
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

	writer, closeReport, err := openReport(cmd.OutOrStdout(), cfg)
	if err != nil {
		return err
	}
	defer closeReport() //nolint:errcheck // Report file is flushed on each write

	targets := make([]model.Target, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		targets = append(targets, model.NewTarget(t, cfg.HomeURL, cfg.Industry))
	}

	if len(targets) == 1 {
		return runSingleScan(ctx, cmd.OutOrStdout(), env.ctrl, targets[0], writer)
	}
	return runBatchScan(ctx, cmd.OutOrStdout(), env.ctrl, targets, writer, cfg.BatchSize, logger)
}

// buildScanConfig creates a Config from the configuration file and the
// scan flags. Flags override the file only when given.
func buildScanConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("home") {
		if cfg.HomeURL, err = flags.GetString("home"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("industry") {
		if cfg.Industry, err = flags.GetString("industry"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("batch") {
		if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
			return nil, err
		}
	}

	for name, dst := range map[string]*bool{
		"news":            &cfg.WithNews,
		"rebuttals":       &cfg.WithRebuttals,
		"resolve-sources": &cfg.ResolveSources,
	} {
		on, err := flags.GetBool(name)
		if err != nil {
			return nil, err
		}
		*dst = *dst || on
	}

	if err := readReportFlags(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.Targets = append(cfg.Targets, args...)

	listFile, err := flags.GetString("list")
	if err != nil {
		return nil, err
	}
	if listFile != "" {
		listed, err := readTargetList(listFile)
		if err != nil {
			return nil, err
		}
		cfg.Targets = append(cfg.Targets, listed...)
	}

	return cfg, nil
}

// readTargetList reads one URL per line. Blank lines and lines starting
// with # are skipped.
func readTargetList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open target list: %w", err)
	}
	defer f.Close()

	var targets []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read target list: %w", err)
	}
	return targets, nil
}

// runSingleScan scans one target and writes its battlecard.
func runSingleScan(ctx context.Context, stdout io.Writer, ctrl *app.Controller, target model.Target, writer report.Writer) error {
	fmt.Fprintf(stdout, "Scanning %s...\n", target.TargetURL)
	startTime := time.Now()

	state, err := ctrl.Scan(ctx, target)
	if err != nil {
		return err
	}

	elapsed := time.Since(startTime)
	fmt.Fprintf(stdout, "Scan completed in %s\n\n", elapsed.Round(time.Millisecond))

	if _, err := writer.WriteResult(state.Active); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// runBatchScan scans several targets and writes each battlecard as soon as
// it is ready. Failed targets are reported and do not stop the batch.
func runBatchScan(ctx context.Context, stdout io.Writer, ctrl *app.Controller, targets []model.Target, writer report.Writer, concurrency int, logger *slog.Logger) error {
	fmt.Fprintf(stdout, "Starting batch scan of %d targets (concurrency: %d)...\n\n",
		len(targets), concurrency)
	startTime := time.Now()

	var (
		mu     sync.Mutex
		failed int
	)
	_, err := ctrl.ScanBatch(ctx, targets, func(r pipeline.BatchResult, index int) {
		mu.Lock()
		defer mu.Unlock()

		if r.Err != nil {
			failed++
			fmt.Fprintf(stdout, "[%d/%d] Scan failed: %s: %v\n", index+1, len(targets), r.Target.TargetURL, r.Err)
			return
		}

		fmt.Fprintf(stdout, "[%d/%d] Scan completed: %s\n", index+1, len(targets), r.Target.TargetURL)
		if _, err := writer.WriteResult(r.Result); err != nil {
			logger.Error("report failed", "target", r.Target.TargetURL, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Fprintf(stdout, "\nBatch scan completed in %s (%d of %d succeeded)\n",
		elapsed.Round(time.Millisecond), len(targets)-failed, len(targets))

	if err != nil && !errors.Is(err, app.ErrEngineFailure) {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scans failed", failed, len(targets))
	}
	return nil
}
