package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/deepresearch/internal/config"
	"github.com/nao1215/deepresearch/internal/report"
	"github.com/spf13/cobra"
)

// addReportFlags registers the output format flags shared by the report commands.
func addReportFlags(cmd *cobra.Command, withFile bool) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	if withFile {
		cmd.Flags().StringP("output", "o", "",
			"Write the report to the specified file path (creates directories if needed)")
	}
}

// readReportFlags copies the output format flags into cfg.
func readReportFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	if cmd.Flags().Lookup("output") != nil {
		cfg.ReportFile, err = cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
	}
	return nil
}

// newReportWriter returns the writer for the format selected in cfg.
func newReportWriter(w io.Writer, cfg *config.Config) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(cfg.Verbose))
	}
}

// openReport returns the writer for the selected format and a function
// that closes the report file. With --output the report goes to the file
// and a plain summary is still printed to stdout.
func openReport(stdout io.Writer, cfg *config.Config) (report.Writer, func() error, error) {
	if cfg.ReportFile == "" {
		return newReportWriter(stdout, cfg), func() error { return nil }, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports may contain pricing intelligence that should only be readable by the owner
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}

	summary := report.NewSimpleWriter(stdout, report.WithVerbose(cfg.Verbose))
	return report.NewMultiWriter(newReportWriter(f, cfg), summary), f.Close, nil
}
