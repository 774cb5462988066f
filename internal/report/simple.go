package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/deepresearch/internal/model"
)

// SimpleWriter outputs human-readable text for terminal display.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether empty sections are shown.
	showEmpty bool

	// verbose adds IDs and raw source links.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *SimpleWriter) flush(sb *strings.Builder) (int, error) {
	return io.WriteString(w.output, sb.String())
}

func writeBanner(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	pad := max((70-len(title))/2, 0)
	sb.WriteString(strings.Repeat(" ", pad) + title + "\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("-", len(title)) + "\n")
}

// WriteResult outputs the battlecard, the kill script and any enrichment.
func (w *SimpleWriter) WriteResult(result *model.ResearchResult) (int, error) {
	var sb strings.Builder
	b := battlecardOf(result)

	writeBanner(&sb, "DEEPRESEARCH BATTLECARD")
	fmt.Fprintf(&sb, "Company:    %s\n", result.CompanyName())
	if b.Tagline != "" {
		fmt.Fprintf(&sb, "Tagline:    %s\n", b.Tagline)
	}
	fmt.Fprintf(&sb, "Target:     %s\n", result.TargetURL)
	fmt.Fprintf(&sb, "Home Turf:  %s\n", result.HomeURL)
	fmt.Fprintf(&sb, "Industry:   %s\n", result.Industry)
	fmt.Fprintf(&sb, "Scanned:    %s\n", result.CreatedAt().Format(timeLayout))
	if w.verbose {
		fmt.Fprintf(&sb, "ID:         %s\n", result.ID)
	}
	sb.WriteString("\n")

	if b.Overview != "" || w.showEmpty {
		writeSection(&sb, "OVERVIEW")
		sb.WriteString(orDash(b.Overview) + "\n\n")
	}

	w.writeList(&sb, "STRENGTHS", "+", b.Strengths)
	w.writeList(&sb, "WEAKNESSES", "-", b.Weaknesses)

	if len(b.KeyFeatures) > 0 || w.showEmpty {
		writeSection(&sb, "KEY FEATURES")
		for _, f := range b.KeyFeatures {
			fmt.Fprintf(&sb, "  * %s: %s\n", f.Feature, f.Description)
		}
		sb.WriteString("\n")
	}

	writeSection(&sb, "PRICING MODEL")
	sb.WriteString(orDash(b.PricingModel) + "\n\n")

	w.writeKillScript(&sb, result.KillScript)

	if len(result.News) > 0 {
		writeSection(&sb, "LIVE NEWS")
		w.writeNewsItems(&sb, result.News)
	}
	if len(result.Rebuttals) > 0 {
		writeSection(&sb, "TACTICAL REBUTTALS")
		w.writeRebuttalItems(&sb, result.Rebuttals)
	}

	w.writeSources(&sb, result.Sources)
	return w.flush(&sb)
}

func (w *SimpleWriter) writeList(sb *strings.Builder, title, bullet string, items []string) {
	if len(items) == 0 && !w.showEmpty {
		return
	}
	writeSection(sb, title)
	for _, item := range items {
		fmt.Fprintf(sb, "  %s %s\n", bullet, item)
	}
	if len(items) == 0 {
		sb.WriteString("  (none)\n")
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeKillScript(sb *strings.Builder, ks *model.KillScript) {
	if ks == nil {
		return
	}
	writeSection(sb, "KILL SCRIPT")
	fmt.Fprintf(sb, "Opening hook:\n  %q\n\n", ks.OpeningHook)
	if len(ks.Objections) > 0 {
		sb.WriteString("Objection handling:\n")
		for i, o := range ks.Objections {
			fmt.Fprintf(sb, "  %d. Prospect: %q\n", i+1, o.ProspectSaying)
			fmt.Fprintf(sb, "     You:      %q\n", o.YourRebuttal)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(sb, "Closing question:\n  %q\n\n", ks.ClosingQuestion)
}

func (w *SimpleWriter) writeNewsItems(sb *strings.Builder, items []model.NewsItem) {
	for _, item := range items {
		if item.Date != "" {
			fmt.Fprintf(sb, "  [%s] %s\n", item.Date, item.Title)
		} else {
			fmt.Fprintf(sb, "  %s\n", item.Title)
		}
		if item.Snippet != "" {
			fmt.Fprintf(sb, "      %s\n", item.Snippet)
		}
		fmt.Fprintf(sb, "      %s\n", item.URL)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeRebuttalItems(sb *strings.Builder, rebuttals []model.TacticalRebuttal) {
	for i, r := range rebuttals {
		fmt.Fprintf(sb, "  %d. [%s] %q\n", i+1, r.Strategy, r.Objection)
		fmt.Fprintf(sb, "     -> %s\n", r.Rebuttal)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSources(sb *strings.Builder, sources []model.Source) {
	if len(sources) == 0 && !w.showEmpty {
		return
	}
	writeSection(sb, fmt.Sprintf("SOURCES (%d)", len(sources)))
	for i, s := range sources {
		fmt.Fprintf(sb, "  [%d] %s\n", i+1, s.Label())
		if s.Link() != s.Label() {
			fmt.Fprintf(sb, "      %s\n", s.Link())
		}
		if w.verbose && s.ResolvedURL != "" && s.URI != s.ResolvedURL {
			fmt.Fprintf(sb, "      via %s\n", s.URI)
		}
	}
	sb.WriteString("\n")
}

// WriteNews outputs a live news lookup.
func (w *SimpleWriter) WriteNews(report *model.NewsReport) (int, error) {
	var sb strings.Builder
	writeBanner(&sb, "LIVE NEWS")
	fmt.Fprintf(&sb, "Target: %s\n\n", report.TargetURL)
	if len(report.Items) == 0 {
		sb.WriteString("No recent news found.\n\n")
	} else {
		w.writeNewsItems(&sb, report.Items)
	}
	w.writeSources(&sb, report.Sources)
	return w.flush(&sb)
}

// WriteRebuttals outputs a tactical rebuttal lookup.
func (w *SimpleWriter) WriteRebuttals(report *model.RebuttalReport) (int, error) {
	var sb strings.Builder
	writeBanner(&sb, "TACTICAL REBUTTALS")
	fmt.Fprintf(&sb, "Target:    %s\n", report.TargetURL)
	fmt.Fprintf(&sb, "Home Turf: %s\n", report.HomeURL)
	fmt.Fprintf(&sb, "Industry:  %s\n\n", report.Industry)
	if len(report.Rebuttals) == 0 {
		sb.WriteString("No rebuttals generated.\n\n")
	} else {
		w.writeRebuttalItems(&sb, report.Rebuttals)
	}
	w.writeSources(&sb, report.Sources)
	return w.flush(&sb)
}

// WriteHistory outputs the scan history as a table.
func (w *SimpleWriter) WriteHistory(results []*model.ResearchResult) (int, error) {
	var sb strings.Builder
	if len(results) == 0 {
		sb.WriteString("No scans in history.\n")
		sb.WriteString("\nUse 'deepresearch scan <target> --home <url>' to run a deep scan.\n")
		return w.flush(&sb)
	}

	fmt.Fprintf(&sb, "Scan history (%d):\n\n", len(results))
	fmt.Fprintf(&sb, "  %-3s  %-20s  %-24s  %s\n", "#", "Date", "Company", "Target")
	sb.WriteString("  " + strings.Repeat("-", 76) + "\n")
	for i, r := range results {
		fmt.Fprintf(&sb, "  %-3d  %-20s  %-24s  %s\n",
			i+1,
			r.CreatedAt().Format("2006-01-02 15:04:05"),
			truncateString(r.CompanyName(), 24),
			r.TargetURL,
		)
		if w.verbose {
			fmt.Fprintf(&sb, "       id: %s\n", r.ID)
		}
	}
	sb.WriteString("\nUse 'deepresearch history show <id|target>' to open a battlecard.\n")
	return w.flush(&sb)
}

// WriteComparison outputs the comparison of two battlecards.
func (w *SimpleWriter) WriteComparison(c *Comparison) (int, error) {
	var sb strings.Builder
	writeBanner(&sb, "BATTLECARD COMPARISON")

	fmt.Fprintf(&sb, "Left:  %s (%s, %s)\n", c.Left.CompanyName, c.Left.TargetURL, c.Left.ScannedAt.Format(timeLayout))
	fmt.Fprintf(&sb, "Right: %s (%s, %s)\n\n", c.Right.CompanyName, c.Right.TargetURL, c.Right.ScannedAt.Format(timeLayout))

	writeSection(&sb, "PRICING")
	fmt.Fprintf(&sb, "  Left:  %s\n", orDash(c.Left.PricingModel))
	fmt.Fprintf(&sb, "  Right: %s\n", orDash(c.Right.PricingModel))
	if c.PricingChanged {
		sb.WriteString("  (differs)\n")
	}
	sb.WriteString("\n")

	w.writeDiff(&sb, "STRENGTHS", c.Strengths)
	w.writeDiff(&sb, "WEAKNESSES", c.Weaknesses)
	w.writeDiff(&sb, "KEY FEATURES", c.Features)
	return w.flush(&sb)
}

func (w *SimpleWriter) writeDiff(sb *strings.Builder, title string, d ListDiff) {
	writeSection(sb, title)
	for _, s := range d.Shared {
		fmt.Fprintf(sb, "  = %s\n", s)
	}
	for _, s := range d.OnlyLeft {
		fmt.Fprintf(sb, "  < %s\n", s)
	}
	for _, s := range d.OnlyRight {
		fmt.Fprintf(sb, "  > %s\n", s)
	}
	if len(d.Shared)+len(d.OnlyLeft)+len(d.OnlyRight) == 0 {
		sb.WriteString("  (none)\n")
	}
	sb.WriteString("\n")
}

// WritePhotoAudit outputs the metadata findings of a photo.
func (w *SimpleWriter) WritePhotoAudit(audit *model.PhotoAudit) (int, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Photo: %s, %d bytes\n", audit.MIMEType, audit.Size)
	if len(audit.Findings) == 0 {
		sb.WriteString("No identifying metadata found.\n")
		return w.flush(&sb)
	}

	risk, _ := audit.MaxRisk()
	fmt.Fprintf(&sb, "Metadata findings (%d, highest risk %s):\n", len(audit.Findings), risk)
	for _, f := range audit.Findings {
		fmt.Fprintf(&sb, "  [%-8s] %s: %s\n", f.Risk, f.Tag, truncateString(f.Value, 50))
		if w.verbose && f.Description != "" {
			fmt.Fprintf(&sb, "             %s\n", f.Description)
		}
	}
	return w.flush(&sb)
}
