package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/deepresearch/internal/model"
)

// MarkdownWriter outputs results in Markdown format for sharing battlecards
// with a sales team. It uses nao1215/markdown for tables, lists,
// GitHub alerts and mermaid charts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

func (w *MarkdownWriter) build(md *markdown.Markdown) (int, error) {
	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteResult outputs a battlecard and kill script.
func (w *MarkdownWriter) WriteResult(result *model.ResearchResult) (int, error) {
	md := markdown.NewMarkdown(w.output)
	b := battlecardOf(result)

	md.H1(result.CompanyName() + " Battlecard")
	md.PlainText("")
	if b.Tagline != "" {
		md.PlainTextf("*%s*", b.Tagline)
		md.PlainText("")
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", link(result.TargetURL, result.TargetURL)},
			{"Home Turf", link(result.HomeURL, result.HomeURL)},
			{"Industry", result.Industry},
			{"Scan Date", result.CreatedAt().Format(timeLayout)},
			{"Pricing Model", orDash(escapeCell(b.PricingModel))},
		},
	})
	md.PlainText("")

	if b.Overview != "" {
		md.H2("Overview")
		md.PlainText("")
		md.PlainText(b.Overview)
		md.PlainText("")
	}

	w.writeStrengthsWeaknesses(md, b)
	w.writeFeatures(md, b)
	w.writeKillScript(md, result.KillScript)

	if len(result.News) > 0 {
		md.H2("Live News")
		md.PlainText("")
		w.writeNewsTable(md, result.News)
	}
	if len(result.Rebuttals) > 0 {
		md.H2("Tactical Rebuttals")
		md.PlainText("")
		w.writeRebuttalTable(md, result.Rebuttals)
	}

	w.writeSources(md, result.Sources)
	return w.build(md)
}

func (w *MarkdownWriter) writeStrengthsWeaknesses(md *markdown.Markdown, b *model.Battlecard) {
	md.H2("Strengths")
	md.PlainText("")
	if len(b.Strengths) == 0 {
		md.PlainText("None identified.")
	} else {
		md.BulletList(b.Strengths...)
	}
	md.PlainText("")

	md.H2("Weaknesses")
	md.PlainText("")
	if len(b.Weaknesses) == 0 {
		md.PlainText("None identified.")
	} else {
		md.BulletList(b.Weaknesses...)
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFeatures(md *markdown.Markdown, b *model.Battlecard) {
	if len(b.KeyFeatures) == 0 {
		return
	}
	md.H2("Key Features")
	md.PlainText("")
	rows := make([][]string, len(b.KeyFeatures))
	for i, f := range b.KeyFeatures {
		rows[i] = []string{escapeCell(f.Feature), escapeCell(f.Description)}
	}
	md.Table(markdown.TableSet{Header: []string{"Feature", "Description"}, Rows: rows})
	md.PlainText("")
}

func (w *MarkdownWriter) writeKillScript(md *markdown.Markdown, ks *model.KillScript) {
	if ks == nil {
		return
	}
	md.H2("Kill Script")
	md.PlainText("")
	md.H3("Opening Hook")
	md.PlainText("")
	md.PlainText("> " + ks.OpeningHook)
	md.PlainText("")

	if len(ks.Objections) > 0 {
		md.H3("Objection Handling")
		md.PlainText("")
		rows := make([][]string, len(ks.Objections))
		for i, o := range ks.Objections {
			rows[i] = []string{escapeCell(o.ProspectSaying), escapeCell(o.YourRebuttal)}
		}
		md.Table(markdown.TableSet{Header: []string{"Prospect says", "You say"}, Rows: rows})
		md.PlainText("")
	}

	md.H3("Closing Question")
	md.PlainText("")
	md.PlainText("> " + ks.ClosingQuestion)
	md.PlainText("")
}

func (w *MarkdownWriter) writeNewsTable(md *markdown.Markdown, items []model.NewsItem) {
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = []string{
			orDash(item.Date),
			link(escapeCell(item.Title), item.URL),
			escapeCell(truncateString(item.Snippet, 120)),
		}
	}
	md.Table(markdown.TableSet{Header: []string{"Date", "Headline", "Summary"}, Rows: rows})
	md.PlainText("")
}

func (w *MarkdownWriter) writeRebuttalTable(md *markdown.Markdown, rebuttals []model.TacticalRebuttal) {
	rows := make([][]string, len(rebuttals))
	for i, r := range rebuttals {
		rows[i] = []string{escapeCell(r.Objection), escapeCell(r.Rebuttal), orDash(r.Strategy)}
	}
	md.Table(markdown.TableSet{Header: []string{"Objection", "Rebuttal", "Strategy"}, Rows: rows})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSources(md *markdown.Markdown, sources []model.Source) {
	if len(sources) == 0 {
		return
	}
	md.H2("Sources")
	md.PlainText("")
	items := make([]string, len(sources))
	for i, s := range sources {
		items[i] = link(s.Label(), s.Link())
	}
	md.BulletList(items...)
	md.PlainText("")
}

// WriteNews outputs a live news lookup.
func (w *MarkdownWriter) WriteNews(report *model.NewsReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Live News")
	md.PlainText("")
	md.PlainTextf("Target: %s", link(report.TargetURL, report.TargetURL))
	md.PlainText("")
	if len(report.Items) == 0 {
		md.Note("No recent news found for this target.")
		md.PlainText("")
	} else {
		w.writeNewsTable(md, report.Items)
	}
	w.writeSources(md, report.Sources)
	return w.build(md)
}

// WriteRebuttals outputs a tactical rebuttal lookup.
func (w *MarkdownWriter) WriteRebuttals(report *model.RebuttalReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Tactical Rebuttals")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", report.TargetURL},
			{"Home Turf", report.HomeURL},
			{"Industry", report.Industry},
		},
	})
	md.PlainText("")
	if len(report.Rebuttals) == 0 {
		md.Note("No rebuttals were generated.")
		md.PlainText("")
	} else {
		w.writeRebuttalTable(md, report.Rebuttals)
	}
	w.writeSources(md, report.Sources)
	return w.build(md)
}

// WriteHistory outputs the scan history.
func (w *MarkdownWriter) WriteHistory(results []*model.ResearchResult) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Scan History")
	md.PlainText("")
	if len(results) == 0 {
		md.Tip("No scans yet. Run a deep scan to build your first battlecard.")
		md.PlainText("")
		return w.build(md)
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			r.CreatedAt().Format(timeLayout),
			escapeCell(r.CompanyName()),
			r.TargetURL,
			"`" + r.ID + "`",
		}
	}
	md.Table(markdown.TableSet{Header: []string{"#", "Date", "Company", "Target", "ID"}, Rows: rows})
	md.PlainText("")
	return w.build(md)
}

// WriteComparison outputs the comparison of two battlecards.
func (w *MarkdownWriter) WriteComparison(c *Comparison) (int, error) {
	md := markdown.NewMarkdown(w.output)
	if c.SameTarget() {
		md.H1(c.Left.CompanyName + ": Then and Now")
	} else {
		md.H1(c.Left.CompanyName + " vs " + c.Right.CompanyName)
	}
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"", "Left", "Right"},
		Rows: [][]string{
			{"Company", escapeCell(c.Left.CompanyName), escapeCell(c.Right.CompanyName)},
			{"Target", c.Left.TargetURL, c.Right.TargetURL},
			{"Scanned", c.Left.ScannedAt.Format(timeLayout), c.Right.ScannedAt.Format(timeLayout)},
			{"Pricing", orDash(escapeCell(c.Left.PricingModel)), orDash(escapeCell(c.Right.PricingModel))},
		},
	})
	md.PlainText("")

	if c.PricingChanged {
		md.Importantf("Pricing models differ: %s / %s", orDash(c.Left.PricingModel), orDash(c.Right.PricingModel))
		md.PlainText("")
	}

	w.writeDiff(md, "Strengths", c.Strengths)
	w.writeDiff(md, "Weaknesses", c.Weaknesses)
	w.writeDiff(md, "Key Features", c.Features)

	if total := len(c.Features.Shared) + len(c.Features.OnlyLeft) + len(c.Features.OnlyRight); total > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Key Feature Overlap"),
			piechart.WithShowData(true),
		)
		if n := len(c.Features.Shared); n > 0 {
			chart.LabelAndIntValue("Shared", uint64(n))
		}
		if n := len(c.Features.OnlyLeft); n > 0 {
			chart.LabelAndIntValue("Only "+c.Left.CompanyName, uint64(n))
		}
		if n := len(c.Features.OnlyRight); n > 0 {
			chart.LabelAndIntValue("Only "+c.Right.CompanyName, uint64(n))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}
	return w.build(md)
}

func (w *MarkdownWriter) writeDiff(md *markdown.Markdown, title string, d ListDiff) {
	md.H2(title)
	md.PlainText("")
	var items []string
	for _, s := range d.Shared {
		items = append(items, "Both: "+s)
	}
	for _, s := range d.OnlyLeft {
		items = append(items, "Left only: "+s)
	}
	for _, s := range d.OnlyRight {
		items = append(items, "Right only: "+s)
	}
	if len(items) == 0 {
		md.PlainText("None on either side.")
	} else {
		md.BulletList(items...)
	}
	md.PlainText("")
}

// WritePhotoAudit outputs the metadata audit of a founder photo.
func (w *MarkdownWriter) WritePhotoAudit(audit *model.PhotoAudit) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Founder Photo Audit")
	md.PlainText("")
	md.PlainTextf("Type `%s`, %d bytes.", audit.MIMEType, audit.Size)
	md.PlainText("")

	risk, ok := audit.MaxRisk()
	switch {
	case !ok:
		md.Tip("No identifying metadata found.")
	case audit.HasLocation():
		md.Cautionf("The photo embeds GPS coordinates. Strip location data before publishing it.")
	case risk >= model.RiskHigh:
		md.Warningf("The photo carries %d identifying tag(s).", len(audit.Findings))
	default:
		md.Note("Only low risk metadata found.")
	}
	md.PlainText("")
	if !ok {
		return w.build(md)
	}

	counts := make(map[model.Risk]int)
	rows := make([][]string, len(audit.Findings))
	for i, f := range audit.Findings {
		counts[f.Risk]++
		rows[i] = []string{f.Risk.String(), f.Tag, escapeCell(truncateString(f.Value, 50)), escapeCell(f.Description)}
	}
	md.Table(markdown.TableSet{Header: []string{"Risk", "Tag", "Value", "Description"}, Rows: rows})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Metadata Risk Distribution"),
		piechart.WithShowData(true),
	)
	for _, r := range []model.Risk{model.RiskCritical, model.RiskHigh, model.RiskMedium, model.RiskLow} {
		if counts[r] > 0 {
			chart.LabelAndIntValue(r.String(), uint64(counts[r]))
		}
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
	return w.build(md)
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [DeepResearch](https://github.com/nao1215/deepresearch)*")
}

func link(text, url string) string {
	if url == "" {
		return text
	}
	return fmt.Sprintf("[%s](%s)", text, url)
}

// escapeCell keeps a value on one table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
