package report

import (
	"io"

	"github.com/nao1215/deepresearch/internal/model"
)

// Writer renders the results of the application in one output format.
// Every method returns the number of bytes written.
type Writer interface {
	// WriteResult outputs a battlecard and kill script.
	WriteResult(result *model.ResearchResult) (int, error)

	// WriteNews outputs a live news lookup.
	WriteNews(report *model.NewsReport) (int, error)

	// WriteRebuttals outputs a tactical rebuttal lookup.
	WriteRebuttals(report *model.RebuttalReport) (int, error)

	// WriteHistory outputs the scan history, most recent first.
	WriteHistory(results []*model.ResearchResult) (int, error)

	// WriteComparison outputs the comparison of two battlecards.
	WriteComparison(c *Comparison) (int, error)

	// WritePhotoAudit outputs the metadata audit of a founder photo.
	WritePhotoAudit(audit *model.PhotoAudit) (int, error)
}

// MultiWriter writes to multiple Writers, e.g. the terminal and a file.
// It stops at the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

func (m *MultiWriter) each(write func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := write(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteResult implements Writer.
func (m *MultiWriter) WriteResult(result *model.ResearchResult) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteResult(result) })
}

// WriteNews implements Writer.
func (m *MultiWriter) WriteNews(report *model.NewsReport) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteNews(report) })
}

// WriteRebuttals implements Writer.
func (m *MultiWriter) WriteRebuttals(report *model.RebuttalReport) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteRebuttals(report) })
}

// WriteHistory implements Writer.
func (m *MultiWriter) WriteHistory(results []*model.ResearchResult) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteHistory(results) })
}

// WriteComparison implements Writer.
func (m *MultiWriter) WriteComparison(c *Comparison) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteComparison(c) })
}

// WritePhotoAudit implements Writer.
func (m *MultiWriter) WritePhotoAudit(audit *model.PhotoAudit) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WritePhotoAudit(audit) })
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// timeLayout is used for every timestamp in text and Markdown output.
const timeLayout = "2006-01-02 15:04:05 MST"

// orDash returns s, or "-" when s is empty.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
