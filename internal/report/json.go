package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/deepresearch/internal/model"
)

// JSONWriter outputs values in JSON for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteResult implements Writer.
func (w *JSONWriter) WriteResult(result *model.ResearchResult) (int, error) {
	return w.writeJSON(result)
}

// WriteNews implements Writer.
func (w *JSONWriter) WriteNews(report *model.NewsReport) (int, error) {
	return w.writeJSON(report)
}

// WriteRebuttals implements Writer.
func (w *JSONWriter) WriteRebuttals(report *model.RebuttalReport) (int, error) {
	return w.writeJSON(report)
}

// WriteHistory implements Writer. An empty history is written as [].
func (w *JSONWriter) WriteHistory(results []*model.ResearchResult) (int, error) {
	if results == nil {
		results = []*model.ResearchResult{}
	}
	return w.writeJSON(results)
}

// WriteComparison implements Writer.
func (w *JSONWriter) WriteComparison(c *Comparison) (int, error) {
	return w.writeJSON(c)
}

// WritePhotoAudit implements Writer.
func (w *JSONWriter) WritePhotoAudit(audit *model.PhotoAudit) (int, error) {
	return w.writeJSON(audit)
}

// writeJSON marshals v and writes it with a trailing newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
