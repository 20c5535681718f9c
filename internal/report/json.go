package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/bundle-advisor/internal/model"
)

// JSONWriter outputs reports as JSON: the report value serialized directly,
// so the output can be read back with ReadJSON.
//
// Design decision: We serialize model.Report as is rather than wrapping it
// in an envelope with tool metadata. The compare command reads previous
// reports back with ReadJSON, and a bare report keeps that a single Unmarshal.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
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

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *model.Report) (int, error) {
	if report == nil {
		report = model.NewReport(nil, nil)
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(report, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// ReadJSON decodes a report written by JSONWriter.
// Unknown severities and fix types are rejected.
func ReadJSON(r io.Reader) (*model.Report, error) {
	var report model.Report
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return nil, err
	}
	return model.NewReport(report.Analysis, report.Issues), nil
}
