package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/nao1215/bundle-advisor/internal/model"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Writer defines the interface for report output.
// Implementations render a report in one format to their destination.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.Report) (int, error)
}

// Format names a report output format.
type Format string

// Supported report formats.
const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatHTML     Format = "html"
)

// ErrUnknownFormat is returned by ParseFormat for names outside Formats.
var ErrUnknownFormat = errors.New("unknown report format")

// Formats returns the supported formats in display order.
func Formats() []Format {
	return []Format{FormatJSON, FormatMarkdown, FormatText, FormatHTML}
}

// FormatNames returns the names of the supported formats.
func FormatNames() []string {
	formats := Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}

// ParseFormat converts a format name, case-insensitively. "md" is accepted
// as an alias for markdown.
func ParseFormat(name string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "md" {
		return FormatMarkdown, nil
	}
	for _, f := range Formats() {
		if string(f) == normalized {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q (supported: %s)", ErrUnknownFormat, name, strings.Join(FormatNames(), ", "))
}

// NewWriter creates the writer for format. JSON is pretty-printed and text
// output is colored only when output is a terminal.
func NewWriter(format Format, output io.Writer) (Writer, error) {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatText:
		return NewTextWriter(output, WithColor(IsTerminal(output))), nil
	case FormatHTML:
		return NewHTMLWriter(output), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// IsTerminal reports whether w is a terminal and NO_COLOR is unset.
func IsTerminal(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// severityTitle returns the capitalized severity name, e.g. "High".
func severityTitle(severity model.Severity) string {
	return cases.Title(language.English).String(severity.String())
}

// truncate shortens s to at most width display columns, ending with "...".
// Wide characters count as two columns.
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
