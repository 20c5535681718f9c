package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/nao1215/bundle-advisor/internal/model"
)

// ruleWidth is the width of the horizontal rules between sections.
const ruleWidth = 70

// TextWriter outputs a human-readable summary for terminal display.
type TextWriter struct {
	baseWriter

	// colorize enables ANSI colors for severity labels.
	colorize bool

	// verbose adds issue descriptions and affected modules.
	verbose bool

	// width caps the length of module labels and titles.
	width int
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithColor enables or disables colored severity labels.
func WithColor(enabled bool) TextWriterOption {
	return func(w *TextWriter) {
		w.colorize = enabled
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// WithWidth sets the maximum display width of labels.
// Values below 10 are ignored.
func WithWidth(width int) TextWriterOption {
	return func(w *TextWriter) {
		if width >= 10 {
			w.width = width
		}
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
// Colors are off unless WithColor(true) is passed.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
		width:      60,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *TextWriter) Write(report *model.Report) (int, error) {
	if report == nil {
		report = model.NewReport(nil, nil)
	}

	var sb strings.Builder

	w.writeHeader(&sb)
	w.writeOverview(&sb, report)
	w.writeIssues(&sb, report)
	w.writeDuplicatePackages(&sb, report.Analysis)
	w.writeLargeModules(&sb, report.Analysis)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the report banner.
func (w *TextWriter) writeHeader(sb *strings.Builder) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                      BUNDLE ANALYSIS REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

// writeSection writes a section title between two rules.
func (w *TextWriter) writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

// writeOverview writes sizes and issue counts.
func (w *TextWriter) writeOverview(sb *strings.Builder, report *model.Report) {
	analysis := report.Analysis

	fmt.Fprintf(sb, "Total Size:        %s\n", model.FormatBytes(analysis.TotalSize))
	fmt.Fprintf(sb, "Initial Size:      %s\n", model.FormatBytes(analysis.InitialSize))
	fmt.Fprintf(sb, "Modules:           %s\n", humanize.Comma(int64(len(analysis.Modules))))
	fmt.Fprintf(sb, "Chunks:            %s\n", humanize.Comma(int64(len(analysis.Chunks))))
	fmt.Fprintf(sb, "Potential Savings: %s\n", model.FormatBytes(report.PotentialSavings()))
	sb.WriteString("\n")

	w.writeSection(sb, "SEVERITY SUMMARY")
	for _, sev := range model.Severities {
		label := fmt.Sprintf("%-7s", strings.ToUpper(sev.String())+":")
		fmt.Fprintf(sb, "  %s %d\n", w.paint(sev, label), report.CountBySeverity(sev))
	}
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  TOTAL:  %s issues\n", humanize.Comma(int64(len(report.Issues))))
	sb.WriteString("\n")
}

// writeIssues writes issues grouped by severity.
func (w *TextWriter) writeIssues(sb *strings.Builder, report *model.Report) {
	w.writeSection(sb, "ISSUES")

	if !report.HasIssues() {
		sb.WriteString("  No issues found\n\n")
		return
	}

	for _, sev := range model.Severities {
		issues := report.IssuesBySeverity(sev)
		if len(issues) == 0 {
			continue
		}

		fmt.Fprintf(sb, "[%s] %s\n", w.paint(sev, severityIndicator(sev)), severityTitle(sev))
		for _, issue := range issues {
			fmt.Fprintf(sb, "  * %s\n", w.truncate(issue.Title))
			if issue.BytesEstimate > 0 {
				fmt.Fprintf(sb, "    Savings: %s\n", model.FormatBytes(issue.BytesEstimate))
			}
			fmt.Fprintf(sb, "    Fix:     %s\n", issue.FixType.Recommendation())
			if w.verbose {
				fmt.Fprintf(sb, "    Details: %s\n", issue.Description)
				for _, id := range issue.AffectedModules {
					fmt.Fprintf(sb, "      - %s\n", w.truncate(id))
				}
			}
		}
		sb.WriteString("\n")
	}
}

// writeDuplicatePackages lists packages bundled in several versions.
func (w *TextWriter) writeDuplicatePackages(sb *strings.Builder, analysis *model.Analysis) {
	if len(analysis.DuplicatePackages) == 0 {
		return
	}

	w.writeSection(sb, "DUPLICATE PACKAGES")
	for _, dup := range analysis.DuplicatePackages {
		fmt.Fprintf(sb, "  %s %s (%s)\n",
			w.pad(dup.PackageName, 30),
			model.FormatBytes(dup.TotalSize),
			strings.Join(dup.Versions, ", "),
		)
	}
	sb.WriteString("\n")
}

// writeLargeModules lists modules above the large-module threshold.
func (w *TextWriter) writeLargeModules(sb *strings.Builder, analysis *model.Analysis) {
	if len(analysis.LargeModules) == 0 {
		return
	}

	w.writeSection(sb, "LARGE MODULES")
	for _, m := range analysis.LargeModules {
		fmt.Fprintf(sb, "  %s %s\n", w.pad(m.Label(), w.width), model.FormatBytes(m.Size))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *TextWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by bundle-advisor\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}

// paint colors s according to severity when colors are enabled.
func (w *TextWriter) paint(severity model.Severity, s string) string {
	if !w.colorize {
		return s
	}
	c := severityColor(severity)
	c.EnableColor()
	return c.Sprint(s)
}

// truncate shortens s to the configured display width.
func (w *TextWriter) truncate(s string) string {
	return truncate(s, w.width)
}

// pad truncates s and fills it with spaces up to width display columns.
func (w *TextWriter) pad(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

// severityColor returns the color used for a severity label.
func severityColor(severity model.Severity) *color.Color {
	switch severity {
	case model.SeverityHigh:
		return color.New(color.FgRed, color.Bold)
	case model.SeverityMedium:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}

// severityIndicator returns a visual indicator for the severity level.
func severityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityHigh:
		return "!!"
	case model.SeverityMedium:
		return "!"
	default:
		return "-"
	}
}
