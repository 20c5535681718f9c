package report

import (
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/nao1215/bundle-advisor/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
// The output is meant for pull request comments and CI summaries, so it
// relies on GitHub-flavored alerts and mermaid charts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	if report == nil {
		report = model.NewReport(nil, nil)
	}

	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md)
	w.writeOverview(md, report)
	w.writeIssues(md, report)
	w.writeDuplicatePackages(md, report.Analysis)
	w.writeLargeModules(md, report.Analysis)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report title.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown) {
	md.H1("Bundle Analysis Report")
	md.PlainText("")
}

// writeOverview writes the size summary table, the severity chart and an alert.
func (w *MarkdownWriter) writeOverview(md *markdown.Markdown, report *model.Report) {
	analysis := report.Analysis

	md.H2("Overview")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Size", model.FormatBytes(analysis.TotalSize)},
			{"Initial Size", model.FormatBytes(analysis.InitialSize)},
			{"Modules", strconv.Itoa(len(analysis.Modules))},
			{"Chunks", strconv.Itoa(len(analysis.Chunks))},
			{"Issues", strconv.Itoa(len(report.Issues))},
			{"Potential Savings", model.FormatBytes(report.PotentialSavings())},
		},
	})
	md.PlainText("")

	if report.HasIssues() {
		w.writePieChart(md, report)
	}
	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.Report) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issue Severity Distribution"),
		piechart.WithShowData(true),
	)

	for _, sev := range model.Severities {
		count := report.CountBySeverity(sev)
		if count == 0 {
			continue
		}
		value, err := safecast.Conv[uint64](count)
		if err != nil {
			continue
		}
		chart.LabelAndIntValue(severityTitle(sev), value)
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert matching the most severe issue level.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.Report) {
	high := report.CountBySeverity(model.SeverityHigh)
	medium := report.CountBySeverity(model.SeverityMedium)

	switch {
	case high > 0:
		md.Cautionf(
			"%d high priority issue(s) detected. Up to %s could be saved.",
			high, model.FormatBytes(report.PotentialSavings()),
		)
	case medium > 0:
		md.Warningf("%d medium priority issue(s) should be reviewed.", medium)
	case report.HasIssues():
		md.Note("Only low priority issues detected.")
	default:
		md.Tip("The bundle passed every enabled rule.")
	}
	md.PlainText("")
}

// writeIssues writes issues grouped by severity, most severe first.
func (w *MarkdownWriter) writeIssues(md *markdown.Markdown, report *model.Report) {
	if !report.HasIssues() {
		md.H2("No Issues Found")
		md.PlainText("")
		md.PlainText("No optimization opportunities were detected in this bundle.")
		md.PlainText("")
		return
	}

	for _, sev := range model.Severities {
		issues := report.IssuesBySeverity(sev)
		if len(issues) == 0 {
			continue
		}

		md.H2(severityTitle(sev) + " Priority Issues")
		md.PlainText("")
		w.writeIssueTable(md, issues)
	}
}

// writeIssueTable writes a table of issues followed by collapsible details.
func (w *MarkdownWriter) writeIssueTable(md *markdown.Markdown, issues []model.Issue) {
	rows := make([][]string, len(issues))
	for i, issue := range issues {
		savings := "-"
		if issue.BytesEstimate > 0 {
			savings = model.FormatBytes(issue.BytesEstimate)
		}
		rows[i] = []string{
			issue.Title,
			"`" + issue.RuleID + "`",
			savings,
			issue.FixType.Recommendation(),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Issue", "Rule", "Potential Savings", "Recommendation"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, issue := range issues {
		md.Details(issue.Title, issueDetails(issue))
	}
	md.PlainText("")
}

// issueDetails renders the body of an issue's details block.
func issueDetails(issue model.Issue) string {
	var sb strings.Builder
	sb.WriteString(issue.Description)
	if len(issue.AffectedModules) > 0 {
		sb.WriteString("\n\nAffected modules:\n")
		for _, id := range issue.AffectedModules {
			sb.WriteString("- `" + id + "`\n")
		}
	}
	return sb.String()
}

// writeDuplicatePackages writes the table of packages bundled in several versions.
func (w *MarkdownWriter) writeDuplicatePackages(md *markdown.Markdown, analysis *model.Analysis) {
	if len(analysis.DuplicatePackages) == 0 {
		return
	}

	rows := make([][]string, len(analysis.DuplicatePackages))
	for i, dup := range analysis.DuplicatePackages {
		rows[i] = []string{
			"`" + dup.PackageName + "`",
			strings.Join(dup.Versions, ", "),
			model.FormatBytes(dup.TotalSize),
		}
	}

	md.H2("Duplicate Packages")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Package", "Versions", "Total Size"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeLargeModules writes the table of modules above the large-module threshold.
func (w *MarkdownWriter) writeLargeModules(md *markdown.Markdown, analysis *model.Analysis) {
	if len(analysis.LargeModules) == 0 {
		return
	}

	rows := make([][]string, len(analysis.LargeModules))
	for i, m := range analysis.LargeModules {
		rows[i] = []string{
			"`" + truncate(m.Label(), 60) + "`",
			model.FormatBytes(m.Size),
			strings.Join(m.Chunks, ", "),
		}
	}

	md.H2("Large Modules")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Module", "Size", "Chunks"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by bundle-advisor*")
}
