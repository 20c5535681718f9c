package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nao1215/bundle-advisor/internal/model"
	"github.com/nao1215/bundle-advisor/internal/report"
	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"
)

// Constants for risk direction.
const (
	riskDirectionWorsened  = "worsened"
	riskDirectionImproved  = "improved"
	riskDirectionUnchanged = "unchanged"
)

// ErrNewIssues is returned by compare --fail-on-new when the current
// report has issues the baseline did not.
var ErrNewIssues = errors.New("new issues introduced")

// NewCompareCmd creates the compare command.
// This command compares two JSON reports written by analyze --format json.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <baseline.json> <current.json>",
		Short: "Compare two JSON reports",
		Long: `Compare displays the differences between two reports written with
'bundle-advisor analyze --format json':

- New issues that appear only in the current report
- Resolved issues that appear only in the baseline
- Changes in issue counts per severity and in bundle size

Issues are matched by ID, which is stable for the same rule and entity.

Examples:
  # Compare the main branch report with the pull request report
  bundle-advisor compare main.json pr.json

  # Markdown output for a pull request comment
  bundle-advisor compare --markdown main.json pr.json

  # Fail the CI job when new issues are introduced
  bundle-advisor compare --fail-on-new main.json pr.json`,
		Args: cobra.ExactArgs(2),
		RunE: runCompareCmd,
	}

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	cmd.Flags().Bool("fail-on-new", false,
		"Exit with an error when the current report has new issues")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	failOnNew, err := cmd.Flags().GetBool("fail-on-new")
	if err != nil {
		return err
	}

	result, err := compareFiles(args[0], args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case jsonOutput:
		err = outputComparisonJSON(out, result)
	case markdownOutput:
		err = outputComparisonMarkdown(out, result)
	default:
		err = outputComparisonText(out, result)
	}
	if err != nil {
		return err
	}

	if failOnNew && len(result.NewIssues) > 0 {
		return fmt.Errorf("%w: %d", ErrNewIssues, len(result.NewIssues))
	}
	return nil
}

// compareFiles compares two JSON report files.
func compareFiles(baselinePath, currentPath string) (*ComparisonResult, error) {
	baseline, err := readReport(baselinePath)
	if err != nil {
		return nil, err
	}
	current, err := readReport(currentPath)
	if err != nil {
		return nil, err
	}

	result := compareReports(baseline, current)
	result.Baseline.Path = baselinePath
	result.Current.Path = currentPath
	return result, nil
}

// readReport loads a JSON report from path.
func readReport(path string) (*model.Report, error) {
	f, err := os.Open(path) //nolint:gosec // path is given by the user
	if err != nil {
		return nil, fmt.Errorf("failed to open report %s: %w", path, err)
	}
	defer f.Close()

	rep, err := report.ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return rep, nil
}

// ComparisonResult holds the result of comparing two reports.
type ComparisonResult struct {
	// Baseline summarizes the older report.
	Baseline ReportSummary `json:"baseline"`

	// Current summarizes the newer report.
	Current ReportSummary `json:"current"`

	// NewIssues are in the current report but not in the baseline,
	// in current report order.
	NewIssues []model.Issue `json:"newIssues"`

	// ResolvedIssues are in the baseline but not in the current report,
	// in baseline order.
	ResolvedIssues []model.Issue `json:"resolvedIssues"`

	// UnchangedCount is the number of issue IDs present in both reports.
	UnchangedCount int `json:"unchangedCount"`

	// RiskChange describes the overall change in risk level.
	RiskChange RiskChange `json:"riskChange"`

	// SizeChange holds the bundle size deltas in bytes.
	SizeChange SizeChange `json:"sizeChange"`
}

// ReportSummary contains the figures of one report used for comparison.
type ReportSummary struct {
	Path        string `json:"path,omitempty"`
	TotalSize   int64  `json:"totalSize"`
	InitialSize int64  `json:"initialSize"`
	TotalIssues int    `json:"totalIssues"`
	HighCount   int    `json:"highCount"`
	MediumCount int    `json:"mediumCount"`
	LowCount    int    `json:"lowCount"`
	RiskScore   int    `json:"riskScore"`
}

// RiskChange describes the change in risk level between reports.
type RiskChange struct {
	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	HighDelta   int `json:"highDelta"`
	MediumDelta int `json:"mediumDelta"`
	LowDelta    int `json:"lowDelta"`
}

// SizeChange holds size deltas; negative values mean the bundle shrank.
type SizeChange struct {
	TotalSizeDelta   int64 `json:"totalSizeDelta"`
	InitialSizeDelta int64 `json:"initialSizeDelta"`
}

// summarize extracts the comparison figures of a report.
func summarize(r *model.Report) ReportSummary {
	return ReportSummary{
		TotalSize:   r.Analysis.TotalSize,
		InitialSize: r.Analysis.InitialSize,
		TotalIssues: len(r.Issues),
		HighCount:   r.CountBySeverity(model.SeverityHigh),
		MediumCount: r.CountBySeverity(model.SeverityMedium),
		LowCount:    r.CountBySeverity(model.SeverityLow),
		RiskScore:   r.RiskScore(),
	}
}

// compareReports compares two reports by issue ID.
func compareReports(baseline, current *model.Report) *ComparisonResult {
	result := &ComparisonResult{
		Baseline:       summarize(baseline),
		Current:        summarize(current),
		NewIssues:      make([]model.Issue, 0),
		ResolvedIssues: make([]model.Issue, 0),
	}

	baselineIDs := make(map[string]bool, len(baseline.Issues))
	for _, issue := range baseline.Issues {
		baselineIDs[issue.ID] = true
	}
	currentIDs := make(map[string]bool, len(current.Issues))
	for _, issue := range current.Issues {
		currentIDs[issue.ID] = true
	}

	for _, issue := range current.Issues {
		if !baselineIDs[issue.ID] {
			result.NewIssues = append(result.NewIssues, issue)
		}
	}

	counted := make(map[string]bool, len(baseline.Issues))
	for _, issue := range baseline.Issues {
		if !currentIDs[issue.ID] {
			result.ResolvedIssues = append(result.ResolvedIssues, issue)
			continue
		}
		if !counted[issue.ID] {
			counted[issue.ID] = true
			result.UnchangedCount++
		}
	}

	result.RiskChange = calculateRiskChange(result.Baseline, result.Current)
	result.SizeChange = SizeChange{
		TotalSizeDelta:   result.Current.TotalSize - result.Baseline.TotalSize,
		InitialSizeDelta: result.Current.InitialSize - result.Baseline.InitialSize,
	}

	return result
}

// calculateRiskChange calculates the change in risk between two reports.
// The direction follows the severity-weighted risk score.
func calculateRiskChange(baseline, current ReportSummary) RiskChange {
	change := RiskChange{
		HighDelta:   current.HighCount - baseline.HighCount,
		MediumDelta: current.MediumCount - baseline.MediumCount,
		LowDelta:    current.LowCount - baseline.LowCount,
	}

	switch {
	case current.RiskScore < baseline.RiskScore:
		change.Direction = riskDirectionImproved
	case current.RiskScore > baseline.RiskScore:
		change.Direction = riskDirectionWorsened
	default:
		change.Direction = riskDirectionUnchanged
	}

	return change
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(w io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(w io.Writer, result *ComparisonResult) error {
	md := markdown.NewMarkdown(w)

	md.H1("Bundle Comparison")
	md.PlainText("")
	md.H2("Summary")
	md.PlainText("")
	md.PlainTextf("**Risk Status:** %s", formatRiskDirection(result.RiskChange.Direction))
	md.PlainText("")

	b, c := result.Baseline, result.Current
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Baseline", "Current", "Change"},
		Rows: [][]string{
			{"Total Size", model.FormatBytes(b.TotalSize), model.FormatBytes(c.TotalSize), formatSizeDelta(result.SizeChange.TotalSizeDelta)},
			{"Initial Size", model.FormatBytes(b.InitialSize), model.FormatBytes(c.InitialSize), formatSizeDelta(result.SizeChange.InitialSizeDelta)},
			{"High", strconv.Itoa(b.HighCount), strconv.Itoa(c.HighCount), formatDelta(result.RiskChange.HighDelta)},
			{"Medium", strconv.Itoa(b.MediumCount), strconv.Itoa(c.MediumCount), formatDelta(result.RiskChange.MediumDelta)},
			{"Low", strconv.Itoa(b.LowCount), strconv.Itoa(c.LowCount), formatDelta(result.RiskChange.LowDelta)},
			{"**Total**", "**" + strconv.Itoa(b.TotalIssues) + "**", "**" + strconv.Itoa(c.TotalIssues) + "**", "**" + formatDelta(c.TotalIssues-b.TotalIssues) + "**"},
		},
	})
	md.PlainText("")

	if len(result.NewIssues) > 0 {
		md.H2(fmt.Sprintf("New Issues (%d)", len(result.NewIssues)))
		md.PlainText("")
		items := make([]string, len(result.NewIssues))
		for i, issue := range result.NewIssues {
			items[i] = fmt.Sprintf("**[%s]** %s", issue.Severity, issue.Title)
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	if len(result.ResolvedIssues) > 0 {
		md.H2(fmt.Sprintf("Resolved Issues (%d)", len(result.ResolvedIssues)))
		md.PlainText("")
		items := make([]string, len(result.ResolvedIssues))
		for i, issue := range result.ResolvedIssues {
			items[i] = fmt.Sprintf("~~**[%s]** %s~~", issue.Severity, issue.Title)
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	if result.UnchangedCount > 0 {
		md.HorizontalRule()
		md.PlainText("")
		md.PlainTextf("*%d issues unchanged*", result.UnchangedCount)
	}

	return md.Build()
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(w io.Writer, result *ComparisonResult) error {
	var sb strings.Builder
	b, c := result.Baseline, result.Current

	sb.WriteString("Bundle Comparison\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "\nRisk Status: %s\n", formatRiskDirection(result.RiskChange.Direction))
	if b.Path != "" || c.Path != "" {
		fmt.Fprintf(&sb, "\nBaseline: %s\n", b.Path)
		fmt.Fprintf(&sb, "Current:  %s\n", c.Path)
	}

	sb.WriteString("\nSizes:\n")
	fmt.Fprintf(&sb, "  %-10s  %-12s  %-12s  %s\n", "", "Baseline", "Current", "Change")
	fmt.Fprintf(&sb, "  %-10s  %-12s  %-12s  %s\n", "Total",
		model.FormatBytes(b.TotalSize), model.FormatBytes(c.TotalSize),
		formatSizeDelta(result.SizeChange.TotalSizeDelta))
	fmt.Fprintf(&sb, "  %-10s  %-12s  %-12s  %s\n", "Initial",
		model.FormatBytes(b.InitialSize), model.FormatBytes(c.InitialSize),
		formatSizeDelta(result.SizeChange.InitialSizeDelta))

	sb.WriteString("\nIssues Summary:\n")
	fmt.Fprintf(&sb, "  %-10s  %-10s  %-10s  %-10s\n", "Severity", "Baseline", "Current", "Change")
	sb.WriteString("  " + strings.Repeat("-", 45) + "\n")
	fmt.Fprintf(&sb, "  %-10s  %-10d  %-10d  %-10s\n", "High", b.HighCount, c.HighCount, formatDelta(result.RiskChange.HighDelta))
	fmt.Fprintf(&sb, "  %-10s  %-10d  %-10d  %-10s\n", "Medium", b.MediumCount, c.MediumCount, formatDelta(result.RiskChange.MediumDelta))
	fmt.Fprintf(&sb, "  %-10s  %-10d  %-10d  %-10s\n", "Low", b.LowCount, c.LowCount, formatDelta(result.RiskChange.LowDelta))
	sb.WriteString("  " + strings.Repeat("-", 45) + "\n")
	fmt.Fprintf(&sb, "  %-10s  %-10d  %-10d  %-10s\n", "Total", b.TotalIssues, c.TotalIssues, formatDelta(c.TotalIssues-b.TotalIssues))

	if len(result.NewIssues) > 0 {
		fmt.Fprintf(&sb, "\nNew Issues (%d):\n", len(result.NewIssues))
		for _, issue := range result.NewIssues {
			fmt.Fprintf(&sb, "  [+] [%s] %s\n", issue.Severity, issue.Title)
		}
	}

	if len(result.ResolvedIssues) > 0 {
		fmt.Fprintf(&sb, "\nResolved Issues (%d):\n", len(result.ResolvedIssues))
		for _, issue := range result.ResolvedIssues {
			fmt.Fprintf(&sb, "  [-] [%s] %s\n", issue.Severity, issue.Title)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Fprintf(&sb, "\nUnchanged: %d issues\n", result.UnchangedCount)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// formatRiskDirection formats the risk change direction for display.
func formatRiskDirection(direction string) string {
	switch direction {
	case riskDirectionImproved:
		return "IMPROVED (risk decreased)"
	case riskDirectionWorsened:
		return "WORSENED (risk increased)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}

// formatSizeDelta formats a byte delta with sign for display.
func formatSizeDelta(delta int64) string {
	switch {
	case delta > 0:
		return "+" + model.FormatBytes(delta)
	case delta < 0:
		return "-" + model.FormatBytes(-delta)
	default:
		return "0 B"
	}
}
