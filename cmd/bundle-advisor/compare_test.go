package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/bundle-advisor/internal/model"
	"github.com/nao1215/bundle-advisor/internal/report"
)

// issue creates a minimal issue for comparison tests.
func issue(id string, severity model.Severity) model.Issue {
	return model.Issue{
		ID:              id,
		RuleID:          strings.SplitN(id, ":", 2)[0],
		Severity:        severity,
		Title:           "Issue " + id,
		AffectedModules: []string{},
		FixType:         model.FixOther,
		Metadata:        map[string]any{},
	}
}

// writeReport writes rep as a JSON report file and returns its path.
func writeReport(t *testing.T, name string, rep *model.Report) string {
	t.Helper()

	var buf bytes.Buffer
	if _, err := report.NewJSONWriter(&buf, report.WithPrettyPrint()).Write(rep); err != nil {
		t.Fatalf("failed to encode report: %v", err)
	}
	return writeFile(t, name, buf.String())
}

func baselineReport() *model.Report {
	return model.NewReport(&model.Analysis{TotalSize: 500000, InitialSize: 300000}, []model.Issue{
		issue("huge-modules:0", model.SeverityHigh),
		issue("duplicate-packages:lodash", model.SeverityMedium),
	})
}

func currentReport() *model.Report {
	return model.NewReport(&model.Analysis{TotalSize: 450000, InitialSize: 320000}, []model.Issue{
		issue("duplicate-packages:lodash", model.SeverityMedium),
		issue("lazy-load-candidates:main", model.SeverityMedium),
	})
}

func TestCompareReports(t *testing.T) {
	t.Parallel()

	t.Run("classifies issues by ID", func(t *testing.T) {
		t.Parallel()

		result := compareReports(baselineReport(), currentReport())

		if len(result.NewIssues) != 1 || result.NewIssues[0].ID != "lazy-load-candidates:main" {
			t.Errorf("unexpected new issues: %+v", result.NewIssues)
		}
		if len(result.ResolvedIssues) != 1 || result.ResolvedIssues[0].ID != "huge-modules:0" {
			t.Errorf("unexpected resolved issues: %+v", result.ResolvedIssues)
		}
		if result.UnchangedCount != 1 {
			t.Errorf("expected 1 unchanged issue, got %d", result.UnchangedCount)
		}
		if result.RiskChange.Direction != riskDirectionImproved {
			t.Errorf("expected improved, got %s", result.RiskChange.Direction)
		}
		if result.RiskChange.HighDelta != -1 || result.RiskChange.MediumDelta != 1 || result.RiskChange.LowDelta != 0 {
			t.Errorf("unexpected deltas: %+v", result.RiskChange)
		}
		if result.SizeChange.TotalSizeDelta != -50000 || result.SizeChange.InitialSizeDelta != 20000 {
			t.Errorf("unexpected size change: %+v", result.SizeChange)
		}
	})

	t.Run("direction follows the weighted score", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			name     string
			baseline []model.Issue
			current  []model.Issue
			want     string
		}{
			{
				name:    "no issues",
				want:    riskDirectionUnchanged,
				current: nil,
			},
			{
				name:     "one high outweighs several medium",
				baseline: []model.Issue{issue("a:1", model.SeverityMedium), issue("a:2", model.SeverityMedium), issue("a:3", model.SeverityMedium)},
				current:  []model.Issue{issue("b:1", model.SeverityHigh)},
				want:     riskDirectionWorsened,
			},
			{
				name:     "same score with different issues",
				baseline: []model.Issue{issue("a:1", model.SeverityLow), issue("a:2", model.SeverityLow)},
				current:  []model.Issue{issue("b:1", model.SeverityMedium)},
				want:     riskDirectionUnchanged,
			},
		}

		for _, tc := range testCases {
			result := compareReports(model.NewReport(nil, tc.baseline), model.NewReport(nil, tc.current))
			if result.RiskChange.Direction != tc.want {
				t.Errorf("%s: expected %s, got %s", tc.name, tc.want, result.RiskChange.Direction)
			}
		}
	})

	t.Run("identical reports", func(t *testing.T) {
		t.Parallel()

		result := compareReports(baselineReport(), baselineReport())
		if len(result.NewIssues) != 0 || len(result.ResolvedIssues) != 0 {
			t.Error("expected no new or resolved issues")
		}
		if result.UnchangedCount != 2 {
			t.Errorf("expected 2 unchanged issues, got %d", result.UnchangedCount)
		}
		if result.NewIssues == nil || result.ResolvedIssues == nil {
			t.Error("expected empty slices for JSON output")
		}
	})
}

func TestCompareCmd(t *testing.T) {
	t.Parallel()

	baseline := writeReport(t, "baseline.json", baselineReport())
	current := writeReport(t, "current.json", currentReport())

	t.Run("text output", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeRoot(t, nil, "compare", baseline, current)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			"IMPROVED (risk decreased)",
			"New Issues (1):",
			"[+] [medium] Issue lazy-load-candidates:main",
			"Resolved Issues (1):",
			"[-] [high] Issue huge-modules:0",
			"Unchanged: 1 issues",
			"-48.8 KB",
		} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected output to contain %q\n%s", want, stdout)
			}
		}
	})

	t.Run("json output", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeRoot(t, nil, "compare", "--json", baseline, current)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var result ComparisonResult
		if err := json.Unmarshal([]byte(stdout), &result); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if result.Baseline.Path != baseline || result.Current.Path != current {
			t.Errorf("expected report paths, got %q and %q", result.Baseline.Path, result.Current.Path)
		}
		if len(result.NewIssues) != 1 || result.RiskChange.Direction != riskDirectionImproved {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("markdown output", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeRoot(t, nil, "compare", "-m", baseline, current)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			"# Bundle Comparison",
			"**Risk Status:** IMPROVED",
			"## New Issues (1)",
			"## Resolved Issues (1)",
			"~~**[high]** Issue huge-modules:0~~",
		} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected output to contain %q\n%s", want, stdout)
			}
		}
	})

	t.Run("json and markdown are exclusive", func(t *testing.T) {
		t.Parallel()

		if _, _, err := executeRoot(t, nil, "compare", "--json", "--markdown", baseline, current); err == nil {
			t.Error("expected error for conflicting flags")
		}
	})

	t.Run("fail-on-new", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeRoot(t, nil, "compare", "--fail-on-new", baseline, current)
		if !errors.Is(err, ErrNewIssues) {
			t.Errorf("expected ErrNewIssues, got %v", err)
		}

		_, _, err = executeRoot(t, nil, "compare", "--fail-on-new", current, current)
		if err != nil {
			t.Errorf("expected no error without new issues, got %v", err)
		}
	})

	t.Run("requires two arguments", func(t *testing.T) {
		t.Parallel()

		if _, _, err := executeRoot(t, nil, "compare", baseline); err == nil {
			t.Error("expected error for missing argument")
		}
	})

	t.Run("missing report", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "missing.json")
		_, _, err := executeRoot(t, nil, "compare", missing, current)
		if err == nil || !strings.Contains(err.Error(), "failed to open report") {
			t.Errorf("expected open error, got %v", err)
		}
	})

	t.Run("invalid report", func(t *testing.T) {
		t.Parallel()

		bad := writeFile(t, "bad.json", `{"issues": [{"id": "x", "severity": "urgent"}]}`)
		_, _, err := executeRoot(t, nil, "compare", bad, current)
		if err == nil || !strings.Contains(err.Error(), "failed to parse report") {
			t.Errorf("expected parse error, got %v", err)
		}
	})
}

func TestFormatDeltas(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		got  string
		want string
	}{
		{formatDelta(3), "+3"},
		{formatDelta(-2), "-2"},
		{formatDelta(0), "0"},
		{formatSizeDelta(2048), "+2.0 KB"},
		{formatSizeDelta(-512), "-512 B"},
		{formatSizeDelta(0), "0 B"},
		{formatRiskDirection(riskDirectionWorsened), "WORSENED (risk increased)"},
		{formatRiskDirection("other"), "UNCHANGED"},
	}

	for _, tc := range testCases {
		if tc.got != tc.want {
			t.Errorf("expected %q, got %q", tc.want, tc.got)
		}
	}
}
