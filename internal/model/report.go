package model

// Report is the value handed to report writers: the analysis plus the
// issues the rule engine derived from it.
type Report struct {
	Analysis *Analysis `json:"analysis"`
	Issues   []Issue   `json:"issues"`
}

// NewReport creates a Report. A nil issue slice is stored as an empty one so
// that JSON output always carries an array.
func NewReport(analysis *Analysis, issues []Issue) *Report {
	if issues == nil {
		issues = []Issue{}
	}
	if analysis == nil {
		analysis = &Analysis{}
	}
	return &Report{
		Analysis: analysis,
		Issues:   issues,
	}
}

// HasIssues reports whether any rule produced an issue.
func (r *Report) HasIssues() bool {
	return len(r.Issues) > 0
}

// IssuesBySeverity returns the issues of one severity in report order.
func (r *Report) IssuesBySeverity(severity Severity) []Issue {
	var result []Issue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			result = append(result, issue)
		}
	}
	return result
}

// CountBySeverity returns how many issues have the given severity.
func (r *Report) CountBySeverity(severity Severity) int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			count++
		}
	}
	return count
}

// PotentialSavings sums the byte estimates of all issues.
// Rules may overlap, so this is an upper bound rather than an exact figure.
func (r *Report) PotentialSavings() int64 {
	var total int64
	for _, issue := range r.Issues {
		total += issue.BytesEstimate
	}
	return total
}

// RiskScore is the severity-weighted issue count used to compare reports.
func (r *Report) RiskScore() int {
	score := 0
	for _, issue := range r.Issues {
		score += issue.Severity.Weight()
	}
	return score
}
