package rules

import "github.com/nao1215/bundle-advisor/internal/model"

// Rule IDs of the built-in rules.
const (
	RuleDuplicatePackages  = "duplicate-packages"
	RuleLargeVendorChunks  = "large-vendor-chunks"
	RuleHugeModules        = "huge-modules"
	RuleLazyLoadCandidates = "lazy-load-candidates"
)

// IDs returns the built-in rule IDs in registration order.
func IDs() []string {
	return []string{
		RuleDuplicatePackages,
		RuleLargeVendorChunks,
		RuleHugeModules,
		RuleLazyLoadCandidates,
	}
}

// Rule inspects an analysis and reports issues.
//
// Check must not modify the analysis and must not depend on any other rule,
// so rules can be evaluated in any order or concurrently.
type Rule interface {
	// ID returns the stable rule identifier, e.g. "huge-modules".
	ID() string

	// Check returns the issues found. A rule with nothing to report returns
	// an empty or nil slice.
	Check(analysis *model.Analysis) []model.Issue
}

// funcRule adapts a plain function to the Rule interface.
type funcRule struct {
	id    string
	check func(*model.Analysis) []model.Issue
}

// Func returns a Rule with the given ID backed by check.
func Func(id string, check func(*model.Analysis) []model.Issue) Rule {
	return &funcRule{id: id, check: check}
}

func (r *funcRule) ID() string {
	return r.id
}

func (r *funcRule) Check(analysis *model.Analysis) []model.Issue {
	return r.check(analysis)
}

// IssueID builds the issue identifier from the rule and the affected entity
// (package name, chunk ID or module ID). The same input always yields the
// same ID, which is what compare relies on to match issues across runs.
func IssueID(ruleID, entityID string) string {
	return ruleID + ":" + entityID
}
