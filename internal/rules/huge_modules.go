package rules

import (
	"fmt"

	"github.com/nao1215/bundle-advisor/internal/model"
)

// HighSeverityModuleSize is the module size above which huge-modules
// reports high severity.
const HighSeverityModuleSize int64 = 500 * 1024

// HugeModules reports single modules larger than the threshold.
type HugeModules struct {
	threshold int64
}

// NewHugeModules creates the huge-modules rule.
func NewHugeModules(threshold int64) *HugeModules {
	return &HugeModules{threshold: threshold}
}

// ID implements Rule.
func (r *HugeModules) ID() string {
	return RuleHugeModules
}

// Check implements Rule.
func (r *HugeModules) Check(analysis *model.Analysis) []model.Issue {
	issues := make([]model.Issue, 0)
	for _, mod := range analysis.Modules {
		if mod.Size <= r.threshold {
			continue
		}

		severity := model.SeverityMedium
		if mod.Size > HighSeverityModuleSize {
			severity = model.SeverityHigh
		}

		fix := model.FixOptimizeImport
		if mod.PackageName != "" {
			fix = model.FixReplacePackage
		}

		label := mod.Label()
		issues = append(issues, model.Issue{
			ID:       IssueID(RuleHugeModules, mod.ID),
			RuleID:   RuleHugeModules,
			Severity: severity,
			Title:    "Huge module: " + label,
			Description: fmt.Sprintf(
				"Module %q is %s. Consider replacing it with a lighter alternative, tree-shaking unused code, or lazy loading it.",
				label, model.FormatBytes(mod.Size),
			),
			BytesEstimate:   mod.Size,
			AffectedModules: []string{mod.ID},
			FixType:         fix,
			Metadata: map[string]any{
				"moduleId":    mod.ID,
				"modulePath":  mod.Path,
				"packageName": mod.PackageName,
				"size":        mod.Size,
			},
		})
	}
	return issues
}
