package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nao1215/bundle-advisor/internal/model"
)

// DuplicatePackages reports every package bundled in more than one version.
//
// The severity is always medium, whatever the size or the number of
// versions involved.
type DuplicatePackages struct{}

// NewDuplicatePackages creates the duplicate-packages rule.
func NewDuplicatePackages() *DuplicatePackages {
	return &DuplicatePackages{}
}

// ID implements Rule.
func (r *DuplicatePackages) ID() string {
	return RuleDuplicatePackages
}

// Check implements Rule.
func (r *DuplicatePackages) Check(analysis *model.Analysis) []model.Issue {
	issues := make([]model.Issue, 0, len(analysis.DuplicatePackages))
	for _, dup := range analysis.DuplicatePackages {
		n := int64(len(dup.Versions))
		if n < 2 {
			continue
		}
		// Keeping one version saves everything but one copy.
		savings := dup.TotalSize * (n - 1) / n

		issues = append(issues, model.Issue{
			ID:       IssueID(RuleDuplicatePackages, dup.PackageName),
			RuleID:   RuleDuplicatePackages,
			Severity: model.SeverityMedium,
			Title:    "Duplicate package: " + dup.PackageName,
			Description: fmt.Sprintf(
				"Package %q is bundled in %d versions (%s), %s in total. Aligning on one version could save about %s.",
				dup.PackageName, n, strings.Join(dup.Versions, ", "),
				model.FormatBytes(dup.TotalSize), model.FormatBytes(savings),
			),
			BytesEstimate:   savings,
			AffectedModules: modulesOfPackage(analysis.Modules, dup.PackageName),
			FixType:         model.FixDedupePackage,
			Metadata: map[string]any{
				"packageName": dup.PackageName,
				"versions":    slices.Clone(dup.Versions),
				"totalSize":   dup.TotalSize,
			},
		})
	}
	return issues
}

func modulesOfPackage(modules []model.Module, name string) []string {
	ids := make([]string, 0)
	for _, m := range modules {
		if m.PackageName == name {
			ids = append(ids, m.ID)
		}
	}
	return ids
}
