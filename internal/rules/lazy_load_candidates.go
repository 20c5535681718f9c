package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nao1215/bundle-advisor/internal/model"
)

// LazyLoadCandidates reports initial entry chunks above the threshold.
// Initial chunks without entry point names are usually the main bundle and
// are left alone.
type LazyLoadCandidates struct {
	threshold int64
}

// NewLazyLoadCandidates creates the lazy-load-candidates rule.
func NewLazyLoadCandidates(threshold int64) *LazyLoadCandidates {
	return &LazyLoadCandidates{threshold: threshold}
}

// ID implements Rule.
func (r *LazyLoadCandidates) ID() string {
	return RuleLazyLoadCandidates
}

// Check implements Rule.
func (r *LazyLoadCandidates) Check(analysis *model.Analysis) []model.Issue {
	issues := make([]model.Issue, 0)
	for _, chunk := range analysis.Chunks {
		if !chunk.IsInitial || chunk.Size <= r.threshold || len(chunk.EntryPoints) == 0 {
			continue
		}

		entries := strings.Join(chunk.EntryPoints, ", ")
		issues = append(issues, model.Issue{
			ID:       IssueID(RuleLazyLoadCandidates, chunk.ID),
			RuleID:   RuleLazyLoadCandidates,
			Severity: model.SeverityMedium,
			Title:    "Lazy load candidate: " + entries,
			Description: fmt.Sprintf(
				"Entry point %q (%s) is loaded initially. Consider lazy loading it to reduce the initial bundle size.",
				entries, model.FormatBytes(chunk.Size),
			),
			BytesEstimate:   chunk.Size,
			AffectedModules: slices.Clone(chunk.Modules),
			FixType:         model.FixLazyLoadModule,
			Metadata: map[string]any{
				"chunkId":     chunk.ID,
				"entryPoints": slices.Clone(chunk.EntryPoints),
				"size":        chunk.Size,
			},
		})
	}
	return issues
}
