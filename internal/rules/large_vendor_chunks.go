package rules

import (
	"fmt"
	"slices"

	"github.com/nao1215/bundle-advisor/internal/model"
)

// LargeVendorChunks reports initial chunks that carry more vendor code than
// the threshold allows. Twice the threshold or more is high severity.
type LargeVendorChunks struct {
	threshold int64
}

// NewLargeVendorChunks creates the large-vendor-chunks rule.
func NewLargeVendorChunks(threshold int64) *LargeVendorChunks {
	return &LargeVendorChunks{threshold: threshold}
}

// ID implements Rule.
func (r *LargeVendorChunks) ID() string {
	return RuleLargeVendorChunks
}

// Check implements Rule.
func (r *LargeVendorChunks) Check(analysis *model.Analysis) []model.Issue {
	index := analysis.ModuleIndex()
	issues := make([]model.Issue, 0)

	for _, chunk := range analysis.Chunks {
		if !chunk.IsInitial {
			continue
		}

		var vendorSize int64
		vendorModules := make([]string, 0)
		for _, id := range chunk.Modules {
			mod, ok := index[id]
			if !ok || !mod.IsVendor {
				continue
			}
			vendorSize += mod.Size
			vendorModules = append(vendorModules, id)
		}
		if vendorSize <= r.threshold {
			continue
		}

		severity := model.SeverityMedium
		if vendorSize > 2*r.threshold {
			severity = model.SeverityHigh
		}

		issues = append(issues, model.Issue{
			ID:       IssueID(RuleLargeVendorChunks, chunk.ID),
			RuleID:   RuleLargeVendorChunks,
			Severity: severity,
			Title:    "Large vendor code in initial chunk: " + chunk.ID,
			Description: fmt.Sprintf(
				"Initial chunk %q (%s) contains %s of vendor code, above the %s limit. Split vendor code into separate chunks so it can be cached and loaded in parallel.",
				chunk.ID, model.FormatBytes(chunk.Size), model.FormatBytes(vendorSize), model.FormatBytes(r.threshold),
			),
			BytesEstimate:   vendorSize,
			AffectedModules: vendorModules,
			FixType:         model.FixSplitChunk,
			Metadata: map[string]any{
				"chunkId":     chunk.ID,
				"chunkSize":   chunk.Size,
				"vendorSize":  vendorSize,
				"threshold":   r.threshold,
				"entryPoints": slices.Clone(chunk.EntryPoints),
			},
		})
	}
	return issues
}
