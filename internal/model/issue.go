package model

import (
	"encoding/json"
	"fmt"
)

// FixType is the kind of change that resolves an issue.
type FixType string

// The closed set of fix types a rule may suggest.
const (
	FixReplacePackage FixType = "replace-package"
	FixSplitChunk     FixType = "split-chunk"
	FixLazyLoadModule FixType = "lazy-load-module"
	FixDedupePackage  FixType = "dedupe-package"
	FixOptimizeImport FixType = "optimize-imports"
	FixOther          FixType = "other"
)

// fixTypeDescriptions maps fix types to the short recommendation shown in reports.
var fixTypeDescriptions = map[FixType]string{
	FixReplacePackage: "Replace the package with a lighter alternative",
	FixSplitChunk:     "Split the chunk so vendor code loads separately",
	FixLazyLoadModule: "Load the code on demand with a dynamic import",
	FixDedupePackage:  "Align dependency versions so one copy is bundled",
	FixOptimizeImport: "Import only what is used so tree-shaking can drop the rest",
	FixOther:          "Review manually",
}

// Valid reports whether f belongs to the closed set.
func (f FixType) Valid() bool {
	_, ok := fixTypeDescriptions[f]
	return ok
}

// Recommendation returns a one-line remediation hint for the fix type.
func (f FixType) Recommendation() string {
	if desc, ok := fixTypeDescriptions[f]; ok {
		return desc
	}
	return fixTypeDescriptions[FixOther]
}

// UnmarshalJSON rejects fix types outside the closed set.
func (f *FixType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	ft := FixType(s)
	if !ft.Valid() {
		return fmt.Errorf("unknown fix type %q", s)
	}
	*f = ft
	return nil
}

// Issue is one actionable finding produced by a rule.
type Issue struct {
	// ID is derived from the rule ID and the affected entity, so the same
	// input always produces the same ID.
	ID string `json:"id"`

	RuleID   string   `json:"ruleId"`
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`

	// Description is human readable and embeds formatted byte sizes.
	Description string `json:"description"`

	// BytesEstimate is the potential saving in bytes; zero when unknown.
	BytesEstimate int64 `json:"bytesEstimate,omitempty"`

	AffectedModules []string `json:"affectedModules"`
	FixType         FixType  `json:"fixType"`

	// Metadata carries rule-specific context.
	Metadata map[string]any `json:"metadata"`
}
