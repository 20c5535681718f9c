package model

import (
	"encoding/json"
	"fmt"
)

// Severity represents how much a finding is expected to matter for bundle size.
// Levels are ordered so that comparisons and sorting work on the raw value.
type Severity int

const (
	// SeverityLow indicates a minor optimization opportunity.
	SeverityLow Severity = iota

	// SeverityMedium indicates an opportunity that is worth scheduling.
	// Duplicate packages and lazy-load candidates are reported at this level.
	SeverityMedium

	// SeverityHigh indicates a large, usually initial-load, size problem.
	SeverityHigh
)

// Severities lists every level from most to least severe.
// Reporters iterate over it to group issues.
var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

// String returns the lowercase name used in reports and JSON output.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a severity name back into a Severity.
func ParseSeverity(name string) (Severity, error) {
	switch name {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	default:
		return SeverityLow, fmt.Errorf("unknown severity %q", name)
	}
}

// MarshalJSON encodes the severity as its lowercase name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity name written by MarshalJSON.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Weight returns the score used when comparing the overall risk of two reports.
// Higher severities dominate lower ones.
func (s Severity) Weight() int {
	switch s {
	case SeverityHigh:
		return 50
	case SeverityMedium:
		return 10
	case SeverityLow:
		return 5
	default:
		return 0
	}
}
