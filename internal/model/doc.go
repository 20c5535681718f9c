// Package model defines the canonical data structures shared by every part
// of bundle-advisor.
//
// This package contains the following main types:
//   - Module and Chunk: the bundler-independent view of a build
//   - AnalysisInput: what a format adapter produces
//   - Analysis: aggregate sizes, duplicate packages and large modules
//   - Issue: one finding produced by a rule, with Severity and FixType
//   - Report: the analysis and its issues, as consumed by report writers
//
// The types carry no behavior beyond small helpers. They are serialized with
// camelCase JSON names so that JSON reports can be read back for comparison.
package model
