// Package rules evaluates heuristic rules against a bundle analysis.
//
// A Rule is a pure check: it reads a *model.Analysis and returns issues,
// never modifying the analysis and never looking at other rules' output.
// The Engine runs the registered rules and concatenates their issues in
// registration order, sequentially or, with WithConcurrency, on an errgroup.
// Both modes produce the same list.
//
// Built-in rules:
//
//	duplicate-packages    a package bundled in two or more versions
//	large-vendor-chunks   an initial chunk carrying too much vendor code
//	huge-modules          a single module above the size limit
//	lazy-load-candidates  a large initial entry chunk
//
// Issue IDs are "<rule-id>:<entity-id>" so that reports of the same input
// can be diffed across runs.
package rules
