// Package analyzer builds a model.Analysis from normalized stats.
//
// The analyzer sums chunk sizes into the total and initial bundle size,
// finds packages bundled in more than one version and lists modules larger
// than LargeModuleThreshold. It has no error paths: malformed input is the
// adapter's concern, and whatever the adapter produced is analyzed as is.
package analyzer
