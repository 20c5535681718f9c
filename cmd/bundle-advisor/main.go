// Package main provides the entry point for the bundle-advisor CLI.
//
// bundle-advisor reads the stats file emitted by a JavaScript bundler
// (webpack stats.json or rollup-plugin-bundle-stats output), detects
// size problems and reports actionable fixes.
//
// Usage:
//
//	bundle-advisor analyze --stats dist/stats.json
//	bundle-advisor compare baseline.json current.json
//
// See --help for all available options.
package main

// main is the entry point for bundle-advisor.
func main() {
	Execute()
}
