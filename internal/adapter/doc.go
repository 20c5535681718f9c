// Package adapter normalizes bundler stats files into model.AnalysisInput.
//
// Two formats are supported, each by its own Adapter:
//   - BundleStatsAdapter: bundle-stats.json from the Rollup/Vite plugins
//   - WebpackAdapter: webpack stats.json
//
// Detect probes the adapters in the fixed order returned by Default and
// picks the first one whose CanHandle accepts the document. Nothing is
// guessed beyond that; an unknown document yields ErrUnrecognizedFormat.
//
// Normalization is lenient. Absent arrays are empty, numeric IDs become
// strings, missing sizes are zero and duplicate chunk references collapse.
// Every module's chunk list only names chunks present in the same input.
//
// # Package extraction
//
// A module is vendor code when its path contains node_modules. The package
// name comes from the segment after node_modules (two segments for @scoped
// packages). Bundle-stats paths are first matched against the pnpm store
// layout, node_modules/.pnpm/<name>@<version>, which also yields a version:
//
//	node_modules/.pnpm/@babel+core@7.23.0_@babel+types@7.23.0/node_modules/@babel/core/index.js
//	-> @babel/core 7.23.0
package adapter
