// Package config holds the analyze configuration and loads it from files.
//
// Values are layered: NewConfig defaults, then the configuration file, then
// CLI flags the user set explicitly. The file is YAML (.bundle-advisor.yaml)
// or TOML (any path ending in .toml):
//
//	thresholds:
//	  maxChunkSize: 256000
//	  maxModuleSize: 204800
//	  minLazyLoadThreshold: 102400
//	disabledRules:
//	  - lazy-load-candidates
//	format: markdown
//
// Without an explicit --config the file is searched in the current
// directory, the XDG config directory and the home directory, in that order.
package config
