package config

// FileThresholds is the thresholds section of the configuration file.
// Sizes are in bytes; zero or absent keeps the default.
type FileThresholds struct {
	MaxChunkSize         int64 `yaml:"maxChunkSize,omitempty" toml:"maxChunkSize"`
	MaxModuleSize        int64 `yaml:"maxModuleSize,omitempty" toml:"maxModuleSize"`
	MinLazyLoadThreshold int64 `yaml:"minLazyLoadThreshold,omitempty" toml:"minLazyLoadThreshold"`
}

// File represents the structure of the configuration file, either
// .bundle-advisor.yaml or a TOML file with the same keys.
type File struct {
	// Thresholds overrides the rule size limits.
	Thresholds FileThresholds `yaml:"thresholds,omitempty" toml:"thresholds"`

	// DisabledRules lists rule IDs to skip, e.g. "lazy-load-candidates".
	DisabledRules []string `yaml:"disabledRules,omitempty" toml:"disabledRules"`

	// Format is the default report format.
	Format string `yaml:"format,omitempty" toml:"format"`

	// Jobs is the number of rules evaluated concurrently.
	Jobs int `yaml:"jobs,omitempty" toml:"jobs"`
}
