package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/nao1215/bundle-advisor/internal/report"
	"github.com/nao1215/bundle-advisor/internal/rules"
)

const (
	// AppName is the application name used for XDG directory paths.
	AppName = "bundle-advisor"

	// DefaultFormat is the report format used when none is configured.
	DefaultFormat = "markdown"

	// DefaultJobs evaluates rules sequentially.
	DefaultJobs = 1
)

// Config holds all configuration options for one analyze run.
// It is populated from defaults, then the config file, then CLI flags,
// and passed down explicitly rather than kept in global state.
type Config struct {
	// StatsPath is the bundler stats file to analyze. "-" reads stdin.
	StatsPath string

	// Format is the report format name, one of report.FormatNames().
	Format string

	// ReportFile is the output file path for the report.
	// When empty the report is written to stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// UseAI requests AI-assisted ranking. Not implemented yet; enabling it
	// only prints a notice and the rule-based report is produced as usual.
	UseAI bool

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// ConfigFilePath is the explicit configuration file path.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// MaxChunkSize is the vendor byte budget of an initial chunk.
	MaxChunkSize int64

	// MaxModuleSize is the size above which a module is reported as huge.
	MaxModuleSize int64

	// MinLazyLoadThreshold is the initial entry chunk size above which
	// lazy loading is suggested.
	MinLazyLoadThreshold int64

	// DisabledRules lists rule IDs that are not evaluated.
	DisabledRules []string

	// Jobs is the number of rules evaluated concurrently.
	Jobs int
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	t := rules.DefaultThresholds()
	return &Config{
		Format:               DefaultFormat,
		UseAI:                true,
		MaxChunkSize:         t.MaxChunkSize,
		MaxModuleSize:        t.MaxModuleSize,
		MinLazyLoadThreshold: t.MinLazyLoadThreshold,
		DisabledRules:        make([]string, 0),
		Jobs:                 DefaultJobs,
	}
}

// XDGConfigDir returns the XDG config directory for bundle-advisor.
// On Linux: ~/.config/bundle-advisor
// On macOS: ~/Library/Application Support/bundle-advisor
// On Windows: %APPDATA%\bundle-advisor
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Thresholds returns the rule thresholds.
func (c *Config) Thresholds() rules.Thresholds {
	return rules.Thresholds{
		MaxChunkSize:         c.MaxChunkSize,
		MaxModuleSize:        c.MaxModuleSize,
		MinLazyLoadThreshold: c.MinLazyLoadThreshold,
	}
}

// ReportFormat returns the parsed report format.
func (c *Config) ReportFormat() (report.Format, error) {
	return report.ParseFormat(c.Format)
}

// ApplyFile overrides the values set in the file. Zero values in the file
// leave the current value alone.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if f.Thresholds.MaxChunkSize != 0 {
		c.MaxChunkSize = f.Thresholds.MaxChunkSize
	}
	if f.Thresholds.MaxModuleSize != 0 {
		c.MaxModuleSize = f.Thresholds.MaxModuleSize
	}
	if f.Thresholds.MinLazyLoadThreshold != 0 {
		c.MinLazyLoadThreshold = f.Thresholds.MinLazyLoadThreshold
	}
	if len(f.DisabledRules) > 0 {
		c.DisabledRules = append([]string(nil), f.DisabledRules...)
	}
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.Jobs != 0 {
		c.Jobs = f.Jobs
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found, wrapping one of the sentinel errors.
func (c *Config) Validate() error {
	if c.StatsPath == "" {
		return ErrNoStatsFile
	}

	if _, err := report.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w %q%s", ErrInvalidFormat, c.Format, suggest(c.Format, report.FormatNames()))
	}

	thresholds := []struct {
		name  string
		value int64
	}{
		{"max chunk size", c.MaxChunkSize},
		{"max module size", c.MaxModuleSize},
		{"min lazy load threshold", c.MinLazyLoadThreshold},
	}
	for _, th := range thresholds {
		if th.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidThreshold, th.name, th.value)
		}
	}

	for _, id := range c.DisabledRules {
		if !isRuleID(id) {
			return fmt.Errorf("%w %q%s", ErrUnknownRule, id, suggest(id, rules.IDs()))
		}
	}

	if c.Jobs <= 0 {
		return ErrInvalidJobs
	}

	return nil
}

func isRuleID(id string) bool {
	for _, known := range rules.IDs() {
		if id == known {
			return true
		}
	}
	return false
}
