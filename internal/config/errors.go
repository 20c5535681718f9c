package config

import "errors"

// Configuration errors.
// Validate and the loader wrap these so callers can use errors.Is while
// users still see the offending value.
var (
	// ErrNoStatsFile is returned when no stats file path is given.
	ErrNoStatsFile = errors.New("no stats file specified: use --stats <path>")

	// ErrInvalidFormat is returned for report formats other than json,
	// markdown, text and html.
	ErrInvalidFormat = errors.New("invalid report format")

	// ErrInvalidThreshold is returned when a rule threshold is not positive.
	ErrInvalidThreshold = errors.New("invalid threshold")

	// ErrUnknownRule is returned when a disabled rule ID names no built-in rule.
	ErrUnknownRule = errors.New("unknown rule")

	// ErrInvalidJobs is returned when the rule concurrency is not positive.
	ErrInvalidJobs = errors.New("invalid jobs: must be positive")

	// ErrConfigNotFound is returned when an explicitly given configuration
	// file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
