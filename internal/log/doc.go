// Package log builds the slog loggers used by bundle-advisor.
//
// Loggers write to stderr so that reports on stdout stay machine readable.
// The level is Warn by default and Debug in verbose mode.
//
// # Path shortening
//
// PathHandler wraps any slog.Handler and rewrites string and error
// attributes that contain the user's home directory:
//
//	/home/alice/app/dist/stats.json -> ~/app/dist/stats.json
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//	logger.Debug("stats file loaded", "stats", path)
package log
