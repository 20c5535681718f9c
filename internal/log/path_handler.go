package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// PathHandler wraps an slog.Handler and shortens paths under the user's
// home directory to "~/...". Stats and config paths are logged often, and
// logs pasted from CI or a terminal should not carry the local user name.
type PathHandler struct {
	// handler is the underlying slog handler that receives rewritten records.
	handler slog.Handler

	// home is the home directory with forward slashes and no trailing slash.
	// Empty disables rewriting.
	home string
}

// NewPathHandler creates a PathHandler wrapping handler.
// If home is empty, os.UserHomeDir is used; if that fails too, attributes
// pass through unchanged. If handler is nil, slog.Default().Handler() is used.
func NewPathHandler(handler slog.Handler, home string) *PathHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if home == "" {
		if dir, err := os.UserHomeDir(); err == nil {
			home = dir
		}
	}
	home = strings.TrimSuffix(filepath.ToSlash(home), "/")
	return &PathHandler{handler: handler, home: home}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *PathHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's attributes and passes it to the underlying handler.
func (h *PathHandler) Handle(ctx context.Context, r slog.Record) error {
	rewritten := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(h.rewriteAttr(a))
		return true
	})
	return h.handler.Handle(ctx, rewritten)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *PathHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rewritten := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		rewritten[i] = h.rewriteAttr(a)
	}
	return &PathHandler{handler: h.handler.WithAttrs(rewritten), home: h.home}
}

// WithGroup returns a new handler with the given group name.
func (h *PathHandler) WithGroup(name string) slog.Handler {
	return &PathHandler{handler: h.handler.WithGroup(name), home: h.home}
}

// rewriteAttr rewrites a single attribute, recursively handling groups.
func (h *PathHandler) rewriteAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		rewritten := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			rewritten[i] = h.rewriteAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(rewritten...)}
	case slog.KindString:
		return slog.String(a.Key, h.ShortenPath(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, h.ShortenPath(err.Error()))
		}
	}
	return a
}

// ShortenPath replaces every occurrence of the home directory in s with "~".
// Only whole path prefixes are replaced, so "/home/alice2" is left alone
// when home is "/home/alice".
func (h *PathHandler) ShortenPath(s string) string {
	if h.home == "" || h.home == "/" {
		return s
	}

	normalized := filepath.ToSlash(s)
	if !strings.Contains(normalized, h.home) {
		return s
	}

	var b strings.Builder
	rest := normalized
	for {
		i := strings.Index(rest, h.home)
		if i < 0 {
			b.WriteString(rest)
			break
		}
		end := i + len(h.home)
		b.WriteString(rest[:i])
		if end == len(rest) || rest[end] == '/' {
			b.WriteString("~")
		} else {
			b.WriteString(h.home)
		}
		rest = rest[end:]
	}
	return b.String()
}

// NewLogger creates a text logger writing to w with home paths shortened.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewPathHandler(slog.NewTextHandler(w, handlerOptions(verbose)), ""))
}

// NewJSONLogger creates a JSON logger writing to w with home paths shortened.
// Useful when logs are collected by CI tooling.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewPathHandler(slog.NewJSONHandler(w, handlerOptions(verbose)), ""))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
