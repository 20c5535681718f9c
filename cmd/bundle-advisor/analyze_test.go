package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/nao1215/bundle-advisor/internal/adapter"
	"github.com/nao1215/bundle-advisor/internal/config"
	"github.com/nao1215/bundle-advisor/internal/report"
	"github.com/nao1215/bundle-advisor/internal/rules"
)

// webpackStats has one initial chunk dominated by a 600 KiB vendor module.
const webpackStats = `{
	"chunks": [{"id": "main", "initial": true, "names": ["main"], "size": 716800,
		"modules": [{"id": "0", "name": "./node_modules/moment/moment.js", "size": 614400}]}],
	"modules": [{"id": "0", "name": "./node_modules/moment/moment.js", "size": 614400, "chunks": ["main"]}]
}`

// bundleStats has two lodash versions in a lazy chunk.
const bundleStats = `{
	"modules": [
		{"key": "a", "runs": [{"name": "node_modules/.pnpm/lodash@4.17.20/node_modules/lodash/lodash.js", "value": 70000, "chunkIds": ["lazy"]}]},
		{"key": "b", "runs": [{"name": "node_modules/.pnpm/lodash@4.17.21/node_modules/lodash/lodash.js", "value": 70000, "chunkIds": ["lazy"]}]}
	],
	"assets": [{"key": "lazy.js", "runs": [{"value": 140000, "isChunk": true, "chunkId": "lazy"}]}]
}`

// writeFile writes content to name inside a temporary directory.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// executeRoot runs the root command and returns stdout and stderr.
func executeRoot(t *testing.T, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// emptyConfig returns a config file path that sets nothing, so tests do
// not pick up configuration files from the working or home directory.
func emptyConfig(t *testing.T) string {
	t.Helper()
	return writeFile(t, config.DefaultConfigFile, "")
}

func TestAnalyzeCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes a markdown report with the AI notice", func(t *testing.T) {
		t.Parallel()

		stats := writeFile(t, "stats.json", webpackStats)
		stdout, stderr, err := executeRoot(t, nil, "analyze", "--stats", stats, "-c", emptyConfig(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, want := range []string{"# Bundle Analysis Report", "## Overview", "## High Priority Issues", "moment"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected stdout to contain %q", want)
			}
		}
		if !strings.Contains(stderr, aiNotice) {
			t.Errorf("expected AI notice on stderr, got %q", stderr)
		}
		if strings.Contains(stdout, aiNotice) {
			t.Error("AI notice must not be part of the report")
		}
	})

	t.Run("verbose JSON logs", func(t *testing.T) {
		t.Parallel()

		stats := writeFile(t, "stats.json", webpackStats)
		_, stderr, err := executeRoot(t, nil, "-v", "--log-json", "analyze", "--stats", stats, "--no-ai", "-c", emptyConfig(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stderr, `"level":"DEBUG"`) || !strings.Contains(stderr, `"msg":"starting analysis"`) {
			t.Errorf("expected JSON debug logs, got %q", stderr)
		}
	})

	t.Run("no-ai suppresses the notice", func(t *testing.T) {
		t.Parallel()

		stats := writeFile(t, "stats.json", webpackStats)
		_, stderr, err := executeRoot(t, nil, "analyze", "--stats", stats, "--no-ai", "-c", emptyConfig(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(stderr, "AI analysis") {
			t.Errorf("expected no AI notice, got %q", stderr)
		}
	})

	t.Run("writes a JSON report file", func(t *testing.T) {
		t.Parallel()

		stats := writeFile(t, "stats.json", webpackStats)
		outPath := filepath.Join(t.TempDir(), "reports", "nested", "report.json")

		stdout, stderr, err := executeRoot(t, nil,
			"analyze", "--stats", stats, "--format", "json", "-o", outPath, "--no-ai", "-c", emptyConfig(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "" {
			t.Errorf("expected nothing on stdout, got %q", stdout)
		}
		if !strings.Contains(stderr, "Report written to "+outPath) {
			t.Errorf("expected confirmation on stderr, got %q", stderr)
		}

		info, err := os.Stat(outPath)
		if err != nil {
			t.Fatalf("expected report file: %v", err)
		}
		if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
			t.Errorf("expected mode 0600, got %o", info.Mode().Perm())
		}

		rep, err := readReport(outPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids := make([]string, 0, len(rep.Issues))
		for _, issue := range rep.Issues {
			ids = append(ids, issue.ID)
		}
		want := "large-vendor-chunks:main,huge-modules:0,lazy-load-candidates:main"
		if strings.Join(ids, ",") != want {
			t.Errorf("expected issues %s, got %v", want, ids)
		}
	})

	t.Run("reads stats from stdin", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeRoot(t, strings.NewReader(bundleStats),
			"analyze", "--stats", "-", "--format", "text", "--no-ai", "-c", emptyConfig(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "DUPLICATE PACKAGES") || !strings.Contains(stdout, "lodash") {
			t.Errorf("expected duplicate lodash in report, got\n%s", stdout)
		}
	})

	t.Run("html format", func(t *testing.T) {
		t.Parallel()

		stats := writeFile(t, "stats.json", webpackStats)
		stdout, _, err := executeRoot(t, nil, "analyze", "--stats", stats, "-f", "HTML", "--no-ai", "-c", emptyConfig(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(stdout, "<!DOCTYPE html>") {
			t.Errorf("expected HTML output, got %q", stdout)
		}
	})

	t.Run("disabled rules are skipped", func(t *testing.T) {
		t.Parallel()

		stats := writeFile(t, "stats.json", webpackStats)
		stdout, _, err := executeRoot(t, nil, "analyze", "--stats", stats, "--format", "json", "--no-ai",
			"--disable-rule", rules.RuleHugeModules, "--disable-rule", rules.RuleLazyLoadCandidates,
			"-c", emptyConfig(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		rep, err := report.ReadJSON(strings.NewReader(stdout))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rep.Issues) != 1 || rep.Issues[0].RuleID != rules.RuleLargeVendorChunks {
			t.Errorf("expected only the vendor chunk issue, got %+v", rep.Issues)
		}
	})
}

func TestAnalyzeCmdErrors(t *testing.T) {
	t.Parallel()

	stats := writeFile(t, "stats.json", webpackStats)

	testCases := []struct {
		name     string
		args     []string
		sentinel error
		contains string
	}{
		{
			name:     "missing stats flag",
			args:     []string{"analyze"},
			sentinel: config.ErrNoStatsFile,
		},
		{
			name:     "unknown format suggests the closest one",
			args:     []string{"analyze", "--stats", stats, "--format", "jsn"},
			sentinel: config.ErrInvalidFormat,
			contains: `did you mean "json"`,
		},
		{
			name:     "unknown rule",
			args:     []string{"analyze", "--stats", stats, "--disable-rule", "huge-module"},
			sentinel: config.ErrUnknownRule,
			contains: `did you mean "huge-modules"`,
		},
		{
			name:     "non-positive threshold",
			args:     []string{"analyze", "--stats", stats, "--max-module-size", "0"},
			sentinel: config.ErrInvalidThreshold,
		},
		{
			name:     "non-positive jobs",
			args:     []string{"analyze", "--stats", stats, "--jobs", "0"},
			sentinel: config.ErrInvalidJobs,
		},
		{
			name:     "missing explicit config file",
			args:     []string{"analyze", "--stats", stats, "-c", filepath.Join(t.TempDir(), "missing.yaml")},
			sentinel: config.ErrConfigNotFound,
		},
		{
			name:     "missing stats file",
			args:     []string{"analyze", "--stats", filepath.Join(t.TempDir(), "missing.json")},
			sentinel: os.ErrNotExist,
			contains: "failed to read stats file",
		},
		{
			name:     "invalid JSON",
			args:     []string{"analyze", "--stats", writeFile(t, "broken.json", `{"chunks": [`)},
			contains: "failed to parse stats file",
		},
		{
			name:     "unrecognized stats format",
			args:     []string{"analyze", "--stats", writeFile(t, "other.json", `{"version": "1.0"}`)},
			sentinel: adapter.ErrUnrecognizedFormat,
			contains: "webpack stats.json",
		},
		{
			name:     "array root is an unrecognized format",
			args:     []string{"analyze", "--stats", writeFile(t, "array.json", `[{"modules": []}]`)},
			sentinel: adapter.ErrUnrecognizedFormat,
			contains: "bundle-stats.json (Rollup/Vite)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			args := tc.args
			if !containsFlag(args, "-c") {
				args = append(args, "-c", emptyConfig(t))
			}

			stdout, _, err := executeRoot(t, nil, append(args, "--no-ai")...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.sentinel != nil && !errors.Is(err, tc.sentinel) {
				t.Errorf("expected %v, got %v", tc.sentinel, err)
			}
			if tc.contains != "" && !strings.Contains(err.Error(), tc.contains) {
				t.Errorf("expected error to contain %q, got %q", tc.contains, err)
			}
			if stdout != "" {
				t.Errorf("expected no report on failure, got %q", stdout)
			}
		})
	}
}

func containsFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func TestBuildConfigPrecedence(t *testing.T) {
	t.Parallel()

	configPath := writeFile(t, config.DefaultConfigFile, `thresholds:
  maxChunkSize: 1000
  maxModuleSize: 2000
disabledRules:
  - lazy-load-candidates
format: text
jobs: 3
`)

	parse := func(t *testing.T, args ...string) *config.Config {
		t.Helper()

		cmd := NewAnalyzeCmd()
		cmd.PersistentFlags().BoolP("verbose", "v", false, "")
		if err := cmd.ParseFlags(append([]string{"-c", configPath}, args...)); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return cfg
	}

	t.Run("file overrides defaults", func(t *testing.T) {
		t.Parallel()

		cfg := parse(t)
		if cfg.MaxChunkSize != 1000 || cfg.MaxModuleSize != 2000 {
			t.Errorf("expected thresholds from file, got %d/%d", cfg.MaxChunkSize, cfg.MaxModuleSize)
		}
		if cfg.MinLazyLoadThreshold != rules.DefaultMinLazyLoadThreshold {
			t.Errorf("expected default lazy load threshold, got %d", cfg.MinLazyLoadThreshold)
		}
		if cfg.Format != "text" {
			t.Errorf("expected format from file, got %q", cfg.Format)
		}
		if strings.Join(cfg.DisabledRules, ",") != rules.RuleLazyLoadCandidates {
			t.Errorf("expected disabled rules from file, got %v", cfg.DisabledRules)
		}
		if cfg.Jobs != 3 {
			t.Errorf("expected jobs from file, got %d", cfg.Jobs)
		}
		if !cfg.UseAI {
			t.Error("expected AI enabled by default")
		}
	})

	t.Run("explicit flags override the file", func(t *testing.T) {
		t.Parallel()

		cfg := parse(t,
			"--max-chunk-size", "5000",
			"--format", "json",
			"--disable-rule", rules.RuleHugeModules,
			"--jobs", "2",
			"--no-ai",
			"-v",
		)
		if cfg.MaxChunkSize != 5000 {
			t.Errorf("expected max chunk size from flag, got %d", cfg.MaxChunkSize)
		}
		if cfg.MaxModuleSize != 2000 {
			t.Errorf("expected max module size from file, got %d", cfg.MaxModuleSize)
		}
		if cfg.Format != "json" {
			t.Errorf("expected format from flag, got %q", cfg.Format)
		}
		if strings.Join(cfg.DisabledRules, ",") != rules.RuleHugeModules {
			t.Errorf("expected disabled rules from flag, got %v", cfg.DisabledRules)
		}
		if cfg.Jobs != 2 {
			t.Errorf("expected jobs from flag, got %d", cfg.Jobs)
		}
		if cfg.UseAI {
			t.Error("expected AI disabled")
		}
		if !cfg.Verbose {
			t.Error("expected verbose")
		}
	})

	t.Run("toml config file", func(t *testing.T) {
		t.Parallel()

		tomlPath := writeFile(t, "bundle-advisor.toml", "format = \"html\"\n\n[thresholds]\nmaxModuleSize = 300000\n")
		cmd := NewAnalyzeCmd()
		if err := cmd.ParseFlags([]string{"-c", tomlPath}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Format != "html" || cfg.MaxModuleSize != 300000 {
			t.Errorf("expected values from TOML file, got %q/%d", cfg.Format, cfg.MaxModuleSize)
		}
	})

	t.Run("invalid config file", func(t *testing.T) {
		t.Parallel()

		badPath := writeFile(t, config.DefaultConfigFile, "unknownKey: 1\n")
		cmd := NewAnalyzeCmd()
		if err := cmd.ParseFlags([]string{"-c", badPath}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		_, err := buildConfig(cmd)
		if err == nil || !strings.Contains(err.Error(), "failed to load config file") {
			t.Errorf("expected load error, got %v", err)
		}
	})
}
