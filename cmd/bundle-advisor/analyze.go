package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/bundle-advisor/internal/config"
	"github.com/nao1215/bundle-advisor/internal/log"
	"github.com/nao1215/bundle-advisor/internal/model"
	"github.com/nao1215/bundle-advisor/internal/pipeline"
	"github.com/nao1215/bundle-advisor/internal/report"
	"github.com/nao1215/bundle-advisor/internal/rules"
	"github.com/spf13/cobra"
)

// aiNotice is printed to stderr when AI analysis is requested.
const aiNotice = "Note: AI analysis is not yet implemented. Showing rule-based analysis only."

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a bundler stats file",
		Long: `Analyze reads a bundler stats file, detects its format and reports
size optimizations found by the built-in rules:

  duplicate-packages     packages bundled in more than one version
  large-vendor-chunks    initial chunks carrying too much vendor code
  huge-modules           single modules above the size limit
  lazy-load-candidates   large initial entry chunks

Examples:
  # Markdown report on stdout
  bundle-advisor analyze --stats dist/stats.json

  # JSON report written to a file, for use with compare
  bundle-advisor analyze --stats dist/stats.json --format json -o reports/current.json

  # Read stats from stdin with a stricter module limit
  npx vite build --json | bundle-advisor analyze --stats - --max-module-size 150000

  # Skip a rule
  bundle-advisor analyze --stats stats.json --disable-rule lazy-load-candidates

Configuration file (.bundle-advisor.yaml) example:
  thresholds:
    maxChunkSize: 256000
    maxModuleSize: 204800
  disabledRules:
    - lazy-load-candidates
  format: markdown`,
		Args: cobra.NoArgs,
		RunE: runAnalyzeCmd,
	}

	// Input
	cmd.Flags().StringP("stats", "s", "",
		`Path to the stats file (webpack stats.json or bundle-stats.json); "-" reads stdin`)

	// Report flags
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Report format: json, markdown, text or html")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-ai", false,
		"Disable AI analysis (rules only)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .bundle-advisor.yaml in current, XDG config or home directory)")

	// Rule flags
	defaults := rules.DefaultThresholds()
	cmd.Flags().Int64("max-chunk-size", defaults.MaxChunkSize,
		"Vendor bytes allowed in one initial chunk")
	cmd.Flags().Int64("max-module-size", defaults.MaxModuleSize,
		"Size in bytes above which a module is reported")
	cmd.Flags().Int64("min-lazy-load", defaults.MinLazyLoadThreshold,
		"Initial entry chunk size in bytes above which lazy loading is suggested")
	cmd.Flags().StringSlice("disable-rule", nil,
		"Rule ID to skip (repeatable)")
	cmd.Flags().IntP("jobs", "j", config.DefaultJobs,
		"Number of rules evaluated concurrently")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd, cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAnalyze(ctx, cmd, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// newLogger creates the stderr logger, in JSON when --log-json is set.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	if jsonLogs, err := cmd.Flags().GetBool("log-json"); err == nil && jsonLogs {
		return log.NewJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return log.NewLogger(cmd.ErrOrStderr(), verbose)
}

// buildConfig creates a Config from defaults, the configuration file and
// the command flags. Flags only override the file when explicitly set.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.StatsPath, err = flags.GetString("stats")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	file, path, err := config.Load(cfg.ConfigFilePath)
	if err != nil {
		if path != "" {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		return nil, err
	}
	cfg.ApplyFile(file)

	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return nil, err
		}
	}

	cfg.ReportFile, err = flags.GetString("output")
	if err != nil {
		return nil, err
	}

	noAI, err := flags.GetBool("no-ai")
	if err != nil {
		return nil, err
	}
	cfg.UseAI = !noAI

	thresholdFlags := []struct {
		name   string
		target *int64
	}{
		{"max-chunk-size", &cfg.MaxChunkSize},
		{"max-module-size", &cfg.MaxModuleSize},
		{"min-lazy-load", &cfg.MinLazyLoadThreshold},
	}
	for _, tf := range thresholdFlags {
		if !flags.Changed(tf.name) {
			continue
		}
		if *tf.target, err = flags.GetInt64(tf.name); err != nil {
			return nil, err
		}
	}

	if flags.Changed("disable-rule") {
		if cfg.DisabledRules, err = flags.GetStringSlice("disable-rule"); err != nil {
			return nil, err
		}
	}

	if flags.Changed("jobs") {
		if cfg.Jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// newAnalyzePipeline wires the analysis steps for cfg.
func newAnalyzePipeline(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) *pipeline.Pipeline {
	engine := rules.NewDefault(cfg.Thresholds(), cfg.DisabledRules, rules.WithConcurrency(cfg.Jobs))
	return pipeline.DefaultPipeline(engine, cmd.InOrStdin(), pipeline.WithLogger(logger))
}

// runAnalyze executes the pipeline and writes the report.
func runAnalyze(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	logger.Debug("starting analysis",
		"stats", cfg.StatsPath,
		"format", cfg.Format,
		"disabledRules", cfg.DisabledRules,
		"jobs", cfg.Jobs,
	)

	run := pipeline.NewRun(cfg.StatsPath)
	if err := newAnalyzePipeline(cmd, cfg, logger).Execute(ctx, run); err != nil {
		return err
	}

	logger.Info("analysis complete",
		"format", run.Adapter.Name(),
		"modules", len(run.Analysis.Modules),
		"chunks", len(run.Analysis.Chunks),
		"issues", len(run.Issues),
	)

	if cfg.UseAI {
		fmt.Fprintln(cmd.ErrOrStderr(), aiNotice)
	}

	return outputReport(cmd, cfg, run.Report())
}

// outputReport writes the report in the configured format to stdout or
// the report file.
func outputReport(cmd *cobra.Command, cfg *config.Config, rep *model.Report) error {
	format, err := cfg.ReportFormat()
	if err != nil {
		return err
	}

	var output io.Writer = cmd.OutOrStdout()
	if cfg.ReportFile != "" {
		if err := ensureParentDir(cfg.ReportFile); err != nil {
			return err
		}

		// Reports may reveal internal package paths, so they are owner-only.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	if format == report.FormatText {
		w = report.NewTextWriter(output,
			report.WithColor(report.IsTerminal(output)),
			report.WithVerbose(cfg.Verbose),
		)
	} else if w, err = report.NewWriter(format, output); err != nil {
		return err
	}
	if _, err := w.Write(rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.ReportFile != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", cfg.ReportFile)
	}
	return nil
}
