package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for bundle-advisor.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle-advisor",
		Short: "Find size problems in JavaScript bundles",
		Long: `bundle-advisor analyzes the stats file produced by a JavaScript bundler and
reports actionable size optimizations: duplicate packages, oversized vendor
chunks, huge modules and lazy-loading candidates.

Supported inputs are webpack stats.json and the bundle-stats.json written by
rollup-plugin-bundle-stats (Rollup and Vite).`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
