package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/bundle-advisor/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/bundle-advisor.yaml
var configTemplate embed.FS

// configTemplatePath is the embedded template location.
const configTemplatePath = "templates/bundle-advisor.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a bundle-advisor configuration file",
		Long: `Init writes a .bundle-advisor.yaml configuration file to the current directory.

The generated file contains the default rule thresholds, the list of
rules that can be disabled and the default report format.

Examples:
  # Create .bundle-advisor.yaml in the current directory
  bundle-advisor init

  # Create the config file at a specific path
  bundle-advisor init -o ~/.config/bundle-advisor/config.yaml

  # Overwrite an existing file
  bundle-advisor init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(configTemplatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if err := ensureParentDir(outputPath); err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to adjust:")
	fmt.Fprintln(out, "  - Rule thresholds (chunk, module and lazy-load sizes)")
	fmt.Fprintln(out, "  - Disabled rules")
	fmt.Fprintln(out, "  - The default report format")

	return nil
}

// ensureParentDir creates the directory holding path if needed.
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}
