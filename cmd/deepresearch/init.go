package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nao1215/deepresearch/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/deepresearch.yaml
var configTemplate []byte

// configFileName is the default configuration file name.
const configFileName = config.DefaultConfigFile

// configSections describes the top-level keys of the generated file.
var configSections = []struct {
	key  string
	help string
}{
	{key: "gemini", help: "API key, endpoint, models and request timeout"},
	{key: "license", help: "demo or lemonsqueezy provider and the DEEP- development keys"},
	{key: "scan", help: "home turf URL, industry, batch size and source resolution"},
	{key: "server", help: "dashboard listen address and request timeout"},
	{key: "photo", help: "founder photo size limit and GPS policy"},
}

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented .deepresearch configuration file",
		Long: `Init writes a commented configuration file with every section set to
its default. Settings from the file are used by every command; flags still
win when they are given.

Sections:
  gemini   API key, endpoint, models and request timeout
  license  demo or lemonsqueezy provider and the DEEP- development keys
  scan     home turf URL, industry, batch size and source resolution
  server   dashboard listen address and request timeout
  photo    founder photo size limit and GPS policy

The API key line is left commented out; GEMINI_API_KEY is the safer place
for it. The file is created with mode 0600 because it may hold the key.

Examples:
  # Write .deepresearch to the current directory
  deepresearch init

  # Write the per-user file read from the XDG config directory
  deepresearch init -o ~/.config/deepresearch/config.yaml

  # Replace an existing file
  deepresearch init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := writeConfigTemplate(path, force); err != nil {
		return err
	}
	printInitSummary(cmd.OutOrStdout(), path)
	return nil
}

// writeConfigTemplate writes the embedded template to path. An existing file
// is kept unless force is set.
func writeConfigTemplate(path string, force bool) error {
	_, err := os.Stat(path)
	switch {
	case err == nil && !force:
		return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", path)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("failed to inspect %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, configTemplate, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}

func printInitSummary(w io.Writer, path string) {
	fmt.Fprintf(w, "Created configuration file: %s\n\n", path)
	for _, s := range configSections {
		fmt.Fprintf(w, "  %-8s %s\n", s.key, s.help)
	}
	fmt.Fprintln(w, "\nSet scan.homeUrl first; every scan compares the competitor against it.")
	fmt.Fprintln(w, "Export GEMINI_API_KEY before running 'deepresearch scan'.")
}
