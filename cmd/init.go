package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/pders01/compsearch/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	initForce bool
	initDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default configuration file",
	Long: `Create a default config file for compsearch.

The file is written to $HOME/.config/compsearch/config.toml and holds the
default search options, output format and scene file patterns:

  [search]
  case_sensitive = false
  include_inactive = true

An existing config is left alone unless --force is given.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	initCmd.Flags().StringVar(&initDir, "dir", "", "Config directory (default is $HOME/.config/compsearch)")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := initDir
	if dir == "" {
		var err error
		dir, err = configDir()
		if err != nil {
			return err
		}
	}

	configPath := filepath.Join(dir, "config.toml")

	exists, err := afero.Exists(appFs, configPath)
	if err != nil {
		return fmt.Errorf("failed to check config file: %w", err)
	}
	if exists && !initForce {
		fmt.Fprintf(stdout, "Config already exists: %s\n", configPath)
		fmt.Fprintln(stdout, "Use --force to overwrite it.")
		return nil
	}

	if err := appFs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := afero.WriteFile(appFs, configPath, []byte(config.DefaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Fprintf(stdout, "✓ Created default config: %s\n", configPath)
	fmt.Fprintln(stdout, "  You can now use: compsearch search <components> <scene>")

	return nil
}
