package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/distclust/domain"
	"github.com/ludo-technologies/distclust/internal/config"
	"github.com/spf13/cobra"
)

// InitCommand represents the init command
type InitCommand struct {
	force      bool
	configPath string
	cutoff     float64
}

// NewInitCommand creates a new init command
func NewInitCommand() *InitCommand {
	return &InitCommand{
		configPath: domain.DefaultConfigFileName,
	}
}

// CreateCobraCommand creates the cobra command for configuration initialization
func (i *InitCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize distclust configuration file",
		Long: `Create a commented .distclust.toml in the current directory.

The file is discovered from the working directory upwards, so every run
below it picks up its method, cutoff and output settings. Flags given on
the command line and DISTCLUST_* environment variables take precedence.

Examples:
  # Create .distclust.toml with the cutoff left commented out
  distclust init

  # Pin a cutoff
  distclust init --cutoff 0.03

  # Overwrite an existing file
  distclust init --force`,
		Args: cobra.NoArgs,
		RunE: i.runInit,
	}

	cmd.Flags().BoolVarP(&i.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVarP(&i.configPath, "config", "c", domain.DefaultConfigFileName, "Configuration file path")
	cmd.Flags().Float64Var(&i.cutoff, "cutoff", 0, "Cutoff to write into the file")

	return cmd
}

// runInit executes the init command
func (i *InitCommand) runInit(cmd *cobra.Command, args []string) error {
	configPath, err := filepath.Abs(i.configPath)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	if i.cutoff < 0 {
		return fmt.Errorf("cutoff must be greater than 0, got %v", i.cutoff)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(configPath), err)
	}
	if err := config.WriteDefaultConfig(configPath, i.cutoff, i.force); err != nil {
		return domain.NewConfigError("failed to write configuration", err)
	}

	relPath, err := filepath.Rel(".", configPath)
	if err != nil {
		relPath = configPath
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created: %s\n", relPath)
	fmt.Fprintf(cmd.OutOrStdout(), "\nNext steps:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  1. Edit %s\n", relPath)
	fmt.Fprintf(cmd.OutOrStdout(), "  2. Uncomment and set clustering.cutoff\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  3. Run 'distclust distances.txt'\n")

	return nil
}

// NewInitCmd creates and returns the init cobra command
func NewInitCmd() *cobra.Command {
	initCommand := NewInitCommand()
	return initCommand.CreateCobraCommand()
}
