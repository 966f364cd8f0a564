package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vorrawut/poon-sub000/internal/buildinfo"
)

// DefaultConfigPath is read when --config is not given; a missing file means defaults
const DefaultConfigPath = "poon.yaml"

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "poon",
		Short:   "Personal finance dashboard backed by a mock banking API",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", DefaultConfigPath, "path to the YAML config file")

	rootCmd.AddCommand(newServeCommand(&configPath))
	rootCmd.AddCommand(newReportCommand(&configPath))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
