package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "carmasy-cli",
	Short: "Carmasy CLI tool",
	Long: `Carmasy CLI is a command-line companion for the Carmasy dashboard.

Available commands:
  events      List the events a dashboard session accepts
  simulate    Replay events against a fresh session and print the result
  version     Print the CLI version

Use "carmasy-cli [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
