package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the slotkeeper application
var rootCmd = &cobra.Command{
	Use:   "slotkeeper",
	Short: "MCP server for a host meeting schedule and a coaching calendar",
	Long: `slotkeeper keeps an in-memory host meeting schedule and a generated
coaching calendar, and exposes both to AI assistants over the Model Context
Protocol.

It can run as:
  - An MCP server over stdio, streamable HTTP or SSE (default)
  - A CLI for inspecting the schedules`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "slotkeeper version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newHostCmd())
	rootCmd.AddCommand(newCoachingCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
