package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "research",
	Short: "OpenResearch - ticker research aggregation pipeline",
	Long: `OpenResearch CLI

Aggregates public company facts, financial ratios, news pressure and
headline sentiment into a single structured research report per ticker.

Usage:
  go run ./cmd/research [command]

Examples:
  go run ./cmd/research api
  go run ./cmd/research report AAPL
  go run ./cmd/research refresh`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
