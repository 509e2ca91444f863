package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "US equity screening engine",
	Long: `Stock Screener Unified CLI

Screens a US equity universe against long-term trend criteria
(price and shorter SMAs above the SMA200) and ranks the passers
by a composite momentum/value/growth score.

Usage:
  go run ./cmd/screener [command]

Examples:
  go run ./cmd/screener api
  go run ./cmd/screener screen
  go run ./cmd/screener screen --symbols AAPL,MSFT
  go run ./cmd/screener scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
