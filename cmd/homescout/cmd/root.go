// Package cmd implements the homescout server commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "homescout",
	Short: "Property matching and engagement scoring service",
	Long: `HomeScout evaluates buyer saved searches against the active listing
inventory, creates alerts for new matches, and scores buyer engagement
from property view telemetry.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "config.yaml", "path to the configuration file",
	)
}
