// Package cmd implements the hsc command-line client for the HomeScout API.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/homescout/homescout/internal/api/client"
)

var rootCmd = &cobra.Command{
	Use:   "hsc",
	Short: "Command-line client for the HomeScout API",
	Long: `hsc manages saved searches, listings, and alerts on a running
HomeScout server, and inspects view telemetry and engagement scores.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String(
		"server", "http://localhost:8080", "HomeScout API server URL",
	)
	rootCmd.PersistentFlags().StringP("output", "o", "table", "output format (table or json)")

	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))

	rootCmd.AddCommand(
		searchCmd(),
		listingCmd(),
		alertCmd(),
		viewsCmd(),
		engagementCmd(),
		eventCmd(),
		jobCmd(),
		scoreCmd(),
	)
}

func initConfig() {
	viper.SetEnvPrefix("HSC")
	viper.AutomaticEnv()

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".hsc")
		viper.SetConfigType("yaml")
		_ = viper.ReadInConfig()
	}
}

func newClient() *client.Client {
	return client.New(viper.GetString("server"))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
