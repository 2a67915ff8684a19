package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	domain "github.com/homescout/homescout/pkg/types"
)

func scoreCmd() *cobra.Command {
	var (
		listingFile string
		prefsFile   string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a listing against buyer preferences",
		Long: `Reads a listing and a buyer preferences document from JSON files and
prints the per-component match score breakdown.`,
		Example: `  hsc score --listing listing.json --preferences prefs.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var l domain.Listing
			if err := readJSONFile(listingFile, &l); err != nil {
				return fmt.Errorf("reading listing: %w", err)
			}
			var p domain.BuyerPreferences
			if err := readJSONFile(prefsFile, &p); err != nil {
				return fmt.Errorf("reading preferences: %w", err)
			}

			b, err := newClient().ScoreMatch(cmd.Context(), &l, &p)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(b)
			}
			return printBreakdown(b)
		},
	}

	cmd.Flags().StringVar(&listingFile, "listing", "", "path to a listing JSON file")
	cmd.Flags().StringVar(&prefsFile, "preferences", "", "path to a buyer preferences JSON file")
	_ = cmd.MarkFlagRequired("listing")
	_ = cmd.MarkFlagRequired("preferences")
	return cmd
}

func readJSONFile(path string, dst any) error {
	data, err := os.ReadFile(path) //nolint:gosec // path from trusted CLI flag
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
