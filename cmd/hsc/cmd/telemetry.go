package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/homescout/homescout/pkg/types"
)

func viewsCmd() *cobra.Command {
	var window string

	cmd := &cobra.Command{
		Use:   "views <listing-id>",
		Short: "Show a listing's aggregated view telemetry",
		Example: `  hsc views lst-42
  hsc views lst-42 --window 24h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := newClient().GetListingViews(cmd.Context(), args[0], window)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(views)
			}
			return printViewSummary(views.ListingID, views.Window, &views.Summary)
		},
	}
	cmd.Flags().StringVar(&window, "window", "", "look-back window like 24h (full history when empty)")
	return cmd
}

func engagementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "engagement <buyer-session-id> <listing-id>",
		Short: "Show a buyer session's engagement score on a listing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newClient().GetBuyerEngagement(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(eng)
			}
			return printEngagement(eng)
		},
	}
}

func eventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Record view events",
	}
	cmd.AddCommand(eventRecordCmd())
	return cmd
}

func eventRecordCmd() *cobra.Command {
	var (
		listingID string
		viewer    string
		session   string
		duration  int
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a single property view event",
		Example: `  hsc event record --listing lst-42 --viewer buyer --session sess-1 --duration 90
  hsc event record --listing lst-42 --viewer anonymous --duration 15`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := &domain.ViewEvent{
				ListingID:    listingID,
				ViewerType:   domain.ViewerType(viewer),
				ViewDuration: duration,
			}
			if session != "" {
				e.BuyerSessionID = &session
			}

			id, err := newClient().RecordViewEvent(cmd.Context(), e)
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	}

	cmd.Flags().StringVar(&listingID, "listing", "", "listing ID")
	cmd.Flags().StringVar(&viewer, "viewer", "anonymous", "viewer type (buyer, agent, anonymous)")
	cmd.Flags().StringVar(&session, "session", "", "buyer session ID (required for buyer views)")
	cmd.Flags().IntVar(&duration, "duration", 0, "view duration in seconds")
	_ = cmd.MarkFlagRequired("listing")
	return cmd
}
