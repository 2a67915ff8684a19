package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/homescout/homescout/pkg/types"
)

func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "search",
		Aliases: []string{"searches"},
		Short:   "Manage saved searches",
	}
	cmd.AddCommand(
		searchListCmd(),
		searchGetCmd(),
		searchCreateCmd(),
		searchEnableCmd(),
		searchDisableCmd(),
		searchDeleteCmd(),
		searchMatchesCmd(),
		searchRunCmd(),
		searchAlertsCmd(),
	)
	return cmd
}

func searchListCmd() *cobra.Command {
	var buyerID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved searches",
		RunE: func(cmd *cobra.Command, _ []string) error {
			searches, err := newClient().ListSearches(cmd.Context(), buyerID)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(searches)
			}
			return printSearchTable(searches)
		},
	}
	cmd.Flags().StringVar(&buyerID, "buyer", "", "filter by buyer ID")
	return cmd
}

func searchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one saved search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sr, err := newClient().GetSearch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(sr)
			}
			return printSearchDetail(sr)
		},
	}
}

func searchCreateCmd() *cobra.Command {
	var (
		buyerID      string
		name         string
		cities       []string
		features     []string
		minPrice     float64
		maxPrice     float64
		minBedrooms  int
		minBathrooms float64
		disabled     bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a saved search",
		Example: `  hsc search create --buyer buyer-1 --name "Downtown condos" \
    --city Portland --max-price 600000 --min-bedrooms 2 --feature garage`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria := domain.SearchCriteria{
				Cities:   cities,
				Features: features,
			}
			if minPrice > 0 {
				criteria.MinPrice = &minPrice
			}
			if maxPrice > 0 {
				criteria.MaxPrice = &maxPrice
			}
			if minBedrooms > 0 {
				criteria.MinBedrooms = &minBedrooms
			}
			if minBathrooms > 0 {
				criteria.MinBathrooms = &minBathrooms
			}

			created, err := newClient().CreateSearch(cmd.Context(), &domain.SavedSearch{
				BuyerID:  buyerID,
				Name:     name,
				Criteria: criteria,
				Enabled:  !disabled,
			})
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(created)
			}
			return printSearchDetail(created)
		},
	}

	cmd.Flags().StringVar(&buyerID, "buyer", "", "buyer ID the search belongs to")
	cmd.Flags().StringVar(&name, "name", "", "search name")
	cmd.Flags().StringSliceVar(&cities, "city", nil, "city to match (repeatable, any matches)")
	cmd.Flags().StringSliceVar(&features, "feature", nil, "required feature (repeatable, all must match)")
	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "minimum price")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "maximum price")
	cmd.Flags().IntVar(&minBedrooms, "min-bedrooms", 0, "minimum bedrooms")
	cmd.Flags().Float64Var(&minBathrooms, "min-bathrooms", 0, "minimum bathrooms")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "create the search disabled")
	_ = cmd.MarkFlagRequired("buyer")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func searchEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <id>",
		Short: "Enable a saved search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().SetSearchEnabled(cmd.Context(), args[0], true); err != nil {
				return err
			}
			fmt.Println("enabled")
			return nil
		},
	}
}

func searchDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <id>",
		Short: "Disable a saved search without losing its alert history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().SetSearchEnabled(cmd.Context(), args[0], false); err != nil {
				return err
			}
			fmt.Println("disabled")
			return nil
		},
	}
}

func searchDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().DeleteSearch(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}
}

func searchMatchesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "matches <id>",
		Short: "Preview the listings currently matching a search",
		Long: `Evaluates the search against the active inventory and prints every
matching listing. No alerts are created and no history is recorded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listings, err := newClient().MatchSearch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(listings)
			}
			return printListingTable(listings)
		},
	}
}

func searchRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <id>",
		Short: "Evaluate a search now, creating an alert for new matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alert, err := newClient().RunSearch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if alert == nil {
				fmt.Println("no new matches")
				return nil
			}
			if jsonOutput() {
				return outputJSON(alert)
			}
			return printAlertTable([]domain.Alert{*alert})
		},
	}
}

func searchAlertsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "alerts <id>",
		Short: "Show a search's alert history, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alerts, err := newClient().ListSearchAlerts(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(alerts)
			}
			return printAlertTable(alerts)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum alerts to return (server default when 0)")
	return cmd
}
