package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homescout/homescout/internal/api/client"
	domain "github.com/homescout/homescout/pkg/types"
)

func listingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "listing",
		Aliases: []string{"listings"},
		Short:   "Browse and manage property listings",
	}
	cmd.AddCommand(
		listingListCmd(),
		listingGetCmd(),
		listingSetStatusCmd(),
		listingDeleteCmd(),
	)
	return cmd
}

func listingListCmd() *cobra.Command {
	filter := &client.ListingFilter{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List listings",
		Example: `  hsc listing list --city Portland --max-price 600000
  hsc listing list --status active --order-by price --limit 20`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := newClient().ListListings(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(page)
			}
			if err := printListingTable(page.Listings); err != nil {
				return err
			}
			fmt.Printf("showing %d of %d\n", len(page.Listings), page.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.City, "city", "", "filter by city")
	cmd.Flags().StringVar(&filter.PropertyType, "type", "", "filter by property type")
	cmd.Flags().StringVar(&filter.Status, "status", "", "filter by status")
	cmd.Flags().Float64Var(&filter.MinPrice, "min-price", 0, "minimum price")
	cmd.Flags().Float64Var(&filter.MaxPrice, "max-price", 0, "maximum price")
	cmd.Flags().IntVar(&filter.MinBedrooms, "min-bedrooms", 0, "minimum bedrooms")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "page size (server default when 0)")
	cmd.Flags().IntVar(&filter.Offset, "offset", 0, "page offset")
	cmd.Flags().StringVar(&filter.OrderBy, "order-by", "", "sort column (updated_at, price, created_at)")
	return cmd
}

func listingGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newClient().GetListing(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(l)
			}
			return printListingDetail(l)
		},
	}
}

func listingSetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Change a listing's lifecycle status",
		Long: `Sets the listing status to active, pending, sold, or withdrawn.
Only active listings participate in matching.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := domain.ListingStatus(args[1])
			if err := newClient().SetListingStatus(cmd.Context(), args[0], status); err != nil {
				return err
			}
			fmt.Printf("status set to %s\n", status)
			return nil
		},
	}
}

func listingDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().DeleteListing(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}
}
