package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func alertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alert",
		Aliases: []string{"alerts"},
		Short:   "Inspect and acknowledge alerts",
	}
	cmd.AddCommand(
		alertPendingCmd(),
		alertReadCmd(),
	)
	return cmd
}

func alertPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List alerts whose notifications have not gone out yet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			alerts, err := newClient().ListPendingAlerts(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(alerts)
			}
			return printAlertTable(alerts)
		},
	}
}

func alertReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>...",
		Short: "Mark one or more alerts as notified",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			if len(args) == 1 {
				if err := c.MarkAlertRead(cmd.Context(), args[0]); err != nil {
					return err
				}
			} else if err := c.MarkAlertsRead(cmd.Context(), args); err != nil {
				return err
			}
			fmt.Printf("marked %d alert(s) read\n", len(args))
			return nil
		},
	}
}
