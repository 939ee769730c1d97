package cli

import (
	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard <email>",
		Short: "Show a renter's bookings and reward points",
		Args:  cobra.ExactArgs(1),
		RunE:  runDashboard,
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	d, err := newAPIClient().Dashboard(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), d)
	}

	return printDashboard(cmd.OutOrStdout(), d)
}
