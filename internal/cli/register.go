package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/rental-booker/internal/renter"
)

func newRegisterCmd() *cobra.Command {
	var in renter.RegisterInput

	cmd := &cobra.Command{
		Use:   "register <email>",
		Short: "Register or update a renter",
		Long:  "Create a renter, or replace the details of an existing renter with the same email.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Email = args[0]
			return runRegister(cmd, in)
		},
	}

	cmd.Flags().StringVar(&in.FirstName, "name", "", "first name (required)")
	cmd.Flags().StringVar(&in.Address, "address", "", "postal address")
	cmd.Flags().StringVar(&in.MoveInDate, "move-in", "", "move-in date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.PreferredLocation, "location", "", "preferred location")
	cmd.Flags().StringVar(&in.Budget, "budget", "", "budget, e.g. 1800.00")

	return cmd
}

func runRegister(cmd *cobra.Command, in renter.RegisterInput) error {
	p, err := newAPIClient().RegisterRenter(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("registering renter: %w", err)
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), p)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Renter registered successfully.")
	printProfile(cmd.OutOrStdout(), p)
	return nil
}
