package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/rental-booker/internal/booking"
)

func newBookCmd() *cobra.Command {
	var req booking.Request

	cmd := &cobra.Command{
		Use:   "book <property-id>",
		Short: "Book a property",
		Long:  "Book a property for a registered renter, paying with a card. The card is stored the first time it is used.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			req.PropertyID = id
			return runBook(cmd, req)
		},
	}

	cmd.Flags().StringVar(&req.RenterEmail, "email", "", "renter email (required)")
	cmd.Flags().StringVar(&req.CardNumber, "card", "", "card number (required)")
	cmd.Flags().StringVar(&req.CardHolderName, "holder", "", "name on card")
	cmd.Flags().StringVar(&req.CVV, "cvv", "", "card security code")
	cmd.Flags().StringVar(&req.ExpirationDate, "exp", "", "card expiration date (YYYY-MM-DD)")
	for _, name := range []string{"email", "card"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}

	return cmd
}

func runBook(cmd *cobra.Command, req booking.Request) error {
	res, err := newAPIClient().CreateBooking(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("booking property %d: %w", req.PropertyID, err)
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), res)
	}

	printBookingResult(cmd.OutOrStdout(), res)
	return nil
}
