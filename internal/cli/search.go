package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/evcraddock/rental-booker/internal/client"
)

func newSearchCmd() *cobra.Command {
	var (
		city      string
		minPrice  string
		maxPrice  string
		available bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search properties",
		Long:  "List properties, optionally filtered by city substring, price range and availability.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := client.SearchOptions{City: city, OnlyAvailable: available}
			var err error
			if opts.MinPrice, err = parsePriceFlag("min-price", minPrice); err != nil {
				return err
			}
			if opts.MaxPrice, err = parsePriceFlag("max-price", maxPrice); err != nil {
				return err
			}
			return runSearch(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "city name or part of it (case-insensitive)")
	cmd.Flags().StringVar(&minPrice, "min-price", "", "minimum price")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "maximum price")
	cmd.Flags().BoolVar(&available, "available", false, "only show properties that can be booked")

	return cmd
}

func runSearch(cmd *cobra.Command, opts client.SearchOptions) error {
	props, err := newAPIClient().SearchProperties(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("searching properties: %w", err)
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), props)
	}

	return printPropertyTable(cmd.OutOrStdout(), props)
}

// parsePriceFlag parses an optional decimal flag value.
func parsePriceFlag(name, v string) (*decimal.Decimal, error) {
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("--%s must be a number, got %q", name, v)
	}
	return &d, nil
}
