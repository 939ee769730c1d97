package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/evcraddock/rental-booker/internal/booking"
	"github.com/evcraddock/rental-booker/internal/dashboard"
	"github.com/evcraddock/rental-booker/internal/property"
	"github.com/evcraddock/rental-booker/internal/renter"
	"github.com/evcraddock/rental-booker/internal/seed"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printPropertySummary prints a single property in text format.
func printPropertySummary(w io.Writer, p *property.Property) {
	fmt.Fprintf(w, "Property #%d\n", p.ID)
	fmt.Fprintf(w, "  Location:  %s, %s, %s\n", p.Location, p.City, p.State)
	fmt.Fprintf(w, "  Type:      %s\n", p.Kind)
	fmt.Fprintf(w, "  Price:     %s\n", formatNullPrice(p.Price))
	if p.Available {
		fmt.Fprintln(w, "  Status:    available")
	} else {
		fmt.Fprintln(w, "  Status:    booked")
	}
	if p.ZipCode != nil {
		fmt.Fprintf(w, "  Zip:       %s\n", *p.ZipCode)
	}
	if p.CrimeRate.Valid {
		fmt.Fprintf(w, "  Crime:     %s\n", p.CrimeRate.Decimal.StringFixed(2))
	}
	if p.NearbySchools != nil {
		fmt.Fprintf(w, "  Schools:   %s\n", *p.NearbySchools)
	}
	if p.AgentEmail != nil {
		agent := *p.AgentEmail
		if p.AgentName != nil {
			agent = fmt.Sprintf("%s <%s>", *p.AgentName, *p.AgentEmail)
		}
		fmt.Fprintf(w, "  Agent:     %s\n", agent)
	}
}

// printPropertyTable prints a list of properties as a formatted table.
func printPropertyTable(out io.Writer, props []*property.Property) error {
	if len(props) == 0 {
		fmt.Fprintln(out, "No properties found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tLOCATION\tCITY\tSTATE\tTYPE\tPRICE\tAVAILABLE"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t--------\t----\t-----\t----\t-----\t---------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, p := range props {
		avail := "no"
		if p.Available {
			avail = "yes"
		}
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, truncate(p.Location, 32), p.City, p.State, p.Kind, formatNullPrice(p.Price), avail); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Fprintf(out, "\nTotal: %d properties\n", len(props))
	return nil
}

// printProfile prints a renter profile in text format.
func printProfile(w io.Writer, p *renter.Profile) {
	fmt.Fprintf(w, "Renter %s\n", p.Email)
	fmt.Fprintf(w, "  Name:      %s\n", p.FirstName)
	if p.Address != nil {
		fmt.Fprintf(w, "  Address:   %s\n", *p.Address)
	}
	if p.MoveInDate != nil {
		fmt.Fprintf(w, "  Move-in:   %s\n", p.MoveInDate.Format(renter.DateLayout))
	}
	if p.PreferredLocation != nil {
		fmt.Fprintf(w, "  Location:  %s\n", *p.PreferredLocation)
	}
	if p.Budget.Valid {
		fmt.Fprintf(w, "  Budget:    %s\n", formatNullPrice(p.Budget))
	}
}

// printBookingResult prints a committed booking.
func printBookingResult(w io.Writer, r *booking.Result) {
	fmt.Fprintf(w, "Booking #%d confirmed.\n", r.BookingID)
	fmt.Fprintf(w, "  Property:  #%d\n", r.PropertyID)
	fmt.Fprintf(w, "  Price:     $%s\n", formatPrice(r.Price))
	fmt.Fprintf(w, "  Date:      %s\n", r.BookingDate)
	fmt.Fprintf(w, "  Points:    %d (reward #%d)\n", r.Points, r.RewardID)
}

// printDashboard prints a renter's profile, bookings and reward total.
func printDashboard(out io.Writer, d *dashboard.Dashboard) error {
	printProfile(out, d.Profile)
	fmt.Fprintln(out)

	if len(d.Bookings) == 0 {
		fmt.Fprintln(out, "No bookings yet.")
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		if _, err := fmt.Fprintln(w, "BOOKING\tDATE\tPROPERTY\tLOCATION\tPRICE\tCARD\tPOINTS"); err != nil {
			return fmt.Errorf("writing table header: %w", err)
		}
		for _, b := range d.Bookings {
			if _, err := fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\t%d\n",
				b.BookingID, b.BookingDate.Format(booking.DateLayout), b.PropertyID,
				truncate(b.Location+", "+b.City, 32), formatNullPrice(b.Price), maskCard(b.CardNumber), b.Points); err != nil {
				return fmt.Errorf("writing table row: %w", err)
			}
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flushing table: %w", err)
		}
	}

	fmt.Fprintf(out, "\nTotal reward points: %d\n", d.TotalPoints)
	return nil
}

// printSeedSummary prints what a seed run wrote.
func printSeedSummary(w io.Writer, s *seed.Summary) {
	fmt.Fprintf(w, "Seeded %d neighbourhoods, %d agents, %d properties", s.Neighbourhoods, s.Agents, s.Properties)
	if s.Skipped > 0 {
		fmt.Fprintf(w, " (%d already present)", s.Skipped)
	}
	fmt.Fprintln(w, ".")
}

// formatNullPrice formats an optional price, or "-" when unset.
func formatNullPrice(p decimal.NullDecimal) string {
	if !p.Valid {
		return "-"
	}
	return "$" + formatPrice(p.Decimal)
}

// formatPrice formats an amount with two decimals and thousands separators.
func formatPrice(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac := s[:len(s)-3], s[len(s)-3:]

	var parts []string
	for len(whole) > 3 {
		parts = append([]string{whole[len(whole)-3:]}, parts...)
		whole = whole[:len(whole)-3]
	}
	parts = append([]string{whole}, parts...)

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + strings.Join(parts, ",") + frac
}

// maskCard hides all but the last four digits of a card number.
func maskCard(number string) string {
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("•", 4) + number[len(number)-4:]
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
