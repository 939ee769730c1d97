package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the connection to the server",
		Long:  "Shows the configured server and checks that it and its database are reachable.",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Server:  %s\n", getServerURL())

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	if err := newAPIClient().Health(ctx); err != nil {
		fmt.Fprintf(out, "Status:  ✗ %v\n", err)
		return nil
	}
	fmt.Fprintln(out, "Status:  ✓ connected")
	return nil
}
