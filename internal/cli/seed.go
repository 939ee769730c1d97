package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/rental-booker/internal/db"
	"github.com/evcraddock/rental-booker/internal/seed"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load neighbourhoods, agents and properties from a YAML file",
		Long:  "Write the listings in a YAML seed file straight to the database. Properties whose id already exists are skipped, so a file can be applied more than once.",
		Args:  cobra.ExactArgs(1),
		RunE:  runSeed,
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := seed.LoadFile(args[0])
	if err != nil {
		return err
	}

	database, err := openDB(db.Dialect(os.Getenv("RB_DB_DRIVER")), os.Getenv("RB_DB_DSN"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer closeDB(database)

	summary, err := seed.Apply(cmd.Context(), database, f)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), summary)
	}

	printSeedSummary(cmd.OutOrStdout(), summary)
	return nil
}
