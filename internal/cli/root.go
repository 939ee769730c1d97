// Package cli defines the cobra command tree for rental-booker.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/rental-booker/internal/client"
	"github.com/evcraddock/rental-booker/internal/db"
)

var (
	flagFormat string
	flagDB     string
	flagDriver string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rb",
		Short:         "Book rental properties and earn rewards",
		Long:          "A rental booking service. Register renters, search properties, book them with a card, and track reward points via CLI or web UI.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite path or postgres URL (default: ~/.rental-booker/rentals.db)")
	root.PersistentFlags().StringVar(&flagDriver, "driver", "", "database driver (sqlite3|postgres, default: RB_DB_DRIVER or sqlite3)")

	root.AddCommand(
		newRegisterCmd(),
		newSearchCmd(),
		newShowCmd(),
		newBookCmd(),
		newDashboardCmd(),
		newSeedCmd(),
		newServeCmd(),
		newStatusCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the database named by --driver and --db, falling back to the
// given defaults. An empty SQLite path means the default location.
func openDB(driver db.Dialect, dsn string) (*db.DB, error) {
	if flagDriver != "" {
		driver = db.Dialect(flagDriver)
	}
	if flagDB != "" {
		dsn = flagDB
	}
	if driver == "" {
		driver = db.SQLite
	}

	switch driver {
	case db.SQLite:
		path := dsn
		if path == "" {
			var err error
			path, err = db.DefaultPath()
			if err != nil {
				return nil, err
			}
		}
		return db.Open(path)
	case db.Postgres:
		if dsn == "" {
			return nil, fmt.Errorf("--db or RB_DB_DSN is required for postgres")
		}
		return db.Connect(driver, dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q (use sqlite3 or postgres)", driver)
	}
}

// newAPIClient creates an HTTP client for the rental-booker API.
func newAPIClient() *client.Client {
	return client.New(getServerURL())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *db.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
