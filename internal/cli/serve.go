package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/evcraddock/rental-booker/internal/config"
	"github.com/evcraddock/rental-booker/internal/db"
	"github.com/evcraddock/rental-booker/internal/logging"
	"github.com/evcraddock/rental-booker/internal/metrics"
	"github.com/evcraddock/rental-booker/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI and JSON API",
		Long:  "Start an HTTP server for the web UI and the JSON API. Settings come from RB_* environment variables; flags override them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if dev {
				cfg = cfg.WithDevMode()
			}
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on (default: RB_PORT or 8080)")
	cmd.Flags().BoolVar(&dev, "dev", false, "development mode: text logs at debug level")

	return cmd
}

func runServe(cmd *cobra.Command, cfg config.Config) error {
	if flagDriver != "" {
		cfg.DBDriver = db.Dialect(flagDriver)
	}
	if flagDB != "" {
		cfg.DBDSN = flagDB
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.Setup(cfg.DevMode)

	database, err := openDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer closeDB(database)

	srv, err := web.NewServer(database, cfg, metrics.New())
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	slog.Info("rental-booker starting", "version", Version, "driver", cfg.DBDriver, "port", cfg.Port)
	return srv.ListenAndServe(cmd.Context())
}
