// Package config holds server configuration for rental-booker.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/evcraddock/rental-booker/internal/db"
	"github.com/evcraddock/rental-booker/internal/email"
)

// Config holds everything the server needs at construction time.
type Config struct {
	DBDriver  db.Dialect
	DBDSN     string // file path for sqlite3, connection URL for postgres
	Port      int
	SecretKey string // signs flash cookies
	DevMode   bool
	BaseURL   string // e.g. http://localhost:8080
	SMTP      email.SMTPConfig
}

// devSecret is used only when DevMode is on and no secret was configured.
const devSecret = "dev-only-secret"

// FromEnv creates a Config from environment variables.
func FromEnv() (Config, error) {
	port, err := strconv.Atoi(envOrDefault("RB_PORT", "8080"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid RB_PORT: %w", err)
	}

	cfg := Config{
		DBDriver:  db.Dialect(envOrDefault("RB_DB_DRIVER", string(db.SQLite))),
		DBDSN:     os.Getenv("RB_DB_DSN"),
		Port:      port,
		SecretKey: os.Getenv("RB_SECRET_KEY"),
		DevMode:   os.Getenv("RB_DEV_MODE") == "true",
		BaseURL:   envOrDefault("RB_BASE_URL", "http://localhost:8080"),
		SMTP: email.SMTPConfig{
			Host: os.Getenv("RB_SMTP_HOST"),
			Port: envOrDefault("RB_SMTP_PORT", "587"),
			User: os.Getenv("RB_SMTP_USER"),
			Pass: os.Getenv("RB_SMTP_PASS"),
			From: os.Getenv("RB_SMTP_FROM"),
		},
	}
	if cfg.SecretKey == "" && cfg.DevMode {
		cfg.SecretKey = devSecret
	}

	return cfg, nil
}

// WithDevMode returns c with dev mode on, using the development secret if
// none was configured.
func (c Config) WithDevMode() Config {
	c.DevMode = true
	if c.SecretKey == "" {
		c.SecretKey = devSecret
	}
	return c
}

// Validate checks that the configuration can start a server.
func (c Config) Validate() error {
	if !c.DBDriver.Valid() {
		return fmt.Errorf("unsupported database driver %q (use sqlite3 or postgres)", c.DBDriver)
	}
	if c.DBDriver == db.Postgres && c.DBDSN == "" {
		return fmt.Errorf("RB_DB_DSN is required for postgres")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", c.Port)
	}
	if c.SecretKey == "" {
		return fmt.Errorf("RB_SECRET_KEY is required unless RB_DEV_MODE=true")
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
