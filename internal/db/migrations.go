package db

import (
	"context"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
// The SQL is accepted by both SQLite (3.24+) and PostgreSQL; all of it runs in one transaction.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		email      TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		address    TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS renter (
		email              TEXT PRIMARY KEY REFERENCES users(email),
		move_in_date       DATE,
		preferred_location TEXT,
		budget             NUMERIC(12,2) CHECK (budget IS NULL OR budget >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS neighbourhood (
		zip_code       TEXT PRIMARY KEY,
		crime_rate     NUMERIC(5,2),
		nearby_schools TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS property (
		property_id  INTEGER PRIMARY KEY,
		location     TEXT    NOT NULL,
		city         TEXT    NOT NULL,
		state        TEXT    NOT NULL,
		price        NUMERIC(12,2) CHECK (price IS NULL OR price >= 0),
		availability BOOLEAN NOT NULL DEFAULT TRUE,
		zip_code     TEXT REFERENCES neighbourhood(zip_code),
		agent_email  TEXT REFERENCES users(email)
	)`,
	`CREATE TABLE IF NOT EXISTS house (
		property_id INTEGER PRIMARY KEY REFERENCES property(property_id)
	)`,
	`CREATE TABLE IF NOT EXISTS apartment (
		property_id INTEGER PRIMARY KEY REFERENCES property(property_id)
	)`,
	`CREATE TABLE IF NOT EXISTS commercial_building (
		property_id INTEGER PRIMARY KEY REFERENCES property(property_id)
	)`,
	`CREATE TABLE IF NOT EXISTS land (
		property_id INTEGER PRIMARY KEY REFERENCES property(property_id)
	)`,
	`CREATE TABLE IF NOT EXISTS vacation_house (
		property_id INTEGER PRIMARY KEY REFERENCES property(property_id)
	)`,
	`CREATE TABLE IF NOT EXISTS credit_card (
		card_number      TEXT PRIMARY KEY,
		card_holder_name TEXT NOT NULL DEFAULT '',
		email            TEXT NOT NULL REFERENCES users(email),
		cvv              TEXT NOT NULL DEFAULT '',
		exp_date         DATE
	)`,
	`CREATE TABLE IF NOT EXISTS booking (
		booking_id   INTEGER PRIMARY KEY,
		card_number  TEXT    NOT NULL REFERENCES credit_card(card_number),
		property_id  INTEGER NOT NULL REFERENCES property(property_id),
		booking_date DATE    NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rewards (
		reward_id      INTEGER PRIMARY KEY,
		booking_id     INTEGER NOT NULL UNIQUE REFERENCES booking(booking_id),
		email          TEXT    NOT NULL REFERENCES renter(email),
		points_balance INTEGER NOT NULL CHECK (points_balance >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		renter_email TEXT    NOT NULL REFERENCES users(email),
		property_id  INTEGER NOT NULL REFERENCES property(property_id),
		PRIMARY KEY (renter_email, property_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_property_city_price ON property(city, price)`,
	`CREATE INDEX IF NOT EXISTS idx_rewards_email ON rewards(email)`,
}

// migrate runs all migrations in order.
func (d *DB) migrate(ctx context.Context) error {
	return d.InTx(ctx, func(tx *Tx) error {
		for i, m := range migrations {
			if _, err := tx.ExecContext(ctx, m); err != nil {
				return fmt.Errorf("migration %d: %w", i, err)
			}
		}
		return nil
	})
}
