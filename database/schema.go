package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tbl_user (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fullname TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		phone TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS tbl_booking (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		fullname TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		service TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		notes TEXT,
		payment_method TEXT NOT NULL,
		transaction_id TEXT,
		FOREIGN KEY (user_id) REFERENCES tbl_user(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_booking_user ON tbl_booking(user_id)`,
}

// EnsureSchema creates the user and booking tables if they do not exist yet.
// Safe to run on every start.
func EnsureSchema(dbConn *sqlx.DB) error {
	tx, err := dbConn.Beginx()
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return tx.Commit()
}
