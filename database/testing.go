package database

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// OpenMemory opens a private in-memory SQLite database with the schema applied.
// Used by tests across packages.
func OpenMemory() (*sqlx.DB, error) {
	dbConn, err := sqlx.Open("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// Every new connection to :memory: is a fresh database
	dbConn.SetMaxOpenConns(1)

	if err := EnsureSchema(dbConn); err != nil {
		dbConn.Close()
		return nil, err
	}
	return dbConn, nil
}
