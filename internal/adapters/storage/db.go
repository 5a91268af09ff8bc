package storage

import (
	"database/sql"
	"fmt"
)

// DSN builds the SQLite connection string with WAL mode, busy timeout and
// foreign keys enabled.
func DSN(path string) string {
	return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
}

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: club, competition and booking tables exist
func InitDB(db *sql.DB) error {
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS club (
		name TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE COLLATE NOCASE,
		points INTEGER NOT NULL CHECK (points >= 0)
	);

	CREATE TABLE IF NOT EXISTS competition (
		name TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		number_of_places INTEGER NOT NULL CHECK (number_of_places >= 0),
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS booking (
		id TEXT PRIMARY KEY,
		reference TEXT NOT NULL,
		club_name TEXT NOT NULL,
		competition_name TEXT NOT NULL,
		places INTEGER NOT NULL CHECK (places > 0),
		points_spent INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (club_name) REFERENCES club(name),
		FOREIGN KEY (competition_name) REFERENCES competition(name)
	);

	CREATE INDEX IF NOT EXISTS idx_booking_club ON booking(club_name);
	CREATE INDEX IF NOT EXISTS idx_booking_competition ON booking(competition_name);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
