package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies every schema statement. Statements are idempotent so the
// whole list runs on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// Server-returned appointment records, keyed by backend id. Status and
	// type are stored as received so unknown values survive a round trip.
	`CREATE TABLE IF NOT EXISTS appointments (
		id          TEXT PRIMARY KEY,
		case_id     TEXT NOT NULL DEFAULT '',
		client_id   TEXT NOT NULL DEFAULT '',
		lawyer_id   TEXT NOT NULL DEFAULT '',
		date        TEXT NOT NULL,
		type        TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		synced_at   TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_appointments_case ON appointments(case_id)`,

	// Which records belong to which store scope, in server order.
	`CREATE TABLE IF NOT EXISTS appointment_scopes (
		scope          TEXT NOT NULL,
		appointment_id TEXT NOT NULL REFERENCES appointments(id) ON DELETE CASCADE,
		position       INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (scope, appointment_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_appointment_scopes_appt ON appointment_scopes(appointment_id)`,

	`CREATE TABLE IF NOT EXISTS scope_syncs (
		scope     TEXT PRIMARY KEY,
		synced_at TEXT NOT NULL
	)`,
}
