package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migrations are applied in order; index+1 is the schema version they produce.
// Never edit an applied migration, append a new one instead.
var migrations = []string{
	// 1: accounts, meals, payments
	`
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT,
		name TEXT NOT NULL DEFAULT '',
		roll_no TEXT UNIQUE,
		room_no TEXT NOT NULL DEFAULT '',
		contact TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS meal (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		date TEXT NOT NULL,
		breakfast INTEGER NOT NULL DEFAULT 0,
		lunch INTEGER NOT NULL DEFAULT 0,
		dinner INTEGER NOT NULL DEFAULT 0,
		UNIQUE (student_id, date),
		FOREIGN KEY (student_id) REFERENCES account(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS payment (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		date TEXT NOT NULL,
		amount REAL NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		FOREIGN KEY (student_id) REFERENCES account(id) ON DELETE CASCADE
	);
	`,
	// 2: report range scans
	`
	CREATE INDEX IF NOT EXISTS idx_meal_date ON meal(date);
	CREATE INDEX IF NOT EXISTS idx_payment_date ON payment(date);
	CREATE INDEX IF NOT EXISTS idx_payment_student ON payment(student_id);
	`,
}

// LatestSchemaVersion returns the version MigrateDB brings a database to.
func LatestSchemaVersion() int {
	return len(migrations)
}

// SchemaVersion returns the currently applied schema version (0 for a fresh database).
// PRE: db is a valid database connection
func SchemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)"); err != nil {
		return 0, fmt.Errorf("failed to create schema_version: %w", err)
	}
	var version sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(version.Int64), nil
}

// MigrateDB applies all pending migrations, each in its own transaction.
// PRE: db is a valid database connection
// POST: schema is at LatestSchemaVersion, foreign keys enabled
func MigrateDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for i := current; i < len(migrations); i++ {
		version := i + 1
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		slog.Info("schema_migrated", "version", version)
	}
	return nil
}
