package storage

import (
	"database/sql"
	"fmt"
)

// migration is one schema change applied in order. Migrations must be
// append-only: never edit a shipped migration, add a new one.
type migration struct {
	version int
	apply   func(*sql.DB) error
}

func migrations() []migration {
	return []migration{
		{version: 1, apply: migrateBaseline},
	}
}

// LatestSchemaVersion returns the highest known migration version.
func LatestSchemaVersion() int {
	ms := migrations()
	return ms[len(ms)-1].version
}

// SchemaVersion returns the current schema version of the database.
// PRE: db is a valid database connection
// POST: Returns 0 for a database that has never been migrated
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, nil
	}
	var version int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	return version, err
}

// MigrateDB brings the database schema up to the latest version.
// PRE: db is a valid database connection; dbPath identifies it in logs
// POST: Schema version equals LatestSchemaVersion(); idempotent
func MigrateDB(db *sql.DB, dbPath string) error {
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations() {
		if m.version <= current {
			continue
		}
		if err := m.apply(db); err != nil {
			return fmt.Errorf("migration %d failed on %s: %w", m.version, dbPath, err)
		}
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
	}
	return nil
}

// migrateBaseline creates the full initial schema.
func migrateBaseline(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT,
		password_change_required INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS page_policy (
		page TEXT PRIMARY KEY,
		description TEXT NOT NULL DEFAULT '',
		public INTEGER NOT NULL DEFAULT 0,
		allow_platform_admin INTEGER NOT NULL DEFAULT 0,
		allow_user_admin INTEGER NOT NULL DEFAULT 0,
		allow_user INTEGER NOT NULL DEFAULT 0,
		allow_guest INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS preferences (
		username TEXT PRIMARY KEY,
		theme TEXT NOT NULL DEFAULT 'system',
		font_family TEXT NOT NULL DEFAULT 'default',
		notifications INTEGER NOT NULL DEFAULT 0,
		notification_email TEXT NOT NULL DEFAULT '',
		notification_phone TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS volunteer (
		id TEXT PRIMARY KEY,
		account_id TEXT,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		team TEXT NOT NULL,
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS task (
		id TEXT PRIMARY KEY,
		assignee TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		priority TEXT NOT NULL DEFAULT 'medium',
		due_date TEXT,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT,
		completed_at TEXT
	);

	CREATE TABLE IF NOT EXISTS message (
		id TEXT PRIMARY KEY,
		sender TEXT NOT NULL,
		recipient TEXT NOT NULL,
		subject TEXT,
		body TEXT NOT NULL,
		read_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sheet (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		owner TEXT NOT NULL,
		rows INTEGER NOT NULL,
		cols INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE TABLE IF NOT EXISTS sheet_cell (
		sheet_id TEXT NOT NULL,
		row INTEGER NOT NULL,
		col INTEGER NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (sheet_id, row, col),
		FOREIGN KEY (sheet_id) REFERENCES sheet(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS announcement (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		audience TEXT NOT NULL,
		created_by TEXT NOT NULL,
		published_by TEXT,
		pinned INTEGER NOT NULL DEFAULT 0,
		pinned_at TEXT,
		created_at TEXT NOT NULL,
		published_at TEXT
	);

	CREATE TABLE IF NOT EXISTS survey (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'open',
		created_by TEXT NOT NULL,
		created_at TEXT NOT NULL,
		closed_at TEXT
	);

	CREATE TABLE IF NOT EXISTS survey_response (
		id TEXT PRIMARY KEY,
		survey_id TEXT NOT NULL,
		respondent TEXT NOT NULL,
		answers TEXT NOT NULL,
		submitted_at TEXT NOT NULL,
		FOREIGN KEY (survey_id) REFERENCES survey(id)
	);

	CREATE TABLE IF NOT EXISTS audit_event (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		category TEXT NOT NULL,
		action TEXT NOT NULL,
		severity TEXT NOT NULL,
		actor_id TEXT NOT NULL DEFAULT '',
		actor_username TEXT NOT NULL DEFAULT '',
		actor_role TEXT NOT NULL DEFAULT '',
		resource_id TEXT NOT NULL DEFAULT '',
		resource_type TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		metadata TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS outbox (
		id TEXT PRIMARY KEY,
		action_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		attempts INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL DEFAULT 5,
		last_attempted_at TEXT,
		created_at TEXT NOT NULL,
		external_id TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS search_history (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		query TEXT NOT NULL,
		page TEXT NOT NULL DEFAULT '',
		searched_at TEXT NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
