package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are idempotent; the whole
// list re-runs on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		short_id    TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL DEFAULT '',
		calendar_id INTEGER,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	// durable_id can be <= 0 for broken/legacy calendars, so rows carry a
	// surrogate rowid and durable_id is only indexed, not a key.
	`CREATE TABLE IF NOT EXISTS calendars (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		durable_id INTEGER NOT NULL,
		name       TEXT NOT NULL,
		kind       INTEGER NOT NULL DEFAULT 4,
		base_id    INTEGER,
		week_mask  TEXT NOT NULL DEFAULT '1111100',
		hours      TEXT NOT NULL DEFAULT '[]',
		derived    INTEGER NOT NULL DEFAULT 0,
		position   INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_calendars_project ON calendars(project_id, durable_id)`,

	`CREATE TABLE IF NOT EXISTS resources (
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		durable_id    INTEGER NOT NULL,
		name          TEXT NOT NULL,
		type          INTEGER NOT NULL DEFAULT 0,
		max_units     REAL NOT NULL DEFAULT 1.0,
		standard_rate REAL NOT NULL DEFAULT 0,
		overtime_rate REAL NOT NULL DEFAULT 0,
		cost_per_use  REAL NOT NULL DEFAULT 0,
		email         TEXT NOT NULL DEFAULT '',
		grp           TEXT NOT NULL DEFAULT '',
		calendar_id   INTEGER,
		position      INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (project_id, durable_id)
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		durable_id    INTEGER NOT NULL,
		client_id     TEXT NOT NULL DEFAULT '',
		name          TEXT NOT NULL,
		start_ms      INTEGER NOT NULL DEFAULT 0,
		end_ms        INTEGER NOT NULL DEFAULT 0,
		completion    REAL NOT NULL DEFAULT 0,
		milestone     INTEGER NOT NULL DEFAULT 0,
		summary       INTEGER NOT NULL DEFAULT 0,
		notes         TEXT NOT NULL DEFAULT '',
		color         TEXT NOT NULL DEFAULT '',
		external      INTEGER NOT NULL DEFAULT 0,
		outline_level INTEGER NOT NULL DEFAULT 0,
		parent_id     INTEGER,
		calendar_id   INTEGER,
		position      INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (project_id, durable_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(project_id, parent_id)`,

	`CREATE TABLE IF NOT EXISTS dependencies (
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		predecessor_id INTEGER NOT NULL,
		successor_id   INTEGER NOT NULL,
		lag_min        INTEGER NOT NULL DEFAULT 0,
		source         TEXT NOT NULL DEFAULT 'sync',
		PRIMARY KEY (project_id, predecessor_id, successor_id)
	)`,

	`CREATE TABLE IF NOT EXISTS assignments (
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		task_id     INTEGER NOT NULL,
		resource_id INTEGER NOT NULL,
		units       REAL NOT NULL DEFAULT 1.0,
		PRIMARY KEY (project_id, task_id, resource_id)
	)`,
}
