package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is IF NOT EXISTS,
// so re-running the full list on an existing database is safe.
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
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		status          TEXT NOT NULL DEFAULT 'planning'
		                CHECK(status IN ('planning','active','on_hold','completed','cancelled')),
		doc             TEXT NOT NULL,
		version         INTEGER NOT NULL DEFAULT 1 CHECK(version > 0),
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_org ON projects(organization_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_org_status ON projects(organization_id, status)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		project_id      TEXT NOT NULL,
		assigned_to     TEXT,
		status          TEXT NOT NULL DEFAULT 'not_started'
		                CHECK(status IN ('not_started','in_progress','under_review','blocked','completed','cancelled')),
		doc             TEXT NOT NULL,
		version         INTEGER NOT NULL DEFAULT 1 CHECK(version > 0),
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_org ON tasks(organization_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(organization_id, assigned_to)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_org_status ON tasks(organization_id, status)`,

	`CREATE TABLE IF NOT EXISTS team_members (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		status          TEXT NOT NULL DEFAULT 'active'
		                CHECK(status IN ('active','inactive','on_leave')),
		doc             TEXT NOT NULL,
		version         INTEGER NOT NULL DEFAULT 1 CHECK(version > 0),
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_members_org ON team_members(organization_id)`,

	`CREATE TABLE IF NOT EXISTS trash_entries (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		entity_type     TEXT NOT NULL CHECK(entity_type IN ('task','project')),
		entity_id       TEXT NOT NULL,
		doc             TEXT NOT NULL,
		deleted_by      TEXT NOT NULL,
		deleted_at      TEXT NOT NULL,
		expires_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_trash_org ON trash_entries(organization_id)`,
	`CREATE INDEX IF NOT EXISTS idx_trash_expires ON trash_entries(expires_at)`,
}
