package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		full_name TEXT NOT NULL DEFAULT '',
		avatar TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('admin','member','guest')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_by INTEGER NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS team_members (
		id SERIAL PRIMARY KEY,
		team_id INTEGER NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('admin','member','guest')),
		UNIQUE (team_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		team_id INTEGER NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		color TEXT NOT NULL DEFAULT '#2563EB',
		start_date TIMESTAMPTZ NOT NULL,
		due_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		assignee_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
		status TEXT NOT NULL DEFAULT 'todo' CHECK (status IN ('todo','in progress','review','complete')),
		priority TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('low','medium','high')),
		due_date TIMESTAMPTZ,
		tags TEXT[] NOT NULL DEFAULT '{}',
		position INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id SERIAL PRIMARY KEY,
		content TEXT NOT NULL,
		task_id INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS files (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		size BIGINT NOT NULL DEFAULT 0,
		type TEXT NOT NULL DEFAULT '',
		project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		task_id INTEGER REFERENCES tasks(id) ON DELETE SET NULL,
		uploaded_by INTEGER NOT NULL REFERENCES users(id),
		uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id SERIAL PRIMARY KEY,
		content TEXT NOT NULL,
		team_id INTEGER NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project_position ON tasks (project_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_team_members_user ON team_members (user_id)`,
}

// Migrate creates the schema if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			s.logger.Error("Migration statement failed", zap.Error(err))
			return fmt.Errorf("migrate: %w", err)
		}
	}
	s.logger.Info("Schema migration completed")
	return nil
}
