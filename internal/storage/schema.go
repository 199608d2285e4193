package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS attributes (
			attribute_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			current_xp INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
			UNIQUE(user_id, name)
		);`,
		`CREATE TABLE IF NOT EXISTS subskills (
			subskill_id INTEGER PRIMARY KEY AUTOINCREMENT,
			attribute_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			current_xp INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY(attribute_id) REFERENCES attributes(attribute_id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			task_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			description TEXT NOT NULL,
			task_type TEXT NOT NULL DEFAULT 'general',
			attribute_id INTEGER,
			subskill_id INTEGER,
			xp_gained INTEGER NOT NULL DEFAULT 0,
			stress_effect INTEGER NOT NULL DEFAULT 0,
			is_completed INTEGER NOT NULL DEFAULT 0,
			is_skipped INTEGER NOT NULL DEFAULT 0,
			is_negative_habit INTEGER NOT NULL DEFAULT 0,
			negative_habit_done INTEGER,
			numeric_value REAL,
			numeric_unit TEXT,
			logged_numeric_value REAL,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS recurring_tasks (
			recurring_task_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			description TEXT NOT NULL,
			attribute_id INTEGER,
			subskill_id INTEGER,
			xp_value INTEGER NOT NULL DEFAULT 0,
			stress_effect INTEGER NOT NULL DEFAULT 0,
			is_negative_habit INTEGER NOT NULL DEFAULT 0,
			start_date TEXT NOT NULL,
			last_added_date TEXT,
			is_active INTEGER NOT NULL DEFAULT 1,
			numeric_value REAL,
			numeric_unit TEXT,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS daily_stats (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			stress_level INTEGER NOT NULL DEFAULT 0,
			tasks_completed INTEGER NOT NULL DEFAULT 0,
			total_xp_gained INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
			UNIQUE(user_id, date)
		);`,
		`CREATE TABLE IF NOT EXISTS narrative_progress (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL UNIQUE,
			current_location TEXT NOT NULL DEFAULT 'The Crossroads Inn',
			main_quest TEXT NOT NULL DEFAULT 'Seeking your destiny as an adventurer',
			companions TEXT NOT NULL DEFAULT 'None yet',
			recent_events TEXT NOT NULL DEFAULT 'You''ve just begun your adventure',
			story_day INTEGER NOT NULL DEFAULT 1,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS daily_narratives (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			narrative TEXT NOT NULL,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
			UNIQUE(user_id, date)
		);`,
		`CREATE TABLE IF NOT EXISTS character_stats (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			stat_name TEXT NOT NULL,
			value INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
			UNIQUE(user_id, stat_name)
		);`,
		`CREATE TABLE IF NOT EXISTS milestones (
			milestone_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			attribute_id INTEGER,
			achievement_type TEXT NOT NULL,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS quests (
			quest_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			difficulty TEXT,
			xp_reward INTEGER NOT NULL DEFAULT 0,
			attribute_focus TEXT,
			start_date TEXT NOT NULL,
			due_date TEXT,
			completed_date TEXT,
			status TEXT NOT NULL DEFAULT 'Active',
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS quest_steps (
			quest_step_id INTEGER PRIMARY KEY AUTOINCREMENT,
			quest_id INTEGER NOT NULL,
			description TEXT NOT NULL,
			is_completed INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY(quest_id) REFERENCES quests(quest_id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_date ON tasks(user_id, date);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_completed ON tasks(user_id, is_completed);`,
		`CREATE INDEX IF NOT EXISTS idx_recurring_user_active ON recurring_tasks(user_id, is_active);`,
		`CREATE INDEX IF NOT EXISTS idx_milestones_user_date ON milestones(user_id, date);`,
		`CREATE INDEX IF NOT EXISTS idx_quests_user_status ON quests(user_id, status);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
