package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent; the
// migration system re-runs all of them on every startup.
func Migrate(database *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := database.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                   TEXT PRIMARY KEY,
		email                TEXT NOT NULL UNIQUE,
		password_hash        TEXT NOT NULL,
		full_name            TEXT NOT NULL DEFAULT '',
		timezone             TEXT NOT NULL DEFAULT 'UTC',
		default_checkin_time TEXT NOT NULL DEFAULT '08:00',
		notification_prefs   TEXT NOT NULL DEFAULT '{}',
		onboarded_at         TEXT,
		last_seen_at         TEXT NOT NULL,
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS api_tokens (
		token_hash TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TEXT NOT NULL,
		expires_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_api_tokens_user ON api_tokens(user_id)`,

	`CREATE TABLE IF NOT EXISTS emotion_checkins (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		emotion    TEXT NOT NULL
		           CHECK(emotion IN ('energized','okay','low','overwhelmed')),
		notes      TEXT NOT NULL DEFAULT '',
		date       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(user_id, date)
	)`,

	`CREATE TABLE IF NOT EXISTS streaks (
		id                TEXT PRIMARY KEY,
		user_id           TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title             TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		current_count     INTEGER NOT NULL DEFAULT 0,
		longest_count     INTEGER NOT NULL DEFAULT 0,
		state             TEXT NOT NULL DEFAULT 'normal'
		                  CHECK(state IN ('normal','recovery','protected')),
		is_active         INTEGER NOT NULL DEFAULT 1,
		last_completed_at TEXT,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_streaks_user ON streaks(user_id)`,

	`CREATE TABLE IF NOT EXISTS habits (
		id                TEXT PRIMARY KEY,
		user_id           TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		streak_id         TEXT NOT NULL REFERENCES streaks(id) ON DELETE CASCADE,
		title             TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		difficulty_level  INTEGER NOT NULL DEFAULT 1
		                  CHECK(difficulty_level BETWEEN 1 AND 5),
		estimated_minutes INTEGER NOT NULL DEFAULT 15,
		is_active         INTEGER NOT NULL DEFAULT 1,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_habits_streak ON habits(streak_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		habit_id         TEXT REFERENCES habits(id) ON DELETE SET NULL,
		title            TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		estimated_effort INTEGER NOT NULL DEFAULT 3
		                 CHECK(estimated_effort BETWEEN 1 AND 5),
		due_date         TEXT,
		is_completed     INTEGER NOT NULL DEFAULT 0,
		completed_at     TEXT,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id)`,

	`CREATE TABLE IF NOT EXISTS habit_completions (
		id                   TEXT PRIMARY KEY,
		user_id              TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		habit_id             TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
		streak_id            TEXT NOT NULL REFERENCES streaks(id) ON DELETE CASCADE,
		date                 TEXT NOT NULL,
		difficulty_completed INTEGER NOT NULL
		                     CHECK(difficulty_completed BETWEEN 1 AND 5),
		notes                TEXT NOT NULL DEFAULT '',
		completed_at         TEXT NOT NULL,
		UNIQUE(user_id, habit_id, date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_completions_user_date ON habit_completions(user_id, date)`,

	`CREATE TABLE IF NOT EXISTS user_analytics (
		id                     TEXT PRIMARY KEY,
		user_id                TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		date                   TEXT NOT NULL,
		total_habits_completed INTEGER NOT NULL DEFAULT 0,
		total_tasks_completed  INTEGER NOT NULL DEFAULT 0,
		average_difficulty     REAL NOT NULL DEFAULT 0,
		emotion_state          TEXT NOT NULL DEFAULT '',
		streak_recovery_days   INTEGER NOT NULL DEFAULT 0,
		ai_interventions_count INTEGER NOT NULL DEFAULT 0,
		created_at             TEXT NOT NULL,
		UNIQUE(user_id, date)
	)`,

	`CREATE TABLE IF NOT EXISTS ai_decisions (
		id                TEXT PRIMARY KEY,
		user_id           TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		decision_type     TEXT NOT NULL,
		context           TEXT NOT NULL,
		decision          TEXT NOT NULL,
		prompt_version    TEXT NOT NULL,
		model_used        TEXT NOT NULL,
		execution_time_ms INTEGER NOT NULL DEFAULT 0,
		created_at        TEXT NOT NULL,
		executed_at       TEXT,
		outcome           TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ai_decisions_user_created ON ai_decisions(user_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		ai_decision_id  TEXT REFERENCES ai_decisions(id) ON DELETE SET NULL,
		type            TEXT NOT NULL,
		subject         TEXT NOT NULL,
		content         TEXT NOT NULL,
		delivery_status TEXT NOT NULL DEFAULT 'pending',
		sent_at         TEXT NOT NULL,
		opened_at       TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id)`,
}
