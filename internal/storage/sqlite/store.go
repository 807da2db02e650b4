package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/ewhitmore/focal/internal/constants"
	"github.com/ewhitmore/focal/internal/models"
)

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.createSchema(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Initialize default settings if not present or incomplete
	settings, err := s.GetSettings()
	if err != nil || settings.DayStart == "" {
		defaults := models.Settings{
			OwnerID:  constants.DefaultOwner,
			Timezone: constants.DefaultTimezone,
			DayStart: constants.DefaultDayStart,
			DayEnd:   constants.DefaultDayEnd,
		}
		if err := s.SaveSettings(defaults); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'focal init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// Schema statements are idempotent, so Load tolerates stores created by
	// older versions.
	if err := s.createSchema(); err != nil {
		return fmt.Errorf("failed to verify schema: %w", err)
	}

	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB exposes the handle for diagnostics
func (s *Store) GetDB() *sql.DB {
	return s.db
}

func (s *Store) createSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			owner_id TEXT NOT NULL,
			timezone TEXT NOT NULL,
			day_start TEXT NOT NULL,
			day_end TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			progress INTEGER NOT NULL DEFAULT 0,
			priority TEXT NOT NULL,
			scope TEXT NOT NULL,
			scope_key TEXT NOT NULL,
			start_time TEXT NOT NULL DEFAULT '',
			end_time TEXT NOT NULL DEFAULT '',
			deadline TEXT NOT NULL DEFAULT '',
			parent_task_id TEXT NOT NULL DEFAULT '',
			contribution_percent INTEGER NOT NULL DEFAULT 0,
			is_milestone INTEGER NOT NULL DEFAULT 0,
			milestone_conditions TEXT NOT NULL DEFAULT '[]',
			blocked_by_conditional TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '{}',
			color TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			deleted_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_owner_scope ON tasks(owner_id, scope, scope_key)`,
		`CREATE TABLE IF NOT EXISTS conditionals (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			expected_date TEXT NOT NULL DEFAULT '',
			urgency TEXT NOT NULL DEFAULT '',
			outcomes TEXT NOT NULL DEFAULT '[]',
			fallback_ref TEXT NOT NULL DEFAULT '',
			fallback_postpone_days INTEGER NOT NULL DEFAULT 0,
			resolved_outcome_id TEXT NOT NULL DEFAULT '',
			resolved_at TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outreach (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			contact TEXT NOT NULL,
			program TEXT NOT NULL DEFAULT '',
			note TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS completions (
			owner_id TEXT NOT NULL,
			task_id TEXT NOT NULL,
			completed_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_achievements (
			owner_id TEXT NOT NULL,
			achievement_id TEXT NOT NULL,
			period_key TEXT NOT NULL,
			unlocked_at TEXT NOT NULL,
			PRIMARY KEY (owner_id, achievement_id, period_key)
		)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
