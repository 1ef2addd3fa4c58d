// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists projects and tasks in a SQLite database. It is the
// persistence collaborator behind PRD import: callers hand it task
// candidates and a project, and it assigns identity and timestamps.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/pdiddy/task-tracker/pkg/types"
)

const (
	defaultDataDir = "data"
	defaultDBFile  = "tracker.db"

	// timeFormat is fixed-width so stored timestamps sort as text.
	timeFormat = "2006-01-02T15:04:05.000000000Z07:00"
)

var (
	// ErrNotFound is returned when a project or task does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateProject is returned when a project name is already taken.
	ErrDuplicateProject = errors.New("project already exists")

	// ErrWorkflowDone is returned when advancing a completed task.
	ErrWorkflowDone = errors.New("task is already completed")
)

// Store manages the tracker SQLite database.
type Store struct {
	db         *sql.DB
	path       string
	maxResults int
	log        *slog.Logger
	now        func() time.Time
}

// NewStore opens or creates the database at DataDir/DBFile and creates the
// schema if it does not exist. A nil logger discards diagnostics.
func NewStore(cfg types.StoreConfig, logger *slog.Logger) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = defaultDataDir
	}
	dbFile := cfg.DBFile
	if dbFile == "" {
		dbFile = defaultDBFile
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:         db,
		path:       dbPath,
		maxResults: cfg.MaxResults,
		log:        logger.With("component", "store"),
		now:        func() time.Time { return time.Now().UTC() },
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s.log.Debug("database ready", "path", dbPath)
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			priority TEXT NOT NULL CHECK (priority IN ('low', 'medium', 'high')),
			status TEXT NOT NULL CHECK (status IN ('todo', 'in_progress', 'completed')),
			role TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
