package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/amishk599/careerlens/internal/model"
)

var _ model.RunStore = (*SQLiteStore)(nil)

// SQLiteStore records task runs in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// runs table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS runs (
		id         TEXT PRIMARY KEY,
		task       TEXT NOT NULL,
		model      TEXT NOT NULL DEFAULT '',
		ok         INTEGER NOT NULL,
		error      TEXT NOT NULL DEFAULT '',
		output     TEXT NOT NULL DEFAULT 'null',
		created_at DATETIME NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating runs table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Record stores run. An empty ID is replaced with a fresh UUID and a zero
// CreatedAt with the current time.
func (s *SQLiteStore) Record(run model.Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	output := "null"
	if len(run.Output) > 0 {
		output = string(run.Output)
	}

	_, err := s.db.Exec(
		"INSERT INTO runs (id, task, model, ok, error, output, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		run.ID, run.Task, run.Model, run.OK, run.Error, output, run.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording %s run: %w", run.Task, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *SQLiteStore) Recent(limit int) ([]model.Run, error) {
	rows, err := s.db.Query(
		"SELECT id, task, model, ok, error, output, created_at FROM runs ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		var output string
		if err := rows.Scan(&r.ID, &r.Task, &r.Model, &r.OK, &r.Error, &output, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Output = []byte(output)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Cleanup deletes runs older than the given duration and returns how many
// were removed.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC()
	res, err := s.db.Exec("DELETE FROM runs WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up runs older than %v: %w", olderThan, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting removed runs: %w", err)
	}
	return n, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
