// Package history persists an append-only audit log of dispatched commands
// in SQLite.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"drawbridge/internal/command"
)

// Entry is one persisted dispatch record.
type Entry struct {
	ID         int64
	Command    string
	Params     string
	OK         bool
	ErrorKind  string
	Error      string
	DurationMS int64
	CreatedAt  time.Time
}

// Store implements command.Auditor on SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewStore(dbPath string, logger *slog.Logger) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Single connection for SQLite.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS command_log (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		command      TEXT NOT NULL,
		params       TEXT,
		ok           INTEGER NOT NULL,
		error_kind   TEXT,
		error        TEXT,
		duration_ms  INTEGER DEFAULT 0,
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_command_log_time ON command_log(created_at);
	CREATE INDEX IF NOT EXISTS idx_command_log_name ON command_log(command, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record appends one dispatch record.
func (s *Store) Record(ctx context.Context, e command.AuditEntry) error {
	paramsJSON, err := json.Marshal(e.Params)
	if err != nil {
		paramsJSON = []byte("{}")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO command_log (command, params, ok, error_kind, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Command, string(paramsJSON), boolInt(e.OK), e.ErrorKind, e.Error, e.DurationMS, time.Now(),
	)
	return err
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, command, params, ok, error_kind, error, duration_ms, created_at
		 FROM command_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ok int
		if err := rows.Scan(&e.ID, &e.Command, &e.Params, &ok, &e.ErrorKind, &e.Error, &e.DurationMS, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.OK = ok != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// Prune deletes entries older than the retention window.
func (s *Store) Prune(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	res, err := s.db.ExecContext(ctx, `DELETE FROM command_log WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		s.logger.Info("pruned command history", "removed", n, "retention_days", retentionDays)
	}
	return n, nil
}

func (s *Store) Close() error { return s.db.Close() }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ command.Auditor = (*Store)(nil)
