// Package store is the persistent audit log of guest session activity
// (SPEC_FULL.md §2.3): one row per session-driver lifetime, one row per
// export call, one row per completed HTTP request. It is additive only —
// nothing it records feeds back into guest-visible behavior, and it is
// never consulted from inside a host import, only written to after the
// fact. Grounded on the teacher's internal/db package: same
// Open/goose-migration/embed.FS shape, minus the legacy
// schema_migrations bootstrap, which has no analog here since this
// schema has no predecessor to migrate from.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Store wraps a sql.DB connection to the audit-log SQLite database.
type Store struct {
	conn *sql.DB
}

// SessionRun is one row per guest session (one CLI `run` invocation).
type SessionRun struct {
	ID         string
	PluginPath string
	StartedAt  string
	EndedAt    *string
	Outcome    *string
}

// ExportCall is one row per session-driver call (get_manga_list,
// get_chapter_list, …), recording the allocate/free counts that back
// testable property 6 so an operator can audit descriptor-leak
// regressions after the fact.
type ExportCall struct {
	ID                   int64
	SessionRunID         string
	ExportName           string
	Page                 *int32
	DescriptorsAllocated int
	DescriptorsFreed     int
	Outcome              string
	DurationMS           int64
}

// HTTPRequestLog is one row per completed net.send.
type HTTPRequestLog struct {
	ID            int64
	SessionRunID  string
	Method        string
	URL           string
	StatusCode    int32
	BodyBytes     int
}

// Open creates a new Store connection and runs all pending migrations.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	migrationsFS, err := fs.Sub(MigrationFS, "migrations")
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrations sub-fs: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, conn, migrationsFS)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create migration provider: %w", err)
	}

	if _, err := provider.Up(context.Background()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &Store{conn: conn}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// InsertSessionRun starts a new session run record.
func (s *Store) InsertSessionRun(r *SessionRun) error {
	_, err := s.conn.Exec(
		`INSERT INTO session_runs (id, plugin_path, started_at, ended_at, outcome) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.PluginPath, r.StartedAt, r.EndedAt, r.Outcome,
	)
	if err != nil {
		return fmt.Errorf("insert session run: %w", err)
	}
	return nil
}

// FinishSessionRun records a session run's end time and outcome.
func (s *Store) FinishSessionRun(id, endedAt, outcome string) error {
	_, err := s.conn.Exec(
		`UPDATE session_runs SET ended_at = ?, outcome = ? WHERE id = ?`,
		endedAt, outcome, id,
	)
	if err != nil {
		return fmt.Errorf("finish session run %s: %w", id, err)
	}
	return nil
}

// GetSessionRun retrieves a single session run by ID.
func (s *Store) GetSessionRun(id string) (*SessionRun, error) {
	r := &SessionRun{}
	err := s.conn.QueryRow(
		`SELECT id, plugin_path, started_at, ended_at, outcome FROM session_runs WHERE id = ?`, id,
	).Scan(&r.ID, &r.PluginPath, &r.StartedAt, &r.EndedAt, &r.Outcome)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session run %s: %w", id, err)
	}
	return r, nil
}

// ListSessionRuns returns session runs ordered by started_at descending.
func (s *Store) ListSessionRuns(limit, offset int) ([]SessionRun, error) {
	rows, err := s.conn.Query(
		`SELECT id, plugin_path, started_at, ended_at, outcome FROM session_runs ORDER BY started_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list session runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var runs []SessionRun
	for rows.Next() {
		var r SessionRun
		if err := rows.Scan(&r.ID, &r.PluginPath, &r.StartedAt, &r.EndedAt, &r.Outcome); err != nil {
			return nil, fmt.Errorf("scan session run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// InsertExportCall records one session-driver call.
func (s *Store) InsertExportCall(c *ExportCall) (int64, error) {
	res, err := s.conn.Exec(
		`INSERT INTO export_calls (session_run_id, export_name, page, descriptors_allocated, descriptors_freed, outcome, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.SessionRunID, c.ExportName, c.Page, c.DescriptorsAllocated, c.DescriptorsFreed, c.Outcome, c.DurationMS,
	)
	if err != nil {
		return 0, fmt.Errorf("insert export call: %w", err)
	}
	return res.LastInsertId()
}

// ListExportCalls returns export calls for a session run, ordered by id.
func (s *Store) ListExportCalls(sessionRunID string) ([]ExportCall, error) {
	rows, err := s.conn.Query(
		`SELECT id, session_run_id, export_name, page, descriptors_allocated, descriptors_freed, outcome, duration_ms
		 FROM export_calls WHERE session_run_id = ? ORDER BY id ASC`, sessionRunID,
	)
	if err != nil {
		return nil, fmt.Errorf("list export calls: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var calls []ExportCall
	for rows.Next() {
		var c ExportCall
		if err := rows.Scan(&c.ID, &c.SessionRunID, &c.ExportName, &c.Page, &c.DescriptorsAllocated, &c.DescriptorsFreed, &c.Outcome, &c.DurationMS); err != nil {
			return nil, fmt.Errorf("scan export call: %w", err)
		}
		calls = append(calls, c)
	}
	return calls, rows.Err()
}

// DescriptorLeaks returns export calls where allocated != freed, a direct
// audit of testable property 6 (no leaked descriptors across a driver
// call's scoped-cleanup boundary).
func (s *Store) DescriptorLeaks(sessionRunID string) ([]ExportCall, error) {
	rows, err := s.conn.Query(
		`SELECT id, session_run_id, export_name, page, descriptors_allocated, descriptors_freed, outcome, duration_ms
		 FROM export_calls WHERE session_run_id = ? AND descriptors_allocated != descriptors_freed ORDER BY id ASC`,
		sessionRunID,
	)
	if err != nil {
		return nil, fmt.Errorf("list descriptor leaks: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var calls []ExportCall
	for rows.Next() {
		var c ExportCall
		if err := rows.Scan(&c.ID, &c.SessionRunID, &c.ExportName, &c.Page, &c.DescriptorsAllocated, &c.DescriptorsFreed, &c.Outcome, &c.DurationMS); err != nil {
			return nil, fmt.Errorf("scan export call: %w", err)
		}
		calls = append(calls, c)
	}
	return calls, rows.Err()
}

// InsertHTTPRequestLog records one completed net.send.
func (s *Store) InsertHTTPRequestLog(l *HTTPRequestLog) (int64, error) {
	res, err := s.conn.Exec(
		`INSERT INTO http_request_log (session_run_id, method, url, status_code, body_bytes) VALUES (?, ?, ?, ?, ?)`,
		l.SessionRunID, l.Method, l.URL, l.StatusCode, l.BodyBytes,
	)
	if err != nil {
		return 0, fmt.Errorf("insert http request log: %w", err)
	}
	return res.LastInsertId()
}

// ListHTTPRequestLog returns HTTP request log entries for a session run.
func (s *Store) ListHTTPRequestLog(sessionRunID string) ([]HTTPRequestLog, error) {
	rows, err := s.conn.Query(
		`SELECT id, session_run_id, method, url, status_code, body_bytes FROM http_request_log WHERE session_run_id = ? ORDER BY id ASC`,
		sessionRunID,
	)
	if err != nil {
		return nil, fmt.Errorf("list http request log: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var logs []HTTPRequestLog
	for rows.Next() {
		var l HTTPRequestLog
		if err := rows.Scan(&l.ID, &l.SessionRunID, &l.Method, &l.URL, &l.StatusCode, &l.BodyBytes); err != nil {
			return nil, fmt.Errorf("scan http request log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
