package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			root TEXT,
			started_at INTEGER,
			finished_at INTEGER,
			files INTEGER DEFAULT 0,
			errors INTEGER DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			content_hash TEXT,
			snapshot JSON,
			diagnostics JSON,
			run_id INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS diagnostics (
			run_id INTEGER,
			path TEXT,
			line INTEGER,
			col INTEGER,
			end_line INTEGER,
			end_col INTEGER,
			severity TEXT,
			message TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_diagnostics_run ON diagnostics(run_id);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) BeginRun(ctx context.Context, root string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (root, started_at) VALUES (?, ?)`, root, time.Now().UnixNano())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) FinishRun(ctx context.Context, runID int64, files, errors int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, files = ?, errors = ? WHERE id = ?`,
		time.Now().UnixNano(), files, errors, runID)
	return err
}

func (s *SQLiteStore) CachedFile(ctx context.Context, path string) (*FileResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT path, content_hash, snapshot, diagnostics FROM files WHERE path = ?`, path)

	var res FileResult
	var snapshot, diags []byte
	if err := row.Scan(&res.Path, &res.ContentHash, &snapshot, &diags); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &res.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot of %s: %w", path, err)
		}
	}
	if len(diags) > 0 {
		if err := json.Unmarshal(diags, &res.Diagnostics); err != nil {
			return nil, fmt.Errorf("failed to decode diagnostics of %s: %w", path, err)
		}
	}
	return &res, nil
}

func (s *SQLiteStore) SaveFileResult(ctx context.Context, runID int64, res *FileResult) error {
	snapshot, err := json.Marshal(res.Snapshot)
	if err != nil {
		return err
	}
	diags, err := json.Marshal(res.Diagnostics)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Upsert the file
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO files (path, content_hash, snapshot, diagnostics, run_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content_hash=excluded.content_hash,
			snapshot=excluded.snapshot,
			diagnostics=excluded.diagnostics,
			run_id=excluded.run_id
	`, res.Path, res.ContentHash, snapshot, diags, runID); err != nil {
		return err
	}

	// 2. Attach diagnostics to the run
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO diagnostics (run_id, path, line, col, end_line, end_col, severity, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range res.Diagnostics {
		if _, err := stmt.ExecContext(ctx, runID, d.Path, d.Line, d.Column, d.EndLine, d.EndColumn, d.Severity, d.Message); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, root, started_at, COALESCE(finished_at, 0), files, errors FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		if err := rows.Scan(&r.ID, &r.Root, &started, &finished, &r.Files, &r.Errors); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = time.Unix(0, started)
		if finished != 0 {
			r.FinishedAt = time.Unix(0, finished)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) RunDiagnostics(ctx context.Context, runID int64) ([]DiagnosticRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, line, col, end_line, end_col, severity, message
		FROM diagnostics WHERE run_id = ? ORDER BY path, line, col
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DiagnosticRecord
	for rows.Next() {
		var d DiagnosticRecord
		if err := rows.Scan(&d.Path, &d.Line, &d.Column, &d.EndLine, &d.EndColumn, &d.Severity, &d.Message); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
