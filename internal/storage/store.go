package storage

import (
	"context"
	"time"

	"inkanalyzer/internal/ir"
)

// Store persists scan runs and per-file results.
type Store interface {
	ScanStore
	Close() error
}

// ScanStore defines operations for recording scans.
type ScanStore interface {
	// BeginRun records the start of a scan over root.
	BeginRun(ctx context.Context, root string) (int64, error)

	// FinishRun records the totals of a finished scan.
	FinishRun(ctx context.Context, runID int64, files, errors int) error

	// CachedFile returns the last stored result for path, if any.
	CachedFile(ctx context.Context, path string) (*FileResult, error)

	// SaveFileResult upserts the file and attaches its diagnostics to the run.
	SaveFileResult(ctx context.Context, runID int64, res *FileResult) error

	// ListRuns returns the recorded runs, newest first.
	ListRuns(ctx context.Context) ([]Run, error)

	// RunDiagnostics returns the diagnostics recorded for a run.
	RunDiagnostics(ctx context.Context, runID int64) ([]DiagnosticRecord, error)
}

type Run struct {
	ID         int64     `json:"id"`
	Root       string    `json:"root"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Files      int       `json:"files"`
	Errors     int       `json:"errors"`
}

// DiagnosticRecord is a diagnostic with 1-based line/column positions.
type DiagnosticRecord struct {
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"end_line"`
	EndColumn int    `json:"end_column"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
}

type FileResult struct {
	Path        string             `json:"path"`
	ContentHash string             `json:"content_hash"`
	Snapshot    ir.Snapshot        `json:"snapshot"`
	Diagnostics []DiagnosticRecord `json:"diagnostics"`
}
