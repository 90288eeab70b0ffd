// Package history persists completed fetch runs in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  TIMESTAMP NOT NULL,
	start_date  TEXT NOT NULL,
	end_date    TEXT NOT NULL,
	wavelength  INTEGER NOT NULL,
	cadence     TEXT NOT NULL,
	output_dir  TEXT NOT NULL,
	total       INTEGER NOT NULL,
	succeeded   INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	elapsed_ms  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS files (
	run_id    TEXT NOT NULL REFERENCES runs(id),
	url       TEXT NOT NULL,
	filename  TEXT NOT NULL,
	status    TEXT NOT NULL,
	reason    TEXT NOT NULL,
	bytes     INTEGER NOT NULL,
	file_type TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_files_run ON files(run_id);
`

// Run is one recorded fetch invocation.
type Run struct {
	ID         string
	StartedAt  time.Time
	StartDate  string
	EndDate    string
	Wavelength int
	Cadence    string
	OutputDir  string
	Total      int
	Succeeded  int
	Skipped    int
	Failed     int
	Elapsed    time.Duration
}

// FileRecord is one file outcome within a run.
type FileRecord struct {
	URL      string
	Filename string
	Status   string
	Reason   string
	Bytes    int64
	FileType string
}

// Store wraps the history database. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// The sqlite driver serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent recorders.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores one completed run and its file outcomes atomically.
func (s *Store) RecordRun(ctx context.Context, run Run, files []FileRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, start_date, end_date, wavelength, cadence,
			output_dir, total, succeeded, skipped, failed, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.StartDate, run.EndDate, run.Wavelength,
		run.Cadence, run.OutputDir, run.Total, run.Succeeded, run.Skipped,
		run.Failed, run.Elapsed.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	for _, f := range files {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO files (run_id, url, filename, status, reason, bytes, file_type)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, f.URL, f.Filename, f.Status, f.Reason, f.Bytes, f.FileType)
		if err != nil {
			return fmt.Errorf("failed to record file outcome: %w", err)
		}
	}

	return tx.Commit()
}

// ListRuns returns up to limit runs, most recent first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, start_date, end_date, wavelength, cadence,
			output_dir, total, succeeded, skipped, failed, elapsed_ms
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var elapsedMs int64
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.StartDate, &r.EndDate,
			&r.Wavelength, &r.Cadence, &r.OutputDir, &r.Total, &r.Succeeded,
			&r.Skipped, &r.Failed, &elapsedMs); err != nil {
			return nil, err
		}
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListFiles returns the file outcomes of one run, in insertion order.
func (s *Store) ListFiles(ctx context.Context, runID string) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url, filename, status, reason, bytes, file_type
		 FROM files WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []FileRecord
	for rows.Next() {
		var f FileRecord
		if err := rows.Scan(&f.URL, &f.Filename, &f.Status, &f.Reason, &f.Bytes, &f.FileType); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
