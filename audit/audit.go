// Package audit keeps an operational trail of manuscript analyses in
// SQLite: which file, which models served, how long it took, and how it
// ended. It is telemetry for operators, not part of the report pipeline.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one recorded analysis.
type Entry struct {
	EntryID         string `json:"entry_id"`
	Timestamp       int64  `json:"timestamp"` // unix millis
	FileName        string `json:"file_name"`
	ContentType     string `json:"content_type"`
	SizeBytes       int64  `json:"size_bytes"`
	WordCount       int    `json:"word_count"`
	CharCount       int    `json:"char_count"`
	ExtractionModel string `json:"extraction_model"`
	ScoringModel    string `json:"scoring_model"`
	DurationMS      int64  `json:"duration_ms"`
	Status          string `json:"status"` // ok | error
	Error           string `json:"error,omitempty"`
}

// Logger records analysis entries.
type Logger interface {
	Log(ctx context.Context, e Entry) error
}

// Open opens (creating if needed) the audit database at path.
// Use ":memory:" for an ephemeral trail.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: set WAL: %w", err)
	}
	return db, nil
}

// SQLiteLogger persists entries to a SQLite table.
type SQLiteLogger struct {
	db *sql.DB
}

// NewSQLiteLogger wraps an open database. Call Init before logging.
func NewSQLiteLogger(db *sql.DB) *SQLiteLogger {
	return &SQLiteLogger{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS analysis_log (
	entry_id         TEXT PRIMARY KEY,
	timestamp        INTEGER NOT NULL,
	file_name        TEXT NOT NULL,
	content_type     TEXT NOT NULL DEFAULT '',
	size_bytes       INTEGER NOT NULL DEFAULT 0,
	word_count       INTEGER NOT NULL DEFAULT 0,
	char_count       INTEGER NOT NULL DEFAULT 0,
	extraction_model TEXT NOT NULL DEFAULT '',
	scoring_model    TEXT NOT NULL DEFAULT '',
	duration_ms      INTEGER NOT NULL DEFAULT 0,
	status           TEXT NOT NULL DEFAULT 'ok',
	error            TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_analysis_log_timestamp ON analysis_log(timestamp);
`

// Init creates the audit table if missing.
func (l *SQLiteLogger) Init() error {
	if _, err := l.db.Exec(schema); err != nil {
		return fmt.Errorf("audit: init schema: %w", err)
	}
	return nil
}

// Log writes one entry, filling id, timestamp, and status defaults.
func (l *SQLiteLogger) Log(ctx context.Context, e Entry) error {
	if e.EntryID == "" {
		e.EntryID = uuid.NewString()
	}
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().UnixMilli()
	}
	if e.Status == "" {
		e.Status = "ok"
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO analysis_log (
			entry_id, timestamp, file_name, content_type, size_bytes,
			word_count, char_count, extraction_model, scoring_model,
			duration_ms, status, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.EntryID, e.Timestamp, e.FileName, e.ContentType, e.SizeBytes,
		e.WordCount, e.CharCount, e.ExtractionModel, e.ScoringModel,
		e.DurationMS, e.Status, e.Error)
	if err != nil {
		return fmt.Errorf("audit: insert entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (l *SQLiteLogger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT entry_id, timestamp, file_name, content_type, size_bytes,
		       word_count, char_count, extraction_model, scoring_model,
		       duration_ms, status, error
		FROM analysis_log ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: query recent: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.EntryID, &e.Timestamp, &e.FileName, &e.ContentType, &e.SizeBytes,
			&e.WordCount, &e.CharCount, &e.ExtractionModel, &e.ScoringModel,
			&e.DurationMS, &e.Status, &e.Error); err != nil {
			return nil, fmt.Errorf("audit: scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (l *SQLiteLogger) Close() error {
	return l.db.Close()
}
