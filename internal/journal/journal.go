// Package journal persists per-document results to a local sqlite file.
//
// Rows are keyed by the document's source path, which is the stable
// identifier recovery uses to re-derive failed rows; titles are display
// strings and are never matched against filenames.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"litcoder/internal/schema"
)

const createTable = `
CREATE TABLE IF NOT EXISTS documents (
	path       TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL,
	title      TEXT NOT NULL,
	status     TEXT NOT NULL,
	record     TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// Entry is one journaled document result.
type Entry struct {
	Path      string
	RunID     string
	Title     string
	Status    string
	Record    schema.Record
	RecordRaw []byte
	UpdatedAt time.Time
}

type Journal struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (creating if needed) the journal at path. Use ":memory:" for an
// ephemeral journal.
func Open(path string, log *slog.Logger) (*Journal, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if _, err := db.Exec(createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	return &Journal{db: db, log: log}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// RecordResult upserts the result for a document. Re-processing the same
// path overwrites the previous row; insertion order of first appearance is
// preserved for export ordering.
func (j *Journal) RecordResult(ctx context.Context, runID, path, title, status string, rec schema.Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = j.db.ExecContext(ctx, `
INSERT INTO documents (path, run_id, title, status, record, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
	run_id = excluded.run_id,
	title = excluded.title,
	status = excluded.status,
	record = excluded.record,
	updated_at = excluded.updated_at`,
		path, runID, title, status, string(b), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("journal upsert %s: %w", path, err)
	}
	return nil
}

// All returns every journaled entry in first-seen order.
func (j *Journal) All(ctx context.Context) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT path, run_id, title, status, record, updated_at FROM documents ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("journal query: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			j.log.Warn("journal rows close error", "error", cerr)
		}
	}()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var raw, updated string
		if err := rows.Scan(&e.Path, &e.RunID, &e.Title, &e.Status, &raw, &updated); err != nil {
			return nil, fmt.Errorf("journal scan: %w", err)
		}
		e.RecordRaw = []byte(raw)
		if err := json.Unmarshal(e.RecordRaw, &e.Record); err != nil {
			return nil, fmt.Errorf("journal record decode %s: %w", e.Path, err)
		}
		if t, err := time.Parse(time.RFC3339, updated); err == nil {
			e.UpdatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// FailedDocs returns the entries recovery should re-process: rows whose run
// failed outright, rows dominated by the failure sentinel, and rows where
// the model answered with its own questions.
func (j *Journal) FailedDocs(ctx context.Context) ([]Entry, error) {
	entries, err := j.All(ctx)
	if err != nil {
		return nil, err
	}
	var failed []Entry
	for _, e := range entries {
		if needsRecovery(e) {
			failed = append(failed, e)
		}
	}
	return failed, nil
}

func needsRecovery(e Entry) bool {
	if e.Status == "FAILED" {
		return true
	}
	if e.Record.FailedFieldCount() >= 5 {
		return true
	}
	for _, v := range e.Record {
		if looksLikeQuestion(v) {
			return true
		}
	}
	return false
}

var questionPrefixes = []string{"What ", "How ", "Who ", "When ", "Where ", "Why "}

func looksLikeQuestion(v string) bool {
	for _, p := range questionPrefixes {
		if strings.HasPrefix(v, p) {
			return true
		}
	}
	return false
}
