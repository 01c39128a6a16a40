// Package store provides a SQLite-backed ledger of the files each renderer
// wrote, so later runs can tell owned output from hand-written files and
// remove output that a run no longer produces.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/julianshen/dotnetdocs/internal/render"
)

// Entry is one recorded output file.
type Entry struct {
	Path      string
	RunID     string
	Assembly  string
	Renderer  string
	Hash      string
	WrittenAt time.Time
}

// Ledger wraps a SQLite database of rendered files.
type Ledger struct {
	db *sql.DB
}

// NewRunID returns a fresh identifier for one generation run.
func NewRunID() string {
	return uuid.New().String()
}

// Hash returns the hex sha256 of content, as stored in Entry.Hash.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// NewLedger opens (or creates) a SQLite database at dbPath and ensures the
// ledger table exists. Use ":memory:" for an in-memory database.
func NewLedger(dbPath string) (*Ledger, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Renderers record from several goroutines; one connection keeps
	// ":memory:" databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rendered_files (
			path       TEXT PRIMARY KEY,
			run_id     TEXT NOT NULL,
			assembly   TEXT NOT NULL,
			renderer   TEXT NOT NULL,
			hash       TEXT NOT NULL,
			written_at DATETIME NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS rendered_files_assembly ON rendered_files (assembly, run_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Record stores that renderer wrote content to path for assembly during
// runID. A path has a single owner; recording it again replaces the entry.
func (l *Ledger) Record(runID, assembly, renderer, path string, content []byte) error {
	_, err := l.db.Exec(
		`INSERT OR REPLACE INTO rendered_files (path, run_id, assembly, renderer, hash, written_at)
		 VALUES (?, ?, ?, ?, ?, datetime('now'))`,
		cleanPath(path), runID, assembly, renderer, Hash(content),
	)
	if err != nil {
		return fmt.Errorf("record %s: %w", path, err)
	}
	return nil
}

// Owned returns the entry for path, or nil if no run wrote it.
func (l *Ledger) Owned(path string) (*Entry, error) {
	var e Entry
	err := l.db.QueryRow(
		`SELECT path, run_id, assembly, renderer, hash, written_at
		 FROM rendered_files WHERE path = ?`, cleanPath(path),
	).Scan(&e.Path, &e.RunID, &e.Assembly, &e.Renderer, &e.Hash, &e.WrittenAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rendered file: %w", err)
	}
	return &e, nil
}

// Stale returns the entries recorded for the given assemblies by runs other
// than runID, sorted by path. With no assemblies every assembly is checked.
func (l *Ledger) Stale(runID string, assemblies ...string) ([]Entry, error) {
	query := `SELECT path, run_id, assembly, renderer, hash, written_at
		 FROM rendered_files WHERE run_id <> ?`
	args := []any{runID}
	if len(assemblies) > 0 {
		query += ` AND assembly IN (?` + strings.Repeat(", ?", len(assemblies)-1) + `)`
		for _, a := range assemblies {
			args = append(args, a)
		}
	}
	query += ` ORDER BY path`

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stale files: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.RunID, &e.Assembly, &e.Renderer, &e.Hash, &e.WrittenAt); err != nil {
			return nil, fmt.Errorf("scan rendered file: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Forget removes the entries for paths.
func (l *Ledger) Forget(paths ...string) error {
	for _, p := range paths {
		if _, err := l.db.Exec(`DELETE FROM rendered_files WHERE path = ?`, cleanPath(p)); err != nil {
			return fmt.Errorf("forget %s: %w", p, err)
		}
	}
	return nil
}

func cleanPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// RunRecorder records the files of one assembly in one run.
type RunRecorder struct {
	ledger   *Ledger
	runID    string
	assembly string
}

// compile-time check: RunRecorder implements render.Recorder.
var _ render.Recorder = (*RunRecorder)(nil)

// Recorder returns a render.Recorder bound to runID and assembly.
func (l *Ledger) Recorder(runID, assembly string) *RunRecorder {
	return &RunRecorder{ledger: l, runID: runID, assembly: assembly}
}

// Record implements render.Recorder.
func (r *RunRecorder) Record(renderer, path string, content []byte) error {
	return r.ledger.Record(r.runID, r.assembly, renderer, path, content)
}
