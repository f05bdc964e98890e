// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists the set of paper titles already delivered, so a
// paper is never notified twice across runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/litwatch/pkg/types"
)

const defaultMaxEntries = 5000

// Store owns the on-disk notification history, a SQLite file holding one
// row per normalized title. Connections are opened per operation: Load uses
// a read-only connection and Commit is the only code path that writes, so a
// run that never reaches Commit leaves the file untouched.
//
// The store is single-writer; concurrent runs against the same file are
// the caller's scheduling responsibility.
type Store struct {
	path       string
	maxEntries int
}

// New returns a store for the configured history file. Nothing is opened or
// created until an operation runs.
func New(cfg types.HistoryConfig) *Store {
	max := cfg.MaxEntries
	if max <= 0 {
		max = defaultMaxEntries
	}
	return &Store{path: cfg.Path, maxEntries: max}
}

const schema = `CREATE TABLE IF NOT EXISTS sent_titles (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	title   TEXT NOT NULL UNIQUE,
	sent_at TEXT NOT NULL
)`

// Load returns the set of normalized titles ever committed. It fails soft:
// a missing, unreadable, or corrupt history file yields an empty set, never
// an error.
func (s *Store) Load(ctx context.Context) map[string]struct{} {
	titles := make(map[string]struct{})

	db, err := sql.Open("sqlite3", "file:"+s.path+"?mode=ro")
	if err != nil {
		return titles
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT title FROM sent_titles`)
	if err != nil {
		return titles
	}
	defer rows.Close()

	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			continue
		}
		titles[title] = struct{}{}
	}
	return titles
}

// Commit appends the given titles to the history and evicts the oldest
// entries past the retention cap, all in one transaction. Titles are
// normalized before writing; duplicates collapse. The orchestrator must
// call Commit only after the delivery collaborator reported success.
func (s *Store) Commit(ctx context.Context, titles []string) error {
	if len(titles) == 0 {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating history schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting history transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, title := range titles {
		key := types.NormalizeTitle(title)
		if key == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO sent_titles (title, sent_at) VALUES (?, ?)`, key, now); err != nil {
			return fmt.Errorf("inserting history title: %w", err)
		}
	}

	// Oldest-first eviction keeps the history bounded.
	var count int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM sent_titles`).Scan(&count); err != nil {
		return fmt.Errorf("counting history titles: %w", err)
	}
	if excess := count - s.maxEntries; excess > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM sent_titles WHERE seq IN
				(SELECT seq FROM sent_titles ORDER BY seq ASC LIMIT ?)`, excess); err != nil {
			return fmt.Errorf("evicting history titles: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing history: %w", err)
	}
	return nil
}

// Count returns the number of retained titles. Unlike Load it propagates
// errors, since it backs the explicit inspection commands.
func (s *Store) Count(ctx context.Context) (int, error) {
	db, err := sql.Open("sqlite3", "file:"+s.path+"?mode=ro")
	if err != nil {
		return 0, fmt.Errorf("opening history database: %w", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRowContext(ctx, `SELECT count(*) FROM sent_titles`).Scan(&count); err != nil {
		if os.IsNotExist(statErr(s.path)) {
			return 0, nil
		}
		return 0, fmt.Errorf("counting history titles: %w", err)
	}
	return count, nil
}

// List returns up to limit titles, newest first. A limit of zero or less
// returns all titles.
func (s *Store) List(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = -1
	}
	db, err := sql.Open("sqlite3", "file:"+s.path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT title FROM sent_titles ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		if os.IsNotExist(statErr(s.path)) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing history titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// Clear removes the history file entirely. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing history file: %w", err)
	}
	return nil
}

func statErr(path string) error {
	_, err := os.Stat(path)
	return err
}
