// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists extraction runs in SQLite and exports them as
// JSON or YAML. Each record is stored as its published JSON document next
// to a few indexed columns, so exports reproduce the extractor's output
// key for key.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pollharvest/internal/extract"
	"github.com/pdiddy/pollharvest/pkg/types"
)

// DefaultPath is the database used when StoreConfig.Path is empty.
const DefaultPath = "data/pollharvest.db"

// ErrNoRuns reports an empty store.
var ErrNoRuns = errors.New("no extraction runs stored")

// Store manages the run database.
type Store struct {
	db *sql.DB
}

// Run describes one stored extraction run.
type Run struct {
	ID          int64     `json:"id" yaml:"id"`
	Source      string    `json:"source" yaml:"source"`
	Mode        string    `json:"mode" yaml:"mode"`
	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`
	Summaries   int       `json:"summaries" yaml:"summaries"`
	Tables      int       `json:"tables" yaml:"tables"`
	Failures    int       `json:"failures" yaml:"failures"`
}

// Open opens or creates the database at cfg.Path and creates the schema
// if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			mode TEXT NOT NULL,
			extracted_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS chart_summaries (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			description TEXT,
			document TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS survey_tables (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			kind TEXT NOT NULL,
			description TEXT,
			document TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS failures (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			position INTEGER NOT NULL,
			message TEXT NOT NULL,
			PRIMARY KEY (run_id, kind, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_survey_tables_kind ON survey_tables(kind)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores res as a new run in one transaction and returns its ID.
func (s *Store) Save(ctx context.Context, source string, mode types.BatchMode, res *extract.Result, at time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if mode == "" {
		mode = types.ModeFailFast
	}
	r, err := tx.ExecContext(ctx,
		`INSERT INTO runs (source, mode, extracted_at) VALUES (?, ?, ?)`,
		source, string(mode), at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := r.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for i, sum := range res.Summaries {
		doc, err := json.Marshal(sum)
		if err != nil {
			return 0, fmt.Errorf("marshaling summary %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chart_summaries (run_id, position, description, document) VALUES (?, ?, ?, ?)`,
			runID, i, sum.Description, string(doc),
		); err != nil {
			return 0, fmt.Errorf("inserting summary %d: %w", i, err)
		}
	}

	for i, tbl := range res.Tables {
		doc, err := json.Marshal(tbl)
		if err != nil {
			return 0, fmt.Errorf("marshaling table %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO survey_tables (run_id, position, kind, description, document) VALUES (?, ?, ?, ?, ?)`,
			runID, i, string(tbl.Kind), tbl.Description, string(doc),
		); err != nil {
			return 0, fmt.Errorf("inserting table %d: %w", i, err)
		}
	}

	for _, f := range res.Failures {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO failures (run_id, kind, position, message) VALUES (?, ?, ?, ?)`,
			runID, string(f.Kind), f.Index, f.Error,
		); err != nil {
			return 0, fmt.Errorf("inserting failure %s %d: %w", f.Kind, f.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.source, r.mode, r.extracted_at,
			(SELECT count(*) FROM chart_summaries c WHERE c.run_id = r.id),
			(SELECT count(*) FROM survey_tables t WHERE t.run_id = r.id),
			(SELECT count(*) FROM failures f WHERE f.run_id = r.id)
		FROM runs r
		ORDER BY r.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LatestRun returns the ID of the newest run.
func (s *Store) LatestRun(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoRuns
	}
	if err != nil {
		return 0, fmt.Errorf("querying latest run: %w", err)
	}
	return id, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var at string
	if err := row.Scan(&run.ID, &run.Source, &run.Mode, &at, &run.Summaries, &run.Tables, &run.Failures); err != nil {
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return Run{}, fmt.Errorf("parsing run time %q: %w", at, err)
	}
	run.ExtractedAt = t
	return run, nil
}
