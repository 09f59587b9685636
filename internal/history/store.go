// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records generation runs in a SQLite database so past
// decks can be listed, inspected and exported.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/texslides/pkg/types"
)

const (
	dbFile = "history.db"

	// timeLayout is fixed-width so stored timestamps sort as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// ErrNotFound is returned when no run matches an ID.
var ErrNotFound = errors.New("run not found")

// Run is one recorded generation.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Source    string    `json:"source" yaml:"source"`
	Output    string    `json:"output" yaml:"output"`
	Provider  string    `json:"provider" yaml:"provider"`

	// Pages is the compiled PDF page count, 0 when not compiled.
	Pages int `json:"pages" yaml:"pages"`

	Report types.Report `json:"report" yaml:"report"`
}

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates dir/history.db and its schema.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
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
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			source TEXT,
			output TEXT,
			provider TEXT,
			title TEXT,
			slides INTEGER,
			max_slides INTEGER,
			degraded INTEGER,
			pages INTEGER NOT NULL DEFAULT 0,
			report TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_sections (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			section TEXT NOT NULL,
			image_path TEXT,
			core_equation TEXT,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores run and its section assets. An empty ID is filled with a new
// UUID and a zero CreatedAt with the current time.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	reportJSON, err := json.Marshal(run.Report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, source, output, provider, title, slides, max_slides, degraded, pages, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(timeLayout), run.Source, run.Output, run.Provider,
		run.Report.Title, run.Report.SlidesGenerated, run.Report.MaxSlides, run.Report.DegradedCount,
		run.Pages, string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_sections (run_id, position, section, image_path, core_equation) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range run.Report.SectionAssets {
		if _, err := stmt.ExecContext(ctx, run.ID, i, a.Section, a.ImagePath, a.CoreEquation); err != nil {
			return fmt.Errorf("inserting section %q: %w", a.Section, err)
		}
	}
	return tx.Commit()
}

// SetPages records the compiled page count of a run.
func (s *Store) SetPages(ctx context.Context, id string, pages int) error {
	res, err := s.db.ExecContext(ctx, `UPDATE runs SET pages = ? WHERE id = ?`, pages, id)
	if err != nil {
		return fmt.Errorf("updating pages: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Delete removes a run and its sections.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
