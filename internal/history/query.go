// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const defaultLimit = 20

// ListOptions filters List results.
type ListOptions struct {
	// Source keeps runs whose source path contains this text.
	Source string

	// Since keeps runs created at or after this time.
	Since time.Time

	// Limit caps the result count. Zero uses 20.
	Limit int
}

// List returns runs newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Run, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT id, created_at, source, output, provider, pages, report FROM runs WHERE 1=1`)
	if opts.Source != "" {
		qb.WriteString(` AND source LIKE ?`)
		args = append(args, "%"+opts.Source+"%")
	}
	if !opts.Since.IsZero() {
		qb.WriteString(` AND created_at >= ?`)
		args = append(args, opts.Since.UTC().Format(timeLayout))
	}
	qb.WriteString(` ORDER BY created_at DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
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

// Get returns the run whose ID equals or uniquely starts with id.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, source, output, provider, pages, report FROM runs WHERE id LIKE ? LIMIT 2`,
		id+"%")
	if err != nil {
		return Run{}, fmt.Errorf("querying run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, err
		}
		if run.ID == id {
			return run, nil
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}
	switch len(found) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return found[0], nil
	}
	return Run{}, fmt.Errorf("ambiguous run id prefix %q", id)
}

// Sections returns the recorded section titles of a run in order.
func (s *Store) Sections(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT section FROM run_sections WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying sections: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sec string
		if err := rows.Scan(&sec); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run        Run
		created    string
		source     sql.NullString
		output     sql.NullString
		provider   sql.NullString
		reportJSON string
	)
	if err := rows.Scan(&run.ID, &created, &source, &output, &provider, &run.Pages, &reportJSON); err != nil {
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return Run{}, fmt.Errorf("parsing created_at: %w", err)
	}
	run.CreatedAt = t
	run.Source, run.Output, run.Provider = source.String, output.String, provider.String
	if err := json.Unmarshal([]byte(reportJSON), &run.Report); err != nil {
		return Run{}, fmt.Errorf("decoding report of %s: %w", run.ID, err)
	}
	return run, nil
}
