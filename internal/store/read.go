package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/frbgen/internal/ir"
)

// ErrRunNotFound is returned when no run matches a lookup.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded resolution.
type Run struct {
	ID          string      `json:"id" yaml:"id"`
	Seq         int64       `json:"seq" yaml:"seq"`
	SourcePath  string      `json:"source_path" yaml:"source_path"`
	SourceHash  string      `json:"source_hash" yaml:"source_hash"`
	IRHash      string      `json:"ir_hash" yaml:"ir_hash"`
	IRVersion   string      `json:"ir_version" yaml:"ir_version"`
	File        *ir.ApiFile `json:"ir,omitempty" yaml:"ir,omitempty"`
	FuncCount   int         `json:"func_count" yaml:"func_count"`
	StructCount int         `json:"struct_count" yaml:"struct_count"`
}

const runColumns = `id, seq, source_path, source_hash, ir_hash, ir_version, ir_json, func_count, struct_count`

// findBySourceHashQuery is served by idx_runs_source_hash.
const findBySourceHashQuery = `
	SELECT ` + runColumns + `
	FROM runs
	WHERE source_hash = ? AND ir_version = ?
	ORDER BY seq DESC
	LIMIT 1
`

// ReadRun retrieves a single run by ID.
// Returns an error wrapping ErrRunNotFound if it does not exist.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %q: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %q: %w", id, err)
	}
	return run, nil
}

// FindBySourceHash returns the newest run recorded for a source hash.
// Only runs written with the current IR version are considered, so a
// version bump invalidates the cache.
func (s *Store) FindBySourceHash(ctx context.Context, sourceHash string) (Run, error) {
	row := s.db.QueryRowContext(ctx, findBySourceHashQuery, sourceHash, ir.IRVersion)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("find run by source hash: %w", ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("find run by source hash: %w", err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns all
// runs. The IR itself is not loaded; File is nil on every returned run.
//
// Returns empty slice (not nil) if the store is empty.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, seq, source_path, source_hash, ir_hash, ir_version, func_count, struct_count
		FROM runs
		ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID,
			&run.Seq,
			&run.SourcePath,
			&run.SourceHash,
			&run.IRHash,
			&run.IRVersion,
			&run.FuncCount,
			&run.StructCount,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// scanRun scans a full run row, including the IR.
func scanRun(row *sql.Row) (Run, error) {
	var (
		run    Run
		irJSON string
	)
	if err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.SourcePath,
		&run.SourceHash,
		&run.IRHash,
		&run.IRVersion,
		&irJSON,
		&run.FuncCount,
		&run.StructCount,
	); err != nil {
		return Run{}, err
	}

	file, err := unmarshalFile(irJSON)
	if err != nil {
		return Run{}, err
	}
	run.File = file
	return run, nil
}
