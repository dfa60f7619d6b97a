package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/frbgen/internal/ir"
)

// RunInput is what a caller records after a successful resolution.
type RunInput struct {
	SourcePath string
	SourceHash string // ir.SourceHash of the source bytes
	File       *ir.ApiFile
}

// WriteRun records a resolution as a new run and returns it.
//
// The run gets a fresh UUID and the next seq value. The IR hash is computed
// here from the canonical JSON, so it always matches ir_json.
func (s *Store) WriteRun(ctx context.Context, in RunInput) (Run, error) {
	if in.File == nil {
		return Run{}, fmt.Errorf("write run: api file is nil")
	}

	irJSON, err := marshalFile(in.File)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	irHash, err := ir.FileHash(in.File)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return Run{}, fmt.Errorf("write run: next seq: %w", err)
	}

	run := Run{
		ID:          uuid.NewString(),
		Seq:         seq,
		SourcePath:  in.SourcePath,
		SourceHash:  in.SourceHash,
		IRHash:      irHash,
		IRVersion:   ir.IRVersion,
		File:        in.File,
		FuncCount:   len(in.File.Funcs),
		StructCount: len(in.File.StructPool),
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, source_path, source_hash, ir_hash, ir_version, ir_json, func_count, struct_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.SourcePath,
		run.SourceHash,
		run.IRHash,
		run.IRVersion,
		irJSON,
		run.FuncCount,
		run.StructCount,
	)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}

	return run, nil
}
