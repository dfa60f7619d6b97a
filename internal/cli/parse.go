package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/frbgen/internal/compiler"
	"github.com/roach88/frbgen/internal/ir"
	"github.com/roach88/frbgen/internal/store"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	Output   string // output file path for canonical IR
	Database string // run store and cache (optional)
	Watch    bool
}

// ParseResult is the outcome of resolving one source file.
type ParseResult struct {
	SourcePath string                  `json:"source_path"`
	SourceHash string                  `json:"source_hash"`
	IRHash     string                  `json:"ir_hash"`
	RunID      string                  `json:"run_id,omitempty"`
	Seq        int64                   `json:"seq,omitempty"`
	Cached     bool                    `json:"cached"`
	File       *ir.ApiFile             `json:"ir"`
	Cycles     []compiler.CycleWarning `json:"cycles"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <file.rs>",
		Short: "Resolve a Rust file to IR",
		Long: `Resolve the public functions and structs of a Rust source file into IR.

Every pub fn must return Result<T>. Parameter and field types must be
primitives, String, Vec<T>, Box<T> or a pub struct defined in the same file.
Any unsupported construct rejects the whole file.

With --db, results are recorded as runs and an unchanged file is served
from the store. With --watch, the file is re-resolved on every write until
interrupted.

Examples:
  frbgen parse src/api.rs
  frbgen parse src/api.rs --format json -o api.ir.json
  frbgen parse src/api.rs --db ./frbgen.db --watch`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write canonical IR JSON to this file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run store (optional)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "re-resolve when the file changes")

	return cmd
}

func runParse(opts *ParseOptions, path string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)
	logger := opts.logger()

	var st *store.Store
	if db := opts.database(opts.Database); db != "" {
		var err error
		st, err = store.Open(db)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, fmt.Sprintf("opening database: %v", err), nil)
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
	}

	r := &parseRunner{
		opts:      opts,
		store:     st,
		formatter: formatter,
		logger:    logger,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !opts.Watch {
		return r.runOnce(ctx, path)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping watch", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	// A rejected file is reported but does not end the watch.
	_ = r.runOnce(ctx, path)
	err := watchFile(ctx, path, logger, func() {
		_ = r.runOnce(ctx, path)
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "watch failed", err)
	}
	return nil
}

// parseRunner resolves one file and reports the outcome.
type parseRunner struct {
	opts      *ParseOptions
	store     *store.Store
	formatter *OutputFormatter
	logger    *slog.Logger
}

func (r *parseRunner) runOnce(ctx context.Context, path string) error {
	result, err := r.resolve(ctx, path)
	if err != nil {
		return r.fail(err)
	}

	if r.opts.Output != "" {
		if err := writeIRToFile(result.File, r.opts.Output); err != nil {
			_ = r.formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	}

	if r.formatter.IsStructured() {
		return r.formatter.Success(result)
	}
	printParseResult(r.formatter, result)
	if r.opts.Output != "" {
		fmt.Fprintf(r.formatter.Writer, "Wrote canonical IR to %s\n", r.opts.Output)
	}
	return nil
}

// resolve reads path and returns its IR, consulting the store first.
func (r *parseRunner) resolve(ctx context.Context, path string) (*ParseResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		SourcePath: path,
		SourceHash: ir.SourceHash(content),
	}

	if r.store != nil {
		run, err := r.store.FindBySourceHash(ctx, result.SourceHash)
		switch {
		case err == nil:
			r.logger.Debug("serving cached run", "run_id", run.ID, "seq", run.Seq)
			result.fromRun(run, true)
			return result, nil
		case !errors.Is(err, store.ErrRunNotFound):
			return nil, fmt.Errorf("%w: %w", errStore, err)
		}
	}

	file, err := compiler.ParseSource(ctx, r.opts.sourceParser(), content, path, compiler.WithLogger(r.logger))
	if err != nil {
		return nil, err
	}

	if r.store != nil {
		run, err := r.store.WriteRun(ctx, store.RunInput{
			SourcePath: path,
			SourceHash: result.SourceHash,
			File:       file,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errStore, err)
		}
		r.logger.Debug("recorded run", "run_id", run.ID, "seq", run.Seq)
		run.File = file
		result.fromRun(run, false)
		return result, nil
	}

	hash, err := ir.FileHash(file)
	if err != nil {
		return nil, err
	}
	result.File = file
	result.IRHash = hash
	result.Cycles = compiler.AnalyzeStructCycles(file)
	return result, nil
}

func (p *ParseResult) fromRun(run store.Run, cached bool) {
	p.RunID = run.ID
	p.Seq = run.Seq
	p.IRHash = run.IRHash
	p.Cached = cached
	p.File = run.File
	p.Cycles = compiler.AnalyzeStructCycles(run.File)
}

var errStore = errors.New("store error")

// fail reports a resolution failure and returns the matching exit error.
func (r *parseRunner) fail(err error) error {
	code := ErrorCode(err)
	exitCode := ExitFailure
	switch {
	case errors.Is(err, errStore):
		code = ErrCodeStore
		exitCode = ExitCommandError
	case code == ErrCodeNotFound:
		exitCode = ExitCommandError
	case code == ErrCodeGeneric:
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			code = ErrCodeReadFailed
			exitCode = ExitCommandError
		}
	}

	_ = r.formatter.Error(code, err.Error(), errorDetails(err))
	return WrapExitError(exitCode, code, err)
}

// printParseResult renders a resolved file as human-readable text.
func printParseResult(f *OutputFormatter, result *ParseResult) {
	w := f.Writer
	file := result.File

	status := "Resolved"
	if result.Cached {
		status = "Cached"
	}
	fmt.Fprintf(w, "✓ %s %d function(s), %d struct(s) from %s\n\n",
		status, len(file.Funcs), len(file.StructPool), result.SourcePath)

	printFile(f, file)

	if len(result.Cycles) > 0 {
		fmt.Fprintln(w, "Recursive structs:")
		for _, c := range result.Cycles {
			fmt.Fprintf(w, "  [%s] %s\n", c.Level, c.Message)
		}
		fmt.Fprintln(w)
	}

	if result.RunID != "" {
		fmt.Fprintf(w, "Run: %s (seq %d)\n", result.RunID, result.Seq)
	}
	fmt.Fprintf(w, "IR hash: %s\n", result.IRHash)
}

// writeIRToFile writes the IR to a file in canonical JSON format.
func writeIRToFile(file *ir.ApiFile, filename string) error {
	data, err := ir.MarshalCanonical(file)
	if err != nil {
		return fmt.Errorf("marshaling IR: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
