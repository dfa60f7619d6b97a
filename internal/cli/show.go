package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/frbgen/internal/compiler"
	"github.com/roach88/frbgen/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
}

// ShowResult is a stored run together with its recursive struct groups.
type ShowResult struct {
	store.Run
	Cycles []compiler.CycleWarning `json:"cycles"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the IR of a recorded run",
		Long: `Print the IR stored for a run. The IR is re-validated after loading;
a run whose IR no longer satisfies the IR invariants is reported as invalid.

Examples:
  frbgen show 0b6f8c1e-... --db ./frbgen.db
  frbgen show 0b6f8c1e-... --db ./frbgen.db --format yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run store")

	return cmd
}

func runShow(opts *ShowOptions, runID string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)

	st, err := openExistingStore(opts.RootOptions, opts.Database, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	run, err := st.ReadRun(ctx, runID)
	if errors.Is(err, store.ErrRunNotFound) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("run not found: %s", runID), nil)
		return WrapExitError(ExitCommandError, "run not found", err)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, fmt.Sprintf("reading run: %v", err), nil)
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	if verrs := compiler.ValidateFile(run.File); len(verrs) > 0 {
		_ = formatter.Error(ErrCodeInvalidIR,
			fmt.Sprintf("stored IR for run %s failed validation with %d error(s)", runID, len(verrs)), verrs)
		if !formatter.IsStructured() {
			for _, v := range verrs {
				fmt.Fprintf(formatter.Writer, "  %s\n", v.Error())
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%s: invalid IR", ErrCodeInvalidIR))
	}

	result := ShowResult{Run: run, Cycles: compiler.AnalyzeStructCycles(run.File)}
	if formatter.IsStructured() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run %s (seq %d)\n", run.ID, run.Seq)
	fmt.Fprintf(w, "Source: %s\n", run.SourcePath)
	fmt.Fprintf(w, "IR hash: %s (IR version %s)\n\n", run.IRHash, run.IRVersion)
	printFile(formatter, run.File)
	for _, c := range result.Cycles {
		fmt.Fprintf(w, "[%s] %s\n", c.Level, c.Message)
	}
	return nil
}

// openExistingStore opens the run store named by flag or config. Unlike
// parse, read-only commands refuse to create a new database.
func openExistingStore(opts *RootOptions, flag string, formatter *OutputFormatter) (*store.Store, error) {
	db := opts.database(flag)
	if db == "" {
		_ = formatter.Error(ErrCodeNotFound, "no database: pass --db or set db in the config file", nil)
		return nil, NewExitError(ExitCommandError, "database path required")
	}
	if _, err := os.Stat(db); err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", db), nil)
		return nil, WrapExitError(ExitCommandError, "database not found", err)
	}

	st, err := store.Open(db)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, fmt.Sprintf("opening database: %v", err), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}
