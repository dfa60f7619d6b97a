package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/frbgen/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// RunsResult holds the listed runs.
type RunsResult struct {
	Runs  []store.Run `json:"runs"`
	Count int         `json:"count"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs",
		Long: `List runs recorded by "frbgen parse --db", newest first.

Examples:
  frbgen runs --db ./frbgen.db
  frbgen runs --db ./frbgen.db --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run store")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 for all)")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
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

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, fmt.Sprintf("listing runs: %v", err), nil)
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if formatter.IsStructured() {
		return formatter.Success(RunsResult{Runs: runs, Count: len(runs)})
	}

	w := formatter.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-5s  %-36s  %5s  %7s  %s\n", "SEQ", "ID", "FUNCS", "STRUCTS", "SOURCE")
	for _, run := range runs {
		fmt.Fprintf(w, "%-5d  %-36s  %5d  %7d  %s\n",
			run.Seq, run.ID, run.FuncCount, run.StructCount, run.SourcePath)
	}
	return nil
}
