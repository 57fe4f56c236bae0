package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ljb782039954/project-sync-script/internal/ir"
	"github.com/ljb782039954/project-sync-script/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Run      string
	Function string // optional - filter calls to one function
}

// TraceResult is the trace of one run.
type TraceResult struct {
	Run   ir.Run     `json:"run"`
	Calls []ir.Call  `json:"calls"`
	Stats TraceStats `json:"stats"`
}

// TraceStats holds summary statistics for a run.
type TraceStats struct {
	TotalCalls int            `json:"total_calls"`
	ByFunction map[string]int `json:"by_function"`
}

// RunList is the output of trace without --run.
type RunList struct {
	Runs []ir.Run `json:"runs"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show recorded runs and calls",
		Long: `Show the runs recorded in a database, or the calls of one run.

Without --run every run is listed in seq order with its outcome. With
--run the calls made during that run are listed in the order they
happened.

Examples:
  hooks trace --db runs.db
  hooks trace --db runs.db --run 0190a6c1-...
  hooks trace --db runs.db --run 0190a6c1-... --function addTwo --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (defaults to store.path from config)")
	cmd.Flags().StringVar(&opts.Run, "run", "", "run token to trace")
	cmd.Flags().StringVar(&opts.Function, "function", "", "only show calls of this function")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	cfg, err := opts.config()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = cfg.StorePath
	}
	if dbPath == "" {
		return NewExitError(ExitCommandError, "no database: pass --db or set store.path in the config")
	}
	// Opening would create an empty database; a missing file is a user error.
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", dbPath))
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Run == "" {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		if opts.Format == "json" {
			return outputTraceJSON(cmd, RunList{Runs: runs})
		}
		writeRunList(cmd.OutOrStdout(), runs)
		return nil
	}

	result, err := buildTrace(ctx, st, opts.Run, opts.Function)
	if errors.Is(err, sql.ErrNoRows) {
		if opts.Format == "json" {
			formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
			_ = formatter.Error(CodeStore, fmt.Sprintf("run not found: %s", opts.Run), nil)
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.Run))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read trace", err)
	}

	if opts.Format == "json" {
		return outputTraceJSON(cmd, result)
	}
	writeTraceText(cmd.OutOrStdout(), result, opts.Verbose)
	return nil
}

// buildTrace reads a run and its calls, keeping only calls of function
// when it is set.
func buildTrace(ctx context.Context, st *store.Store, token, function string) (TraceResult, error) {
	run, err := st.ReadRun(ctx, token)
	if err != nil {
		return TraceResult{}, err
	}

	calls, err := st.ReadCalls(ctx, token)
	if err != nil {
		return TraceResult{}, err
	}

	result := TraceResult{
		Run:   run,
		Calls: []ir.Call{},
		Stats: TraceStats{ByFunction: map[string]int{}},
	}
	for _, c := range calls {
		if function != "" && c.Function != function {
			continue
		}
		result.Calls = append(result.Calls, c)
		result.Stats.ByFunction[c.Function]++
	}
	result.Stats.TotalCalls = len(result.Calls)
	return result, nil
}

// outputTraceJSON outputs a trace payload as indented JSON.
func outputTraceJSON(cmd *cobra.Command, data any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(CLIResponse{Status: "ok", Data: data})
}

func writeRunList(w io.Writer, runs []ir.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for _, r := range runs {
		fmt.Fprintf(w, "[%d] %s %s%s -> %s", r.Seq, r.Token, r.Function, formatOperands(r.Args), r.Outcome)
		if r.Outcome == ir.OutcomeOK {
			fmt.Fprintf(w, " %d", r.Result)
		}
		fmt.Fprintln(w)
	}
}

func writeTraceText(w io.Writer, r TraceResult, verbose bool) {
	fmt.Fprintf(w, "Trace for Run: %s\n", r.Run.Token)
	fmt.Fprintf(w, "Function: %s%s\n", r.Run.Function, formatOperands(r.Run.Args))
	fmt.Fprintf(w, "Outcome: %s\n", r.Run.Outcome)
	if r.Run.Outcome == ir.OutcomeOK {
		fmt.Fprintf(w, "Result: %d\n", r.Run.Result)
	} else if r.Run.Message != "" {
		fmt.Fprintf(w, "Message: %s\n", r.Run.Message)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Calls ===")
	if len(r.Calls) == 0 {
		fmt.Fprintln(w, "  (no calls)")
	}
	for _, c := range r.Calls {
		fmt.Fprintf(w, "  [%d] %s(%d, %d)\n", c.Seq, c.Function, c.A, c.B)
		if verbose {
			fmt.Fprintf(w, "       ID: %s\n", truncateID(c.ID))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Total Calls: %d\n", r.Stats.TotalCalls)
}

// formatOperands renders run args as "(a, b)", falling back to the raw
// object when they are not two integers.
func formatOperands(args ir.IRObject) string {
	a, aok := args["a"].(ir.IRInt)
	b, bok := args["b"].(ir.IRInt)
	if aok && bok && len(args) == 2 {
		return fmt.Sprintf("(%d, %d)", a, b)
	}
	data, err := ir.MarshalCanonical(args)
	if err != nil {
		return "(?)"
	}
	return "(" + string(data) + ")"
}

// truncateID truncates a long ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}
