package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ljb782039954/project-sync-script/internal/config"
	"github.com/ljb782039954/project-sync-script/internal/engine"
	"github.com/ljb782039954/project-sync-script/internal/helper"
	"github.com/ljb782039954/project-sync-script/internal/ir"
	"github.com/ljb782039954/project-sync-script/internal/money"
	"github.com/ljb782039954/project-sync-script/internal/store"
)

// InvokeOptions holds flags for the invoke command.
type InvokeOptions struct {
	*RootOptions
	Args     string
	Money    int64
	Database string
}

// InvokeResult is the payload of a successful invocation.
type InvokeResult struct {
	Function string    `json:"function"`
	Value    int64     `json:"value"`
	Run      string    `json:"run"`
	Seq      int64     `json:"seq"`
	Calls    []ir.Call `json:"calls"`
}

// NewInvokeCommand creates the invoke command.
func NewInvokeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InvokeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "invoke <function>",
		Short: "Invoke a function and print its result",
		Long: `Invoke a registered function with operands a and b.

The run and every call it makes are written to the store: the --db path,
else store.path from the config, else an in-memory database.

calcMoney is implemented only when --money or money.fixed is set. Without
it, hooks2 and everything above it fail with UNRESOLVED_DEPENDENCY.

Example:
  hooks invoke addTwo --args '{"a":1,"b":2}'
  hooks invoke targets --args '{"a":1,"b":2}' --money 0 --db runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return invokeFunction(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Args, "args", "{}", "function arguments as JSON")
	cmd.Flags().Int64Var(&opts.Money, "money", 0, "fixed value returned by calcMoney")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")

	return cmd
}

func invokeFunction(opts *InvokeOptions, name string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := opts.config()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	raw, err := decodeArgs(opts.Args)
	if err != nil {
		_ = formatter.Error(CodeInvalidArgument, fmt.Sprintf("invalid --args JSON: %v", err), nil)
		return WrapExitError(ExitCommandError, "invalid --args JSON", err)
	}

	dbPath := storePath(opts.Database, cfg)
	formatter.VerboseLog("store: %s", dbPath)

	st, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error(CodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	engOpts := []engine.Option{engine.WithStore(st)}
	if calc := moneyCalculator(cmd, opts.Money, cfg); calc != nil {
		engOpts = append(engOpts, engine.WithMoney(calc))
	}

	eng, err := engine.New(engOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create engine", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := eng.InvokeRaw(ctx, name, raw)
	if err != nil {
		details := map[string]string{"function": name}
		if res.Token != "" {
			details["run"] = res.Token
		}
		_ = formatter.Error(ErrorCode(err), err.Error(), details)
		return WrapExitError(ExitFailure, "invocation failed", err)
	}

	calls, err := st.ReadCalls(ctx, res.Token)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read calls", err)
	}

	result := InvokeResult{
		Function: name,
		Value:    res.Value,
		Run:      res.Token,
		Seq:      res.Seq,
		Calls:    calls,
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	writeInvokeText(cmd.OutOrStdout(), result)
	return nil
}

func writeInvokeText(w io.Writer, r InvokeResult) {
	fmt.Fprintln(w, helper.FormatMessage(r.Function))
	fmt.Fprintf(w, "result: %d\n", r.Value)
	fmt.Fprintf(w, "run:    %s\n", r.Run)
	if len(r.Calls) == 0 {
		return
	}
	fmt.Fprintln(w, "calls:")
	for _, c := range r.Calls {
		fmt.Fprintf(w, "  [%d] %s(%d, %d)\n", c.Seq, c.Function, c.A, c.B)
	}
}

// decodeArgs parses a JSON object, keeping numbers as json.Number so
// integers survive exactly and floats can be rejected later.
func decodeArgs(s string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("arguments must be a JSON object")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after arguments object")
	}
	return raw, nil
}

// storePath picks the flag, then the config, then an in-memory database.
func storePath(flag string, cfg *config.Config) string {
	switch {
	case flag != "":
		return flag
	case cfg.StorePath != "":
		return cfg.StorePath
	default:
		return store.MemoryPath
	}
}

// moneyCalculator returns the calcMoney implementation selected by
// --money or the config, or nil when neither sets one.
func moneyCalculator(cmd *cobra.Command, flag int64, cfg *config.Config) money.Calculator {
	if cmd.Flags().Changed("money") {
		return money.Fixed(flag)
	}
	if cfg.Money != nil {
		return money.Fixed(cfg.Money.Fixed)
	}
	return nil
}
