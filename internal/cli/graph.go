package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ljb782039954/project-sync-script/internal/engine"
	"github.com/ljb782039954/project-sync-script/internal/graph"
)

// GraphOptions holds flags for the graph command.
type GraphOptions struct {
	*RootOptions
	Money int64
}

// FunctionInfo describes one registered function.
type FunctionInfo struct {
	Name       string   `json:"name"`
	Deps       []string `json:"deps"`
	Unresolved []string `json:"unresolved,omitempty"`
}

// GraphResult is the output of the graph command.
type GraphResult struct {
	Functions    []FunctionInfo `json:"functions"`
	Capabilities []string       `json:"capabilities"`
	Order        []string       `json:"order"`
	Issues       []graph.Issue  `json:"issues"`
}

// NewGraphCommand creates the graph command.
func NewGraphCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GraphOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show the call graph",
		Long: `Show every registered function with its dependencies, the order in
which they can be evaluated (dependencies first) and any issues.

Self-references are errors. Dependencies without an implementation are
warnings: the functions that do not reach them still work.

Exit codes:
  0 - No errors (warnings allowed)
  1 - The graph has errors

Examples:
  hooks graph
  hooks graph --money 0 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showGraph(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Money, "money", 0, "fixed value returned by calcMoney")

	return cmd
}

func showGraph(opts *GraphOptions, cmd *cobra.Command) error {
	cfg, err := opts.config()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	var engOpts []engine.Option
	if calc := moneyCalculator(cmd, opts.Money, cfg); calc != nil {
		engOpts = append(engOpts, engine.WithMoney(calc))
	}
	eng, err := engine.New(engOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create engine", err)
	}

	result, err := describeGraph(eng.Graph())
	if err != nil {
		return WrapExitError(ExitFailure, "failed to order graph", err)
	}

	return reportGraph(cmd, opts.Format, result)
}

// reportGraph writes result and fails when it carries error-level issues.
// Only a cycle is an error, and engine.New refuses cyclic registries, so
// for the engine's own graph this always succeeds.
func reportGraph(cmd *cobra.Command, format string, result GraphResult) error {
	errorCount := 0
	for _, issue := range result.Issues {
		if issue.Level == graph.LevelError {
			errorCount++
		}
	}

	if format == "json" {
		formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		if errorCount > 0 {
			_ = formatter.Error(CodeGraphIssues, fmt.Sprintf("%d graph error(s)", errorCount), result)
		} else if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		writeGraphText(cmd.OutOrStdout(), result)
	}

	if errorCount > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d graph error(s)", errorCount))
	}
	return nil
}

// describeGraph collects the graph into its printable form. A graph with
// a cycle has no order; the cycle is reported among the issues.
func describeGraph(g *graph.Graph) (GraphResult, error) {
	result := GraphResult{
		Functions:    []FunctionInfo{},
		Capabilities: g.Capabilities(),
		Order:        []string{},
		Issues:       g.Check(),
	}
	if result.Issues == nil {
		result.Issues = []graph.Issue{}
	}

	for _, name := range g.Functions() {
		deps := g.Deps(name)
		if deps == nil {
			deps = []string{}
		}
		result.Functions = append(result.Functions, FunctionInfo{
			Name:       name,
			Deps:       deps,
			Unresolved: g.Unresolved(name),
		})
	}

	if len(g.Cycles()) > 0 {
		return result, nil
	}
	order, err := g.Order()
	if err != nil {
		return result, err
	}
	result.Order = order
	return result, nil
}

func writeGraphText(w io.Writer, r GraphResult) {
	fmt.Fprintln(w, "Functions:")
	for _, fn := range r.Functions {
		if len(fn.Deps) == 0 {
			fmt.Fprintf(w, "  %s\n", fn.Name)
			continue
		}
		fmt.Fprintf(w, "  %s -> %s\n", fn.Name, strings.Join(fn.Deps, ", "))
	}

	fmt.Fprintf(w, "\nCapabilities: %s\n", strings.Join(r.Capabilities, ", "))
	if len(r.Order) > 0 {
		fmt.Fprintf(w, "Order: %s\n", strings.Join(r.Order, ", "))
	}

	if len(r.Issues) == 0 {
		fmt.Fprintln(w, "\nNo issues.")
		return
	}
	fmt.Fprintln(w, "\nIssues:")
	for _, issue := range r.Issues {
		fmt.Fprintf(w, "  %s %s: %s\n", issue.Level, issue.Function, issue.Message)
	}
}
