package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ljb782039954/project-sync-script/internal/engine"
	"github.com/ljb782039954/project-sync-script/internal/ir"
	"github.com/ljb782039954/project-sync-script/internal/money"
	"github.com/ljb782039954/project-sync-script/internal/store"
	"github.com/ljb782039954/project-sync-script/internal/testutil"
)

// Harness executes one scenario against its own engine and store.
type Harness struct {
	store  *store.Store
	engine *engine.Engine
	logger *slog.Logger
}

// Run executes a scenario with harness logs discarded.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(context.Background(), scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger executes a scenario and returns the result.
//
// A non-nil error means the scenario could not be executed at all. Failed
// expectations and assertions are reported in Result.Errors instead.
func RunWithLogger(ctx context.Context, scenario *Scenario, logger *slog.Logger) (*Result, error) {
	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	opts := []engine.Option{
		engine.WithStore(st),
		engine.WithClock(testutil.NewDeterministicClock()),
		engine.WithRunTokens(testutil.NewSequentialTokens(scenario.RunTokenPrefix)),
	}
	if scenario.Money != nil {
		opts = append(opts, engine.WithMoney(money.Fixed(*scenario.Money)))
	}

	eng, err := engine.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	h := &Harness{store: st, engine: eng, logger: logger}

	result := NewResult()
	for i, step := range scenario.Steps {
		h.executeStep(ctx, i, step, result)
	}

	trace, err := h.readTrace(ctx)
	if err != nil {
		return nil, err
	}
	result.Trace = trace

	for _, msg := range EvaluateAssertions(result.Trace, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) executeStep(ctx context.Context, index int, step Step, result *Result) {
	res, err := h.engine.InvokeRaw(ctx, step.Invoke, step.Args)

	sr := StepResult{Function: step.Invoke, Run: res.Token, Outcome: ir.OutcomeOK}
	if err != nil {
		sr.Outcome = engine.OutcomeError
		if code := ir.CodeOf(err); code != "" {
			sr.Outcome = string(code)
		}
	} else {
		sr.Value = res.Value
	}
	result.Steps = append(result.Steps, sr)

	h.logger.Debug("step executed",
		"index", index,
		"function", step.Invoke,
		"run", res.Token,
		"outcome", sr.Outcome,
	)

	prefix := fmt.Sprintf("step[%d] %s", index, step.Invoke)
	switch {
	case step.Expect == nil:
		if err != nil {
			result.AddError(fmt.Sprintf("%s: unexpected error: %v", prefix, err))
		}
	case step.Expect.Error != "":
		if err == nil {
			result.AddError(fmt.Sprintf("%s: expected error %s, got result %d", prefix, step.Expect.Error, res.Value))
		} else if sr.Outcome != step.Expect.Error {
			result.AddError(fmt.Sprintf("%s: expected error %s, got %v", prefix, step.Expect.Error, err))
		}
	case step.Expect.Result != nil:
		if err != nil {
			result.AddError(fmt.Sprintf("%s: expected result %d, got error %v", prefix, *step.Expect.Result, err))
		} else if res.Value != *step.Expect.Result {
			result.AddError(fmt.Sprintf("%s: expected result %d, got %d", prefix, *step.Expect.Result, res.Value))
		}
	}
}

// readTrace loads every persisted call in seq order.
func (h *Harness) readTrace(ctx context.Context) ([]TraceEvent, error) {
	calls, err := h.store.ReadAllCalls(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	trace := make([]TraceEvent, len(calls))
	for i, c := range calls {
		trace[i] = TraceEvent{Run: c.RunToken, Function: c.Function, A: c.A, B: c.B, Seq: c.Seq}
	}
	return trace, nil
}
