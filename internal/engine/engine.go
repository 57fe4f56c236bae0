package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ljb782039954/project-sync-script/internal/graph"
	"github.com/ljb782039954/project-sync-script/internal/ir"
	"github.com/ljb782039954/project-sync-script/internal/money"
	"github.com/ljb782039954/project-sync-script/internal/observe"
	"github.com/ljb782039954/project-sync-script/internal/point"
	"github.com/ljb782039954/project-sync-script/internal/store"
)

// TracerName is the instrumentation scope of engine spans.
const TracerName = "github.com/ljb782039954/project-sync-script/internal/engine"

// OutcomeError is the run outcome for a failure that carries no ErrorCode.
const OutcomeError = "ERROR"

// Engine dispatches functions by name. Invoke is safe for concurrent use.
type Engine struct {
	mu      sync.RWMutex
	funcs   map[string]Function
	builtin map[string]bool
	graph   *graph.Graph

	store  *store.Store
	clock  SeqClock
	tokens RunTokenGenerator
	money  money.Calculator
	extra  observe.Recorder
	tracer trace.Tracer
	added  []Function
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore persists runs and calls to s. Without a store nothing is
// persisted.
func WithStore(s *store.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithClock replaces the logical clock. Default: a Clock resuming after
// the store's highest seq.
func WithClock(c SeqClock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithRunTokens replaces the run-token generator. Default: UUIDv7Generator.
func WithRunTokens(g RunTokenGenerator) Option {
	return func(e *Engine) { e.tokens = g }
}

// WithMoney provides the calcMoney capability. Without it every function
// that reaches calcMoney fails with UNRESOLVED_DEPENDENCY.
func WithMoney(c money.Calculator) Option {
	return func(e *Engine) { e.money = c }
}

// WithRecorder adds a recorder that sees every call next to the built-in
// store, log and span recorders.
func WithRecorder(r observe.Recorder) Option {
	return func(e *Engine) { e.extra = r }
}

// WithTracer replaces the tracer. Default: otel.Tracer(TracerName) from the
// global provider.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// WithFunctions registers extra functions after the built-in ones.
func WithFunctions(fns ...Function) Option {
	return func(e *Engine) { e.added = append(e.added, fns...) }
}

// New creates an Engine with the built-in functions registered.
// It fails if a function added with WithFunctions is invalid, reuses a
// built-in name or refers to itself.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		funcs:  make(map[string]Function),
		graph:  graph.New(),
		tokens: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}

	e.money = money.OrMissing(e.money)
	if e.tracer == nil {
		e.tracer = otel.Tracer(TracerName)
	}
	if e.clock == nil {
		start := int64(0)
		if e.store != nil {
			seq, err := e.store.MaxSeq(context.Background())
			if err != nil {
				return nil, fmt.Errorf("resume clock: %w", err)
			}
			start = seq
		}
		e.clock = NewClockAt(start)
	}

	e.graph.Provide(point.Name)
	if money.Resolved(e.money) {
		e.graph.Provide(money.Name)
	}

	e.builtin = make(map[string]bool)
	for _, fn := range e.builtins() {
		if err := e.registerLocked(fn); err != nil {
			return nil, err
		}
		e.builtin[fn.Name] = true
	}
	for _, fn := range e.added {
		if err := e.checkRegister(fn); err != nil {
			return nil, err
		}
		if err := e.registerLocked(fn); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// recorder is what the built-in functions report to.
func (e *Engine) recorder() observe.Recorder {
	recs := observe.Multi{
		observe.RecorderFunc(e.recordCall),
		observe.NewLogRecorder(nil),
		observe.SpanRecorder{},
	}
	if e.extra != nil {
		recs = append(recs, e.extra)
	}
	return recs
}

// Functions returns the registered names, sorted.
func (e *Engine) Functions() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.funcs))
	for name := range e.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Graph returns the call graph. Callers must not modify it.
func (e *Engine) Graph() *graph.Graph {
	return e.graph
}

// Result describes a finished run.
type Result struct {
	Token    string `json:"token,omitempty"`
	Function string `json:"function"`
	Value    int64  `json:"value"`
	Seq      int64  `json:"seq,omitempty"`
}

// InvokeRaw is Invoke for arguments decoded from JSON or YAML. Values that
// are not representable (floats, null) are INVALID_ARGUMENT errors.
func (e *Engine) InvokeRaw(ctx context.Context, name string, raw map[string]any) (Result, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make(ir.IRObject, len(raw))
	for _, k := range keys {
		v, err := ir.ToIRValue(raw[k])
		if err != nil {
			return Result{Function: name}, ir.NewInvalidArgument(name, k, "is not valid: "+err.Error())
		}
		args[k] = v
	}
	return e.Invoke(ctx, name, args)
}

// Invoke runs the function registered under name with args {"a", "b"}.
func (e *Engine) Invoke(ctx context.Context, name string, args ir.IRObject) (Result, error) {
	res := Result{Function: name}

	e.mu.RLock()
	fn, ok := e.funcs[name]
	var missing []string
	if ok {
		missing = e.graph.Unresolved(name)
	}
	e.mu.RUnlock()

	if !ok {
		return res, ir.NewUnknownFunction(name)
	}

	if err := ir.CheckKnownArgs(name, args, "a", "b"); err != nil {
		return res, err
	}
	a, err := ir.IntArg(name, args, "a")
	if err != nil {
		return res, err
	}
	b, err := ir.IntArg(name, args, "b")
	if err != nil {
		return res, err
	}

	if len(missing) > 0 {
		return res, ir.NewUnresolvedDependency(name, missing[0])
	}

	res.Token = e.tokens.Generate()
	res.Seq = e.clock.Next()

	if e.store != nil {
		run := ir.Run{
			Token:         res.Token,
			Function:      name,
			Args:          ir.OperandArgs(a, b),
			Outcome:       ir.OutcomePending,
			Seq:           res.Seq,
			EngineVersion: ir.EngineVersion,
		}
		if err := e.store.WriteRun(ctx, run); err != nil {
			return res, fmt.Errorf("invoke %s: %w", name, err)
		}
	}

	ctx = observe.WithRunToken(ctx, res.Token)
	ctx, span := e.tracer.Start(ctx, name, trace.WithAttributes(
		observe.AttrFunction.String(name),
		observe.AttrA.Int64(a),
		observe.AttrB.Int64(b),
		observe.AttrRun.String(res.Token),
	))
	defer span.End()

	argsHash, err := ir.ArgsHash(ir.OperandArgs(a, b))
	if err != nil {
		return res, fmt.Errorf("invoke %s: %w", name, err)
	}
	slog.Debug("run started", "function", name, "run", res.Token, "seq", res.Seq, "args_hash", argsHash)

	value, callErr := fn.Call(ctx, a, b)

	outcome, message := ir.OutcomeOK, ""
	if callErr != nil {
		outcome = OutcomeError
		if code := ir.CodeOf(callErr); code != "" {
			outcome = string(code)
		}
		message = callErr.Error()
		value = 0

		span.RecordError(callErr)
		span.SetStatus(codes.Error, message)
		slog.Warn("run failed", "function", name, "run", res.Token, "outcome", outcome, "error", callErr)
	} else {
		span.SetAttributes(observe.AttrResult.Int64(value))
		span.SetStatus(codes.Ok, "")
		slog.Info("run completed", "function", name, "run", res.Token, "result", value)
	}

	if e.store != nil {
		if err := e.store.CompleteRun(ctx, res.Token, outcome, value, message); err != nil {
			if callErr != nil {
				slog.Error("failed to complete run", "run", res.Token, "error", err)
				return res, callErr
			}
			return res, fmt.Errorf("invoke %s: %w", name, err)
		}
	}

	if callErr != nil {
		return res, callErr
	}
	res.Value = value
	return res, nil
}

// recordCall writes one call row for the run attached to ctx. Calls made
// outside a run, or without a store, are not persisted. Write failures are
// logged and do not fail the run.
func (e *Engine) recordCall(ctx context.Context, function string, a, b int64) {
	if e.store == nil {
		return
	}
	token := observe.RunToken(ctx)
	if token == "" {
		return
	}

	seq := e.clock.Next()
	id, err := ir.CallID(token, function, a, b, seq)
	if err != nil {
		slog.Warn("failed to hash call", "function", function, "run", token, "error", err)
		return
	}

	call := ir.Call{ID: id, RunToken: token, Function: function, A: a, B: b, Seq: seq}
	if err := e.store.WriteCall(ctx, call); err != nil {
		slog.Warn("failed to persist call", "function", function, "run", token, "seq", seq, "error", err)
	}
}
