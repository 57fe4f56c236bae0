package engine

import (
	"context"
	"fmt"

	"github.com/ljb782039954/project-sync-script/internal/helper"
	"github.com/ljb782039954/project-sync-script/internal/hooks"
	"github.com/ljb782039954/project-sync-script/internal/ir"
	"github.com/ljb782039954/project-sync-script/internal/leaf"
	"github.com/ljb782039954/project-sync-script/internal/money"
	"github.com/ljb782039954/project-sync-script/internal/point"
	"github.com/ljb782039954/project-sync-script/internal/targets"
)

// CallFunc is the shape every registered function has.
type CallFunc func(ctx context.Context, a, b int64) (int64, error)

// Function is a named entry in the registry.
type Function struct {
	Name string

	// Deps lists the names the function calls, in call order. Each must be
	// another function or a provided capability.
	Deps []string

	Call CallFunc
}

func (f Function) validate() error {
	if f.Name == "" {
		return fmt.Errorf("function name is required")
	}
	if f.Call == nil {
		return fmt.Errorf("function %s has no implementation", f.Name)
	}
	return nil
}

func infallible(fn func(ctx context.Context, a, b int64) int64) CallFunc {
	return func(ctx context.Context, a, b int64) (int64, error) {
		return fn(ctx, a, b), nil
	}
}

// builtins wires the leaf services, hooks and targets together. All of them
// report to the engine's recorder.
func (e *Engine) builtins() []Function {
	rec := e.recorder()
	leaves := leaf.New(rec)
	composer := hooks.New(leaves, e.money, rec)
	entry := targets.New(composer, rec)

	return []Function{
		{Name: leaf.AddTwo, Call: infallible(leaves.AddTwo)},
		{Name: leaf.OtherTest, Call: infallible(leaves.OtherTest)},
		{Name: leaf.NoLogTest, Call: infallible(leaves.NoLogTest)},
		{
			Name: hooks.Hooks2,
			Deps: []string{point.Name, money.Name, leaf.AddTwo, leaf.OtherTest},
			Call: composer.Hooks2,
		},
		{
			Name: hooks.Hooks3,
			Deps: []string{hooks.Hooks2},
			Call: composer.Hooks3,
		},
		{
			Name: hooks.ForsetHooks,
			Deps: []string{leaf.NoLogTest, hooks.Hooks2, hooks.Hooks3},
			Call: composer.ForsetHooks,
		},
		{
			Name: targets.Targets,
			Deps: []string{hooks.ForsetHooks},
			Call: entry.Targets,
		},
		{
			Name: helper.CalculateSum,
			Call: func(_ context.Context, a, b int64) (int64, error) {
				return helper.Sum(a, b), nil
			},
		},
	}
}

// Register adds fn to the registry, replacing any custom function of the
// same name. Built-in names are rejected with RESERVED_NAME, since the
// built-ins call each other directly. A function that would reach itself
// through its dependencies is rejected with SELF_REFERENCE. On error the
// registry is left unchanged.
func (e *Engine) Register(fn Function) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkRegister(fn); err != nil {
		return err
	}
	return e.registerLocked(fn)
}

func (e *Engine) checkRegister(fn Function) error {
	if err := fn.validate(); err != nil {
		return err
	}
	if e.builtin[fn.Name] {
		return ir.NewReservedName(fn.Name)
	}
	return nil
}

func (e *Engine) registerLocked(fn Function) error {
	prev, existed := e.funcs[fn.Name]

	e.graph.Declare(fn.Name, fn.Deps...)
	for _, c := range e.graph.Cycles() {
		if !containsName(c.Path, fn.Name) {
			continue
		}
		if existed {
			e.graph.Declare(prev.Name, prev.Deps...)
		} else {
			e.graph.Remove(fn.Name)
		}
		return ir.NewSelfReference(fn.Name, c.String())
	}

	e.funcs[fn.Name] = fn
	return nil
}

func containsName(path []string, name string) bool {
	for _, p := range path {
		if p == name {
			return true
		}
	}
	return false
}
