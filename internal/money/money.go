// Package money provides the calcMoney capability used by hooks2.
//
// The capability is injected rather than looked up by name. Missing is the
// default and fails every call with UNRESOLVED_DEPENDENCY.
package money

import (
	"context"

	"github.com/ljb782039954/project-sync-script/internal/ir"
)

// Name is the dependency name calcMoney is known by in the call graph.
const Name = "calcMoney"

// Calculator computes a money amount.
type Calculator interface {
	CalcMoney(ctx context.Context, amount int64) (int64, error)
}

// Func adapts a plain function to Calculator.
type Func func(ctx context.Context, amount int64) (int64, error)

// CalcMoney implements Calculator.
func (f Func) CalcMoney(ctx context.Context, amount int64) (int64, error) {
	return f(ctx, amount)
}

// Fixed ignores the amount and always returns its own value.
type Fixed int64

// CalcMoney implements Calculator.
func (f Fixed) CalcMoney(context.Context, int64) (int64, error) {
	return int64(f), nil
}

// Missing stands in for an absent implementation.
type Missing struct{}

// CalcMoney implements Calculator.
func (Missing) CalcMoney(context.Context, int64) (int64, error) {
	return 0, ir.NewUnresolvedDependency("", Name)
}

// Resolved reports whether c is a real implementation.
func Resolved(c Calculator) bool {
	if c == nil {
		return false
	}
	_, missing := c.(Missing)
	return !missing
}

// OrMissing returns c, or Missing if c is nil.
func OrMissing(c Calculator) Calculator {
	if c == nil {
		return Missing{}
	}
	return c
}
