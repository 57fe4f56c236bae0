// Package hooks implements the composition layer: hooks2, hooks3 and
// forsetHooks.
//
// Every dependency is injected under its own name (Leaves, money.Calculator)
// so a hook can never call itself by accident. forsetHooks passes the
// literal operands (1, 2) to its sub-calls whatever its own a and b are,
// and hooks2 does the same for addTwo, otherTest and calcMoney.
package hooks

import (
	"context"
	"fmt"

	"github.com/ljb782039954/project-sync-script/internal/money"
	"github.com/ljb782039954/project-sync-script/internal/observe"
	"github.com/ljb782039954/project-sync-script/internal/point"
)

// Function names as they appear in call records and the call graph.
const (
	Hooks2      = "hooks2"
	Hooks3      = "hooks3"
	ForsetHooks = "forsetHooks"
)

const (
	hooks2Offset      = 4
	hooks3Offset      = 5
	forsetHooksOffset = 7

	// Operands forwarded to sub-calls regardless of the caller's own.
	literalA = 1
	literalB = 2

	// Amount passed to calcMoney by hooks2.
	moneyAmount = 100
)

// Leaves is the set of leaf services the hooks compose.
type Leaves interface {
	AddTwo(ctx context.Context, a, b int64) int64
	OtherTest(ctx context.Context, a, b int64) int64
	NoLogTest(ctx context.Context, a, b int64) int64
}

// Composer hosts the hook functions.
type Composer struct {
	leaves Leaves
	money  money.Calculator
	rec    observe.Recorder
}

// New creates a Composer. A nil calculator becomes money.Missing and a nil
// recorder discards records.
func New(leaves Leaves, calc money.Calculator, rec observe.Recorder) *Composer {
	return &Composer{
		leaves: leaves,
		money:  money.OrMissing(calc),
		rec:    observe.OrNop(rec),
	}
}

// Hooks2 returns (a+b+4) + Point(1,2,3).Sum() + calcMoney(100) +
// addTwo(1,2) + otherTest(1,2).
func (c *Composer) Hooks2(ctx context.Context, a, b int64) (int64, error) {
	c.rec.Called(ctx, Hooks2, a, b)

	own := a + b + hooks2Offset
	anchor := point.New(1, 2, 3)

	amount, err := c.money.CalcMoney(ctx, moneyAmount)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", Hooks2, err)
	}
	added := c.leaves.AddTwo(ctx, literalA, literalB)
	other := c.leaves.OtherTest(ctx, literalA, literalB)

	return own + anchor.Sum() + amount + added + other, nil
}

// Hooks3 returns (a+b+5) + hooks2(a, b).
func (c *Composer) Hooks3(ctx context.Context, a, b int64) (int64, error) {
	c.rec.Called(ctx, Hooks3, a, b)

	own := a + b + hooks3Offset
	inner, err := c.Hooks2(ctx, a, b)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", Hooks3, err)
	}
	return own + inner, nil
}

// ForsetHooks returns (a+b+7) + noLogTest(1,2) + hooks2(1,2) + hooks3(1,2).
func (c *Composer) ForsetHooks(ctx context.Context, a, b int64) (int64, error) {
	c.rec.Called(ctx, ForsetHooks, a, b)

	own := a + b + forsetHooksOffset
	quiet := c.leaves.NoLogTest(ctx, literalA, literalB)

	second, err := c.Hooks2(ctx, literalA, literalB)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ForsetHooks, err)
	}
	third, err := c.Hooks3(ctx, literalA, literalB)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ForsetHooks, err)
	}
	return own + quiet + second + third, nil
}
