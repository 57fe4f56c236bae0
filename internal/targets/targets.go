// Package targets implements the top-level aggregator.
package targets

import (
	"context"
	"fmt"

	"github.com/ljb782039954/project-sync-script/internal/observe"
)

// Targets is the function name in call records and the call graph.
const Targets = "targets"

const targetsOffset = 8

// Forset is the composition targets builds on.
type Forset interface {
	ForsetHooks(ctx context.Context, a, b int64) (int64, error)
}

// Entry hosts the targets function.
type Entry struct {
	forset Forset
	rec    observe.Recorder
}

// New creates an Entry on top of forset.
func New(forset Forset, rec observe.Recorder) *Entry {
	return &Entry{forset: forset, rec: observe.OrNop(rec)}
}

// Targets returns forsetHooks(1, 2) + (a+b+8). The sub-call always gets
// the literal operands (1, 2).
func (e *Entry) Targets(ctx context.Context, a, b int64) (int64, error) {
	e.rec.Called(ctx, Targets, a, b)

	forset, err := e.forset.ForsetHooks(ctx, 1, 2)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", Targets, err)
	}
	return forset + a + b + targetsOffset, nil
}
