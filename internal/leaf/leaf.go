// Package leaf implements the arithmetic leaf services: addTwo, otherTest
// and noLogTest. Each adds a fixed offset to the sum of its operands and
// records the call.
package leaf

import (
	"context"

	"github.com/ljb782039954/project-sync-script/internal/observe"
)

// Function names as they appear in call records and the call graph.
const (
	AddTwo    = "addTwo"
	OtherTest = "otherTest"
	NoLogTest = "noLogTest"
)

// Fixed per-function offsets.
const (
	addTwoOffset    = 2
	otherTestOffset = 3
	noLogTestOffset = 6
)

// Service hosts the leaf functions. The zero value records nothing.
type Service struct {
	rec observe.Recorder
}

// New creates a Service reporting calls to rec (nil means discard).
func New(rec observe.Recorder) *Service {
	return &Service{rec: observe.OrNop(rec)}
}

func (s *Service) called(ctx context.Context, function string, a, b int64) {
	if s.rec != nil {
		s.rec.Called(ctx, function, a, b)
	}
}

// AddTwo returns a+b+2.
func (s *Service) AddTwo(ctx context.Context, a, b int64) int64 {
	s.called(ctx, AddTwo, a, b)
	return a + b + addTwoOffset
}

// OtherTest returns a+b+3.
func (s *Service) OtherTest(ctx context.Context, a, b int64) int64 {
	s.called(ctx, OtherTest, a, b)
	return a + b + otherTestOffset
}

// NoLogTest returns a+b+6. Despite the name it records its call like the others.
func (s *Service) NoLogTest(ctx context.Context, a, b int64) int64 {
	s.called(ctx, NoLogTest, a, b)
	return a + b + noLogTestOffset
}
