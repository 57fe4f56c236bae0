package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ljb782039954/project-sync-script/internal/ir"
)

// AssertionError is returned when an assertion fails. It carries the full
// trace so the failure can be read without rerunning.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s(%d, %d) run=%s\n", ev.Seq, ev.Function, ev.A, ev.B, ev.Run)
	}
	return buf.String()
}

// assertTraceContains checks that some call of the function matches the
// expected operands (subset match; no args matches any call).
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, ev := range trace {
		if ev.Function == a.Function && matchArgs(ev, a.Args) {
			return nil
		}
	}

	expected := "call to " + a.Function
	if len(a.Args) > 0 {
		expected += " with args " + formatArgs(a.Args)
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the functions appear as a subsequence of the
// trace. Other calls may sit in between and a name may repeat.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	next := 0
	for _, ev := range trace {
		if next < len(a.Functions) && ev.Function == a.Functions[next] {
			next++
		}
	}
	if next == len(a.Functions) {
		return nil
	}

	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: fmt.Sprintf("functions in order: %v", a.Functions),
		Actual:   fmt.Sprintf("matched %v, then no %s", a.Functions[:next], a.Functions[next]),
		Trace:    trace,
	}
}

// assertTraceCount checks the exact number of calls of the function.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if ev.Function == a.Function {
			count++
		}
	}
	if count == a.Count {
		return nil
	}

	return &AssertionError{
		Type:     AssertTraceCount,
		Expected: fmt.Sprintf("%d calls of %s", a.Count, a.Function),
		Actual:   fmt.Sprintf("%d calls", count),
		Trace:    trace,
	}
}

// matchArgs compares the operands of a call against expected values for
// "a" and "b". Any other key never matches.
func matchArgs(ev TraceEvent, expected map[string]any) bool {
	for key, raw := range expected {
		v, err := ir.ToIRValue(raw)
		if err != nil {
			return false
		}
		n, ok := v.(ir.IRInt)
		if !ok {
			return false
		}

		switch key {
		case "a":
			if int64(n) != ev.A {
				return false
			}
		case "b":
			if int64(n) != ev.B {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func formatArgs(args map[string]any) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, args[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// EvaluateAssertions checks every assertion against the trace and returns
// one message per failure.
func EvaluateAssertions(trace []TraceEvent, assertions []Assertion) []string {
	var errs []string

	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(trace, a)
		case AssertTraceCount:
			err = assertTraceCount(trace, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}
