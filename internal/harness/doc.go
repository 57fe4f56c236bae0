// Package harness runs YAML scenarios against the engine.
//
// A scenario lists function invocations with their expected result or error
// code, plus assertions on the recorded call trace:
//
//	name: targets_literal_args
//	money: 0
//	steps:
//	  - invoke: targets
//	    args: {a: 1, b: 2}
//	    expect:
//	      result: 86
//	assertions:
//	  - type: trace_count
//	    function: hooks2
//	    count: 2
//
// Every scenario runs against a fresh in-memory store with a deterministic
// clock and sequential run tokens, so the same file always yields the same
// trace. The trace is read back from the store rather than collected in
// memory, which exercises the persistence path as well.
//
// Golden snapshots (golden/<name>.golden next to the scenario files) hold
// the canonical JSON of the step results and the trace. Regenerate them with:
//
//	go test ./internal/harness -update
package harness
