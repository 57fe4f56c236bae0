// Package engine is the name-based dispatcher for the hook functions.
//
// The engine owns the function registry and its call graph. Invoke looks
// a function up by name, validates the dynamic {"a", "b"} arguments, checks
// that every transitive dependency has an implementation and then runs it
// under a fresh run token.
//
// Every run is:
//   - stamped with a run token (UUIDv7) and a logical seq from Clock
//   - written to the store as pending before the function executes and
//     completed with its outcome afterwards
//   - wrapped in an OpenTelemetry span
//
// Every leaf or hook entry inside the run is recorded as a call row with
// its own seq, logged through slog and added as a span event.
//
// Validation and unresolved-dependency errors return before anything is
// written. Errors raised while the function runs complete the run with the
// error code as its outcome and are returned unchanged.
package engine
