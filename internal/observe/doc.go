// Package observe replaces global console logging with an injected
// Recorder. Every leaf and hook announces itself through Recorder.Called
// when it is entered; what happens to that record (slog line, span event,
// in-memory list, SQLite row) depends on the Recorder the caller wires in.
//
// Recording is diagnostic only. A Recorder never influences a result and
// never returns an error.
package observe
