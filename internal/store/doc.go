// Package store provides SQLite-backed storage for runs and call records.
//
// The store is an append-only log with two tables:
//   - runs: one row per top-level engine invocation
//   - calls: one row per recorded leaf or hook entry, keyed by a
//     content-addressed ID
//
// A run row is written as pending before the function executes and is
// completed exactly once afterwards. Call rows are never updated.
//
// All reads order by seq ASC then id/token COLLATE BINARY so that two
// stores holding the same events return them identically.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: calls must reference an existing run
package store
