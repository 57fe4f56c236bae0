package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ljb782039954/project-sync-script/internal/ir"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// ReadRun retrieves a single run by token.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, token string) (ir.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT token, function, args, outcome, result, message, seq, engine_version
		FROM runs
		WHERE token = ?
	`, token)
	return scanRun(row)
}

// ListRuns returns every run ordered by seq ASC, token ASC.
// Returns an empty slice (not nil) for an empty store.
func (s *Store) ListRuns(ctx context.Context) ([]ir.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, function, args, outcome, result, message, seq, engine_version
		FROM runs
		ORDER BY seq ASC, token COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadCalls returns the call records of one run ordered by seq ASC, id ASC.
// Returns an empty slice (not nil) if the run recorded nothing.
func (s *Store) ReadCalls(ctx context.Context, runToken string) ([]ir.Call, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_token, function, a, b, seq
		FROM calls
		WHERE run_token = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runToken)
	if err != nil {
		return nil, fmt.Errorf("query calls: %w", err)
	}
	defer rows.Close()
	return collectCalls(rows)
}

// ReadAllCalls returns every call record across runs ordered by seq ASC.
func (s *Store) ReadAllCalls(ctx context.Context) ([]ir.Call, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_token, function, a, b, seq
		FROM calls
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query all calls: %w", err)
	}
	defer rows.Close()
	return collectCalls(rows)
}

func collectCalls(rows *sql.Rows) ([]ir.Call, error) {
	calls := []ir.Call{}
	for rows.Next() {
		var c ir.Call
		if err := rows.Scan(&c.ID, &c.RunToken, &c.Function, &c.A, &c.B, &c.Seq); err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		calls = append(calls, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calls: %w", err)
	}
	return calls, nil
}

func scanRun(row rowScanner) (ir.Run, error) {
	var (
		run      ir.Run
		argsJSON string
	)
	err := row.Scan(
		&run.Token,
		&run.Function,
		&argsJSON,
		&run.Outcome,
		&run.Result,
		&run.Message,
		&run.Seq,
		&run.EngineVersion,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return ir.Run{}, err
		}
		return ir.Run{}, fmt.Errorf("scan run: %w", err)
	}

	run.Args, err = unmarshalArgs(argsJSON)
	if err != nil {
		return ir.Run{}, err
	}
	return run, nil
}
