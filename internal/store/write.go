package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ljb782039954/project-sync-script/internal/ir"
)

// ErrRunNotPending is returned by CompleteRun when the run does not exist
// or has already been completed.
var ErrRunNotPending = errors.New("run is not pending")

// WriteRun inserts a run record. Duplicate tokens are silently ignored.
// The run's Outcome defaults to pending when empty.
func (s *Store) WriteRun(ctx context.Context, run ir.Run) error {
	argsJSON, err := marshalArgs(run.Args)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	outcome := run.Outcome
	if outcome == "" {
		outcome = ir.OutcomePending
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(token, function, args, outcome, result, message, seq, engine_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		run.Token,
		run.Function,
		argsJSON,
		outcome,
		run.Result,
		run.Message,
		run.Seq,
		run.EngineVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// CompleteRun records the outcome of a pending run. A run is completed at
// most once; a second call returns ErrRunNotPending.
func (s *Store) CompleteRun(ctx context.Context, token, outcome string, result int64, message string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET outcome = ?, result = ?, message = ?
		WHERE token = ? AND outcome = ?
	`, outcome, result, message, token, ir.OutcomePending)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("complete run %s: %w", token, ErrRunNotPending)
	}
	return nil
}

// WriteCall inserts a call record. Duplicate IDs are silently ignored.
// The run referenced by RunToken must exist (foreign key constraint).
func (s *Store) WriteCall(ctx context.Context, call ir.Call) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calls
		(id, run_token, function, a, b, seq)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		call.ID,
		call.RunToken,
		call.Function,
		call.A,
		call.B,
		call.Seq,
	)
	if err != nil {
		return fmt.Errorf("write call: %w", err)
	}
	return nil
}
