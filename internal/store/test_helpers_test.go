package store

import (
	"testing"

	"github.com/ljb782039954/project-sync-script/internal/ir"
)

// createTestStore creates a new in-memory store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a pending run with minimal required fields.
func createTestRun(token, function string, seq int64) ir.Run {
	return ir.Run{
		Token:         token,
		Function:      function,
		Args:          ir.OperandArgs(1, 2),
		Seq:           seq,
		EngineVersion: ir.EngineVersion,
	}
}

// createTestCall creates a call record with its content-addressed ID.
func createTestCall(runToken, function string, a, b, seq int64) ir.Call {
	return ir.Call{
		ID:       ir.MustCallID(runToken, function, a, b, seq),
		RunToken: runToken,
		Function: function,
		A:        a,
		B:        b,
		Seq:      seq,
	}
}
