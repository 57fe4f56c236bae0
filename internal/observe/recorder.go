package observe

import (
	"context"
	"sync"
)

// Recorder receives one record per function entry.
type Recorder interface {
	Called(ctx context.Context, function string, a, b int64)
}

// RecorderFunc adapts a plain function to Recorder.
type RecorderFunc func(ctx context.Context, function string, a, b int64)

// Called implements Recorder.
func (f RecorderFunc) Called(ctx context.Context, function string, a, b int64) {
	f(ctx, function, a, b)
}

// Nop discards every record.
type Nop struct{}

// Called implements Recorder.
func (Nop) Called(context.Context, string, int64, int64) {}

// Multi fans a record out to every recorder in order.
type Multi []Recorder

// Called implements Recorder.
func (m Multi) Called(ctx context.Context, function string, a, b int64) {
	for _, r := range m {
		r.Called(ctx, function, a, b)
	}
}

// OrNop returns r, or Nop if r is nil.
func OrNop(r Recorder) Recorder {
	if r == nil {
		return Nop{}
	}
	return r
}

type runTokenKey struct{}

// WithRunToken attaches the run token of the current engine invocation.
func WithRunToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, runTokenKey{}, token)
}

// RunToken returns the run token attached to ctx, or "".
func RunToken(ctx context.Context) string {
	token, _ := ctx.Value(runTokenKey{}).(string)
	return token
}

// Entry is one record kept by Memory.
type Entry struct {
	Run      string
	Function string
	A        int64
	B        int64
}

// Memory keeps records in order. Safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemory creates an empty in-memory recorder.
func NewMemory() *Memory {
	return &Memory{}
}

// Called implements Recorder.
func (m *Memory) Called(ctx context.Context, function string, a, b int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Run: RunToken(ctx), Function: function, A: a, B: b})
}

// Entries returns a copy of the recorded entries.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Functions returns the recorded function names in call order.
func (m *Memory) Functions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Function
	}
	return out
}

// Reset drops all entries.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
}
