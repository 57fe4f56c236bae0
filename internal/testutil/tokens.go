package testutil

import (
	"fmt"
	"sync"
)

// DefaultTokenPrefix is used when a SequentialTokens is built with an
// empty prefix.
const DefaultTokenPrefix = "test-run"

// SequentialTokens hands out run tokens "<prefix>-0001", "<prefix>-0002", ...
//
// Each run needs a distinct token (it is the primary key of the runs
// table), but golden traces need the same tokens every time.
type SequentialTokens struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialTokens creates a generator with the given prefix.
func NewSequentialTokens(prefix string) *SequentialTokens {
	if prefix == "" {
		prefix = DefaultTokenPrefix
	}
	return &SequentialTokens{prefix: prefix}
}

// Generate returns the next token. Implements engine.RunTokenGenerator.
func (g *SequentialTokens) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}

// Reset rewinds the generator to its first token.
func (g *SequentialTokens) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
