package engine

import "github.com/google/uuid"

// RunTokenGenerator produces the token that identifies one run.
// Implemented by UUIDv7Generator (production) and
// testutil.SequentialTokens (tests).
type RunTokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run tokens.
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a hyphenated UUIDv7. Panics if the system random
// source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
