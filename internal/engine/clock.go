package engine

import "sync/atomic"

// SeqClock hands out strictly increasing logical sequence numbers.
// Runs and calls are ordered by seq, never by wall-clock time.
type SeqClock interface {
	Next() int64
}

// Clock is the production SeqClock. Safe for concurrent use.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first Next() is 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that continues after start. Used when an
// existing store already holds events up to start.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last value handed out without advancing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
