package search

import (
	"sync/atomic"
	"time"
)

// DefaultCooldown is how long the vector path stays suppressed after a
// detected backend failure.
const DefaultCooldown = 60 * time.Second

// Breaker tracks whether the vector backend is currently considered usable.
// It is a single process-wide timestamp shared by every in-flight query: after
// a failure, doomed vector queries are skipped for one cool-down window, then
// simply attempted again. It never blocks; it only informs mode selection.
type Breaker struct {
	cooldown time.Duration
	// unavailable-until, unix nanoseconds. Zero means available.
	until atomic.Int64
}

// NewBreaker builds a Breaker with the given cool-down. A non-positive
// cooldown falls back to DefaultCooldown.
func NewBreaker(cooldown time.Duration) *Breaker {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Breaker{cooldown: cooldown}
}

// Available reports whether the vector path may be attempted.
func (b *Breaker) Available() bool {
	return time.Now().UnixNano() >= b.until.Load()
}

// MarkUnavailable suppresses the vector path for one cool-down window.
func (b *Breaker) MarkUnavailable() {
	b.until.Store(time.Now().Add(b.cooldown).UnixNano())
}
