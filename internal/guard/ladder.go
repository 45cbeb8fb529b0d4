package guard

import "time"

// Ladder is the escalating wait schedule of a guarded call: one grace period,
// then each tier in turn. Work still running after the last tier is reclaimed.
type Ladder struct {
	Grace time.Duration
	Tiers []time.Duration
}

// DefaultLadder returns 1s grace followed by three 60s tiers.
func DefaultLadder() Ladder {
	return Ladder{
		Grace: time.Second,
		Tiers: []time.Duration{time.Minute, time.Minute, time.Minute},
	}
}

// Total returns the longest a caller can block on a guarded call.
func (l Ladder) Total() time.Duration {
	total := l.Grace
	for _, tier := range l.Tiers {
		total += tier
	}
	return total
}
