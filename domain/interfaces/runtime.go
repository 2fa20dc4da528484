package interfaces

import (
	"time"

	"inncoin/domain/events"
)

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// RandomSource supplies uniform random numbers
type RandomSource interface {
	// Float64 returns a value in [0, 1)
	Float64() float64

	// Uniform returns a value in [lo, hi)
	Uniform(lo, hi float64) float64

	// IntRange returns an integer in [lo, hi], both inclusive
	IntRange(lo, hi int64) int64

	// Shuffle pseudo-randomizes the order of n elements
	Shuffle(n int, swap func(i, j int))
}

// Scheduler runs deferred tasks
type Scheduler interface {
	// AfterFunc runs f once d has elapsed. The returned function cancels the
	// task if it has not started and reports whether it did so.
	AfterFunc(d time.Duration, f func()) (cancel func() bool)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}
