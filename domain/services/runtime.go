package services

import (
	"math/rand/v2"
	"time"
)

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// MathRandom draws from the math/rand/v2 global generator
type MathRandom struct{}

func (MathRandom) Float64() float64 {
	return rand.Float64()
}

func (MathRandom) Uniform(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}

func (MathRandom) IntRange(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + rand.Int64N(hi-lo+1)
}

func (MathRandom) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// TimerScheduler runs deferred tasks on runtime timers
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}
