package testhelpers

import (
	"math/rand/v2"
	"sync"
	"time"
)

// FixedClock returns a settable instant
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock frozen at now
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ScriptedRandom replays queued values. Once a queue is drained it falls back
// to a seeded generator so loops drawing many values still terminate.
type ScriptedRandom struct {
	mu       sync.Mutex
	floats   []float64
	uniforms []float64
	ints     []int64
	fallback *rand.Rand
}

// NewScriptedRandom creates an empty script
func NewScriptedRandom() *ScriptedRandom {
	return &ScriptedRandom{fallback: rand.New(rand.NewPCG(1, 2))}
}

// QueueFloat64 queues results for Float64
func (r *ScriptedRandom) QueueFloat64(values ...float64) *ScriptedRandom {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.floats = append(r.floats, values...)
	return r
}

// QueueUniform queues results for Uniform, returned as-is
func (r *ScriptedRandom) QueueUniform(values ...float64) *ScriptedRandom {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uniforms = append(r.uniforms, values...)
	return r
}

// QueueInt queues results for IntRange, returned as-is
func (r *ScriptedRandom) QueueInt(values ...int64) *ScriptedRandom {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ints = append(r.ints, values...)
	return r
}

func (r *ScriptedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.floats) > 0 {
		v := r.floats[0]
		r.floats = r.floats[1:]
		return v
	}
	return r.fallback.Float64()
}

func (r *ScriptedRandom) Uniform(lo, hi float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.uniforms) > 0 {
		v := r.uniforms[0]
		r.uniforms = r.uniforms[1:]
		return v
	}
	return lo + r.fallback.Float64()*(hi-lo)
}

func (r *ScriptedRandom) IntRange(lo, hi int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ints) > 0 {
		v := r.ints[0]
		r.ints = r.ints[1:]
		return v
	}
	if hi <= lo {
		return lo
	}
	return lo + r.fallback.Int64N(hi-lo+1)
}

// Shuffle leaves the order untouched so tests can predict it
func (r *ScriptedRandom) Shuffle(n int, swap func(i, j int)) {}

// ManualScheduler records deferred tasks until the test runs them
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []*ScheduledTask
}

// ScheduledTask is a task recorded by ManualScheduler
type ScheduledTask struct {
	Delay     time.Duration
	Run       func()
	Cancelled bool
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := &ScheduledTask{Delay: d, Run: f}
	s.tasks = append(s.tasks, task)
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if task.Cancelled {
			return false
		}
		task.Cancelled = true
		return true
	}
}

// Tasks returns the recorded tasks
func (s *ManualScheduler) Tasks() []*ScheduledTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*ScheduledTask(nil), s.tasks...)
}

// RunAll runs every task that has not been cancelled and clears the queue
func (s *ManualScheduler) RunAll() {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	for _, task := range tasks {
		if !task.Cancelled {
			task.Run()
		}
	}
}
