// Package sched provides one-shot scheduled tasks with explicit
// cancellation. Production code uses the time.AfterFunc-backed scheduler;
// tests use Manual to drive timers by hand.
package sched

import (
	"sync"
	"time"
)

// Handle is a scheduled task that can be cancelled before it fires.
type Handle interface {
	// Cancel stops the task and reports whether it was cancelled before
	// firing. Cancelling twice, or after the task ran, returns false.
	Cancel() bool
}

// Scheduler runs a function once after a delay.
type Scheduler interface {
	After(d time.Duration, fn func()) Handle
}

// Default returns the production scheduler.
func Default() Scheduler { return timers{} }

type timers struct{}

type timerHandle struct {
	t *time.Timer
}

func (timers) After(d time.Duration, fn func()) Handle {
	return timerHandle{t: time.AfterFunc(d, fn)}
}

func (h timerHandle) Cancel() bool { return h.t.Stop() }

// Manual is a Scheduler whose tasks fire only when Fire is called.
type Manual struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	m       *Manual
	fn      func()
	delay   time.Duration
	fired   bool
	stopped bool
}

// After registers fn without starting a real timer.
func (m *Manual) After(d time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTask{m: m, fn: fn, delay: d}
	m.tasks = append(m.tasks, t)
	return t
}

// Fire runs the oldest pending task and reports whether one ran.
func (m *Manual) Fire() bool {
	m.mu.Lock()
	var run func()
	for _, t := range m.tasks {
		if !t.fired && !t.stopped {
			t.fired = true
			run = t.fn
			break
		}
	}
	m.mu.Unlock()
	if run == nil {
		return false
	}
	run()
	return true
}

// Pending reports how many tasks are scheduled but not yet fired or
// cancelled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

func (t *manualTask) Cancel() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}
