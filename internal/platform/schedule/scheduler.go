// Package schedule wraps deferred one-shot tasks behind an interface so the
// fixed-delay behaviors (toast auto-hide, post-payment redirect) can be
// asserted in tests against a virtual clock instead of real timers.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// Task is a handle to a pending deferred call.
type Task interface {
	// Cancel stops the task if it has not fired yet and reports whether it
	// was still pending.
	Cancel() bool
}

// Scheduler defers a function call by the given duration.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Task
}

type timerTask struct {
	timer *time.Timer
}

func (t *timerTask) Cancel() bool {
	return t.timer.Stop()
}

type timerScheduler struct{}

// NewTimerScheduler returns the real-time Scheduler backed by time.AfterFunc.
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) AfterFunc(d time.Duration, fn func()) Task {
	return &timerTask{timer: time.AfterFunc(d, fn)}
}

// ManualScheduler is a Scheduler driven by an explicit virtual clock. Tasks
// fire, in deadline order, when Advance moves the clock past their deadline.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Time
	seq     int
	pending []*manualTask
}

type manualTask struct {
	owner     *ManualScheduler
	deadline  time.Time
	seq       int
	fn        func()
	cancelled bool
	fired     bool
}

// NewManualScheduler constructs a virtual-clock scheduler starting at now.
func NewManualScheduler(now time.Time) *ManualScheduler {
	return &ManualScheduler{now: now}
}

// AfterFunc registers fn to run once the virtual clock advances by d.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	task := &manualTask{
		owner:    s,
		deadline: s.now.Add(d),
		seq:      s.seq,
		fn:       fn,
	}
	s.pending = append(s.pending, task)
	return task
}

// Advance moves the virtual clock forward and fires every due task.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now = s.now.Add(d)

	due := make([]*manualTask, 0, len(s.pending))
	remaining := s.pending[:0]
	for _, task := range s.pending {
		if !task.cancelled && !task.deadline.After(s.now) {
			due = append(due, task)
			continue
		}
		remaining = append(remaining, task)
	}
	s.pending = remaining
	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline.Equal(due[j].deadline) {
			return due[i].seq < due[j].seq
		}
		return due[i].deadline.Before(due[j].deadline)
	})
	for _, task := range due {
		task.fired = true
	}
	s.mu.Unlock()

	// Callbacks run outside the lock so they may schedule further tasks.
	for _, task := range due {
		task.fn()
	}
}

// Pending reports how many tasks are registered and not yet fired or
// cancelled.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, task := range s.pending {
		if !task.cancelled {
			count++
		}
	}
	return count
}

func (t *manualTask) Cancel() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.fired || t.cancelled {
		return false
	}
	t.cancelled = true
	return true
}
