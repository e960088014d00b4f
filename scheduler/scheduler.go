// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"sync"
	"time"
)

// Scheduler runs deferred tasks keyed by token. Scheduling a token that is
// already pending replaces the earlier task, so at most one task per token is
// ever live.
type Scheduler struct {
	clock Clock

	mu    sync.Mutex
	seq   uint64
	tasks map[string]*task
}

type task struct {
	seq   uint64
	timer Timer
}

// New creates a scheduler. A nil clock means RealClock.
func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	return &Scheduler{clock: clock, tasks: make(map[string]*task)}
}

// Clock returns the clock the scheduler runs on.
func (s *Scheduler) Clock() Clock {
	return s.clock
}

// Schedule runs fn after delay unless the token is cancelled or rescheduled
// first. fn runs on the clock's goroutine, not the caller's.
func (s *Scheduler) Schedule(token string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.tasks[token]; ok {
		prev.timer.Stop()
	}
	s.seq++
	seq := s.seq
	t := &task{seq: seq}
	s.tasks[token] = t

	t.timer = s.clock.AfterFunc(delay, func() {
		s.mu.Lock()
		cur, ok := s.tasks[token]
		if !ok || cur.seq != seq {
			// Replaced or cancelled after the timer already fired.
			s.mu.Unlock()
			return
		}
		delete(s.tasks, token)
		s.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending task for token. It reports whether one was pending.
func (s *Scheduler) Cancel(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[token]
	if !ok {
		return false
	}
	t.timer.Stop()
	delete(s.tasks, token)
	return true
}

// CancelAll drops every pending task.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, t := range s.tasks {
		t.timer.Stop()
		delete(s.tasks, token)
	}
}

// Pending reports whether a task is waiting for token.
func (s *Scheduler) Pending(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[token]
	return ok
}
