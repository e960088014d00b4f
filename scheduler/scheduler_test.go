// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler() (*Scheduler, *ManualClock) {
	clock := NewManualClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return New(clock), clock
}

func TestSchedule_Fires(t *testing.T) {
	s, clock := newTestScheduler()
	fired := 0
	s.Schedule("save", time.Second, func() { fired++ })

	assert.True(t, s.Pending("save"))
	clock.Advance(999 * time.Millisecond)
	assert.Equal(t, 0, fired)

	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)
	assert.False(t, s.Pending("save"))
}

func TestSchedule_RescheduleKeepsOneTask(t *testing.T) {
	s, clock := newTestScheduler()
	var calls []string
	s.Schedule("save", time.Second, func() { calls = append(calls, "first") })
	clock.Advance(500 * time.Millisecond)
	s.Schedule("save", time.Second, func() { calls = append(calls, "second") })

	assert.Equal(t, 1, clock.Pending())

	clock.Advance(600 * time.Millisecond)
	assert.Empty(t, calls, "first task must have been replaced")

	clock.Advance(400 * time.Millisecond)
	assert.Equal(t, []string{"second"}, calls)
}

func TestCancel(t *testing.T) {
	s, clock := newTestScheduler()
	fired := false
	s.Schedule("poll", time.Second, func() { fired = true })

	assert.True(t, s.Cancel("poll"))
	assert.False(t, s.Cancel("poll"))
	clock.Advance(time.Minute)
	assert.False(t, fired)
	assert.Zero(t, clock.Pending())
}

func TestCancelAll(t *testing.T) {
	s, clock := newTestScheduler()
	count := 0
	s.Schedule("a", time.Second, func() { count++ })
	s.Schedule("b", 2*time.Second, func() { count++ })

	s.CancelAll()
	clock.Advance(time.Minute)
	assert.Zero(t, count)
	assert.False(t, s.Pending("a"))
	assert.False(t, s.Pending("b"))
}

func TestTokensAreIndependent(t *testing.T) {
	s, clock := newTestScheduler()
	var order []string
	s.Schedule("b", 2*time.Second, func() { order = append(order, "b") })
	s.Schedule("a", time.Second, func() { order = append(order, "a") })

	clock.Advance(3 * time.Second)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestCallbackCanReschedule(t *testing.T) {
	s, clock := newTestScheduler()
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		s.Schedule("poll", time.Second, tick)
	}
	s.Schedule("poll", time.Second, tick)

	clock.Advance(5 * time.Second)
	assert.Equal(t, 5, ticks)
	assert.True(t, s.Pending("poll"))

	d, ok := clock.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, time.Second, d)
}

func TestRealClock(t *testing.T) {
	s := New(nil)
	var fired atomic.Bool
	done := make(chan struct{})
	s.Schedule("x", 5*time.Millisecond, func() {
		fired.Store(true)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task never fired")
	}
	assert.True(t, fired.Load())
	assert.False(t, s.Pending("x"))
}
