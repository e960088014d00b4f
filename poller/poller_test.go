// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/scheduler"
)

// switchVisibility is a settable VisibilitySource.
type switchVisibility struct {
	mu        sync.Mutex
	visible   bool
	observers map[int]func(bool)
	next      int
}

func newSwitch(visible bool) *switchVisibility {
	return &switchVisibility{visible: visible, observers: map[int]func(bool){}}
}

func (s *switchVisibility) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

func (s *switchVisibility) Observe(fn func(bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *switchVisibility) Set(visible bool) {
	s.mu.Lock()
	s.visible = visible
	fns := make([]func(bool), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(visible)
	}
}

func (s *switchVisibility) observerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

type fakeFetch struct {
	calls int
	errs  []error
	hook  func()
}

func (f *fakeFetch) fetch(ctx context.Context) error {
	f.calls++
	if f.hook != nil {
		f.hook()
	}
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func newTestPoller(vis VisibilitySource, f *fakeFetch) (*Poller, *scheduler.ManualClock) {
	clock := scheduler.NewManualClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	p := New(context.Background(), DefaultConfig(), f.fetch, scheduler.New(clock), vis)
	return p, clock
}

func TestNextInterval(t *testing.T) {
	cfg := Config{Base: 8000 * time.Millisecond, Factor: 2, Max: 60000 * time.Millisecond}

	tests := []struct {
		failures int
		want     time.Duration
	}{
		{0, 8 * time.Second},
		{1, 16 * time.Second},
		{2, 32 * time.Second},
		{3, 60 * time.Second},
		{10, 60 * time.Second},
		{5000, 60 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.NextInterval(tt.failures), "failures=%d", tt.failures)
	}
}

func TestPoller_TicksImmediatelyThenAtBase(t *testing.T) {
	f := &fakeFetch{}
	p, clock := newTestPoller(nil, f)

	p.Start()
	assert.True(t, p.Active())
	clock.Advance(0)
	assert.Equal(t, 1, f.calls)

	clock.Advance(7 * time.Second)
	assert.Equal(t, 1, f.calls)
	clock.Advance(time.Second)
	assert.Equal(t, 2, f.calls)
}

func TestPoller_BacksOffAndRecovers(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeFetch{errs: []error{boom, boom, boom}}
	p, clock := newTestPoller(nil, f)

	p.Start()
	clock.Advance(0)
	assert.Equal(t, 1, p.Failures())
	assert.Equal(t, 16*time.Second, p.Interval())

	clock.Advance(16 * time.Second)
	assert.Equal(t, 32*time.Second, p.Interval())

	clock.Advance(32 * time.Second)
	assert.Equal(t, 3, p.Failures())
	assert.Equal(t, 60*time.Second, p.Interval())
	assert.Equal(t, 3, f.calls)

	// Fourth fetch succeeds and resets the backoff.
	clock.Advance(60 * time.Second)
	assert.Equal(t, 4, f.calls)
	assert.Zero(t, p.Failures())
	assert.Equal(t, 8*time.Second, p.Interval())
}

func TestPoller_NoOverlappingFetches(t *testing.T) {
	f := &fakeFetch{}
	p, clock := newTestPoller(nil, f)
	f.hook = func() {
		// A tick arriving while a fetch is outstanding is skipped.
		p.tick()
	}

	p.Start()
	clock.Advance(0)
	assert.Equal(t, 1, f.calls)

	d, ok := clock.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, 8*time.Second, d)
}

func TestPoller_HiddenSuspendsTimer(t *testing.T) {
	vis := newSwitch(true)
	f := &fakeFetch{errs: []error{errors.New("down")}}
	p, clock := newTestPoller(vis, f)

	p.Start()
	clock.Advance(0)
	require.Equal(t, 1, p.Failures())

	vis.Set(false)
	assert.Zero(t, clock.Pending())
	clock.Advance(10 * time.Minute)
	assert.Equal(t, 1, f.calls)

	// Foreground resets the backoff and ticks straight away.
	vis.Set(true)
	clock.Advance(0)
	assert.Equal(t, 2, f.calls)
	assert.Zero(t, p.Failures())
	assert.Equal(t, 8*time.Second, p.Interval())
}

func TestPoller_ForegroundDuringFetchStartsFreshBackoff(t *testing.T) {
	vis := newSwitch(true)
	down := errors.New("down")
	f := &fakeFetch{errs: []error{down, down}}
	p, clock := newTestPoller(vis, f)
	f.hook = func() {
		if f.calls == 1 {
			vis.Set(false)
			vis.Set(true)
		}
	}

	p.Start()
	clock.Advance(0)

	// The first failure predates the foreground reset and is not counted;
	// the immediate foreground tick still runs.
	assert.Equal(t, 2, f.calls)
	assert.Equal(t, 1, p.Failures())
	assert.Equal(t, 16*time.Second, p.Interval())

	d, ok := clock.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, 16*time.Second, d)
	assert.Equal(t, 1, clock.Pending())
}

func TestPoller_StartHiddenSchedulesNothing(t *testing.T) {
	vis := newSwitch(false)
	f := &fakeFetch{}
	p, clock := newTestPoller(vis, f)

	p.Start()
	clock.Advance(time.Minute)
	assert.Zero(t, f.calls)
	assert.True(t, p.Active())
}

func TestPoller_StopDetachesAndNeverReschedules(t *testing.T) {
	vis := newSwitch(true)
	f := &fakeFetch{}
	p, clock := newTestPoller(vis, f)

	p.Start()
	assert.Equal(t, 1, vis.observerCount())
	f.hook = func() { p.Stop() }

	clock.Advance(0)
	assert.Equal(t, 1, f.calls, "in-flight fetch is still delivered")
	assert.False(t, p.Active())
	assert.Zero(t, clock.Pending())
	assert.Zero(t, vis.observerCount())

	vis.Set(false)
	vis.Set(true)
	clock.Advance(time.Minute)
	assert.Equal(t, 1, f.calls)
}

func TestPoller_RestartAfterStop(t *testing.T) {
	f := &fakeFetch{}
	p, clock := newTestPoller(nil, f)

	p.Start()
	clock.Advance(0)
	p.Stop()
	p.Start()
	clock.Advance(0)
	assert.Equal(t, 2, f.calls)
	assert.Equal(t, 1, clock.Pending())
}

func TestStaticVisibility(t *testing.T) {
	assert.True(t, StaticVisibility(true).Visible())
	assert.False(t, StaticVisibility(false).Visible())
	detach := StaticVisibility(true).Observe(func(bool) {})
	require.NotNil(t, detach)
	detach()
}
