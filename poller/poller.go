// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poller

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/scheduler"
)

// SubscriptionChannel delivers group updates to a session. Polling is one
// implementation; a push transport can satisfy the same contract.
type SubscriptionChannel interface {
	Start()
	Stop()
	SetVisible(visible bool)
	Active() bool
}

// Fetcher performs one refresh. A non-nil error counts as a failure and
// backs the channel off.
type Fetcher func(ctx context.Context) error

// Config holds the backoff parameters.
type Config struct {
	Base   time.Duration
	Factor float64
	Max    time.Duration
}

// DefaultConfig polls every 8s, doubling on failure up to a minute.
func DefaultConfig() Config {
	return Config{Base: 8 * time.Second, Factor: 2, Max: 60 * time.Second}
}

// NextInterval returns the delay after the given number of consecutive
// failures: min(Max, Base * Factor^failures).
func (c Config) NextInterval(failures int) time.Duration {
	if failures <= 0 {
		return c.Base
	}
	next := float64(c.Base) * math.Pow(c.Factor, float64(failures))
	if next >= float64(c.Max) || math.IsInf(next, 0) {
		return c.Max
	}
	return time.Duration(next)
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Base <= 0 {
		c.Base = def.Base
	}
	if c.Factor < 1 {
		c.Factor = def.Factor
	}
	if c.Max < c.Base {
		c.Max = c.Base
	}
	return c
}

const pollToken = "poll"

// Poller re-fetches on a timer with exponential backoff. It never has more
// than one fetch outstanding and schedules nothing while hidden.
type Poller struct {
	cfg   Config
	fetch Fetcher
	sched *scheduler.Scheduler
	vis   VisibilitySource
	ctx   context.Context

	mu       sync.Mutex
	active   bool
	visible  bool
	inFlight bool
	failures int
	interval time.Duration
	gen      int
	detach   func()
}

// New creates a stopped poller. A nil sched uses the real clock and a nil vis
// is always visible.
func New(ctx context.Context, cfg Config, fetch Fetcher, sched *scheduler.Scheduler, vis VisibilitySource) *Poller {
	if sched == nil {
		sched = scheduler.New(nil)
	}
	if vis == nil {
		vis = StaticVisibility(true)
	}
	cfg = cfg.withDefaults()
	return &Poller{
		cfg:      cfg,
		fetch:    fetch,
		sched:    sched,
		vis:      vis,
		ctx:      ctx,
		interval: cfg.Base,
	}
}

// Start activates the channel and fires an immediate tick when visible.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.active {
		p.mu.Unlock()
		return
	}
	p.active = true
	p.gen++
	p.failures = 0
	p.interval = p.cfg.Base
	p.visible = p.vis.Visible()
	visible := p.visible
	if visible {
		p.sched.Schedule(pollToken, 0, p.tick)
	}
	p.mu.Unlock()

	// Observe outside the lock; a source may call back synchronously.
	detach := p.vis.Observe(p.SetVisible)
	p.mu.Lock()
	if p.active {
		p.detach = detach
		detach = nil
	}
	p.mu.Unlock()
	if detach != nil {
		detach()
	}
}

// Stop marks the channel inactive, cancels the pending timer and detaches
// from the visibility source. A fetch already running completes but does
// not reschedule.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return
	}
	p.active = false
	p.gen++
	p.sched.Cancel(pollToken)
	detach := p.detach
	p.detach = nil
	p.mu.Unlock()

	if detach != nil {
		detach()
	}
}

// SetVisible suspends the timer while hidden. Coming back resets the
// backoff and ticks immediately.
func (p *Poller) SetVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.visible == visible {
		return
	}
	p.visible = visible
	if !p.active {
		return
	}
	if !visible {
		p.sched.Cancel(pollToken)
		return
	}
	// A fetch still running belongs to the old backoff run.
	p.gen++
	p.failures = 0
	p.interval = p.cfg.Base
	p.sched.Schedule(pollToken, 0, p.tick)
}

// Active reports whether the channel has been started and not stopped.
func (p *Poller) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Failures returns the current run of consecutive failures.
func (p *Poller) Failures() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures
}

// Interval returns the delay that will be used for the next reschedule.
func (p *Poller) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

func (p *Poller) tick() {
	p.mu.Lock()
	if !p.active || !p.visible || p.inFlight {
		p.mu.Unlock()
		return
	}
	p.inFlight = true
	gen := p.gen
	p.mu.Unlock()

	err := p.fetch(p.ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false
	if !p.active {
		return
	}
	if gen == p.gen {
		if err != nil {
			p.failures++
			p.interval = p.cfg.NextInterval(p.failures)
			slog.Warn("group refresh failed", "error", err, "failures", p.failures, "retry_in", p.interval)
		} else {
			p.failures = 0
			p.interval = p.cfg.Base
		}
	}
	if !p.visible {
		return
	}
	if gen != p.gen && p.sched.Pending(pollToken) {
		// The newer run already has its own tick queued.
		return
	}
	p.sched.Schedule(pollToken, p.interval, p.tick)
}

var _ SubscriptionChannel = (*Poller)(nil)
