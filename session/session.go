// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/aggregate"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/apperr"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/bridge"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/localstate"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/poller"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/scheduler"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/selection"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/weeks"
)

// DefaultAutosaveDelay is how long edits settle before they are pushed.
const DefaultAutosaveDelay = 1200 * time.Millisecond

const autosaveToken = "autosave"

var (
	ErrNotJoined = errors.New("not joined to a trip")
	ErrClosed    = errors.New("session closed")
	// ErrSuperseded is returned by a join that lost to a later join or leave.
	ErrSuperseded = errors.New("join superseded by a newer request")
)

// Options configures a Session. Only Bridge is required.
type Options struct {
	Bridge     bridge.Bridge
	Store      localstate.Store
	Scheduler  *scheduler.Scheduler
	Poll       poller.Config
	Visibility poller.VisibilitySource
	// NewChannel builds the update feed for a joined trip. The default is a
	// Poller on Scheduler.
	NewChannel    func(ctx context.Context, fetch poller.Fetcher) poller.SubscriptionChannel
	AutosaveDelay time.Duration
	Year          int
	Window        models.WindowConfig
	// OnRefresh is called, without the session lock, after group data changes.
	OnRefresh func()
}

// JoinResult describes a completed join or rejoin.
type JoinResult struct {
	Trip        models.Trip
	Participant models.Participant
	Created     bool
	Source      Source
}

// Snapshot is a read-only copy of the session for display.
type Snapshot struct {
	State        State
	Key          localstate.Key
	Trip         *models.Trip
	Participant  *models.Participant
	Selections   []models.Selection
	Weeks        []models.WeekDescriptor
	Step         int
	HasSavedOnce bool
	Unsaved      bool
	LastError    error
}

// view is everything a failed join has to put back.
type view struct {
	state        State
	key          localstate.Key
	trip         *models.Trip
	participant  *models.Participant
	store        *selection.Store
	year         int
	window       models.WindowConfig
	weeks        []models.WeekDescriptor
	step         int
	hasSavedOnce bool
	unsaved      bool
}

// Session owns one participant's selections and keeps them in step with the
// trip. All state changes go through its methods; timers and background
// writes re-enter through the same lock and are discarded once the identity
// they were started for is gone.
type Session struct {
	opts   Options
	sched  *scheduler.Scheduler
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	v       view
	gen     uint64
	editSeq uint64
	channel poller.SubscriptionChannel
	group   models.GroupData
	lastErr error
	closed  bool
	wg      sync.WaitGroup
}

// New creates an anonymous session. Edits made before joining stay local
// and feed the preview leaderboard.
func New(opts Options) *Session {
	if opts.Store == nil {
		opts.Store = localstate.NewMemoryStore()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = scheduler.New(nil)
	}
	if opts.AutosaveDelay <= 0 {
		opts.AutosaveDelay = DefaultAutosaveDelay
	}
	if opts.Year == 0 {
		opts.Year = opts.Scheduler.Clock().Now().Year()
	}
	if opts.Poll == (poller.Config{}) {
		opts.Poll = poller.DefaultConfig()
	}

	window := opts.Window
	if window == (models.WindowConfig{}) {
		window = weeks.DefaultWindow()
	}
	window, corrected := weeks.NormalizeWindow(window)
	if corrected {
		slog.Warn("window config out of range, using defaults", "start_day", opts.Window.StartDay, "days", opts.Window.Days)
	}
	opts.Window = window

	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		opts:   opts,
		sched:  opts.Scheduler,
		ctx:    ctx,
		cancel: cancel,
		v:      anonymousView(opts.Year, window),
	}
}

func anonymousView(year int, window models.WindowConfig) view {
	return view{
		state:  Anonymous,
		store:  selection.NewStore(models.WeekCount),
		year:   year,
		window: window,
		weeks:  weeks.Build(year, window),
		step:   models.MinStep,
	}
}

// Join joins the trip with the given share code as name.
func (s *Session) Join(ctx context.Context, code, name string) (JoinResult, error) {
	key := localstate.Key{Year: s.opts.Year, TripCode: code, Name: name}.Normalize()
	if key.TripCode == "" {
		return JoinResult{}, apperr.Validation("trip code is required")
	}
	if key.Name == "" {
		return JoinResult{}, apperr.Validation("name is required")
	}

	// An earlier join saved the record under the trip's year, which the
	// resume marker carries.
	if marked, ok, err := s.opts.Store.Resume(ctx); err == nil && ok && marked.Year != 0 && marked.SameParticipant(key) {
		key.Year = marked.Year
	}
	rec, found, err := s.opts.Store.Load(ctx, key)
	if err != nil {
		slog.Warn("failed to load local session", "error", err)
		found = false
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return JoinResult{}, ErrClosed
	}
	prev := s.v
	sameIdentity := prev.key.Valid() && prev.key.SameParticipant(key)

	// next is what edits land on while the request is out.
	next := prev
	next.state = Joining
	plan := joinPlan{startSeq: s.editSeq}
	switch {
	case sameIdentity:
		// Keep the live store, unsaved edits included.
		key.Year = prev.key.Year
		next.key = prev.key
		plan.stored = &localstate.Record{CurrentStep: prev.step, HasSavedOnce: prev.hasSavedOnce}
		plan.keepLocal = prev.unsaved
	case prev.state == Anonymous && prev.store.HasMarks():
		// Preview marks made before choosing an identity.
		next.key = key
	default:
		next.key = key
		next.trip = nil
		next.participant = nil
		next.store = selection.NewStore(models.WeekCount)
		next.step = models.MinStep
		next.hasSavedOnce = false
		next.unsaved = false
		if found {
			plan.stored = &rec
			next.store = selection.FromSelections(models.WeekCount, rec.Selections)
			next.hasSavedOnce = rec.HasSavedOnce
			if rec.CurrentStep >= models.MinStep && rec.CurrentStep <= models.MaxStep {
				next.step = rec.CurrentStep
			}
		}
	}
	plan.key = key

	if !sameIdentity && prev.unsaved && prev.participant != nil {
		s.flushLocked(prev)
	}
	s.stopLocked()
	s.gen++
	gen := s.gen
	s.v = next
	s.mu.Unlock()

	res, err := s.join(ctx, gen, plan)
	if err != nil && !errors.Is(err, ErrSuperseded) {
		s.mu.Lock()
		if s.gen == gen {
			// Back to exactly where we were, including polling and any
			// pending save for the previous identity.
			s.gen++
			editedWhileJoining := s.editSeq != plan.startSeq
			s.v = prev
			if sameIdentity && editedWhileJoining && prev.state.Connected() {
				s.v.state = Dirty
				s.v.unsaved = true
			}
			s.lastErr = err
			s.restartLocked()
		}
		s.mu.Unlock()
	}
	return res, err
}

// joinPlan is what Join and Resume hand to join.
type joinPlan struct {
	key      localstate.Key
	stored   *localstate.Record
	startSeq uint64
	// keepLocal means the local store holds edits the server has not seen.
	keepLocal bool
}

// Resume reconnects the session named by the resume marker. Local
// selections are restored before any network call, so they are renderable
// even if the reconnect fails; in that case the session is Failed and the
// participant has to join again by hand.
func (s *Session) Resume(ctx context.Context) (JoinResult, error) {
	key, ok, err := s.opts.Store.Resume(ctx)
	if err != nil {
		return JoinResult{}, err
	}
	if !ok || !key.Valid() {
		return JoinResult{}, apperr.NotFound("resumable session")
	}
	rec, found, err := s.opts.Store.Load(ctx, key)
	if err != nil {
		return JoinResult{}, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return JoinResult{}, ErrClosed
	}
	s.stopLocked()
	s.gen++
	gen := s.gen

	year := key.Year
	if year == 0 {
		year = s.opts.Year
	}
	v := anonymousView(year, s.opts.Window)
	v.state = Reconnecting
	v.key = key
	var stored *localstate.Record
	if found {
		stored = &rec
		v.store = selection.FromSelections(models.WeekCount, rec.Selections)
		if w, corrected := weeks.NormalizeWindow(models.WindowConfig{StartDay: rec.WindowStartDay, Days: rec.WindowDays}); !corrected {
			v.window = w
			v.weeks = weeks.Build(year, w)
		}
		v.step = rec.CurrentStep
		v.hasSavedOnce = rec.HasSavedOnce
		v.unsaved = rec.IsJoined && !rec.HasSavedOnce && v.store.HasMarks()
	}
	s.v = v
	plan := joinPlan{key: key, stored: stored, startSeq: s.editSeq}
	s.mu.Unlock()

	res, err := s.join(ctx, gen, plan)
	if err != nil && !errors.Is(err, ErrSuperseded) {
		s.mu.Lock()
		if s.gen == gen {
			s.v.state = Failed
			s.lastErr = err
		}
		s.mu.Unlock()
		return res, apperr.Wrap(err, apperr.CodeOf(err), "could not reconnect, rejoin manually")
	}
	return res, err
}

// join runs the network half of Join and Resume for generation gen. The
// local side of the reconcile is whatever the session's store holds once the
// response is in, so edits made while joining are part of it.
func (s *Session) join(ctx context.Context, gen uint64, plan joinPlan) (JoinResult, error) {
	key := plan.key
	resp, err := s.opts.Bridge.Join(ctx, models.JoinRequest{
		ShareCode:      key.TripCode,
		Name:           key.Name,
		Year:           key.Year,
		WindowStartDay: s.opts.Window.StartDay,
		WindowDays:     s.opts.Window.Days,
	})

	// Nothing saved under the requested year: an earlier join saved it
	// under the trip's.
	var fallback *localstate.Record
	if err == nil && plan.stored == nil && resp.Trip.Year != 0 && resp.Trip.Year != key.Year {
		tripKey := key
		tripKey.Year = resp.Trip.Year
		if rec, found, lerr := s.opts.Store.Load(ctx, tripKey); lerr != nil {
			slog.Warn("failed to load local session", "error", lerr)
		} else if found {
			fallback = &rec
		}
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return JoinResult{}, ErrSuperseded
	}
	if err != nil {
		s.mu.Unlock()
		return JoinResult{}, err
	}

	trip := resp.Trip
	participant := resp.Participant
	stored := plan.stored

	local := s.v.store.Selections()
	if fallback != nil {
		stored = fallback
		if !selection.HasMarks(local) {
			local = fallback.Selections
		}
	}

	var merged []models.Selection
	var source Source
	if plan.keepLocal || s.editSeq != plan.startSeq {
		// Edits the server has not seen are newer than its copy.
		merged, source = local, SourceLocal
	} else {
		merged, source = Reconcile(models.WeekCount, local, resp.Selections)
	}

	window, _ := weeks.NormalizeWindow(trip.Window)
	year := trip.Year
	if year == 0 {
		year = key.Year
	}

	step := participant.LastActiveStep
	if stored != nil && stored.CurrentStep > step {
		step = stored.CurrentStep
	}
	if step < models.MinStep || step > models.MaxStep {
		step = models.MinStep
	}

	s.v = view{
		state:        Joined,
		key:          localstate.Key{Year: year, TripCode: key.TripCode, Name: key.Name},
		trip:         &trip,
		participant:  &participant,
		store:        selection.FromSelections(models.WeekCount, merged),
		year:         year,
		window:       window,
		weeks:        weeks.Build(year, window),
		step:         step,
		hasSavedOnce: source == SourceRemote || (stored != nil && stored.HasSavedOnce),
	}
	s.group = models.GroupData{}
	s.lastErr = nil

	if source == SourceLocal {
		s.v.state = Dirty
		s.v.unsaved = true
		s.editSeq++
		s.pushLocked(gen)
	}
	s.persistLocked()
	if err := s.opts.Store.SetResume(s.ctx, s.v.key); err != nil {
		slog.Warn("failed to save resume marker", "error", err)
	}
	tripID := trip.ID
	s.mu.Unlock()

	slog.Info("joined trip", "trip_id", tripID, "participant_id", participant.ID, "created", resp.Created, "source", source.String())

	// Polling is only worth it against a live backend.
	if err := s.opts.Bridge.HealthCheck(ctx); err != nil {
		slog.Warn("health check failed, live updates disabled", "error", err)
	} else {
		s.mu.Lock()
		if s.gen == gen && !s.closed {
			s.startChannelLocked(gen)
		}
		s.mu.Unlock()
	}

	return JoinResult{Trip: trip, Participant: participant, Created: resp.Created, Source: source}, nil
}

// Leave stops syncing, forgets the resume marker and returns to an
// anonymous session. The local record is kept so a later join can use it.
func (s *Session) Leave(ctx context.Context) error {
	s.mu.Lock()
	s.stopLocked()
	s.gen++
	s.v = anonymousView(s.opts.Year, s.opts.Window)
	s.group = models.GroupData{}
	s.lastErr = nil
	s.mu.Unlock()

	return s.opts.Store.ClearResume(ctx)
}

// Close stops timers and polling, then waits for background writes already
// in flight. The session cannot be used afterwards.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.stopLocked()
	s.gen++
	s.mu.Unlock()

	s.wg.Wait()
	s.cancel()
	return nil
}

// Wait blocks until background writes started so far have finished.
func (s *Session) Wait() {
	s.wg.Wait()
}

// SetStatus marks a week.
func (s *Session) SetStatus(week int, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.v.store.SetStatus(week, status); err != nil {
		return err
	}
	s.editedLocked()
	return nil
}

// SetRank ranks a week and returns the week that lost the rank, if any.
// Ranking a week that is not available leaves it unranked and returns
// selection.ErrRankRequiresAvailable.
func (s *Session) SetRank(week, rank int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	displaced, err := s.v.store.SetRank(week, rank)
	if err != nil && !errors.Is(err, selection.ErrRankRequiresAvailable) {
		return 0, err
	}
	s.editedLocked()
	return displaced, err
}

// ClearRank unranks a week.
func (s *Session) ClearRank(week int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.v.store.ClearRank(week); err != nil {
		return err
	}
	s.editedLocked()
	return nil
}

// editedLocked records a local edit: the record is saved to disk at once and
// the push to the server is (re)debounced.
func (s *Session) editedLocked() {
	s.editSeq++
	if !s.v.state.Connected() {
		s.persistLocked()
		return
	}
	s.v.unsaved = true
	s.v.state = Dirty
	s.persistLocked()
	s.scheduleAutosaveLocked()
}

func (s *Session) scheduleAutosaveLocked() {
	gen := s.gen
	s.sched.Schedule(autosaveToken, s.opts.AutosaveDelay, func() { s.autosave(gen) })
}

func (s *Session) autosave(gen uint64) {
	s.mu.Lock()
	if s.gen != gen || s.closed || !s.v.state.Connected() || !s.v.unsaved {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	if err := s.save(s.ctx, gen); err != nil {
		slog.Warn("auto-save failed", "error", err)
	}
}

// pushLocked uploads the current selections in the background, used when a
// join adopted local marks. Failure leaves the session unsaved and retries
// on the autosave schedule.
func (s *Session) pushLocked(gen uint64) {
	if s.closed {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.save(s.ctx, gen); err != nil {
			slog.Warn("failed to push local selections after join", "error", err)
		}
	}()
}

// flushLocked pushes a view's unsaved selections in the background before
// the session switches to another participant. Only the log sees the result.
func (s *Session) flushLocked(v view) {
	if s.closed {
		return
	}
	participantID := v.participant.ID
	sels := v.store.Selections()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.opts.Bridge.UpsertSelections(s.ctx, participantID, sels); err != nil {
			slog.Warn("failed to save selections before switching participant", "participant_id", participantID, "error", err)
		}
	}()
}

// save pushes the current selections for generation gen.
func (s *Session) save(ctx context.Context, gen uint64) error {
	s.mu.Lock()
	if s.gen != gen || s.v.participant == nil {
		s.mu.Unlock()
		return ErrSuperseded
	}
	participantID := s.v.participant.ID
	sels := s.v.store.Selections()
	seq := s.editSeq
	s.mu.Unlock()

	err := s.opts.Bridge.UpsertSelections(ctx, participantID, sels)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return ErrSuperseded
	}
	if err != nil {
		s.lastErr = err
		switch apperr.CodeOf(err) {
		case apperr.CodeTransientIO, apperr.CodeUnexpected:
			if !s.closed {
				s.scheduleAutosaveLocked()
			}
		}
		return err
	}

	s.v.hasSavedOnce = true
	if seq == s.editSeq {
		s.v.unsaved = false
		s.v.state = Synced
	}
	s.lastErr = nil
	s.persistLocked()
	return nil
}

// Save flushes pending edits now instead of waiting for the debounce.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if !s.v.state.Connected() {
		s.mu.Unlock()
		return ErrNotJoined
	}
	s.sched.Cancel(autosaveToken)
	gen := s.gen
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	return s.save(ctx, gen)
}

// Submit saves pending edits and marks the participant as submitted. On a
// locked trip the edits cannot be saved, but what the server already has can
// still be submitted.
func (s *Session) Submit(ctx context.Context) (time.Time, error) {
	s.mu.Lock()
	unsaved := s.v.unsaved
	s.mu.Unlock()

	if unsaved {
		if err := s.Save(ctx); err != nil && !apperr.Is(err, apperr.CodeLocked) {
			return time.Time{}, err
		}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return time.Time{}, ErrClosed
	}
	if !s.v.state.Connected() || s.v.participant == nil {
		s.mu.Unlock()
		return time.Time{}, ErrNotJoined
	}
	gen := s.gen
	participantID := s.v.participant.ID
	s.mu.Unlock()

	at, err := s.opts.Bridge.MarkSubmitted(ctx, participantID)
	if err != nil {
		return time.Time{}, err
	}

	s.mu.Lock()
	if s.gen == gen && s.v.participant != nil {
		p := *s.v.participant
		p.SubmittedAt = &at
		s.v.participant = &p
	}
	s.mu.Unlock()
	return at, nil
}

// SetStep records the wizard step locally and, when joined, on the server.
func (s *Session) SetStep(ctx context.Context, step int) error {
	if step < models.MinStep || step > models.MaxStep {
		return apperr.Newf(apperr.CodeValidation, "step must be between %d and %d", models.MinStep, models.MaxStep)
	}

	s.mu.Lock()
	s.v.step = step
	s.persistLocked()
	if !s.v.state.Connected() {
		s.mu.Unlock()
		return nil
	}
	participantID := s.v.participant.ID
	s.mu.Unlock()

	return s.opts.Bridge.UpdateProgress(ctx, participantID, step)
}

// Refresh fetches group data now.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	return s.refresh(ctx, gen)
}

func (s *Session) refresh(ctx context.Context, gen uint64) error {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return nil
	}
	if !s.v.state.Connected() {
		s.mu.Unlock()
		return ErrNotJoined
	}
	tripID := s.v.trip.ID
	s.mu.Unlock()

	data, err := s.opts.Bridge.FetchGroupData(ctx, tripID)

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		return err
	}
	s.group = data
	s.mu.Unlock()

	if s.opts.OnRefresh != nil {
		s.opts.OnRefresh()
	}
	return nil
}

// SetVisible tells the update feed whether the host is in the foreground.
func (s *Session) SetVisible(visible bool) {
	s.mu.Lock()
	ch := s.channel
	s.mu.Unlock()
	if ch != nil {
		ch.SetVisible(visible)
	}
}

// Aggregates returns every week ranked best first. When joined this is the
// whole group with this participant's rows taken from the local store, so
// unsaved edits show immediately; otherwise it is a preview of the local
// selections alone.
func (s *Session) Aggregates() []models.WeekAggregate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aggregatesLocked()
}

func (s *Session) aggregatesLocked() []models.WeekAggregate {
	if s.v.participant == nil {
		return aggregate.FromStore("local", s.v.key.Name, s.v.store)
	}

	me := *s.v.participant
	rows := make([]models.SelectionRow, 0, len(s.group.Selections)+models.WeekCount)
	for _, row := range s.group.Selections {
		if row.ParticipantID != me.ID {
			rows = append(rows, row)
		}
	}
	rows = append(rows, s.v.store.Rows(me.ID)...)

	participants := s.group.Participants
	found := false
	for _, p := range participants {
		if p.ID == me.ID {
			found = true
			break
		}
	}
	if !found {
		participants = append(append([]models.Participant{}, participants...), me)
	}
	return aggregate.Compute(rows, participants)
}

// Leaderboard returns the best limit weeks.
func (s *Session) Leaderboard(limit int) []models.WeekAggregate {
	return aggregate.Leaderboard(s.Aggregates(), limit)
}

// TopPick returns the best week if anyone has marked anything.
func (s *Session) TopPick() (models.WeekAggregate, bool) {
	return aggregate.TopPick(s.Aggregates())
}

// Group returns the last fetched group data.
func (s *Session) Group() models.GroupData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.group
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.state
}

// Selections returns a copy of the local selections.
func (s *Session) Selections() []models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.store.Selections()
}

// Weeks returns the week windows for the current trip or local config.
func (s *Session) Weeks() []models.WeekDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.WeekDescriptor(nil), s.v.weeks...)
}

// Snapshot copies everything needed to render the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		State:        s.v.state,
		Key:          s.v.key,
		Selections:   s.v.store.Selections(),
		Weeks:        append([]models.WeekDescriptor(nil), s.v.weeks...),
		Step:         s.v.step,
		HasSavedOnce: s.v.hasSavedOnce,
		Unsaved:      s.v.unsaved,
		LastError:    s.lastErr,
	}
	if s.v.trip != nil {
		t := *s.v.trip
		snap.Trip = &t
	}
	if s.v.participant != nil {
		p := *s.v.participant
		snap.Participant = &p
	}
	return snap
}

// stopLocked cancels the pending autosave and the update feed.
func (s *Session) stopLocked() {
	s.sched.Cancel(autosaveToken)
	if s.channel != nil {
		s.channel.Stop()
		s.channel = nil
	}
}

// restartLocked resumes timers for the current view after a failed join.
func (s *Session) restartLocked() {
	if !s.v.state.Connected() || s.closed {
		return
	}
	s.startChannelLocked(s.gen)
	if s.v.unsaved {
		s.scheduleAutosaveLocked()
	}
}

func (s *Session) startChannelLocked(gen uint64) {
	fetch := func(ctx context.Context) error { return s.refresh(ctx, gen) }
	if s.opts.NewChannel != nil {
		s.channel = s.opts.NewChannel(s.ctx, fetch)
	} else {
		s.channel = poller.New(s.ctx, s.opts.Poll, fetch, s.sched, s.opts.Visibility)
	}
	s.channel.Start()
}

func (s *Session) persistLocked() {
	if !s.v.key.Valid() {
		return
	}
	rec := localstate.Record{
		Selections:     s.v.store.Selections(),
		CurrentStep:    s.v.step,
		HasSavedOnce:   s.v.hasSavedOnce,
		IsJoined:       s.v.state.Connected(),
		WindowStartDay: s.v.window.StartDay,
		WindowDays:     s.v.window.Days,
		UpdatedAt:      s.sched.Clock().Now().UTC(),
	}
	if s.v.trip != nil {
		rec.TripID = s.v.trip.ID
	}
	if s.v.participant != nil {
		rec.ParticipantID = s.v.participant.ID
	}
	if err := s.opts.Store.Save(s.ctx, s.v.key, rec); err != nil {
		slog.Warn("failed to save local session", "error", err)
	}
}
