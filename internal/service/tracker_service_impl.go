package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/smolrome/DailyTimeRecord/internal/clock"
	"github.com/smolrome/DailyTimeRecord/internal/domain"
	"github.com/smolrome/DailyTimeRecord/internal/live"
	"github.com/smolrome/DailyTimeRecord/internal/repository"
	"github.com/smolrome/DailyTimeRecord/internal/tally"
)

// ErrNotLoggedIn is returned by every command issued before Login.
var ErrNotLoggedIn = errors.New("not logged in")

type trackerService struct {
	repo     repository.RecordRepo
	cfg      tally.Config
	now      func() time.Time
	observer UseCaseObserver

	mu       sync.Mutex
	user     string
	store    *domain.Store
	notes    string
	watchers map[*live.Ticker]struct{}
}

// Option customizes a TrackerService.
type Option func(*trackerService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *trackerService) { s.now = now }
}

// WithObserver sets the use-case observer.
func WithObserver(o UseCaseObserver) Option {
	return func(s *trackerService) {
		if o != nil {
			s.observer = o
		}
	}
}

func NewTrackerService(repo repository.RecordRepo, cfg tally.Config, opts ...Option) TrackerService {
	s := &trackerService{
		repo:     repo,
		cfg:      cfg,
		now:      time.Now,
		observer: NoopUseCaseObserver{},
		watchers: map[*live.Ticker]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *trackerService) Login(ctx context.Context, user string) (err error) {
	defer s.observe(ctx, "login", time.Now(), map[string]any{"user": user}, &err)

	store, notes, err := s.repo.Load(ctx, user)
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}

	s.stopWatchers()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user, s.store, s.notes = user, store, notes
	return nil
}

// Logout stops every watcher and forgets the loaded records.
func (s *trackerService) Logout(ctx context.Context) (err error) {
	defer s.observe(ctx, "logout", time.Now(), map[string]any{"user": s.User()}, &err)

	s.stopWatchers()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user, s.store, s.notes = "", nil, ""
	return nil
}

func (s *trackerService) User() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *trackerService) ClockIn(ctx context.Context, at time.Time, task string) error {
	at = s.resolve(at)
	return s.mutate(ctx, "clock_in", map[string]any{"at": at, "task": task}, func(st *domain.Store) error {
		return clock.ClockIn(st, at, task)
	})
}

func (s *trackerService) ClockOut(ctx context.Context, at time.Time) error {
	at = s.resolve(at)
	return s.mutate(ctx, "clock_out", map[string]any{"at": at}, func(st *domain.Store) error {
		return clock.ClockOut(st, at)
	})
}

func (s *trackerService) BreakStart(ctx context.Context, at time.Time, breakType string) error {
	at = s.resolve(at)
	return s.mutate(ctx, "break_start", map[string]any{"at": at, "type": breakType}, func(st *domain.Store) error {
		return clock.BreakStart(st, at, breakType)
	})
}

func (s *trackerService) BreakEnd(ctx context.Context, at time.Time) error {
	at = s.resolve(at)
	return s.mutate(ctx, "break_end", map[string]any{"at": at}, func(st *domain.Store) error {
		return clock.BreakEnd(st, at)
	})
}

func (s *trackerService) AddManual(ctx context.Context, e domain.ManualEntry) error {
	fields := map[string]any{
		"date":          e.Date.Format(time.DateOnly),
		"task":          e.Task,
		"break_minutes": e.BreakMinutes,
	}
	return s.mutate(ctx, "manual_insert", fields, func(st *domain.Store) error {
		return st.ManualInsert(e)
	})
}

func (s *trackerService) Edit(ctx context.Context, kind domain.Kind, index int, start time.Time, end *time.Time, label string) error {
	fields := map[string]any{"kind": kind, "index": index}
	return s.mutate(ctx, "edit", fields, func(st *domain.Store) error {
		return st.Edit(kind, index, start, end, label)
	})
}

func (s *trackerService) Delete(ctx context.Context, kind domain.Kind, index int) error {
	fields := map[string]any{"kind": kind, "index": index}
	return s.mutate(ctx, "delete", fields, func(st *domain.Store) error {
		return st.Delete(kind, index)
	})
}

func (s *trackerService) SetNotes(ctx context.Context, notes string) (err error) {
	defer s.observe(ctx, "save_notes", time.Now(), map[string]any{"length": len(notes)}, &err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return ErrNotLoggedIn
	}
	if err := s.repo.Save(ctx, s.user, s.store, notes); err != nil {
		return fmt.Errorf("saving notes: %w", err)
	}
	s.notes = notes
	return nil
}

// mutate applies fn to a copy of the store, persists the copy and only
// then makes it current, so memory never holds unsaved changes.
func (s *trackerService) mutate(ctx context.Context, name string, fields map[string]any, fn func(*domain.Store) error) (err error) {
	defer s.observe(ctx, name, time.Now(), fields, &err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return ErrNotLoggedIn
	}
	fields["user"] = s.user

	next := s.store.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, s.user, next, s.notes); err != nil {
		return fmt.Errorf("saving records: %w", err)
	}
	s.store = next
	return nil
}

func (s *trackerService) Records() []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	return s.store.Records()
}

func (s *trackerService) Record(kind domain.Kind, index int) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return domain.Record{}, ErrNotLoggedIn
	}
	return s.store.At(kind, index)
}

func (s *trackerService) Notes() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes
}

func (s *trackerService) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return domain.StateClockedOut
	}
	return clock.StateOf(s.store)
}

func (s *trackerService) Summary(asOf time.Time) tally.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return tally.Summary{}
	}
	return tally.Summarize(s.store, s.resolve(asOf), s.cfg)
}

func (s *trackerService) Periods(asOf time.Time, p tally.Period) []tally.PeriodSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	return tally.ByPeriod(s.store, s.resolve(asOf), s.cfg, p)
}

func (s *trackerService) Snapshot(asOf time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	asOf = s.resolve(asOf)
	if s.store == nil {
		return Snapshot{AsOf: asOf, State: domain.StateClockedOut}
	}
	return takeSnapshot(s.user, s.store, asOf, s.cfg)
}

func (s *trackerService) Watch(ctx context.Context, every time.Duration, fn func(Snapshot)) func() {
	tk := live.New(every, func(time.Time) {
		fn(s.Snapshot(time.Time{}))
	})

	s.mu.Lock()
	s.watchers[tk] = struct{}{}
	s.mu.Unlock()
	tk.Start(ctx)

	return func() {
		tk.Stop()
		s.mu.Lock()
		delete(s.watchers, tk)
		s.mu.Unlock()
	}
}

func (s *trackerService) stopWatchers() {
	s.mu.Lock()
	tickers := make([]*live.Ticker, 0, len(s.watchers))
	for tk := range s.watchers {
		tickers = append(tickers, tk)
	}
	s.watchers = map[*live.Ticker]struct{}{}
	s.mu.Unlock()

	// Stop waits for in-flight callbacks, which take s.mu.
	for _, tk := range tickers {
		tk.Stop()
	}
}

func (s *trackerService) resolve(at time.Time) time.Time {
	if at.IsZero() {
		return s.now()
	}
	return at
}

func (s *trackerService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}
