package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/smolrome/DailyTimeRecord/internal/domain"
)

// Day is the calendar day fixtures are built on (a Monday, local time).
var Day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

// At returns h:m on Day.
func At(h, m int) time.Time {
	return Day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

// StoreOption adds records to a fixture store.
type StoreOption func(t *testing.T, s *domain.Store)

// WithWork appends a work record. A zero end leaves it open.
func WithWork(start, end time.Time, task string) StoreOption {
	return func(t *testing.T, s *domain.Store) {
		t.Helper()
		if err := s.AppendWork(start, optionalEnd(end), task); err != nil {
			t.Fatalf("fixture work %s: %v", start.Format(time.TimeOnly), err)
		}
	}
}

// WithBreak appends a break record. A zero end leaves it open.
func WithBreak(start, end time.Time, breakType string) StoreOption {
	return func(t *testing.T, s *domain.Store) {
		t.Helper()
		if err := s.AppendBreak(start, optionalEnd(end), breakType); err != nil {
			t.Fatalf("fixture break %s: %v", start.Format(time.TimeOnly), err)
		}
	}
}

// NewTestStore builds a store from options, failing the test on any
// invariant violation.
func NewTestStore(t *testing.T, opts ...StoreOption) *domain.Store {
	t.Helper()
	s := domain.NewStore()
	for _, opt := range opts {
		opt(t, s)
	}
	return s
}

func optionalEnd(end time.Time) *time.Time {
	if end.IsZero() {
		return nil
	}
	return domain.TimePtr(end)
}

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MemRepo is an in-memory RecordRepo. SaveErr, when set, fails every save.
type MemRepo struct {
	mu      sync.Mutex
	stores  map[string]*domain.Store
	notes   map[string]string
	Saves   int
	SaveErr error
	LoadErr error
}

func NewMemRepo() *MemRepo {
	return &MemRepo{stores: map[string]*domain.Store{}, notes: map[string]string{}}
}

func (m *MemRepo) Load(_ context.Context, user string) (*domain.Store, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, "", m.LoadErr
	}
	s, ok := m.stores[user]
	if !ok {
		return domain.NewStore(), "", nil
	}
	return s.Clone(), m.notes[user], nil
}

func (m *MemRepo) Save(_ context.Context, user string, s *domain.Store, notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves++
	m.stores[user] = s.Clone()
	m.notes[user] = notes
	return nil
}

// Saved returns the last saved store for user, or nil.
func (m *MemRepo) Saved(user string) *domain.Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[user]; ok {
		return s.Clone()
	}
	return nil
}
