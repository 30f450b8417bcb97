// Package clock is the clock-in / clock-out / break state machine. The
// state is never stored: it is derived from the open records of a Store
// on every call.
package clock

import (
	"fmt"
	"time"

	"github.com/smolrome/DailyTimeRecord/internal/domain"
)

// Event is a user-initiated transition.
type Event string

const (
	EventClockIn    Event = "clock_in"
	EventClockOut   Event = "clock_out"
	EventBreakStart Event = "break_start"
	EventBreakEnd   Event = "break_end"
)

// StateOf derives the clock state from the store.
func StateOf(s *domain.Store) domain.State {
	if _, open := s.OpenWork(); !open {
		return domain.StateClockedOut
	}
	if _, open := s.OpenBreak(); open {
		return domain.StateOnBreak
	}
	return domain.StateClockedIn
}

// Apply runs event against the store at now. label is the task for
// clock_in and the break type for break_start; other events ignore it.
// A rejected event leaves the store unchanged.
func Apply(s *domain.Store, ev Event, now time.Time, label string) error {
	state := StateOf(s)
	switch {
	case ev == EventClockIn && state == domain.StateClockedOut:
		return s.AppendWork(now, nil, label)
	case ev == EventClockOut && state == domain.StateClockedIn:
		return s.CloseLastOpen(domain.KindWork, now)
	case ev == EventClockOut && state == domain.StateOnBreak:
		return fmt.Errorf("clock out: %w", domain.ErrBreakInProgress)
	case ev == EventBreakStart && state == domain.StateClockedIn:
		return s.AppendBreak(now, nil, label)
	case ev == EventBreakStart && state == domain.StateClockedOut:
		// Reported the same way the store reports a break without work.
		return fmt.Errorf("break start: %w", domain.ErrNoActiveWorkSession)
	case ev == EventBreakEnd && state == domain.StateOnBreak:
		return s.CloseLastOpen(domain.KindBreak, now)
	}
	return fmt.Errorf("%s while %s: %w", ev, state, domain.ErrIllegalTransition)
}

// ClockIn opens a work record.
func ClockIn(s *domain.Store, now time.Time, task string) error {
	return Apply(s, EventClockIn, now, task)
}

// ClockOut closes the open work record.
func ClockOut(s *domain.Store, now time.Time) error {
	return Apply(s, EventClockOut, now, "")
}

// BreakStart opens a break record.
func BreakStart(s *domain.Store, now time.Time, breakType string) error {
	return Apply(s, EventBreakStart, now, breakType)
}

// BreakEnd closes the open break record.
func BreakEnd(s *domain.Store, now time.Time) error {
	return Apply(s, EventBreakEnd, now, "")
}

// Allowed lists the events accepted in state, in display order.
func Allowed(state domain.State) []Event {
	switch state {
	case domain.StateClockedOut:
		return []Event{EventClockIn}
	case domain.StateClockedIn:
		return []Event{EventBreakStart, EventClockOut}
	case domain.StateOnBreak:
		return []Event{EventBreakEnd}
	}
	return nil
}
