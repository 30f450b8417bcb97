package service

import (
	"context"
	"time"

	"github.com/smolrome/DailyTimeRecord/internal/domain"
	"github.com/smolrome/DailyTimeRecord/internal/tally"
)

// TrackerService is the command and read API of one logged-in user's
// record set. Every command persists before returning; a failed save
// rolls the in-memory state back. A zero `at` means now.
type TrackerService interface {
	Login(ctx context.Context, user string) error
	Logout(ctx context.Context) error
	User() string

	ClockIn(ctx context.Context, at time.Time, task string) error
	ClockOut(ctx context.Context, at time.Time) error
	BreakStart(ctx context.Context, at time.Time, breakType string) error
	BreakEnd(ctx context.Context, at time.Time) error

	AddManual(ctx context.Context, entry domain.ManualEntry) error
	Edit(ctx context.Context, kind domain.Kind, index int, start time.Time, end *time.Time, label string) error
	Delete(ctx context.Context, kind domain.Kind, index int) error
	SetNotes(ctx context.Context, notes string) error

	Records() []domain.Record
	Record(kind domain.Kind, index int) (domain.Record, error)
	Notes() string
	State() domain.State
	Summary(asOf time.Time) tally.Summary
	Periods(asOf time.Time, p tally.Period) []tally.PeriodSummary
	Snapshot(asOf time.Time) Snapshot

	// Watch calls fn with a fresh snapshot every interval until ctx is
	// done, the returned stop is called, or the user logs out.
	Watch(ctx context.Context, every time.Duration, fn func(Snapshot)) (stop func())
}
