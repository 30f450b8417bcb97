package service

import (
	"time"

	"github.com/smolrome/DailyTimeRecord/internal/clock"
	"github.com/smolrome/DailyTimeRecord/internal/domain"
	"github.com/smolrome/DailyTimeRecord/internal/tally"
)

// Snapshot is everything a display needs at one instant.
type Snapshot struct {
	User    string
	AsOf    time.Time
	State   domain.State
	Summary tally.Summary

	// Live is the running counter of the open work session; LiveOK is
	// false while clocked out.
	Live   time.Duration
	LiveOK bool

	OpenWork  *domain.Record
	OpenBreak *domain.Record

	// OverThreshold is true once TotalWorked reaches overtime_threshold.
	OverThreshold bool
}

func takeSnapshot(user string, s *domain.Store, asOf time.Time, cfg tally.Config) Snapshot {
	snap := Snapshot{
		User:    user,
		AsOf:    asOf,
		State:   clock.StateOf(s),
		Summary: tally.Summarize(s, asOf, cfg),
	}
	snap.Live, snap.LiveOK = tally.Live(s, asOf)
	if w, ok := s.OpenWork(); ok {
		snap.OpenWork = &w
	}
	if b, ok := s.OpenBreak(); ok {
		snap.OpenBreak = &b
	}
	snap.OverThreshold = snap.Summary.OverThreshold(cfg)
	return snap
}
