// Package tally computes worked, break, net and overtime durations over a
// store at a given instant. Open records count up to that instant.
package tally

import (
	"fmt"
	"time"

	"github.com/smolrome/DailyTimeRecord/internal/domain"
)

// Config holds the aggregation settings.
type Config struct {
	WorkHoursPerDay time.Duration
	// OvertimeThreshold is the worked total that triggers an overtime alert.
	OvertimeThreshold time.Duration
	// BreakDeduction subtracts break time from NetWorked. When false,
	// NetWorked equals TotalWorked.
	BreakDeduction bool
}

// DefaultConfig is an eight-hour day with breaks deducted.
func DefaultConfig() Config {
	return Config{
		WorkHoursPerDay:   8 * time.Hour,
		OvertimeThreshold: 8 * time.Hour,
		BreakDeduction:    true,
	}
}

// Summary is the aggregate over a set of records.
type Summary struct {
	TotalWorked time.Duration
	TotalBreak  time.Duration
	NetWorked   time.Duration
	Overtime    time.Duration
}

// Summarize totals every record in the store at asOf.
func Summarize(s *domain.Store, asOf time.Time, cfg Config) Summary {
	return summarizeRecords(s.Records(), asOf, cfg)
}

func summarizeRecords(recs []domain.Record, asOf time.Time, cfg Config) Summary {
	var sum Summary
	for _, r := range recs {
		switch r.Kind {
		case domain.KindWork:
			sum.TotalWorked += r.Duration(asOf)
		case domain.KindBreak:
			sum.TotalBreak += r.Duration(asOf)
		}
	}
	sum.NetWorked = sum.TotalWorked
	if cfg.BreakDeduction {
		sum.NetWorked -= sum.TotalBreak
	}
	if over := sum.TotalWorked - cfg.WorkHoursPerDay; over > 0 {
		sum.Overtime = over
	}
	return sum
}

// OverThreshold reports whether worked time has reached the alert threshold.
func (s Summary) OverThreshold(cfg Config) bool {
	return cfg.OvertimeThreshold > 0 && s.TotalWorked >= cfg.OvertimeThreshold
}

// Live returns the running counter of the current work session: time since
// clock-in minus all closed breaks. While on break it stays at its value
// when the break began. ok is false when clocked out.
//
// The open break itself is never subtracted, and closed breaks are
// subtracted regardless of which work session they belong to.
func Live(s *domain.Store, asOf time.Time) (elapsed time.Duration, ok bool) {
	work, open := s.OpenWork()
	if !open {
		return 0, false
	}
	until := asOf
	if b, onBreak := s.OpenBreak(); onBreak {
		until = b.Start
	}
	elapsed = until.Sub(work.Start)
	for _, b := range s.Breaks() {
		if !b.IsOpen() {
			elapsed -= b.Duration(asOf)
		}
	}
	return elapsed, true
}

// FormatDuration renders d as H:MM:SS, truncated to whole seconds. Hours
// are not capped at 24.
func FormatDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	sec := d / time.Second
	return fmt.Sprintf("%s%d:%02d:%02d", sign, h, m, sec)
}
