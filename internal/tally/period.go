package tally

import (
	"fmt"
	"sort"
	"time"

	"github.com/smolrome/DailyTimeRecord/internal/domain"
)

// Period is a reporting bucket size.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod accepts day, week or month.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return Period(s), nil
	}
	return "", fmt.Errorf("unknown period %q (want day, week or month)", s)
}

// PeriodSummary is the aggregate of one bucket. Overtime is the sum of the
// per-day overtime of the days in the bucket.
type PeriodSummary struct {
	Key   string
	Title string
	Start time.Time
	Days  int
	Summary
}

// ByPeriod buckets records by the local date of their start and totals
// each bucket at asOf. Buckets are returned oldest first.
func ByPeriod(s *domain.Store, asOf time.Time, cfg Config, p Period) []PeriodSummary {
	byDay := map[time.Time][]domain.Record{}
	for _, r := range s.Records() {
		d := r.Date()
		byDay[d] = append(byDay[d], r)
	}

	buckets := map[string]*PeriodSummary{}
	for d, recs := range byDay {
		daySum := summarizeRecords(recs, asOf, cfg)
		key := groupKey(d, p)
		b, ok := buckets[key]
		if !ok {
			b = &PeriodSummary{Key: key, Title: groupTitle(d, p), Start: groupStart(d, p)}
			buckets[key] = b
		}
		b.Days++
		b.TotalWorked += daySum.TotalWorked
		b.TotalBreak += daySum.TotalBreak
		b.NetWorked += daySum.NetWorked
		b.Overtime += daySum.Overtime
	}

	out := make([]PeriodSummary, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// weekStart returns the Monday of t's ISO week.
func weekStart(t time.Time) time.Time {
	offset := int(t.Weekday())
	if offset == 0 {
		offset = 7
	}
	return t.AddDate(0, 0, -offset+1)
}

func groupStart(d time.Time, p Period) time.Time {
	switch p {
	case PeriodWeek:
		return weekStart(d)
	case PeriodMonth:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	}
	return d
}

func groupKey(d time.Time, p Period) string {
	switch p {
	case PeriodWeek:
		year, week := d.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case PeriodMonth:
		return d.Format("2006-01")
	}
	return d.Format(time.DateOnly)
}

func groupTitle(d time.Time, p Period) string {
	switch p {
	case PeriodWeek:
		start := weekStart(d)
		end := start.AddDate(0, 0, 6)
		return fmt.Sprintf("%s - %s", start.Format("Jan 02"), end.Format("Jan 02, 2006"))
	case PeriodMonth:
		return d.Format("January 2006")
	}
	return d.Format("Monday, 02 Jan 2006")
}
