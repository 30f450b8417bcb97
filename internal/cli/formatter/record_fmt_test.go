package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/smolrome/DailyTimeRecord/internal/domain"
	"github.com/smolrome/DailyTimeRecord/internal/service"
	"github.com/smolrome/DailyTimeRecord/internal/tally"
	"github.com/stretchr/testify/assert"
)

func at(h, m int) time.Time {
	return time.Date(2025, 3, 10, h, m, 0, 0, time.Local)
}

func TestFormatRecords(t *testing.T) {
	recs := []domain.Record{
		domain.NewRecord(domain.KindWork, at(8, 0), domain.TimePtr(at(9, 0)), "Training"),
		domain.NewRecord(domain.KindWork, at(10, 0), nil, "Project A"),
	}
	out := FormatRecords(domain.KindWork, recs, at(10, 30))

	assert.Contains(t, out, "WORK SESSIONS")
	assert.Contains(t, out, "TASK")
	assert.Contains(t, out, "2025-03-10")
	assert.Contains(t, out, "1:00:00")
	assert.Contains(t, out, "0:30:00")
	assert.Contains(t, out, "In progress")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "2"), "1-based index on the last row")
}

func TestFormatRecords_EmptyBreaks(t *testing.T) {
	out := FormatRecords(domain.KindBreak, nil, at(10, 0))
	assert.Contains(t, out, "BREAKS")
	assert.Contains(t, out, "none")
}

func TestFormatSummary(t *testing.T) {
	out := FormatSummary("Totals", tally.Summary{
		TotalWorked: 9*time.Hour + 30*time.Minute,
		TotalBreak:  30 * time.Minute,
		NetWorked:   9 * time.Hour,
		Overtime:    90 * time.Minute,
	})
	assert.Contains(t, out, "TOTALS")
	assert.Contains(t, out, "Total worked  9:30:00")
	assert.Contains(t, out, "Net worked    9:00:00")
	assert.Contains(t, out, "Overtime      1:30:00")
}

func TestFormatStatus(t *testing.T) {
	work := domain.NewRecord(domain.KindWork, at(9, 0), nil, "Meeting")
	brk := domain.NewRecord(domain.KindBreak, at(12, 0), nil, "Lunch")
	snap := service.Snapshot{
		User:      "ana",
		AsOf:      at(12, 30),
		State:     domain.StateOnBreak,
		Summary:   tally.Summary{TotalWorked: 3*time.Hour + 30*time.Minute, TotalBreak: 30 * time.Minute, NetWorked: 3 * time.Hour},
		Live:      3 * time.Hour,
		LiveOK:    true,
		OpenWork:  &work,
		OpenBreak: &brk,
	}

	out := FormatStatus(snap, 8*time.Hour)
	assert.Contains(t, out, "On break")
	assert.Contains(t, out, "ana")
	assert.Contains(t, out, "Meeting")
	assert.Contains(t, out, "09:00:00")
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "Current session  3:00:00")
	assert.Contains(t, out, "Lunch since 12:00:00")
	assert.Contains(t, out, " 38%")
	assert.NotContains(t, out, "overtime")
}

func TestFormatStatus_ClockedOut(t *testing.T) {
	out := FormatStatus(service.Snapshot{State: domain.StateClockedOut, AsOf: at(7, 0)}, 8*time.Hour)
	assert.Contains(t, out, "Clocked out")
	assert.NotContains(t, out, "Current session")
}

func TestStatusLine(t *testing.T) {
	snap := service.Snapshot{
		AsOf:    at(10, 0),
		State:   domain.StateClockedIn,
		Live:    time.Hour,
		LiveOK:  true,
		Summary: tally.Summary{NetWorked: time.Hour},
	}
	assert.Equal(t, "10:00:00  Clocked in  session 1:00:00  net 1:00:00  overtime 0:00:00", StatusLine(snap))
}

func TestFormatPeriods(t *testing.T) {
	periods := []tally.PeriodSummary{
		{Key: "2025-W10", Title: "Mar 03 - Mar 09", Days: 1, Summary: tally.Summary{TotalWorked: 8 * time.Hour, NetWorked: 8 * time.Hour}},
		{Key: "2025-W11", Title: "Mar 10 - Mar 16", Days: 2, Summary: tally.Summary{TotalWorked: 17 * time.Hour, NetWorked: 17 * time.Hour, Overtime: time.Hour}},
	}
	out := FormatPeriods(tally.PeriodWeek, periods)
	assert.Contains(t, out, "SUMMARY BY WEEK")
	assert.Contains(t, out, "Mar 10 - Mar 16")
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "25:00:00")
}

func TestFormatPeriods_Empty(t *testing.T) {
	assert.Contains(t, FormatPeriods(tally.PeriodDay, nil), "no records")
}
