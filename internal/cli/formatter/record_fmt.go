package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/smolrome/DailyTimeRecord/internal/domain"
	"github.com/smolrome/DailyTimeRecord/internal/service"
	"github.com/smolrome/DailyTimeRecord/internal/tally"
)

const (
	inProgress    = "In progress"
	progressWidth = 24
)

// FormatRecords renders the records of one kind with 1-based indices, the
// form expected by "dtr edit" and "dtr rm".
func FormatRecords(kind domain.Kind, recs []domain.Record, asOf time.Time) string {
	title := "Work sessions"
	label := "TASK"
	if kind == domain.KindBreak {
		title = "Breaks"
		label = "TYPE"
	}

	var b strings.Builder
	b.WriteString(Header(title))
	b.WriteString("\n")
	if len(recs) == 0 {
		b.WriteString(Dim("  none"))
		b.WriteString("\n")
		return b.String()
	}

	cols := []Column{{Title: "#", Right: true}, {Title: "DATE"}, {Title: "START"}, {Title: "END"}, {Title: "DURATION", Right: true}, {Title: label}}
	rows := make([][]string, len(recs))
	for i, r := range recs {
		end := StyleGreen.Render(inProgress)
		if !r.IsOpen() {
			end = ClockTime(*r.End)
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			r.Start.Format(time.DateOnly),
			ClockTime(r.Start),
			end,
			tally.FormatDuration(r.Duration(asOf)),
			r.Label,
		}
	}
	b.WriteString(RenderTable(cols, rows))
	return b.String()
}

// FormatSummary renders the four totals in a box.
func FormatSummary(title string, sum tally.Summary) string {
	overtime := tally.FormatDuration(sum.Overtime)
	if sum.Overtime > 0 {
		overtime = StyleYellow.Render(overtime)
	}
	return RenderBox(title, keyValues([][2]string{
		{"Total worked", Bold(tally.FormatDuration(sum.TotalWorked))},
		{"Total break", tally.FormatDuration(sum.TotalBreak)},
		{"Net worked", Bold(tally.FormatDuration(sum.NetWorked))},
		{"Overtime", overtime},
	}))
}

// FormatStatus renders the state, the open session and the running totals.
func FormatStatus(snap service.Snapshot, workDay time.Duration) string {
	var b strings.Builder
	b.WriteString(StatePill(snap.State))
	if snap.User != "" {
		b.WriteString(Dim("  " + snap.User))
	}
	b.WriteString("\n\n")

	var pairs [][2]string
	if snap.OpenWork != nil {
		pairs = append(pairs,
			[2]string{"Task", snap.OpenWork.Label},
			[2]string{"Since", ClockTime(snap.OpenWork.Start) + Dim(" "+DayLabel(snap.OpenWork.Start, snap.AsOf))},
		)
	}
	if snap.LiveOK {
		pairs = append(pairs, [2]string{"Current session", Bold(tally.FormatDuration(snap.Live))})
	}
	if snap.OpenBreak != nil {
		pairs = append(pairs, [2]string{"Break", fmt.Sprintf("%s since %s", snap.OpenBreak.Label, ClockTime(snap.OpenBreak.Start))})
	}
	if len(pairs) > 0 {
		b.WriteString(keyValues(pairs))
		b.WriteString("\n\n")
	}

	b.WriteString(FormatSummary("Totals", snap.Summary))
	b.WriteString("\n")
	b.WriteString(RenderProgress(DayFraction(snap.Summary.NetWorked, workDay), progressWidth))
	b.WriteString(Dim(" of " + tally.FormatDuration(workDay)))
	if snap.OverThreshold {
		b.WriteString("  " + StyleYellow.Render("overtime"))
	}
	b.WriteString("\n")
	return b.String()
}

// StatusLine is the single-line form used by "dtr watch --plain".
func StatusLine(snap service.Snapshot) string {
	parts := []string{
		snap.AsOf.Format(clockLayout),
		StateLabel(snap.State),
	}
	if snap.LiveOK {
		parts = append(parts, "session "+tally.FormatDuration(snap.Live))
	}
	parts = append(parts,
		"net "+tally.FormatDuration(snap.Summary.NetWorked),
		"overtime "+tally.FormatDuration(snap.Summary.Overtime),
	)
	return strings.Join(parts, "  ")
}

// FormatPeriods renders one row per day, ISO week or month.
func FormatPeriods(p tally.Period, periods []tally.PeriodSummary) string {
	var b strings.Builder
	b.WriteString(Header("Summary by " + string(p)))
	b.WriteString("\n")
	if len(periods) == 0 {
		b.WriteString(Dim("  no records"))
		b.WriteString("\n")
		return b.String()
	}

	cols := []Column{
		{Title: "PERIOD"}, {Title: "DAYS", Right: true},
		{Title: "WORKED", Right: true}, {Title: "BREAK", Right: true},
		{Title: "NET", Right: true}, {Title: "OVERTIME", Right: true},
	}
	rows := make([][]string, 0, len(periods)+1)
	var total tally.Summary
	for _, ps := range periods {
		rows = append(rows, []string{
			ps.Title,
			strconv.Itoa(ps.Days),
			tally.FormatDuration(ps.Summary.TotalWorked),
			tally.FormatDuration(ps.Summary.TotalBreak),
			tally.FormatDuration(ps.Summary.NetWorked),
			tally.FormatDuration(ps.Summary.Overtime),
		})
		total.TotalWorked += ps.Summary.TotalWorked
		total.TotalBreak += ps.Summary.TotalBreak
		total.NetWorked += ps.Summary.NetWorked
		total.Overtime += ps.Summary.Overtime
	}
	if len(periods) > 1 {
		rows = append(rows, []string{
			Bold("Total"), "",
			Bold(tally.FormatDuration(total.TotalWorked)),
			Bold(tally.FormatDuration(total.TotalBreak)),
			Bold(tally.FormatDuration(total.NetWorked)),
			Bold(tally.FormatDuration(total.Overtime)),
		})
	}
	b.WriteString(RenderTable(cols, rows))
	return b.String()
}
