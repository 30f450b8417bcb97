package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/smolrome/DailyTimeRecord/internal/cli/formatter"
	"github.com/smolrome/DailyTimeRecord/internal/domain"
	"github.com/smolrome/DailyTimeRecord/internal/notify"
	"github.com/smolrome/DailyTimeRecord/internal/service"
	"github.com/smolrome/DailyTimeRecord/internal/tally"
)

// overtimeAlert sends one desktop notification each time the total worked
// crosses the overtime threshold.
type overtimeAlert struct {
	notifier notify.Notifier
	enabled  bool
	sent     bool
}

func (a *overtimeAlert) check(snap service.Snapshot) error {
	if !snap.OverThreshold {
		a.sent = false
		return nil
	}
	if !a.enabled || a.sent || a.notifier == nil {
		return nil
	}
	a.sent = true
	return a.notifier.Notify("Overtime",
		fmt.Sprintf("You have worked %s, past your overtime threshold.", tally.FormatDuration(snap.Summary.TotalWorked)))
}

type watchKeys struct {
	Clock key.Binding
	Break key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func (k watchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Clock, k.Break, k.Help, k.Quit}
}

func (k watchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Clock, k.Break}, {k.Help, k.Quit}}
}

var defaultWatchKeys = watchKeys{
	Clock: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "clock in/out")),
	Break: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "start/end break")),
	Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

type tickMsg time.Time

// watchModel is the full-screen live view. It re-reads a snapshot on every
// tick; the tracker stays the only owner of the records.
type watchModel struct {
	ctx     context.Context
	tracker service.TrackerService
	every   time.Duration
	workDay time.Duration
	alert   *overtimeAlert

	snap     service.Snapshot
	err      error
	progress progress.Model
	help     help.Model
	keys     watchKeys
}

func newWatchModel(ctx context.Context, tracker service.TrackerService, every, workDay time.Duration, alert *overtimeAlert) watchModel {
	m := watchModel{
		ctx:      ctx,
		tracker:  tracker,
		every:    every,
		workDay:  workDay,
		alert:    alert,
		progress: progress.New(progress.WithSolidFill(string(formatter.ColorGreen)), progress.WithoutPercentage()),
		help:     help.New(),
		keys:     defaultWatchKeys,
	}
	m.progress.Width = 40
	m.refresh()
	return m
}

func (m watchModel) Init() tea.Cmd {
	return m.tick()
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.every, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *watchModel) refresh() {
	m.snap = m.tracker.Snapshot(time.Time{})
	if m.alert != nil {
		if err := m.alert.check(m.snap); err != nil {
			m.err = fmt.Errorf("notification: %w", err)
		}
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = max(10, min(msg.Width-4, 60))
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.refresh()
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Clock):
			if m.tracker.State() == domain.StateClockedOut {
				m.err = m.tracker.ClockIn(m.ctx, time.Time{}, "")
			} else {
				m.err = m.tracker.ClockOut(m.ctx, time.Time{})
			}
			m.refresh()
		case key.Matches(msg, m.keys.Break):
			if m.tracker.State() == domain.StateOnBreak {
				m.err = m.tracker.BreakEnd(m.ctx, time.Time{})
			} else {
				m.err = m.tracker.BreakStart(m.ctx, time.Time{}, "")
			}
			m.refresh()
		}
		return m, nil
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.StatePill(m.snap.State))
	b.WriteString(formatter.Dim("  " + m.snap.AsOf.Format("Mon, Jan 02 15:04:05")))
	b.WriteString("\n\n")

	if m.snap.LiveOK {
		b.WriteString(formatter.Bold(tally.FormatDuration(m.snap.Live)))
		if m.snap.OpenWork != nil {
			b.WriteString("  " + m.snap.OpenWork.Label)
		}
		b.WriteString("\n")
	}
	if m.snap.OpenBreak != nil {
		b.WriteString(formatter.StyleYellow.Render(fmt.Sprintf("%s since %s",
			m.snap.OpenBreak.Label, formatter.ClockTime(m.snap.OpenBreak.Start))))
		b.WriteString("\n")
	}

	sum := m.snap.Summary
	fmt.Fprintf(&b, "\nnet %s  break %s  overtime %s\n",
		tally.FormatDuration(sum.NetWorked), tally.FormatDuration(sum.TotalBreak), tally.FormatDuration(sum.Overtime))
	b.WriteString(m.progress.ViewAs(min(1, formatter.DayFraction(sum.NetWorked, m.workDay))))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n" + formatter.StyleRed.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}
