package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/smolrome/DailyTimeRecord/internal/cli/formatter"
	"github.com/smolrome/DailyTimeRecord/internal/domain"
)

func dtrHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// labelForm asks for one label from a catalogue. The catalogue is a
// suggestion list; its first entry is preselected.
func labelForm(title string, options []string, value *string) *huh.Form {
	if *value == "" && len(options) > 0 {
		*value = options[0]
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(huh.NewOptions(options...)...).
				Value(value),
		),
	).WithTheme(dtrHuhTheme()).WithShowHelp(false)
}

// manualInput holds the raw text of a back-dated entry, as typed into the
// add form or passed as flags.
type manualInput struct {
	date     string
	start    string
	end      string
	task     string
	breakMin string
}

func (in manualInput) complete() bool {
	return in.date != "" && in.start != "" && in.end != ""
}

func (in manualInput) entry(now time.Time) (domain.ManualEntry, error) {
	date, err := parseDate(in.date, now)
	if err != nil {
		return domain.ManualEntry{}, err
	}
	start, err := parseClock(in.start)
	if err != nil {
		return domain.ManualEntry{}, fmt.Errorf("start: %w", err)
	}
	end, err := parseClock(in.end)
	if err != nil {
		return domain.ManualEntry{}, fmt.Errorf("end: %w", err)
	}
	minutes := 0
	if b := strings.TrimSpace(in.breakMin); b != "" {
		if minutes, err = strconv.Atoi(b); err != nil {
			return domain.ManualEntry{}, fmt.Errorf("break minutes: %q is not a number", in.breakMin)
		}
	}
	return domain.ManualEntry{
		Date:         date,
		Start:        start,
		End:          end,
		Task:         in.task,
		BreakMinutes: minutes,
	}, nil
}

func manualEntryForm(in *manualInput, tasks []string, now time.Time) *huh.Form {
	if in.task == "" && len(tasks) > 0 {
		in.task = tasks[0]
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Placeholder(now.Format(time.DateOnly)).
				Value(&in.date).
				Validate(func(s string) error { _, err := parseDate(s, now); return err }),
			huh.NewInput().
				Title("Start (HH:MM)").
				Placeholder("09:00").
				Value(&in.start).
				Validate(validateClock),
			huh.NewInput().
				Title("End (HH:MM)").
				Placeholder("17:00").
				Value(&in.end).
				Validate(validateClock),
			huh.NewSelect[string]().
				Title("Task").
				Options(huh.NewOptions(tasks...)...).
				Value(&in.task),
			huh.NewInput().
				Title("Break minutes").
				Placeholder("0").
				Value(&in.breakMin).
				Validate(validateMinutes),
		),
	).WithTheme(dtrHuhTheme()).WithShowHelp(false)
}

func validateClock(s string) error {
	_, err := parseClock(s)
	return err
}

func validateMinutes(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("must be a whole number of minutes")
	}
	return nil
}
