package cli

import (
	"fmt"
	"time"

	"github.com/smolrome/DailyTimeRecord/internal/cli/formatter"
	"github.com/smolrome/DailyTimeRecord/internal/domain"
	"github.com/spf13/cobra"
)

// resolveAt turns an --at flag into a timestamp on today's date, or now
// when the flag is empty.
func (a *App) resolveAt(s string) (time.Time, error) {
	now := a.now()
	t, err := parseWhen(s, now, now)
	if err != nil {
		return time.Time{}, err
	}
	if t.IsZero() {
		return now, nil
	}
	return t, nil
}

func newInCmd(app *App) *cobra.Command {
	var task, at string
	var pick bool

	cmd := &cobra.Command{
		Use:   "in",
		Short: "Clock in and start a work session",
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := app.resolveAt(at)
			if err != nil {
				return err
			}
			if pick && app.interactive() {
				if err := labelForm("Task", app.cfg().Tasks, &task).Run(); err != nil {
					return err
				}
			}
			if err := app.tracker().ClockIn(cmd.Context(), when, task); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s at %s (%s)\n",
				formatter.StatePill(domain.StateClockedIn), formatter.ClockTime(when), labelOrDefault(domain.KindWork, task))
			return nil
		},
	}

	cmd.Flags().StringVarP(&task, "task", "t", "", "Task label (default \"General Work\")")
	cmd.Flags().StringVar(&at, "at", "", "When, e.g. 09:00, \"2025-03-10 09:00\" or \"10 mins ago\" (default now)")
	cmd.Flags().BoolVarP(&pick, "pick", "p", false, "Choose the task from the configured list")
	cmd.MarkFlagsMutuallyExclusive("task", "pick")
	return cmd
}

func newOutCmd(app *App) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "out",
		Short: "Clock out and close the work session",
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := app.resolveAt(at)
			if err != nil {
				return err
			}
			if err := app.tracker().ClockOut(cmd.Context(), when); err != nil {
				return err
			}
			sum := app.tracker().Summary(when)
			fmt.Fprintf(cmd.OutOrStdout(), "%s at %s\n%s\n",
				formatter.StatePill(domain.StateClockedOut), formatter.ClockTime(when),
				formatter.FormatSummary("Totals", sum))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "When (default now)")
	return cmd
}

func newBreakCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "break",
		Short: "Start or end a break",
	}

	cmd.AddCommand(
		newBreakStartCmd(app),
		newBreakEndCmd(app),
	)

	return cmd
}

func newBreakStartCmd(app *App) *cobra.Command {
	var breakType, at string
	var pick bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a break inside the open work session",
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := app.resolveAt(at)
			if err != nil {
				return err
			}
			if pick && app.interactive() {
				if err := labelForm("Break type", app.cfg().BreakTypes, &breakType).Run(); err != nil {
					return err
				}
			}
			if err := app.tracker().BreakStart(cmd.Context(), when, breakType); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s at %s (%s)\n",
				formatter.StatePill(domain.StateOnBreak), formatter.ClockTime(when), labelOrDefault(domain.KindBreak, breakType))
			return nil
		},
	}

	cmd.Flags().StringVarP(&breakType, "type", "t", "", "Break type (default \"Lunch\")")
	cmd.Flags().StringVar(&at, "at", "", "When (default now)")
	cmd.Flags().BoolVarP(&pick, "pick", "p", false, "Choose the break type from the configured list")
	cmd.MarkFlagsMutuallyExclusive("type", "pick")
	return cmd
}

func newBreakEndCmd(app *App) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "end",
		Short: "End the open break",
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := app.resolveAt(at)
			if err != nil {
				return err
			}
			if err := app.tracker().BreakEnd(cmd.Context(), when); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Break ended at %s, back to %s\n",
				formatter.ClockTime(when), formatter.StatePill(domain.StateClockedIn))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "When (default now)")
	return cmd
}

func labelOrDefault(kind domain.Kind, label string) string {
	if label == "" {
		return domain.DefaultLabel(kind)
	}
	return label
}
