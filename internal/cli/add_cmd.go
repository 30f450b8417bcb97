package cli

import (
	"errors"
	"fmt"

	"github.com/smolrome/DailyTimeRecord/internal/cli/formatter"
	"github.com/smolrome/DailyTimeRecord/internal/domain"
	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var in manualInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Back-fill a closed work session, with an optional break in the middle",
		Example: "  dtr add --date 2025-03-07 --start 09:00 --end 17:00 --task \"Project B\" --break 30\n" +
			"  dtr add --date yesterday --start 8:30 --end 12:00",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := app.now()
			if !in.complete() {
				if !app.interactive() {
					return errors.New("--date, --start and --end are required")
				}
				if err := manualEntryForm(&in, app.cfg().Tasks, now).Run(); err != nil {
					return err
				}
			}

			entry, err := in.entry(now)
			if err != nil {
				return err
			}
			if err := app.tracker().AddManual(cmd.Context(), entry); err != nil {
				return err
			}

			start, end := entry.Interval()
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s-%s (%s)\n",
				start.Format("2006-01-02"), formatter.ClockTime(start), formatter.ClockTime(end),
				labelOrDefault(domain.KindWork, entry.Task))
			if entry.BreakMinutes > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "  with a %d min %s\n", entry.BreakMinutes, domain.ManualBreakType)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in.date, "date", "", "Date, e.g. 2025-03-07 or \"last friday\"")
	cmd.Flags().StringVar(&in.start, "start", "", "Start time HH:MM")
	cmd.Flags().StringVar(&in.end, "end", "", "End time HH:MM")
	cmd.Flags().StringVarP(&in.task, "task", "t", "", "Task label (default \"General Work\")")
	cmd.Flags().StringVar(&in.breakMin, "break", "", "Break minutes, placed at the middle of the session")
	return cmd
}
