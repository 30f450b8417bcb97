package cli

import (
	"fmt"
	"strings"

	"github.com/smolrome/DailyTimeRecord/internal/cli/formatter"
	"github.com/smolrome/DailyTimeRecord/internal/config"
	"github.com/smolrome/DailyTimeRecord/internal/tally"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the clock state, the running session and the totals on record",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := app.tracker().Snapshot(app.now())
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStatus(snap, app.cfg().Aggregation().WorkHoursPerDay))
			return nil
		},
	}
	return cmd
}

func newSummaryCmd(app *App) *cobra.Command {
	var asOf, by string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Total worked, break, net and overtime, optionally per day, week or month",
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := app.resolveAt(asOf)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if by == "" {
				title := "Totals as of " + when.Format("2006-01-02 15:04")
				fmt.Fprintln(out, formatter.FormatSummary(title, app.tracker().Summary(when)))
				return nil
			}
			p, err := tally.ParsePeriod(strings.ToLower(by))
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatPeriods(p, app.tracker().Periods(when, p)))
			return nil
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "Evaluate open records up to this time (default now)")
	cmd.Flags().StringVar(&by, "by", "", "Group by day, week or month")
	return cmd
}

func newNotesCmd(app *App) *cobra.Command {
	var clearNotes bool

	cmd := &cobra.Command{
		Use:   "notes [TEXT...]",
		Short: "Show or replace the free-text notes kept with your records",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch {
			case clearNotes:
				if err := app.tracker().SetNotes(cmd.Context(), ""); err != nil {
					return err
				}
				fmt.Fprintln(out, "Notes cleared")
			case len(args) > 0:
				if err := app.tracker().SetNotes(cmd.Context(), strings.Join(args, " ")); err != nil {
					return err
				}
				fmt.Fprintln(out, "Notes saved")
			default:
				notes := app.tracker().Notes()
				if notes == "" {
					fmt.Fprintln(out, formatter.Dim("No notes"))
					return nil
				}
				fmt.Fprintln(out, notes)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearNotes, "clear", false, "Remove the notes")
	return cmd
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config, per-user settings and data locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg()
			data := cfg.Storage.Dir
			if cfg.Storage.Backend == config.BackendSQLite {
				data = cfg.DBPath()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config    %s\nsettings  %s\ndata      %s\nlog       %s\n",
				cfg.File, cfg.UserFile, data, cfg.LogPath())
			return nil
		},
	})

	return cmd
}
