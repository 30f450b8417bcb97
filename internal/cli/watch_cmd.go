package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/smolrome/DailyTimeRecord/internal/cli/formatter"
	"github.com/smolrome/DailyTimeRecord/internal/live"
	"github.com/smolrome/DailyTimeRecord/internal/service"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *App) *cobra.Command {
	var plain bool
	var count int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view of the running session, refreshed every tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg()
			every := cfg.Tick
			if every <= 0 {
				every = live.DefaultInterval
			}
			alert := &overtimeAlert{notifier: app.env.Notifier, enabled: cfg.Notifications}

			if plain || count > 0 || !app.interactive() {
				return watchPlain(cmd, app.tracker(), every, count, alert)
			}

			m := newWatchModel(cmd.Context(), app.tracker(), every, cfg.Aggregation().WorkHoursPerDay, alert)
			_, err := tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print one status line per tick instead of the full-screen view")
	cmd.Flags().IntVar(&count, "count", 0, "Stop after this many ticks (implies --plain)")
	return cmd
}

// watchPlain prints a status line per tick until count ticks were printed
// or the command context is canceled.
func watchPlain(cmd *cobra.Command, tracker service.TrackerService, every time.Duration, count int, alert *overtimeAlert) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	out := cmd.OutOrStdout()
	var mu sync.Mutex
	ticks := 0
	stop := tracker.Watch(ctx, every, func(snap service.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintln(out, formatter.StatusLine(snap))
		if err := alert.check(snap); err != nil {
			fmt.Fprintln(out, formatter.StyleRed.Render("notification: "+err.Error()))
		}
		ticks++
		if count > 0 && ticks >= count {
			cancel()
		}
	})
	defer stop()

	<-ctx.Done()
	return nil
}
