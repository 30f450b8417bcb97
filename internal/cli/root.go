package cli

import (
	"context"
	"errors"
	"time"

	"github.com/smolrome/DailyTimeRecord/internal/config"
	"github.com/smolrome/DailyTimeRecord/internal/notify"
	"github.com/smolrome/DailyTimeRecord/internal/service"
	"github.com/spf13/cobra"
)

// Env is everything a command needs once configuration is loaded and the
// user is logged in.
type Env struct {
	Config   *config.Config
	Tracker  service.TrackerService
	Notifier notify.Notifier
	// Close releases storage and log resources. May be nil.
	Close func() error
}

// BootFunc loads configuration, opens storage and logs the user in.
type BootFunc func(ctx context.Context, opts config.Options) (*Env, error)

// App holds the boot hook and the process-level collaborators used by
// CLI commands.
type App struct {
	Boot BootFunc
	// Now is the reference time for relative --at and --date values.
	Now func() time.Time
	// IsInteractive reports whether stdin is a terminal. Forms and the
	// full-screen watch view are only used when it returns true.
	IsInteractive func() bool

	opts config.Options
	env  *Env
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) boot(ctx context.Context) error {
	if a.env != nil {
		return nil
	}
	if a.Boot == nil {
		return errors.New("no boot function configured")
	}
	env, err := a.Boot(ctx, a.opts)
	if err != nil {
		return err
	}
	a.env = env
	return nil
}

func (a *App) tracker() service.TrackerService { return a.env.Tracker }
func (a *App) cfg() *config.Config { return a.env.Config }

// Close logs the user out, which stops any live ticker, and releases the
// environment. Safe to call when boot never ran.
func (a *App) Close() error {
	if a.env == nil {
		return nil
	}
	env := a.env
	a.env = nil
	err := env.Tracker.Logout(context.Background())
	if env.Close != nil {
		err = errors.Join(err, env.Close())
	}
	return err
}

// NewRootCmd creates the top-level "dtr" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "dtr",
		Short:         "Daily time record: clock in, take breaks, see what you worked",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.boot(cmd.Context())
		},
	}

	root.PersistentFlags().StringVarP(&app.opts.User, "user", "u", "", "User whose records to use (default: config, then OS user)")
	root.PersistentFlags().StringVar(&app.opts.ConfigFile, "config", "", "Config file (default: XDG config dir)")

	root.AddCommand(
		newInCmd(app),
		newOutCmd(app),
		newBreakCmd(app),
		newStatusCmd(app),
		newRecordsCmd(app),
		newAddCmd(app),
		newEditCmd(app),
		newRemoveCmd(app),
		newNotesCmd(app),
		newSummaryCmd(app),
		newWatchCmd(app),
		newConfigCmd(app),
	)

	return root
}
