package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"toggl-entries/internal/app"
	"toggl-entries/internal/timerange"
)

func (c *cli) syncCmd() *cobra.Command {
	var (
		once     bool
		from, to string
	)
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy time entries and projects into MySQL",
		Long: `Copy time entries and their projects into MySQL (MYSQL_DSN).

With --once a single window is synced, by default the last 24 hours. Otherwise
the command blocks and syncs the preceding 24 hours on every tick of
SYNC_SCHEDULE, evaluated in SYNC_TZ.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := c.application(ctx, true)
			if err != nil {
				return err
			}
			if !a.SyncEnabled() {
				return app.ErrSyncDisabled
			}
			if !once {
				return a.Schedule(ctx, c.cfg.Sync.Schedule, c.cfg.Sync.Timezone)
			}
			return c.syncOnce(ctx, a, from, to)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "Run a single sync and exit")
	cmd.Flags().StringVar(&from, "from", "", "Start of the window (default: --to minus 24h)")
	cmd.Flags().StringVar(&to, "to", "", "End of the window (default: now)")
	return cmd
}

func (c *cli) syncOnce(ctx context.Context, a *app.App, from, to string) error {
	start, end, err := timerange.Window(from, to, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := a.RunOnce(ctx, start, end); err != nil {
		return err
	}
	c.log.Info("sync completed", slog.Time("from", start), slog.Time("to", end))
	return nil
}
