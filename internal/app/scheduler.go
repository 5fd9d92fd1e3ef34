package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule runs a sync of the preceding 24 hours on every tick of the cron
// spec, evaluated in tz, until ctx is cancelled. Failures are logged and
// reported to the error notifier; they do not stop the schedule.
func (a *App) Schedule(ctx context.Context, spec, tz string) error {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, func() { a.syncWindow(ctx, time.Now()) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	a.log.Info("starting scheduled sync", slog.String("schedule", spec), slog.String("tz", tz))
	c.Start()
	<-ctx.Done()
	a.log.Info("shutting down")
	<-c.Stop().Done()
	return nil
}

// syncWindow syncs [now-24h, now).
func (a *App) syncWindow(ctx context.Context, now time.Time) {
	end := now.UTC()
	start := end.Add(-24 * time.Hour)
	if err := a.RunOnce(ctx, start, end); err != nil {
		a.log.Error("scheduled sync failed", slog.String("error", err.Error()))
		a.notifier.NotifySyncError(start, end, err)
		return
	}
	a.log.Info("scheduled sync completed", slog.Time("from", start), slog.Time("to", end))
}
