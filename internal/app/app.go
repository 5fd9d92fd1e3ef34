package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	msql "toggl-entries/internal/adapter/mysql"
	tg "toggl-entries/internal/adapter/toggl"
	"toggl-entries/internal/config"
	"toggl-entries/internal/errnotifier"
	"toggl-entries/internal/migrate"
	"toggl-entries/internal/refcache"
	"toggl-entries/internal/timeentry"
	"toggl-entries/internal/usecase"
)

// ErrSyncDisabled is returned by RunOnce when no MySQL DSN is configured.
var ErrSyncDisabled = errors.New("sync disabled: MYSQL_DSN is not set")

// App wires adapters, the time entry service and use cases.
type App struct {
	log      *slog.Logger
	cfg      config.Config
	entries  *timeentry.Service
	uc       *usecase.SyncUseCase
	sink     *msql.Client
	notifier errnotifier.Notifier
}

// New loads the session's workspaces and wires the service. The MySQL sink
// is only opened when withSink is set and a DSN is configured.
func New(ctx context.Context, log *slog.Logger, cfg config.Config, withSink bool) (*App, error) {
	togglClient := tg.NewClient(cfg.Toggl.BaseURL, cfg.Toggl.APIToken, cfg.Toggl.Timeout, log)
	cache, err := refcache.Load(ctx, togglClient, togglClient, log)
	if err != nil {
		return nil, err
	}
	a := &App{
		log:      log,
		cfg:      cfg,
		entries:  timeentry.NewService(togglClient, cache, cfg.Toggl.CreatedWith, log),
		notifier: errnotifier.New(cfg.Bugsnag.APIKey, cfg.Env),
	}

	if !withSink || cfg.MySQL.DSN == "" {
		return a, nil
	}
	// Run migrations before opening the sink for use
	if err := migrate.Run(ctx, cfg.MySQL.DSN, log); err != nil {
		return nil, err
	}
	sink, err := msql.NewClient(ctx, cfg.MySQL.DSN, log)
	if err != nil {
		return nil, err
	}
	a.sink = sink
	a.uc = &usecase.SyncUseCase{
		Log:     log,
		Entries: a.entries,
		Sink:    sink,
		Refs:    cache,
	}
	return a, nil
}

// Entries returns the time entry service.
func (a *App) Entries() *timeentry.Service { return a.entries }

// SyncEnabled reports whether a sink is configured.
func (a *App) SyncEnabled() bool { return a.uc != nil }

// RunOnce syncs entries started in [from, to) into the sink.
func (a *App) RunOnce(ctx context.Context, from, to time.Time) error {
	if a.uc == nil {
		return ErrSyncDisabled
	}
	return a.uc.Run(ctx, from, to)
}

// Close releases the sink, if any.
func (a *App) Close() error {
	if a.sink == nil {
		return nil
	}
	return a.sink.Close()
}
