package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"toggl-entries/internal/domain"
	"toggl-entries/internal/observability"
	"toggl-entries/internal/ports"
)

// ErrSyncRunning is returned when Run is called while another run is active.
var ErrSyncRunning = errors.New("sync already running")

// Invalidator drops cached reference data before a run.
type Invalidator interface {
	Invalidate()
}

// SyncUseCase coordinates fetching from Toggl and syncing to a Sink.
type SyncUseCase struct {
	Log     *slog.Logger
	Entries ports.TimeEntryLister
	Sink    ports.Sink
	// Refs, when set, is invalidated at the start of each run so projects
	// created since the last run resolve.
	Refs Invalidator

	running atomic.Bool
}

func (uc *SyncUseCase) Run(ctx context.Context, from, to time.Time) error {
	if uc.Entries == nil || uc.Sink == nil {
		return errors.New("usecase not initialized: missing dependencies")
	}
	if !uc.running.CompareAndSwap(false, true) {
		return ErrSyncRunning
	}
	defer uc.running.Store(false)

	err := uc.run(ctx, from, to)
	observability.RecordSync(time.Now(), err)
	return err
}

func (uc *SyncUseCase) run(ctx context.Context, from, to time.Time) error {
	if uc.Refs != nil {
		uc.Refs.Invalidate()
	}
	uc.Log.Info("fetching time entries", slog.Time("from", from), slog.Time("to", to))

	entries, err := uc.Entries.ListRange(ctx, &from, &to)
	if err != nil {
		return err
	}
	uc.Log.Info("fetched time entries", slog.Int("count", len(entries)))

	if len(entries) == 0 {
		uc.Log.Info("no entries to sync")
		return nil
	}

	// Projects first so entry rows never point at an unknown project.
	if err := uc.Sink.SyncProjects(ctx, projectsOf(entries)); err != nil {
		return err
	}
	if err := uc.Sink.SyncEntries(ctx, entries); err != nil {
		return err
	}
	uc.Log.Info("sync completed", slog.Int("count", len(entries)))
	return nil
}

// projectsOf returns the distinct projects the entries resolved to, by id.
func projectsOf(entries []domain.TimeEntry) []domain.Project {
	seen := make(map[int64]bool)
	var out []domain.Project
	for _, e := range entries {
		if e.Project == nil || seen[e.Project.ID] {
			continue
		}
		seen[e.Project.ID] = true
		out = append(out, *e.Project)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
