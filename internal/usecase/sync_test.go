package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toggl-entries/internal/domain"
)

type fakeLister struct {
	entries    []domain.TimeEntry
	err        error
	start, end *time.Time
	block      chan struct{}
}

func (f *fakeLister) ListRange(ctx context.Context, start, end *time.Time) ([]domain.TimeEntry, error) {
	f.start, f.end = start, end
	if f.block != nil {
		<-f.block
	}
	return f.entries, f.err
}

type fakeSink struct {
	entries  []domain.TimeEntry
	projects []domain.Project
	order    []string
	err      error
}

func (f *fakeSink) SyncEntries(ctx context.Context, entries []domain.TimeEntry) error {
	f.order = append(f.order, "entries")
	f.entries = entries
	return f.err
}

func (f *fakeSink) SyncProjects(ctx context.Context, projects []domain.Project) error {
	f.order = append(f.order, "projects")
	f.projects = projects
	return f.err
}

type fakeRefs struct{ invalidated int }

func (f *fakeRefs) Invalidate() { f.invalidated++ }

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestSyncUseCase_Run(t *testing.T) {
	ws := &domain.Workspace{ID: 1}
	backend := &domain.Project{ID: 20, WorkspaceID: 1, Name: "Backend"}
	ops := &domain.Project{ID: 10, WorkspaceID: 1, Name: "Ops"}
	lister := &fakeLister{entries: []domain.TimeEntry{
		{ID: 1, Workspace: ws, Project: backend},
		{ID: 2, Workspace: ws, Project: ops},
		{ID: 3, Workspace: ws, Project: backend},
		{ID: 4, Workspace: ws},
	}}
	sink := &fakeSink{}
	refs := &fakeRefs{}
	uc := &SyncUseCase{Log: quietLogger(), Entries: lister, Sink: sink, Refs: refs}

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	require.NoError(t, uc.Run(context.Background(), from, to))

	assert.Equal(t, from, *lister.start)
	assert.Equal(t, to, *lister.end)
	assert.Equal(t, 1, refs.invalidated)
	assert.Equal(t, []string{"projects", "entries"}, sink.order)
	assert.Len(t, sink.entries, 4)
	require.Len(t, sink.projects, 2)
	assert.Equal(t, int64(10), sink.projects[0].ID)
	assert.Equal(t, int64(20), sink.projects[1].ID)
}

func TestSyncUseCase_NoEntries(t *testing.T) {
	sink := &fakeSink{}
	uc := &SyncUseCase{Log: quietLogger(), Entries: &fakeLister{}, Sink: sink}
	require.NoError(t, uc.Run(context.Background(), time.Now(), time.Now()))
	assert.Empty(t, sink.order)
}

func TestSyncUseCase_Errors(t *testing.T) {
	t.Run("missing dependencies", func(t *testing.T) {
		uc := &SyncUseCase{Log: quietLogger()}
		assert.Error(t, uc.Run(context.Background(), time.Now(), time.Now()))
	})
	t.Run("lister failure", func(t *testing.T) {
		want := &domain.MissingReferenceError{Kind: domain.KindProject, ID: 99}
		sink := &fakeSink{}
		uc := &SyncUseCase{Log: quietLogger(), Entries: &fakeLister{err: want}, Sink: sink}
		err := uc.Run(context.Background(), time.Now(), time.Now())
		assert.ErrorIs(t, err, want)
		assert.Empty(t, sink.order)
	})
	t.Run("sink failure", func(t *testing.T) {
		sink := &fakeSink{err: errors.New("deadlock")}
		uc := &SyncUseCase{Log: quietLogger(), Entries: &fakeLister{entries: []domain.TimeEntry{{ID: 1}}}, Sink: sink}
		assert.EqualError(t, uc.Run(context.Background(), time.Now(), time.Now()), "deadlock")
	})
}

func TestSyncUseCase_RejectsConcurrentRun(t *testing.T) {
	lister := &fakeLister{block: make(chan struct{})}
	uc := &SyncUseCase{Log: quietLogger(), Entries: lister, Sink: &fakeSink{}}

	done := make(chan error)
	go func() { done <- uc.Run(context.Background(), time.Now(), time.Now()) }()

	require.Eventually(t, func() bool { return uc.running.Load() }, time.Second, time.Millisecond)
	assert.ErrorIs(t, uc.Run(context.Background(), time.Now(), time.Now()), ErrSyncRunning)

	close(lister.block)
	require.NoError(t, <-done)
	assert.False(t, uc.running.Load())
}
